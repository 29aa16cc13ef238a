package api

import "Murmur/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	UserFollowHandler   *handler.UserFollowHandler
	PostHandler         *handler.PostHandler
	PostActionHandler   *handler.PostActionHandler
	ChatHandler         *handler.ChatHandler
	WsHandler           *handler.WsHandler
	NotificationHandler *handler.NotificationHandler
	ReportHandler       *handler.ReportHandler
	MediaHandler        *handler.MediaHandler
	AdminHandler        *handler.AdminHandler
}
