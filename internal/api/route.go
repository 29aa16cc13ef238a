package api

import (
	"Murmur/internal/api/middleware"
	"Murmur/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		// WS 入口不挂鉴权中间件，鉴权在连接内的 authenticate 事件完成
		apiGroup.GET("/ws", group.WsHandler.Connect)

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.GET("/:user_id/home", group.UserHandler.GetHomeInfo)
			userGroup.GET("/batch/simple", group.UserHandler.GetUserSimpleInfoByIds)
			userGroup.GET("/search", group.UserHandler.SearchUser)
			userGroup.GET("/statuses", group.UserHandler.GetUserStatuses)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.PUT("/password", group.UserHandler.UpdatePassword)
				authGroup.POST("/avatar", group.UserHandler.UploadAvatar)
				authGroup.POST("/cancel", group.UserHandler.CancelUser)
			}
		}

		userFollowGroup := apiGroup.Group("/user-relation")
		{
			userFollowGroup.GET("/:user_id/followers", group.UserFollowHandler.GetFollowers)
			userFollowGroup.GET("/:user_id/followings", group.UserFollowHandler.GetFollowing)
			userFollowGroup.GET("/:user_id/count", group.UserFollowHandler.GetFollowCounts)

			authGroup := userFollowGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/isfollow/:user_id", group.UserFollowHandler.IsFollowing)
				authGroup.POST("/follow/:user_id", group.UserFollowHandler.Follow)
				authGroup.DELETE("/follow/:user_id", group.UserFollowHandler.Unfollow)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/detail/:post_id", group.PostHandler.Get)
				authOptGroup.GET("/list/:user_id", group.PostHandler.GetUserPosts)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.Create)
				authGroup.PUT("/:post_id", group.PostHandler.Update)
				authGroup.DELETE("/:post_id", group.PostHandler.Delete)
				authGroup.GET("/feed", group.PostHandler.GetFeed)
			}
		}

		postActionGroup := apiGroup.Group("/post/action")
		{
			postActionGroup.GET("/comments/:post_id", group.PostActionHandler.GetComments)
			postActionGroup.GET("/sub-comments/:comment_id", group.PostActionHandler.GetReplies)

			authActionGroup := postActionGroup.Group("")
			authActionGroup.Use(middleware.AuthMiddleware())
			{
				authActionGroup.POST("/likes/:post_id", group.PostActionHandler.Like)
				authActionGroup.DELETE("/likes/:post_id", group.PostActionHandler.CancelLike)
				authActionGroup.POST("/comments", group.PostActionHandler.CreateComment)
				authActionGroup.DELETE("/comments/:comment_id", group.PostActionHandler.DeleteComment)
			}
		}

		chatGroup := apiGroup.Group("/chats")
		chatGroup.Use(middleware.AuthMiddleware())
		{
			chatGroup.GET("/list", group.ChatHandler.GetChatList)
			chatGroup.GET("/unread", group.ChatHandler.GetUnreadSummary)
			chatGroup.POST("/direct/:user_id", group.ChatHandler.CreateDirectChat)
			chatGroup.POST("/group", group.ChatHandler.CreateGroupChat)
			chatGroup.POST("/send", group.ChatHandler.SendMessage)

			chatGroup.GET("/:chat_id/history", group.ChatHandler.GetHistory)
			chatGroup.POST("/:chat_id/read", group.ChatHandler.MarkAsRead)
			chatGroup.POST("/:chat_id/members", group.ChatHandler.AddMembers)
			chatGroup.DELETE("/:chat_id/members/self", group.ChatHandler.LeaveChat)
			chatGroup.DELETE("/:chat_id/members/:member_id", group.ChatHandler.RemoveMember)
			chatGroup.POST("/:chat_id/hide", group.ChatHandler.HideChat)
			chatGroup.DELETE("/:chat_id/hide", group.ChatHandler.UnhideChat)
			chatGroup.PUT("/:chat_id/pin", group.ChatHandler.PinChat)
			chatGroup.PUT("/:chat_id/mute", group.ChatHandler.MuteChat)
			chatGroup.GET("/:chat_id/pinned-messages", group.ChatHandler.GetPinnedMessages)

			chatGroup.PUT("/messages/:message_id", group.ChatHandler.EditMessage)
			chatGroup.DELETE("/messages/:message_id", group.ChatHandler.DeleteMessage)
			chatGroup.POST("/messages/:message_id/reactions", group.ChatHandler.ToggleReaction)
			chatGroup.POST("/messages/:message_id/pin", group.ChatHandler.PinMessage)
			chatGroup.DELETE("/messages/:message_id/pin", group.ChatHandler.UnpinMessage)
		}

		notifGroup := apiGroup.Group("/notifications")
		notifGroup.Use(middleware.AuthMiddleware())
		{
			notifGroup.GET("/list", group.NotificationHandler.List)
			notifGroup.GET("/unread", group.NotificationHandler.UnreadCount)
			notifGroup.POST("/read/:notification_id", group.NotificationHandler.MarkRead)
			notifGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
		}

		reportGroup := apiGroup.Group("/reports")
		reportGroup.Use(middleware.AuthMiddleware())
		{
			reportGroup.POST("", group.ReportHandler.Create)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}

		// 需要登录 & 拥有 admin 角色
		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles("ADMIN"))
		{
			adminGroup.POST("/users/:user_id/ban", group.AdminHandler.BanUser)
			adminGroup.POST("/users/:user_id/unban", group.AdminHandler.UnBanUser)
			adminGroup.GET("/reports", group.AdminHandler.ListReports)
			adminGroup.PUT("/reports/:report_id", group.AdminHandler.HandleReport)
			adminGroup.GET("/stats/overview", group.AdminHandler.GetStatsOverview)
			adminGroup.GET("/stats/series", group.AdminHandler.GetMetricSeries)
		}
	}

	return r
}
