package handler

import (
	"Murmur/internal/gateway"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WsHandler 升级连接后交给网关会话。
// 鉴权不走 URL 参数，由客户端在连接内发 authenticate 事件完成
type WsHandler struct {
	hub *gateway.Hub
}

func NewWsHandler(hub *gateway.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

func (s *WsHandler) Connect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}

	gateway.NewSession(s.hub, conn).Run()
}
