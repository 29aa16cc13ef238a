package gateway

import (
	"Murmur/internal/api/dto"
	"errors"

	json "github.com/goccy/go-json"
)

// decodeSendMessage 上行 send_message 帧的最小校验，业务校验留给服务层
func decodeSendMessage(data json.RawMessage) (*dto.SendMessageReq, error) {
	var req dto.SendMessageReq
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.ChatID == 0 && req.TargetUserID == 0 {
		return nil, errors.New("missing chat target")
	}
	if req.MsgType == 0 {
		return nil, errors.New("missing message type")
	}
	return &req, nil
}
