package consts

const (
	MimePrefixImage = "image"
	MimePrefixAudio = "audio"
	MimePrefixVideo = "video"
)

// 用户在线状态
const (
	UserStatusOnline  = "online"
	UserStatusOffline = "offline"
	UserStatusAway    = "away"
)

// 会话类型
const (
	ChatKindDirect int8 = 1
	ChatKindGroup  int8 = 2
)

// 消息类型
const (
	MsgTypeText   int8 = 1
	MsgTypeImage  int8 = 2
	MsgTypeVoice  int8 = 3
	MsgTypeFile   int8 = 4
	MsgTypeSystem int8 = 5
)

// 通知类型
const (
	NotifyTypeFollow  = "follow"
	NotifyTypeLike    = "like"
	NotifyTypeComment = "comment"
	NotifyTypeMention = "mention"
	NotifyTypeSystem  = "system"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

// lastMessage 预览截断长度
const LastMessagePreviewLen = 255
