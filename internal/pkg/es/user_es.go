package es

// UserES 对应 user_index 的文档结构
type UserES struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	Nickname  string  `json:"nickname"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL string  `json:"avatar_url"`
	Gender    int     `json:"gender"`
	Region    string  `json:"region"`
}
