package dto

// CreatePostDTO 发布帖子
type CreatePostDTO struct {
	Title   string          `json:"title" validate:"max=255"`
	Content string          `json:"content" binding:"required" validate:"min=1,max=10000"`
	Medias  []MediasBaseDTO `json:"medias" validate:"max=9"`
}

// MediasBaseDTO 帖子媒体
type MediasBaseDTO struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mimeType"`
}

// PostDTO 帖子详情
type PostDTO struct {
	// Post
	ID            uint64 `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	IsLiked       bool   `json:"is_liked"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`

	Medias []*MediasBaseDTO `json:"medias"`

	// User
	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// CreateCommentDTO 发布评论
type CreateCommentDTO struct {
	PostID        uint64 `json:"post_id" binding:"required"`
	Content       string `json:"content" binding:"required" validate:"min=1,max=1000"`
	RootID        uint64 `json:"root_id"`
	ParentID      uint64 `json:"parent_id"`
	ReplyToUserID uint64 `json:"reply_to_user_id"`
}

// CommentDTO 评论项
type CommentDTO struct {
	ID            uint64 `json:"id"`
	PostID        uint64 `json:"post_id"`
	Content       string `json:"content"`
	RootID        uint64 `json:"root_id"`
	ParentID      uint64 `json:"parent_id"`
	ReplyToUserID uint64 `json:"reply_to_user_id"`
	CreatedAt     string `json:"created_at"`

	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}
