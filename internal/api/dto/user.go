package dto

import "time"

// UserDTO 用户
type UserDTO struct {
	UserID     *uint64    `json:"user_id,omitempty"`
	Username   *string    `json:"username,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Nickname   *string    `json:"nickname,omitempty"`
	AvatarURL  *string    `json:"avatar_url,omitempty"`
	Bio        *string    `json:"bio,omitempty" validate:"omitempty,max=200"`
	Gender     *uint8     `json:"gender,omitempty" validate:"omitempty,min=0,max=1"`
	Region     *string    `json:"region,omitempty"`
	Birthday   *string    `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status     *string    `json:"status,omitempty"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// RegisterDTO 注册
type RegisterDTO struct {
	Username string `json:"username" binding:"required" validate:"min=3,max=20"`
	Email    string `json:"email" binding:"required" validate:"email"`
	Password string `json:"password" binding:"required" validate:"min=6,max=20"`

	Nickname string  `json:"nickname" validate:"omitempty,min=1,max=15"`
	Bio      *string `json:"bio"`
	Gender   uint8   `json:"gender"`
	Region   *string `json:"region"`
}

// CredentialDTO 登录凭证，用户名或邮箱二选一
type CredentialDTO struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty" binding:"required"`
}

// TokenDTO 登录成功返回
type TokenDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// ChangePasswordDTO 修改密码
type ChangePasswordDTO struct {
	OldPassword *string `json:"old_password" binding:"required" validate:"min=6,max=20"`
	NewPassword *string `json:"new_password" binding:"required" validate:"min=6,max=20"`
}

// UserStatusDTO 在线状态查询返回
type UserStatusDTO struct {
	UserID uint64 `json:"user_id"`
	Status string `json:"status"`
}

// FollowDTO 关注关系项
type FollowDTO struct {
	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"created_at"`
}

// FollowCountDTO 关注/粉丝计数
type FollowCountDTO struct {
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}
