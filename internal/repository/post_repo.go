package repository

import (
	"Murmur/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostById(ctx context.Context, id uint64) (*model.Post, error)
	GetPostsByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	GetUserPosts(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error)
	// GetFeed 关注流，按发布时间倒序
	GetFeed(ctx context.Context, followingIDs []uint64, limit, offset int) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id uint64, userID uint64) (int64, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *PostRepoImpl) GetPostById(ctx context.Context, id uint64) (*model.Post, error) {
	post := &model.Post{}
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = 0", id).
		First(post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return post, nil
}

func (s *PostRepoImpl) GetPostsByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	result := s.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = 0", ids).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) GetUserPosts(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = 0", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) GetFeed(ctx context.Context, followingIDs []uint64, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	result := s.db.WithContext(ctx).
		Where("user_id IN ? AND is_deleted = 0", followingIDs).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", post.ID).
		Updates(post).Error
}

// DeletePost 软删除，校验归属
func (s *PostRepoImpl) DeletePost(ctx context.Context, id uint64, userID uint64) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_deleted", 1)
	return result.RowsAffected, result.Error
}
