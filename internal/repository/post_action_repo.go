package repository

import (
	"Murmur/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostActionRepo interface {
	// CreateLike 点赞与计数在同一事务内完成，返回是否新增
	CreateLike(ctx context.Context, like *model.Like) (bool, error)
	DeleteLike(ctx context.Context, like *model.Like) (bool, error)
	GetLike(ctx context.Context, userID, postID uint64) (*model.Like, error)

	CreateComment(ctx context.Context, comment *model.PostComment) error
	GetCommentById(ctx context.Context, id uint64) (*model.PostComment, error)
	GetPostComments(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostComment, error)
	GetCommentReplies(ctx context.Context, rootID uint64, limit, offset int) ([]*model.PostComment, error)
	DeleteComment(ctx context.Context, id uint64, userID uint64) (int64, error)
}

type PostActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &PostActionRepoImpl{db: db}
}

func (s *PostActionRepoImpl) CreateLike(ctx context.Context, like *model.Like) (bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&model.Post{}).Where("id = ?", like.PostID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	return created, err
}

func (s *PostActionRepoImpl) DeleteLike(ctx context.Context, like *model.Like) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", like.UserID, like.PostID).
			Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Model(&model.Post{}).Where("id = ? AND likes_count > 0", like.PostID).
			Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	return deleted, err
}

func (s *PostActionRepoImpl) GetLike(ctx context.Context, userID, postID uint64) (*model.Like, error) {
	var like model.Like
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &like, nil
}

func (s *PostActionRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).Where("id = ?", comment.PostID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
}

func (s *PostActionRepoImpl) GetCommentById(ctx context.Context, id uint64) (*model.PostComment, error) {
	var comment model.PostComment
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = 0", id).
		First(&comment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &comment, nil
}

// GetPostComments 一级评论列表
func (s *PostActionRepoImpl) GetPostComments(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostComment, error) {
	comments := make([]*model.PostComment, 0)
	result := s.db.WithContext(ctx).
		Where("post_id = ? AND root_id = 0 AND is_deleted = 0", postID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}

func (s *PostActionRepoImpl) GetCommentReplies(ctx context.Context, rootID uint64, limit, offset int) ([]*model.PostComment, error) {
	comments := make([]*model.PostComment, 0)
	result := s.db.WithContext(ctx).
		Where("root_id = ? AND is_deleted = 0", rootID).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}

func (s *PostActionRepoImpl) DeleteComment(ctx context.Context, id uint64, userID uint64) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.PostComment
		if err := tx.Where("id = ? AND user_id = ? AND is_deleted = 0", id, userID).
			First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		result := tx.Model(&model.PostComment{}).Where("id = ?", id).Update("is_deleted", 1)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return tx.Model(&model.Post{}).Where("id = ? AND comments_count > 0", comment.PostID).
			Update("comments_count", gorm.Expr("comments_count - 1")).Error
	})
	return affected, err
}
