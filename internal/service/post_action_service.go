package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/repository"
	"context"
	"strconv"
	"time"
)

type PostActionService interface {
	LikePost(ctx context.Context, userID, postID uint64) error
	CancelLikePost(ctx context.Context, userID, postID uint64) error
	IsLiked(ctx context.Context, userID, postID uint64) (bool, error)

	CreateComment(ctx context.Context, userID uint64, req *dto.CreateCommentDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) error
	GetPostComments(ctx context.Context, postID uint64, limit, offset int) ([]*dto.CommentDTO, error)
	GetCommentReplies(ctx context.Context, rootID uint64, limit, offset int) ([]*dto.CommentDTO, error)
}

type postActionServiceImpl struct {
	actionRepo repository.PostActionRepo
	postRepo   repository.PostRepo
	userRepo   repository.UserRepo
	notifier   NotificationService
	analytics  AnalyticsService
}

func NewPostActionService(
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	notifier NotificationService,
	analytics AnalyticsService,
) PostActionService {
	return &postActionServiceImpl{
		actionRepo: actionRepo,
		postRepo:   postRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		analytics:  analytics,
	}
}

// LikePost 点赞。计数随事务原子增减，重复点赞静默幂等
func (s *postActionServiceImpl) LikePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.getPostCheck(ctx, postID)
	if err != nil {
		return err
	}

	created, err := s.actionRepo.CreateLike(ctx, &model.Like{
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	targetID := strconv.FormatUint(postID, 10)
	s.notifier.Notify(ctx, post.UserID, userID, consts.NotifyTypeLike, targetID, truncateContent(post.Content, 50))

	s.analytics.Track(ctx, EventPostLiked, userID, map[string]string{"post_id": targetID})
	return nil
}

func (s *postActionServiceImpl) CancelLikePost(ctx context.Context, userID, postID uint64) error {
	if _, err := s.getPostCheck(ctx, postID); err != nil {
		return err
	}

	_, err := s.actionRepo.DeleteLike(ctx, &model.Like{UserID: userID, PostID: postID})
	return err
}

func (s *postActionServiceImpl) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	like, err := s.actionRepo.GetLike(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	return like != nil, nil
}

// CreateComment 发评论，一级评论 RootID 为 0
func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	post, err := s.getPostCheck(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	var replyTarget *model.PostComment
	if req.ParentID != 0 {
		replyTarget, err = s.actionRepo.GetCommentById(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if replyTarget == nil || replyTarget.PostID != req.PostID {
			return nil, ErrPostCommentNotFound
		}
	}

	comment := &model.PostComment{
		PostID:        req.PostID,
		UserID:        userID,
		Content:       req.Content,
		RootID:        req.RootID,
		ParentID:      req.ParentID,
		ReplyToUserID: req.ReplyToUserID,
	}
	if err = s.actionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	targetID := strconv.FormatUint(req.PostID, 10)
	preview := truncateContent(req.Content, 50)

	s.notifier.Notify(ctx, post.UserID, userID, consts.NotifyTypeComment, targetID, preview)
	if replyTarget != nil && replyTarget.UserID != post.UserID {
		s.notifier.Notify(ctx, replyTarget.UserID, userID, consts.NotifyTypeComment, targetID, preview)
	}

	s.analytics.Track(ctx, EventCommentCreated, userID, map[string]string{"post_id": targetID})

	dtos, err := s.batchToCommentDTO(ctx, []*model.PostComment{comment})
	if err != nil {
		return nil, err
	}
	return dtos[0], nil
}

func (s *postActionServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	rows, err := s.actionRepo.DeleteComment(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostCommentNotFound
	}
	return nil
}

func (s *postActionServiceImpl) GetPostComments(ctx context.Context, postID uint64, limit, offset int) ([]*dto.CommentDTO, error) {
	comments, err := s.actionRepo.GetPostComments(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.batchToCommentDTO(ctx, comments)
}

func (s *postActionServiceImpl) GetCommentReplies(ctx context.Context, rootID uint64, limit, offset int) ([]*dto.CommentDTO, error) {
	comments, err := s.actionRepo.GetCommentReplies(ctx, rootID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.batchToCommentDTO(ctx, comments)
}

func (s *postActionServiceImpl) getPostCheck(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPostById(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postActionServiceImpl) batchToCommentDTO(ctx context.Context, comments []*model.PostComment) ([]*dto.CommentDTO, error) {
	if len(comments) == 0 {
		return []*dto.CommentDTO{}, nil
	}

	userIDs := make([]uint64, 0, len(comments))
	seen := map[uint64]struct{}{}
	for _, c := range comments {
		if _, ok := seen[c.UserID]; !ok {
			seen[c.UserID] = struct{}{}
			userIDs = append(userIDs, c.UserID)
		}
	}

	details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userMap := map[uint64]*model.UserDetail{}
	for _, d := range details {
		userMap[d.UserID] = d
	}

	res := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		item := &dto.CommentDTO{
			ID:            c.ID,
			PostID:        c.PostID,
			Content:       c.Content,
			RootID:        c.RootID,
			ParentID:      c.ParentID,
			ReplyToUserID: c.ReplyToUserID,
			CreatedAt:     c.CreatedAt.Format(time.RFC3339),
			UserID:        c.UserID,
		}
		if d := userMap[c.UserID]; d != nil {
			item.Nickname = d.Nickname
			item.AvatarURL = minio.GetPublicURL(d.AvatarURL)
		}
		res = append(res, item)
	}
	return res, nil
}
