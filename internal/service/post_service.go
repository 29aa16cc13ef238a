package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/gateway"
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/pkg/util"
	"Murmur/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

// MaxMentionNotify 单条帖子最多触发的 @ 通知数
const MaxMentionNotify = 5

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, userID uint64, postID uint64) (*dto.PostDTO, error)
	GetUserPosts(ctx context.Context, viewerID, userID uint64, limit, offset int) ([]*dto.PostDTO, error)
	GetFeed(ctx context.Context, userID uint64, limit, offset int) ([]*dto.PostDTO, error)
	UpdatePost(ctx context.Context, userID uint64, postID uint64, req *dto.CreatePostDTO) error
	DeletePost(ctx context.Context, userID uint64, postID uint64) error
}

type postServiceImpl struct {
	postRepo   repository.PostRepo
	actionRepo repository.PostActionRepo
	userRepo   repository.UserRepo
	followRepo repository.UserFollowRepo
	notifier   NotificationService
	analytics  AnalyticsService
	hub        *gateway.Hub
}

func NewPostService(
	postRepo repository.PostRepo,
	actionRepo repository.PostActionRepo,
	userRepo repository.UserRepo,
	followRepo repository.UserFollowRepo,
	notifier NotificationService,
	analytics AnalyticsService,
	hub *gateway.Hub,
) PostService {
	return &postServiceImpl{
		postRepo:   postRepo,
		actionRepo: actionRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		notifier:   notifier,
		analytics:  analytics,
		hub:        hub,
	}
}

// CreatePost 发布帖子：校验临时媒体、转正、落库、@ 通知
func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.CreatePostDTO) (*dto.PostDTO, error) {
	var hdelKeys []string

	for i := range req.Medias {
		if err := s.processMedia(ctx, &req.Medias[i], &hdelKeys); err != nil {
			return nil, err
		}
	}

	post := &model.Post{}
	if err := copier.Copy(post, req); err != nil {
		return nil, err
	}
	if err := copier.Copy(&post.MediaInfo, &req.Medias); err != nil {
		return nil, err
	}
	post.UserID = userID

	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	if len(hdelKeys) > 0 {
		go func(keys []string) {
			_ = redis.HDel(context.Background(), consts.MediaTempKey, keys...)
		}(hdelKeys)
	}

	s.notifyMentions(ctx, userID, post)
	s.pushToOnlineFollowers(userID, post.ID)

	s.analytics.Track(ctx, EventPostCreated, userID, map[string]string{
		"post_id": strconv.FormatUint(post.ID, 10),
	})

	return s.toPostDTO(ctx, post, userID)
}

// pushToOnlineFollowers 新帖实时提醒，只推在线粉丝，离线的刷 feed 自然能看到
func (s *postServiceImpl) pushToOnlineFollowers(authorID, postID uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		followerIDs, err := s.followRepo.GetFollowerIDs(ctx, authorID)
		if err != nil {
			log.Warn("load follower ids for new post push failed", "authorID", authorID, "err", err)
			return
		}
		payload := map[string]uint64{"author_id": authorID, "post_id": postID}
		for _, fid := range followerIDs {
			if s.hub.IsOnline(fid) {
				s.hub.PublishToUser(fid, gateway.EventNewPost, payload)
			}
		}
	}()
}

func (s *postServiceImpl) GetPost(ctx context.Context, userID uint64, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPostById(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return s.toPostDTO(ctx, post, userID)
}

func (s *postServiceImpl) GetUserPosts(ctx context.Context, viewerID, userID uint64, limit, offset int) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.GetUserPosts(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.batchToPostDTO(ctx, posts, viewerID)
}

// GetFeed 关注流：自己 + 关注的人的最新帖子
func (s *postServiceImpl) GetFeed(ctx context.Context, userID uint64, limit, offset int) ([]*dto.PostDTO, error) {
	following, err := s.followRepo.GetUserFollowing(ctx, userID, MaxFollowingCount, 0)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uint64, 0, len(following)+1)
	authorIDs = append(authorIDs, userID)
	for _, f := range following {
		authorIDs = append(authorIDs, f.FollowingID)
	}

	posts, err := s.postRepo.GetFeed(ctx, authorIDs, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.batchToPostDTO(ctx, posts, userID)
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, userID uint64, postID uint64, req *dto.CreatePostDTO) error {
	post, err := s.postRepo.GetPostById(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}

	var hdelKeys []string
	for i := range req.Medias {
		// 已在主桶的媒体不需要再转正
		if _, ok := lookupTempMeta(ctx, req.Medias[i].URL); !ok {
			continue
		}
		if err = s.processMedia(ctx, &req.Medias[i], &hdelKeys); err != nil {
			return err
		}
	}

	post.Title = req.Title
	post.Content = req.Content
	post.MediaInfo = post.MediaInfo[:0]
	if err = copier.Copy(&post.MediaInfo, &req.Medias); err != nil {
		return err
	}

	if err = s.postRepo.UpdatePost(ctx, post); err != nil {
		return err
	}

	if len(hdelKeys) > 0 {
		go func(keys []string) {
			_ = redis.HDel(context.Background(), consts.MediaTempKey, keys...)
		}(hdelKeys)
	}
	return nil
}

func (s *postServiceImpl) DeletePost(ctx context.Context, userID uint64, postID uint64) error {
	rows, err := s.postRepo.DeletePost(ctx, postID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}
	return nil
}

// processMedia 校验临时元数据并把对象从临时桶转正
func (s *postServiceImpl) processMedia(ctx context.Context, media *dto.MediasBaseDTO, hdelKeys *[]string) error {
	meta, ok := lookupTempMeta(ctx, media.URL)
	if !ok {
		log.WarnContext(ctx, "media resource not found in temp cache", "url", media.URL)
		return ErrFileNotExist
	}

	media.Width = meta.Width
	media.Height = meta.Height
	media.MimeType = meta.MimeType

	if err := minio.PromoteTempObject(ctx, media.URL); err != nil {
		log.ErrorContext(ctx, "promote media failed", "url", media.URL, "err", err)
		return UnExpectedError
	}
	*hdelKeys = append(*hdelKeys, media.URL)

	if media.ThumbURL != "" {
		if err := minio.PromoteTempObject(ctx, media.ThumbURL); err != nil {
			log.ErrorContext(ctx, "promote thumb failed", "url", media.ThumbURL, "err", err)
			return UnExpectedError
		}
		*hdelKeys = append(*hdelKeys, media.ThumbURL)
	}
	return nil
}

// notifyMentions 给帖子里 @ 到的用户发通知
func (s *postServiceImpl) notifyMentions(ctx context.Context, senderID uint64, post *model.Post) {
	names := util.ExtractMentions(post.Content)
	if len(names) > MaxMentionNotify {
		names = names[:MaxMentionNotify]
	}
	targetID := strconv.FormatUint(post.ID, 10)

	for _, name := range names {
		user, err := s.userRepo.GetUserByUsername(ctx, name)
		if err != nil || user == nil {
			continue
		}
		s.notifier.Notify(ctx, user.ID, senderID, consts.NotifyTypeMention, targetID, truncateContent(post.Content, 100))
	}
}

func (s *postServiceImpl) toPostDTO(ctx context.Context, post *model.Post, viewerID uint64) (*dto.PostDTO, error) {
	res, err := s.batchToPostDTO(ctx, []*model.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (s *postServiceImpl) batchToPostDTO(ctx context.Context, posts []*model.Post, viewerID uint64) ([]*dto.PostDTO, error) {
	if len(posts) == 0 {
		return []*dto.PostDTO{}, nil
	}

	authorIDs := make([]uint64, 0, len(posts))
	seen := map[uint64]struct{}{}
	for _, p := range posts {
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authorMap := map[uint64]*model.UserDetail{}
	for _, d := range details {
		authorMap[d.UserID] = d
	}

	res := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		item := &dto.PostDTO{
			ID:            p.ID,
			Title:         p.Title,
			Content:       p.Content,
			LikesCount:    p.LikesCount,
			CommentsCount: p.CommentsCount,
			CreatedAt:     p.CreatedAt.Format(time.RFC3339),
			UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
			UserID:        p.UserID,
		}

		for _, m := range p.MediaInfo {
			item.Medias = append(item.Medias, &dto.MediasBaseDTO{
				URL:      minio.GetPublicURL(m.URL),
				ThumbURL: minio.GetPublicURL(m.ThumbURL),
				Width:    m.Width,
				Height:   m.Height,
				MimeType: m.MimeType,
			})
		}

		if author := authorMap[p.UserID]; author != nil {
			item.Nickname = author.Nickname
			item.AvatarURL = minio.GetPublicURL(author.AvatarURL)
		}

		if viewerID > 0 {
			like, err := s.actionRepo.GetLike(ctx, viewerID, p.ID)
			if err == nil && like != nil {
				item.IsLiked = true
			}
		}
		res = append(res, item)
	}
	return res, nil
}

// lookupTempMeta 查询上传时写入的临时媒体元数据
func lookupTempMeta(ctx context.Context, fileKey string) (*dto.MediaTempMetadata, bool) {
	val, err := redis.HGet(ctx, consts.MediaTempKey, fileKey)
	if err != nil || val == "" {
		return nil, false
	}
	var meta dto.MediaTempMetadata
	if err = json.Unmarshal([]byte(val), &meta); err != nil {
		return nil, false
	}
	return &meta, true
}

func truncateContent(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}
