package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/model"
	"Murmur/internal/pkg/response"
	"Murmur/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
	userSvc       service.UserService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService, userSvc service.UserService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc, userSvc: userSvc}
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	userId := c.GetUint64("user_id")
	followingId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err = s.userFollowSvc.CreateUserFollow(c.Request.Context(), &model.UserFollow{
		FollowerID:  userId,
		FollowingID: followingId,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	userId := c.GetUint64("user_id")
	followingId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err = s.userFollowSvc.DeleteUserFollow(c.Request.Context(), &model.UserFollow{
		FollowerID:  userId,
		FollowingID: followingId,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) GetFollowers(c *gin.Context) {
	userId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getPagination(c)

	follows, err := s.userFollowSvc.GetUserFollowers(c.Request.Context(), userId, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.toFollowDTO(c, follows, true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserFollowHandler) GetFollowing(c *gin.Context) {
	userId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getPagination(c)

	follows, err := s.userFollowSvc.GetUserFollowing(c.Request.Context(), userId, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.toFollowDTO(c, follows, false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserFollowHandler) GetFollowCounts(c *gin.Context) {
	userId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	followerCount, err := s.userFollowSvc.GetUserFollowerCount(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	followingCount, err := s.userFollowSvc.GetUserFollowingCount(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.FollowCountDTO{
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
	})
}

func (s *UserFollowHandler) IsFollowing(c *gin.Context) {
	userId := c.GetUint64("user_id")
	followingId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	isFollowing, err := s.userFollowSvc.GetSomeoneIsFollowing(c.Request.Context(), userId, followingId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]bool{"is_following": isFollowing})
}

// toFollowDTO 补齐对端用户的昵称和头像
func (s *UserFollowHandler) toFollowDTO(c *gin.Context, follows []*model.UserFollow, isFollowerList bool) ([]*dto.FollowDTO, error) {
	if len(follows) == 0 {
		return []*dto.FollowDTO{}, nil
	}

	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		if isFollowerList {
			ids = append(ids, f.FollowerID)
		} else {
			ids = append(ids, f.FollowingID)
		}
	}

	infos, err := s.userSvc.GetUserSimpleInfoByIds(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	infoMap := map[uint64]*dto.UserDTO{}
	for _, info := range infos {
		if info.UserID != nil {
			infoMap[*info.UserID] = info
		}
	}

	res := make([]*dto.FollowDTO, 0, len(follows))
	for _, f := range follows {
		id := f.FollowingID
		if isFollowerList {
			id = f.FollowerID
		}
		item := &dto.FollowDTO{
			UserID:    id,
			CreatedAt: f.CreatedAt.Format(time.RFC3339),
		}
		if info := infoMap[id]; info != nil {
			if info.Nickname != nil {
				item.Nickname = *info.Nickname
			}
			if info.AvatarURL != nil {
				item.AvatarURL = *info.AvatarURL
			}
			if info.Bio != nil {
				item.Bio = *info.Bio
			}
		}
		res = append(res, item)
	}
	return res, nil
}

func getPagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
