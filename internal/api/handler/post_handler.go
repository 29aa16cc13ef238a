package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

func (s *PostHandler) Create(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var req dto.CreatePostDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), userId, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) Get(c *gin.Context) {
	viewerId := c.GetUint64("user_id")
	postId, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), viewerId, postId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetUserPosts(c *gin.Context) {
	viewerId := c.GetUint64("user_id")
	userId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getPagination(c)

	posts, err := s.postSvc.GetUserPosts(c.Request.Context(), viewerId, userId, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// GetFeed 关注流
func (s *PostHandler) GetFeed(c *gin.Context) {
	userId := c.GetUint64("user_id")
	limit, offset := getPagination(c)

	posts, err := s.postSvc.GetFeed(c.Request.Context(), userId, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) Update(c *gin.Context) {
	userId := c.GetUint64("user_id")
	postId, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.CreatePostDTO
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err = s.postSvc.UpdatePost(c.Request.Context(), userId, postId, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) Delete(c *gin.Context) {
	userId := c.GetUint64("user_id")
	postId, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.postSvc.DeletePost(c.Request.Context(), userId, postId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
