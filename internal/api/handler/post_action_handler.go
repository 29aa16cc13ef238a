package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PostActionHandler struct {
	actionSvc service.PostActionService
}

func NewPostActionHandler(actionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{actionSvc: actionSvc}
}

func (s *PostActionHandler) Like(c *gin.Context) {
	userId := c.GetUint64("user_id")
	postId, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.actionSvc.LikePost(c.Request.Context(), userId, postId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) CancelLike(c *gin.Context) {
	userId := c.GetUint64("user_id")
	postId, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.actionSvc.CancelLikePost(c.Request.Context(), userId, postId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) CreateComment(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var req dto.CreateCommentDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.actionSvc.CreateComment(c.Request.Context(), userId, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *PostActionHandler) DeleteComment(c *gin.Context) {
	userId := c.GetUint64("user_id")
	commentId, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.actionSvc.DeleteComment(c.Request.Context(), userId, commentId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) GetComments(c *gin.Context) {
	postId, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getPagination(c)

	comments, err := s.actionSvc.GetPostComments(c.Request.Context(), postId, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *PostActionHandler) GetReplies(c *gin.Context) {
	rootId, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getPagination(c)

	replies, err := s.actionSvc.GetCommentReplies(c.Request.Context(), rootId, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, replies)
}
