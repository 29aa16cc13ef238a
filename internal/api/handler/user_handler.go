package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	err := c.ShouldBind(&registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&registerDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	err := c.ShouldBind(&loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !util.ValidateLoginDTO(&loginDTO) {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}

func (s *UserHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")

	if err := s.userSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userId := c.GetUint64("user_id")
	info, err := s.userSvc.GetUserInfo(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

func (s *UserHandler) GetHomeInfo(c *gin.Context) {
	userId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	info, err := s.userSvc.GetUserHomeInfoById(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

func (s *UserHandler) GetUserSimpleInfoByIds(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	infos, err := s.userSvc.GetUserSimpleInfoByIds(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, infos)
}

func (s *UserHandler) SearchUser(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := s.userSvc.SearchUser(c.Request.Context(), keyword, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

func (s *UserHandler) GetUserStatuses(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	statuses, err := s.userSvc.GetUserStatuses(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, statuses)
}

func (s *UserHandler) UpdateUserInfo(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var userDTO dto.UserDTO
	if err := c.ShouldBind(&userDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&userDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.userSvc.UpdateUserInfo(c.Request.Context(), userId, &userDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UpdatePassword(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var req dto.ChangePasswordDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.userSvc.UpdatePasswordFromOld(c.Request.Context(), userId, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UploadAvatar 头像上传：居中裁剪后直接入主桶
func (s *UserHandler) UploadAvatar(c *gin.Context) {
	userId := c.GetUint64("user_id")

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil || !strings.HasPrefix(contentType, "image") {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	avatar, err := util.MakeAvatar(reader)
	if err != nil {
		log.WarnContext(c.Request.Context(), "decode avatar failed", "err", err)
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	objectName := "avatar/" + time.Now().Format("2006/01/02/") + uuid.NewString() + ".jpg"
	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, avatar, int64(avatar.Len()), "image/jpeg")
	if err != nil {
		log.ErrorContext(c.Request.Context(), "avatar upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	if err = s.userSvc.UpdateAvatar(c.Request.Context(), userId, fileKey); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{"avatar_url": fileKey})
}

func (s *UserHandler) CancelUser(c *gin.Context) {
	userId := c.GetUint64("user_id")
	if err := s.userSvc.CancelUser(c.Request.Context(), userId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func parseIDList(raw string) ([]uint64, error) {
	if raw == "" {
		return nil, service.ErrParamInvalid
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
