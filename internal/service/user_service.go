package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/es"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/pkg/security"
	"Murmur/internal/repository"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) error
	Login(ctx context.Context, dto *dto.CredentialDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserHomeInfoById(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	SearchUser(ctx context.Context, keyword string, limit int) ([]*dto.UserDTO, error)
	GetUserStatuses(ctx context.Context, ids []uint64) ([]*dto.UserStatusDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, dto *dto.UserDTO) error
	UpdatePasswordFromOld(ctx context.Context, id uint64, dto *dto.ChangePasswordDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
	BanUser(ctx context.Context, id uint64) error
	UnBanUser(ctx context.Context, id uint64) error
	CancelUser(ctx context.Context, id uint64) error

	// 网关依赖
	AuthenticateSocket(ctx context.Context, token string) (uint64, error)
	SetUserStatus(ctx context.Context, userID uint64, status string) error
}

type UserServiceImpl struct {
	userRepo  repository.UserRepo
	esRepo    es.UserRepo
	analytics AnalyticsService
}

func NewUserService(userRepo repository.UserRepo, esRepo es.UserRepo, analytics AnalyticsService) UserService {
	return &UserServiceImpl{
		userRepo:  userRepo,
		esRepo:    esRepo,
		analytics: analytics,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	byUsername, err := s.userRepo.GetUserByUsername(ctx, regDTO.Username)
	if err != nil {
		return err
	}
	if byUsername != nil {
		return ErrUserUsernameExist
	}
	byEmail, err := s.userRepo.GetUserByEmail(ctx, regDTO.Email)
	if err != nil {
		return err
	}
	if byEmail != nil {
		return ErrUserEmailExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: &regDTO.Username,
		Email:    &regDTO.Email,
		Password: &passwordHash,
		Status:   consts.UserStatusOffline,
	}

	nickname := regDTO.Nickname
	if nickname == "" {
		nickname = regDTO.Username
	}
	gender := regDTO.Gender
	detail := &model.UserDetail{
		Nickname:  nickname,
		AvatarURL: consts.DefaultAvatarURL,
		Bio:       regDTO.Bio,
		Gender:    &gender,
		Region:    regDTO.Region,
	}

	if err = s.userRepo.CreateUser(ctx, user, detail); err != nil {
		// 预检查挡不住并发注册，唯一索引兜底
		if isDuplicateError(err) {
			return ErrUserUsernameExist
		}
		return err
	}

	// 同步搜索索引，失败不阻塞注册
	s.indexUser(ctx, user.ID, detail, 1)

	s.analytics.Track(ctx, EventUserRegistered, user.ID, nil)
	return nil
}

func (s *UserServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO) (*dto.TokenDTO, error) {
	user, err := s.findUserByLoginCredentials(ctx, credDTO)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDelete {
		return nil, ErrUserNotFound
	}
	if user.IsBan {
		return nil, ErrUserBan
	}
	if credDTO.Password == nil || user.Password == nil {
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(*credDTO.Password, *user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID, []string{user.Role})
	if err != nil {
		return nil, err
	}

	s.analytics.Track(ctx, EventUserLogin, user.ID, nil)

	userDTO := s.toUserDTO(user)
	return &dto.TokenDTO{Token: token, User: *userDTO}, nil
}

func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Hour*24)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.toUserDTO(user), nil
}

func (s *UserServiceImpl) GetUserHomeInfoById(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	key := consts.UserHomeInfoKey + strconv.FormatUint(id, 10)
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return nil, err
	}
	if value != "" {
		var userDTO *dto.UserDTO
		if err = json.Unmarshal([]byte(value), &userDTO); err == nil {
			return userDTO, nil
		}
	}
	detail, err := s.userRepo.GetUserHomeInfoById(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrUserNotFound
	}
	userDTO := &dto.UserDTO{}
	if err = copier.Copy(userDTO, detail); err != nil {
		return nil, err
	}
	url := minio.GetPublicURL(detail.AvatarURL)
	userDTO.AvatarURL = &url

	jsonStr, err := json.Marshal(userDTO)
	if err != nil {
		return nil, err
	}
	if err = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Hour*1); err != nil {
		return nil, err
	}
	return userDTO, nil
}

func (s *UserServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	newIds := make([]uint64, 0, len(ids))
	mp := make(map[uint64]*dto.UserDTO)
	for _, id := range ids {
		value, err := redis.GetValue(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
		if err != nil {
			return nil, err
		}
		if value != "" {
			var userDTO *dto.UserDTO
			err = json.Unmarshal([]byte(value), &userDTO)
			if err != nil {
				newIds = append(newIds, id)
			} else {
				mp[id] = userDTO
			}
		} else {
			newIds = append(newIds, id)
		}
	}
	if len(newIds) > 0 {
		userDetails, err := s.userRepo.GetUserSimpleInfoByIds(ctx, newIds)
		if err != nil {
			return nil, err
		}
		for _, userDetail := range userDetails {
			userDTO := &dto.UserDTO{}
			if err = copier.Copy(userDTO, userDetail); err != nil {
				return nil, err
			}
			url := minio.GetPublicURL(userDetail.AvatarURL)
			userDTO.AvatarURL = &url
			mp[userDetail.UserID] = userDTO
			jsonStr, err := json.Marshal(userDTO)
			if err != nil {
				return nil, err
			}
			err = redis.SetWithExpiration(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(userDetail.UserID, 10), string(jsonStr), time.Hour*1)
			if err != nil {
				return nil, err
			}
		}
	}
	userDTOList := make([]*dto.UserDTO, 0, len(ids))
	for _, id := range ids {
		if mp[id] == nil {
			continue
		}
		userDTOList = append(userDTOList, mp[id])
	}
	return userDTOList, nil
}

// SearchUser 走 ES 全文检索
func (s *UserServiceImpl) SearchUser(ctx context.Context, keyword string, limit int) ([]*dto.UserDTO, error) {
	docs, err := s.esRepo.SearchUsers(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.UserDTO, 0, len(docs))
	for _, doc := range docs {
		id := doc.ID
		nickname := doc.Nickname
		url := minio.GetPublicURL(doc.AvatarURL)
		list = append(list, &dto.UserDTO{
			UserID:    &id,
			Nickname:  &nickname,
			AvatarURL: &url,
			Bio:       doc.Bio,
		})
	}
	return list, nil
}

func (s *UserServiceImpl) GetUserStatuses(ctx context.Context, ids []uint64) ([]*dto.UserStatusDTO, error) {
	statuses, err := s.userRepo.GetUserStatuses(ctx, ids)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.UserStatusDTO, 0, len(ids))
	for _, id := range ids {
		status, ok := statuses[id]
		if !ok {
			continue
		}
		list = append(list, &dto.UserStatusDTO{UserID: id, Status: status})
	}
	return list, nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, userDTO *dto.UserDTO) error {
	newUUID, err := uuid.NewUUID()
	if err != nil {
		return err
	}
	lockKey := consts.UserDetailLock + strconv.FormatUint(id, 10)
	lock, err := redis.TryLock(ctx, lockKey, newUUID.String(), time.Second*5, 3)
	if err != nil {
		return err
	}
	if !lock {
		return UnExpectedError
	}
	defer redis.UnLock(ctx, lockKey, newUUID.String())

	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err = copier.CopyWithOption(&user.UserDetail, userDTO, copier.Option{IgnoreEmpty: true}); err != nil {
		return err
	}
	if err = s.userRepo.UpdateUserDetail(ctx, &user.UserDetail); err != nil {
		return err
	}

	s.invalidateUserCache(ctx, id)
	s.indexUser(ctx, id, &user.UserDetail, time.Now().UnixMilli())
	return nil
}

func (s *UserServiceImpl) UpdatePasswordFromOld(ctx context.Context, id uint64, pwdDTO *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err = security.CheckPasswordHash(*pwdDTO.OldPassword, *user.Password); err != nil {
		return ErrPasswordIncorrect
	}
	passwordHash, err := security.HashPassword(*pwdDTO.NewPassword)
	if err != nil {
		return err
	}
	user.Password = &passwordHash
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	user.UserDetail.AvatarURL = objectName
	if err = s.userRepo.UpdateUserDetail(ctx, &user.UserDetail); err != nil {
		return err
	}
	s.invalidateUserCache(ctx, id)
	s.indexUser(ctx, id, &user.UserDetail, time.Now().UnixMilli())
	return nil
}

func (s *UserServiceImpl) BanUser(ctx context.Context, id uint64) error {
	return s.changeUserIsBanStatus(ctx, id, true)
}

func (s *UserServiceImpl) UnBanUser(ctx context.Context, id uint64) error {
	return s.changeUserIsBanStatus(ctx, id, false)
}

func (s *UserServiceImpl) CancelUser(ctx context.Context, id uint64) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err = s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.invalidateUserCache(ctx, id)
	_ = s.esRepo.DeleteUser(ctx, id)
	return nil
}

// AuthenticateSocket WS 的 authenticate 事件入口：
// 校验令牌、黑名单与封禁状态
func (s *UserServiceImpl) AuthenticateSocket(ctx context.Context, token string) (uint64, error) {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return 0, ErrTokenInvalid
	}

	signature, err := security.ExtractSignature(token)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	blacklisted, err := redis.GetValue(ctx, signature)
	if err != nil {
		return 0, err
	}
	if blacklisted != "" {
		return 0, ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserById(ctx, claims.UserID)
	if err != nil {
		return 0, err
	}
	if user == nil || user.IsDelete {
		return 0, ErrUserNotFound
	}
	if user.IsBan {
		return 0, ErrUserBan
	}
	return claims.UserID, nil
}

// SetUserStatus 网关上下线回调，只负责持久化
func (s *UserServiceImpl) SetUserStatus(ctx context.Context, userID uint64, status string) error {
	if err := s.userRepo.UpdateUserStatus(ctx, userID, status, time.Now()); err != nil {
		return err
	}
	if status == consts.UserStatusOnline {
		s.analytics.Track(ctx, EventUserOnline, userID, nil)
	}
	return nil
}

func (s *UserServiceImpl) findUserByLoginCredentials(ctx context.Context, credDTO *dto.CredentialDTO) (*model.User, error) {
	if credDTO.Username != nil && *credDTO.Username != "" {
		return s.userRepo.GetUserByUsername(ctx, *credDTO.Username)
	}
	if credDTO.Email != nil && *credDTO.Email != "" {
		return s.userRepo.GetUserByEmail(ctx, *credDTO.Email)
	}
	return nil, ErrMissingLoginCredentials
}

func (s *UserServiceImpl) changeUserIsBanStatus(ctx context.Context, id uint64, isBan bool) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if isBan && user.Role == "ADMIN" {
		return ErrUserBanAdmin
	}
	user.IsBan = isBan
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) toUserDTO(user *model.User) *dto.UserDTO {
	userDTO := &dto.UserDTO{}
	_ = copier.Copy(userDTO, user)
	_ = copier.Copy(userDTO, user.UserDetail)
	id := user.ID
	userDTO.UserID = &id
	url := minio.GetPublicURL(user.UserDetail.AvatarURL)
	userDTO.AvatarURL = &url
	userDTO.Status = &user.Status
	return userDTO
}

func (s *UserServiceImpl) invalidateUserCache(ctx context.Context, id uint64) {
	_ = redis.DeleteKey(ctx, consts.UserHomeInfoKey+strconv.FormatUint(id, 10))
	_ = redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
}

func (s *UserServiceImpl) indexUser(ctx context.Context, id uint64, detail *model.UserDetail, version int64) {
	gender := 0
	if detail.Gender != nil {
		gender = int(*detail.Gender)
	}
	region := ""
	if detail.Region != nil {
		region = *detail.Region
	}
	doc := &es.UserES{
		ID:        id,
		Nickname:  detail.Nickname,
		Bio:       detail.Bio,
		AvatarURL: detail.AvatarURL,
		Gender:    gender,
		Region:    region,
	}
	if err := s.esRepo.IndexUser(ctx, doc, version); err != nil {
		// 检索索引失败不影响主流程
		_ = err
	}
}
