package service

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserBan                 = errors.New("用户已被封禁")
	ErrUserBanSelf             = errors.New("不能封禁自己")
	ErrUserBanAdmin            = errors.New("不能封禁管理员")
	ErrUserExist               = errors.New("用户已存在")
	ErrUserEmailExist          = errors.New("邮箱已注册")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrTokenInvalid            = errors.New("令牌无效")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrFileNotExist            = errors.New("文件不存在")
	ErrUserFollowExist         = errors.New("用户已关注")
	ErrUserFollowLimit         = errors.New("关注数已达上限")
	ErrUserFollowSelf          = errors.New("用户不能关注自己")
	ErrPostNotFound            = errors.New("帖子不存在")
	ErrPostCommentNotFound     = errors.New("评论不存在")
	ErrActionDuplicate         = errors.New("重复操作")
	ErrNotificationNotFound    = errors.New("通知不存在")
	ErrTargetUserInvalid       = errors.New("目标用户无效")
	ErrChatInvalid             = errors.New("会话异常")
	ErrChatNotFound            = errors.New("会话不存在")
	ErrNotChatMember           = errors.New("不是会话成员")
	ErrNotChatAdmin            = errors.New("不是会话管理员")
	ErrMessageNotFound         = errors.New("消息不存在")
	ErrMessageNotOwned         = errors.New("只能操作自己的消息")
	ErrReportNotFound          = errors.New("举报不存在")
	ErrReportDuplicate         = errors.New("举报已提交，请勿重复")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

// isDuplicateError 唯一索引冲突（MySQL 1062）
func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserBan:                 Unauthorized,
	ErrUserBanSelf:             Unauthorized,
	ErrUserBanAdmin:            Unauthorized,
	ErrUserExist:               BadRequest,
	ErrUserEmailExist:          BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrTokenInvalid:            Unauthorized,
	ErrFileNotSupported:        BadRequest,
	ErrFileNotExist:            NotFound,
	ErrUserFollowExist:         BadRequest,
	ErrUserFollowLimit:         BadRequest,
	ErrUserFollowSelf:          BadRequest,
	ErrPostNotFound:            NotFound,
	ErrPostCommentNotFound:     NotFound,
	ErrActionDuplicate:         BadRequest,
	ErrNotificationNotFound:    NotFound,
	ErrTargetUserInvalid:       BadRequest,
	ErrChatInvalid:             BadRequest,
	ErrChatNotFound:            NotFound,
	ErrNotChatMember:           Unauthorized,
	ErrNotChatAdmin:            Unauthorized,
	ErrMessageNotFound:         NotFound,
	ErrMessageNotOwned:         Unauthorized,
	ErrReportNotFound:          NotFound,
	ErrReportDuplicate:         BadRequest,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
