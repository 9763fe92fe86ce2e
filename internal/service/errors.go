package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrNoteNotFound        = errors.New("笔记不存在")
	ErrNoteDeleted         = errors.New("笔记已删除")
	ErrNoteNotVisible      = errors.New("笔记不可见")
	ErrNoteInvalid         = errors.New("笔记内容不合法")
	ErrContentTooLong      = errors.New("内容超出长度限制")
	ErrReplyNotAllowed     = errors.New("该笔记不允许回复")
	ErrRenoteNotAllowed    = errors.New("该笔记不允许转发")
	ErrQuoteNotAllowed     = errors.New("该笔记不允许引用")
	ErrScheduleInPast      = errors.New("定时发布时间必须在未来")
	ErrNotScheduled        = errors.New("笔记不在定时发布状态")
	ErrThreadNotFound      = errors.New("串不存在")
	ErrThreadExist         = errors.New("串已存在")
	ErrThreadLocked        = errors.New("串已锁定")
	ErrThreadNoteDuplicate = errors.New("笔记已在串内")
	ErrStarterImmovable    = errors.New("起始笔记不能移动或移除")
	ErrUserBlocked         = errors.New("用户已被串内拉黑")
	ErrAttachmentNotFound  = errors.New("附件不存在")
	ErrAttachmentLimit     = errors.New("附件数量超过限制")
	ErrAttachmentTooLarge  = errors.New("附件大小超过限制")
	ErrAttachmentInvalid   = errors.New("附件数据不合法")
	ErrFileNotSupported    = errors.New("不支持的文件类型")
	ErrActionDuplicate     = errors.New("重复操作")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrNoteNotFound:        NotFound,
	ErrNoteDeleted:         NotFound,
	ErrNoteNotVisible:      Unauthorized,
	ErrNoteInvalid:         BadRequest,
	ErrContentTooLong:      BadRequest,
	ErrReplyNotAllowed:     BadRequest,
	ErrRenoteNotAllowed:    BadRequest,
	ErrQuoteNotAllowed:     BadRequest,
	ErrScheduleInPast:      BadRequest,
	ErrNotScheduled:        BadRequest,
	ErrThreadNotFound:      NotFound,
	ErrThreadExist:         BadRequest,
	ErrThreadLocked:        BadRequest,
	ErrThreadNoteDuplicate: BadRequest,
	ErrStarterImmovable:    BadRequest,
	ErrUserBlocked:         Unauthorized,
	ErrAttachmentNotFound:  NotFound,
	ErrAttachmentLimit:     BadRequest,
	ErrAttachmentTooLarge:  BadRequest,
	ErrAttachmentInvalid:   BadRequest,
	ErrFileNotSupported:    BadRequest,
	ErrActionDuplicate:     BadRequest,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}
