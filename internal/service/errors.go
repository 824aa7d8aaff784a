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

// BizError 携带业务错误码的错误，供调用方按 Code 区分具体原因
type BizError struct {
	Status int
	Code   int
	Msg    string
}

func (e *BizError) Error() string {
	return e.Msg
}

// NewNotFound 构造资源不存在错误
func NewNotFound(code int, msg string) *BizError {
	return &BizError{Status: NotFound, Code: code, Msg: msg}
}

var (
	ErrParamInvalid   = errors.New("参数错误")
	UnauthorizedError = errors.New("权限不足")
	UnExpectedError   = errors.New("系统异常，请稍后重试")

	ErrCounterpartNotFound  = NewNotFound(1017, "对方用户不存在")
	ErrChannelNotFound      = NewNotFound(1018, "服务商默认频道不存在")
	ErrConversationNotFound = NewNotFound(1019, "会话不存在")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
	ErrCounterpartNotFound:  NotFound,
	ErrChannelNotFound:      NotFound,
	ErrConversationNotFound: NotFound,
}

// StatusOf 返回错误对应的状态码，未知错误返回 0
func StatusOf(err error) int {
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code
		}
	}
	var biz *BizError
	if errors.As(err, &biz) {
		return biz.Status
	}
	return 0
}
