package dto

// Response 统一响应体，ErrCode 仅在业务错误携带机器码时返回
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	ErrCode int         `json:"err_code,omitempty"`
}
