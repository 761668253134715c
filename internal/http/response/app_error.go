package response

// AppError 携带业务状态码的错误，供 handler 统一记录与映射
type AppError struct {
	Code    int
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap 暴露底层错误，保持 errors.Is/As 可用
func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 将底层错误包装为带业务码的 AppError
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
