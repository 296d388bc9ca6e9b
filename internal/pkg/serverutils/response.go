package serverutils

// WebResponse is the JSON envelope every endpoint returns.
type WebResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) WebResponse[T] {
	return WebResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) WebResponse[any] {
	return WebResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}
