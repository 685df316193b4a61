package serverutils

import "github.com/gofiber/fiber/v2"

// BaseResponse is the JSON envelope every REST endpoint answers with.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// JSON writes data with the given status inside the envelope.
func JSON[T any](ctx *fiber.Ctx, status int, message string, data T) error {
	res := SuccessResponse(message, data)
	res.Code = status
	return ctx.Status(status).JSON(res)
}
