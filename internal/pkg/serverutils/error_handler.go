package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrUpstream   = errors.New("upstream service failed")
)

// ErrorHandlerMiddleware renders any error returned further down the chain as a BaseResponse
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(BaseResponse[[]ValidationErrorDetail]{
				Success: false,
				Code:    fiber.StatusBadRequest,
				Message: "Validation failed",
				Data:    validationErr.Details,
			})
		}

		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		case errors.Is(err, ErrNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, ErrBadRequest):
			code = fiber.StatusBadRequest
		case errors.Is(err, ErrUpstream):
			code = fiber.StatusBadGateway
		}

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
