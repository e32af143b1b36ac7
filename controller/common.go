package controller

import (
	"errors"

	"stockbrief/customerrors"
	"stockbrief/model"

	"github.com/danielgtaylor/huma/v2"
)

// NewResponse creates a success response with the given data and message.
func NewResponse(data any, message string) *model.DefaultResponse {
	return &model.DefaultResponse{
		Body: model.Response{
			Success: true,
			Message: message,
			Data:    data,
		},
	}
}

// NewErrorResponse creates an error response (conceptually, though Huma handles HTTP errors separately).
func NewErrorResponse(err string) *model.DefaultResponse {
	return &model.DefaultResponse{
		Body: model.Response{
			Success: false,
			Error:   err,
		},
	}
}

// mapStockErr translates service sentinels into huma errors, hiding internal
// messages behind the fallback.
func mapStockErr(err error, fallback string) error {
	if errors.Is(err, customerrors.ErrStockNotFound) {
		return huma.Error404NotFound(err.Error())
	}
	return huma.Error500InternalServerError(fallback)
}
