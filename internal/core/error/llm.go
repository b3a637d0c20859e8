package errx

import (
	"context"
	"errors"
	"net/http"
)

// WrapLLM maps chat model failures to AppError. Caller cancellation keeps its own status.
func WrapLLM(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return New(err, 499, LLMErrorMessage)
	case errors.Is(err, context.DeadlineExceeded):
		return New(err, http.StatusGatewayTimeout, LLMErrorMessage)
	}

	return New(err, http.StatusBadGateway, LLMErrorMessage)
}

// WrapTool marks a failure raised while executing a requested tool.
func WrapTool(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusUnprocessableEntity, ToolErrorMessage)
}
