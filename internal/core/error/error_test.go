package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestAppErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("outer: %w", New(base, http.StatusTeapot, "tea"))

	if !errors.Is(err, base) {
		t.Fatalf("errors.Is lost the wrapped error")
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("errors.As did not find AppError")
	}
	if appErr.Status != http.StatusTeapot {
		t.Fatalf("status = %d, want %d", appErr.Status, http.StatusTeapot)
	}
	if got := appErr.Error(); got != "tea: boom" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("x"), http.StatusInternalServerError},
		{"redis nil", WrapRedis(redis.Nil), http.StatusNotFound},
		{"redis other", WrapRedis(errors.New("conn refused")), http.StatusBadGateway},
		{"llm deadline", WrapLLM(context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"llm other", WrapLLM(errors.New("quota")), http.StatusBadGateway},
		{"tool", fmt.Errorf("run: %w", WrapTool(errors.New("division by zero"))), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err, http.StatusInternalServerError); got != tt.want {
				t.Fatalf("StatusOf = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if WrapRedis(nil) != nil || WrapLLM(nil) != nil || WrapTool(nil) != nil {
		t.Fatalf("wrapping nil must return nil")
	}
}
