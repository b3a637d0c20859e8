package nodes

import (
	"context"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/autodriver-poc/server/internal/agent/model"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

// resilientModel retries Generate with exponential backoff. Streams are not
// retried because a partially consumed stream cannot be replayed.
type resilientModel struct {
	inner einomodel.ToolCallingChatModel
	cfg   model.RetryConfig
	retry retry.Retry[*schema.Message]
}

// WithRetry wraps a chat model so transient Generate failures are retried.
// Context cancellation and deadline errors are returned immediately.
func WithRetry(inner einomodel.ToolCallingChatModel, cfg model.RetryConfig) einomodel.ToolCallingChatModel {
	if cfg.MaxAttempts <= 1 {
		return inner
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 200 * time.Millisecond
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = 2.0
	}
	return &resilientModel{
		inner: inner,
		cfg:   cfg,
		retry: retry.New[*schema.Message](retry.Config{
			MaxAttempts:        cfg.MaxAttempts,
			InitialDelay:       cfg.InitialDelay,
			BackoffPolicy:      retry.BackoffExponential,
			Multiplier:         cfg.Multiplier,
			NonRetryableErrors: []error{context.Canceled, context.DeadlineExceeded},
		}),
	}
}

func (m *resilientModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	attempt := 0
	return m.retry.Do(ctx, func(ctx context.Context) (*schema.Message, error) {
		attempt++
		if attempt > 1 {
			logx.Warn().Int("attempt", attempt).Msg("Retrying chat model call")
		}
		return m.inner.Generate(ctx, input, opts...)
	})
}

func (m *resilientModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return m.inner.Stream(ctx, input, opts...)
}

func (m *resilientModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	bound, err := m.inner.WithTools(tools)
	if err != nil {
		return nil, err
	}
	return WithRetry(bound, m.cfg), nil
}

// GetType and IsCallbacksEnabled defer to the wrapped model.
func (m *resilientModel) GetType() string {
	if t, ok := m.inner.(interface{ GetType() string }); ok {
		return t.GetType()
	}
	return "Resilient"
}

func (m *resilientModel) IsCallbacksEnabled() bool {
	if c, ok := m.inner.(interface{ IsCallbacksEnabled() bool }); ok {
		return c.IsCallbacksEnabled()
	}
	return false
}
