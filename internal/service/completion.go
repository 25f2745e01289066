package service

import (
	"context"
	"fmt"

	"ai-counsellor/internal/llm"
	pkgerrors "ai-counsellor/pkg/errors"
	"ai-counsellor/pkg/metrics"
)

// complete 调用大模型并记录指标；失败统一包装为 ErrUpstream
func complete(ctx context.Context, c llm.Completer, purpose string, req llm.ChatRequest) (string, error) {
	if c == nil {
		metrics.LLMRequestsTotal.WithLabelValues(purpose, "error").Inc()
		return "", fmt.Errorf("%w: %v", pkgerrors.ErrUpstream, llm.ErrNotConfigured)
	}
	out, err := c.Complete(ctx, req)
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(purpose, "error").Inc()
		return "", fmt.Errorf("%w: %v", pkgerrors.ErrUpstream, err)
	}
	metrics.LLMRequestsTotal.WithLabelValues(purpose, "success").Inc()
	return out, nil
}
