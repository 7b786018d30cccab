package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"promptdeck/config"
)

// MaxImprovePromptLen bounds the input we forward to the provider.
const MaxImprovePromptLen = 8000

const improveSystemPrompt = `You are an expert prompt engineer. Your task is to improve and enhance prompts to make them more effective, clear, and structured.

When given a prompt:
1. Analyze its current effectiveness
2. Improve clarity and specificity
3. Add structure and best practices
4. Ensure it's actionable and comprehensive
5. Make it suitable for AI models

Return ONLY the improved prompt without any explanation or preamble.`

// Improver wraps the hosted language model used to rewrite prompt text.
// Calls are stateless: nothing is retained between invocations.
type Improver struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
}

func NewImprover(cfg config.OpenAIConfig) *Improver {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Improver{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
	}
}

// Improve submits the prompt text to the model and returns the rewritten
// text. Transient provider failures are retried a bounded number of
// times with jittered backoff; each attempt runs under its own timeout.
func (im *Improver) Improve(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: im.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: improveSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Please improve this prompt: " + prompt},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= im.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			jitter := time.Duration(rand.Int63n(int64(250 * time.Millisecond)))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, im.timeout)
		resp, err := im.client.CreateChatCompletion(attemptCtx, req)
		cancel()

		if err != nil {
			lastErr = err
			if isRetryable(err) {
				continue
			}
			return "", err
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			lastErr = errors.New("provider returned an empty completion")
			continue
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("improve call failed after %d attempts: %w", im.maxRetries+1, lastErr)
}

// isRetryable treats timeouts and provider-side failures as transient.
// Client errors (bad key, malformed request) never retry.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	// Network errors and attempt timeouts
	return true
}
