package summariq

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
)

// TextGenerator is the LLM capability used by the pipeline: given a prompt,
// return generated text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to TextGenerator
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var (
	// ErrTransient marks a failure that may succeed when retried
	ErrTransient = errors.New("transient generation failure")
	// ErrEmptyResponse is returned when the model sends back no choices
	ErrEmptyResponse = errors.New("no response from model")
)

// IsTransient reports whether err is worth retrying: rate limits, server
// errors, timeouts and network failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 0 || retryableStatus(reqErr.HTTPStatusCode)
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// OpenAIOptions configures an OpenAIGenerator
type OpenAIOptions struct {
	BaseURL     string // empty for api.openai.com
	Model       string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
	RetryWait   time.Duration
}

// OpenAIGenerator generates text through any OpenAI-compatible chat
// completions endpoint. Transient failures are retried with exponential
// backoff before the error is returned.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxRetries  int
	retryWait   time.Duration
}

// NewOpenAIGenerator creates a generator with the given API key
func NewOpenAIGenerator(apiKey string, opts OpenAIOptions) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	model := opts.Model
	if model == "" {
		model = openai.GPT4o
	}
	retryWait := opts.RetryWait
	if retryWait <= 0 {
		retryWait = time.Second
	}

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: opts.Temperature,
		maxRetries:  opts.MaxRetries,
		retryWait:   retryWait,
	}
}

// Generate sends prompt as a single user message and returns the reply
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	var content string
	attempt := 0
	op := func() error {
		attempt++
		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if IsTransient(err) {
				VerboseLog("Model call attempt %d failed, will retry: %v", attempt, err)
				return err
			}
			return backoff.Permanent(err)
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(ErrEmptyResponse)
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.retryWait
	retries := g.maxRetries
	if retries < 0 {
		retries = 0
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx))
	if err != nil {
		return "", fmt.Errorf("failed to generate text after %d attempts: %w", attempt, err)
	}
	return content, nil
}
