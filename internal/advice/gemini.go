package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/andresuchdata/stockroom/pkg/logger"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiAdvisor generates advice with the Gemini API.
type GeminiAdvisor struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

var _ Advisor = (*GeminiAdvisor)(nil)

// NewGeminiAdvisor creates an advisor. With an empty apiKey the advisor is
// still usable but every call fails with ErrMissingAPIKey.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiAdvisor, error) {
	if model == "" {
		model = DefaultModel
	}

	a := &GeminiAdvisor{model: model, timeout: timeout}
	if apiKey == "" {
		logger.Log.Warn().Msg("GEMINI_API_KEY not set, advice will be unavailable")
		return a, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	a.client = client

	return a, nil
}

func (a *GeminiAdvisor) GenerateAdvice(ctx context.Context, prompt string, contextData interface{}, systemOverride string) (string, error) {
	if a.client == nil {
		return "", ErrMissingAPIKey
	}

	systemPrompt := systemOverride
	if systemPrompt == "" {
		var err error
		systemPrompt, err = SystemPrompt(contextData)
		if err != nil {
			return "", err
		}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		},
	}

	start := time.Now()
	result, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), config)
	if err != nil {
		logger.Log.Error().Err(err).Str("model", a.model).Msg("gemini generation failed")
		if isAPIError(err) {
			return "", fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}

	logger.Log.Debug().
		Str("model", a.model).
		Dur("latency", time.Since(start)).
		Int("chars", len(text)).
		Msg("gemini advice generated")

	return text, nil
}

func isAPIError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return true
	}
	var apiErrPtr *genai.APIError
	return errors.As(err, &apiErrPtr)
}
