package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ModelInvoker sends a prompt to a generative model and returns its raw text
// output. Implementations own their retry and timeout policy; the analyzer
// treats every failure as opaque.
type ModelInvoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// ModelInvokerFunc adapts a function to the ModelInvoker interface
type ModelInvokerFunc func(ctx context.Context, prompt string) (string, error)

// Invoke calls f(ctx, prompt)
func (f ModelInvokerFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

const (
	defaultGeminiModel = "gemini-2.0-flash"
	maxRetries         = 3
	initialBackoff     = time.Second
	maxPromptChars     = 30000
)

var ErrEmptyModelResponse = errors.New("model returned empty content")

// GeminiInvoker implements ModelInvoker on the Gemini API. The API key is
// supplied at construction; nothing in the request path reads the process
// environment.
type GeminiInvoker struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiInvoker creates a Gemini-backed invoker. modelName may be empty,
// in which case the default flash model is used.
func NewGeminiInvoker(ctx context.Context, apiKey, modelName string) (*GeminiInvoker, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Low temperature keeps the structured-output contract stable
	model.SetTemperature(0.2)

	return &GeminiInvoker{
		client: client,
		model:  model,
	}, nil
}

// Close releases the underlying client
func (g *GeminiInvoker) Close() error {
	return g.client.Close()
}

// Invoke sends the prompt to Gemini with retry and exponential backoff.
// Transient failures are retried up to maxRetries times; the last error is
// returned if all attempts fail.
func (g *GeminiInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	// Truncate to stay under the model context limit
	if len(prompt) > maxPromptChars {
		log.Printf("Warning: Prompt too long (%d chars), truncating to %d chars", len(prompt), maxPromptChars)
		prompt = prompt[:maxPromptChars] + "\n\n[Content truncated due to length...]"
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			backoff *= 2
		}

		resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			continue
		}

		text, err := candidateText(resp)
		if err != nil {
			lastErr = err
			continue
		}

		return text, nil
	}

	return "", fmt.Errorf("gemini request failed after %d attempts: %w", maxRetries, lastErr)
}

// candidateText flattens the text parts of a generation response
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("model returned no candidates")
	}

	var builder strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}

	if builder.Len() == 0 {
		return "", ErrEmptyModelResponse
	}

	return builder.String(), nil
}
