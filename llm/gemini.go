// Package llm wraps the Gemini generative model used to produce plain-language translations.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

var (
	ErrEmptyResponse = errors.New("model returned no text")
	ErrBlocked       = errors.New("model response blocked by safety filters")
)

const (
	defaultTemperature = 0.3
	defaultMaxRetries  = 3
	defaultBackoff     = time.Second
)

// DefaultSystemInstruction frames every translation request.
const DefaultSystemInstruction = "Você é um especialista em linguagem simples aplicada ao Direito brasileiro. " +
	"Reescreva textos jurídicos para cidadãos leigos, mantendo o sentido exato, " +
	"sem inventar fatos e sem omitir prazos, valores ou consequências."

// generator is the subset of *genai.GenerativeModel the translator calls.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiTranslator sends prompts to a Gemini model with bounded retries
type GeminiTranslator struct {
	gen               generator
	temperature       float32
	systemInstruction string
	maxRetries        int
	backoff           time.Duration
	logger            *zap.Logger
}

// GeminiOption is a functional option for GeminiTranslator
type GeminiOption func(*GeminiTranslator)

// GeminiWithTemperature sets the sampling temperature
func GeminiWithTemperature(t float32) GeminiOption {
	return func(g *GeminiTranslator) {
		g.temperature = t
	}
}

// GeminiWithSystemInstruction replaces DefaultSystemInstruction
func GeminiWithSystemInstruction(s string) GeminiOption {
	return func(g *GeminiTranslator) {
		g.systemInstruction = s
	}
}

// GeminiWithMaxRetries sets the number of attempts per request
func GeminiWithMaxRetries(n int) GeminiOption {
	return func(g *GeminiTranslator) {
		if n > 0 {
			g.maxRetries = n
		}
	}
}

// GeminiWithBackoff sets the delay before the first retry; it doubles after each attempt
func GeminiWithBackoff(d time.Duration) GeminiOption {
	return func(g *GeminiTranslator) {
		g.backoff = d
	}
}

// GeminiWithLogger sets the logger
func GeminiWithLogger(l *zap.Logger) GeminiOption {
	return func(g *GeminiTranslator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGeminiTranslator configures modelName on client
func NewGeminiTranslator(client *genai.Client, modelName string, opts ...GeminiOption) *GeminiTranslator {
	g := newTranslator(opts...)

	model := client.GenerativeModel(modelName)
	model.SetTemperature(g.temperature)
	if g.systemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(g.systemInstruction)},
		}
	}
	g.gen = model

	return g
}

func newTranslator(opts ...GeminiOption) *GeminiTranslator {
	g := &GeminiTranslator{
		temperature:       defaultTemperature,
		systemInstruction: DefaultSystemInstruction,
		maxRetries:        defaultMaxRetries,
		backoff:           defaultBackoff,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Translate sends prompt to the model and returns the generated text.
// Blocked responses and context cancellation are not retried.
func (g *GeminiTranslator) Translate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	backoff := g.backoff

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		text, err := g.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, ErrBlocked) {
			return "", err
		}

		lastErr = err
		g.logger.Warn("gemini generation attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", g.maxRetries),
			zap.Error(err),
		)
	}

	return "", fmt.Errorf("failed to generate content after %d attempts: %w", g.maxRetries, lastErr)
}

func (g *GeminiTranslator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.gen.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("%w: %v", ErrBlocked, err)
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	return responseText(resp)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("%w: prompt %s", ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: candidate finish reason %s", ErrBlocked, cand.FinishReason)
	}
	if cand.Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
