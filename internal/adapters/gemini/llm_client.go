package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/ecosort/internal/core"
	"github.com/mikey/ecosort/internal/prompt"
)

// GeminiClient is an implementation of the Classifier interface using Google Gemini
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	// Constrain the model to structured output
	model.ResponseMIMEType = "application/json"

	return &GeminiClient{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify categorizes a waste item using the Gemini API
func (c *GeminiClient) Classify(ctx context.Context, subject core.Subject, dirty bool) (*core.ClassificationResult, error) {
	instr := prompt.Build(subject, dirty)

	parts := []genai.Part{genai.Text(instr.Text)}
	if len(instr.ImageData) > 0 {
		// The image travels as its own typed part, never inlined into the text
		parts = append(parts, genai.ImageData(imageFormat(instr.MimeType), instr.ImageData))
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		c.logger.Error("Gemini call failed", zap.Error(err), zap.String("model", c.modelName))
		return nil, fmt.Errorf("%w: %v", core.ErrOracleUnavailable, err)
	}

	responseText, err := c.extractText(resp)
	if err != nil {
		return nil, err
	}

	result, err := core.DecodeResult(responseText)
	if err != nil {
		c.logger.Error("Gemini reply violated the output contract",
			zap.Error(err),
			zap.String("model", c.modelName),
			zap.String("raw_response", responseText))
		return nil, err
	}

	return result, nil
}

// extractText pulls the reply text out of the first candidate, classifying
// blocked or empty replies as refusals
func (c *GeminiClient) extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		c.logger.Warn("Gemini blocked the prompt",
			zap.String("block_reason", resp.PromptFeedback.BlockReason.String()))
		return "", fmt.Errorf("%w: prompt blocked (%s)", core.ErrOracleRefusal, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response from Gemini", core.ErrOracleRefusal)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response withheld for safety", core.ErrOracleRefusal)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// imageFormat converts a media type like "image/jpeg" into the bare format
// name the Gemini SDK expects
func imageFormat(mimeType string) string {
	return strings.TrimPrefix(strings.ToLower(mimeType), "image/")
}
