package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/ecosort/internal/core"
	"github.com/mikey/ecosort/internal/prompt"
)

// OpenAIClient is an implementation of the Classifier interface using OpenAI
type OpenAIClient struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *OpenAIClient {
	client := openai.NewClient(apiKey)

	return &OpenAIClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Classify categorizes a waste item using the OpenAI chat completions API
func (c *OpenAIClient) Classify(ctx context.Context, subject core.Subject, dirty bool) (*core.ClassificationResult, error) {
	instr := prompt.Build(subject, dirty)

	userMessage := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(instr.ImageData) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s",
			instr.MimeType, base64.StdEncoding.EncodeToString(instr.ImageData))
		userMessage.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: instr.Text},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
			},
		}
	} else {
		userMessage.Content = instr.Text
	}

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a waste classification system. Respond only with JSON.",
			},
			userMessage,
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("OpenAI call failed", zap.Error(err), zap.String("model", c.modelName))
		return nil, fmt.Errorf("%w: %v", core.ErrOracleUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response from OpenAI", core.ErrOracleRefusal)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return nil, fmt.Errorf("%w: response withheld by content filter", core.ErrOracleRefusal)
	}

	result, err := core.DecodeResult(choice.Message.Content)
	if err != nil {
		c.logger.Error("OpenAI reply violated the output contract",
			zap.Error(err),
			zap.String("model", c.modelName),
			zap.String("raw_response", choice.Message.Content))
		return nil, err
	}

	return result, nil
}
