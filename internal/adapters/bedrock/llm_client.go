package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/ecosort/internal/core"
	"github.com/mikey/ecosort/internal/prompt"
)

// BedrockClient is an implementation of the Classifier interface using Amazon Bedrock
type BedrockClient struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Classify categorizes a waste item by invoking a Bedrock-hosted model
func (c *BedrockClient) Classify(ctx context.Context, subject core.Subject, dirty bool) (*core.ClassificationResult, error) {
	instr := prompt.Build(subject, dirty)

	if len(instr.ImageData) > 0 && !c.isAnthropicModel() {
		return nil, fmt.Errorf("%w: model %s does not accept image input", core.ErrInvalidInput, c.modelID)
	}

	payload, err := c.buildPayload(instr)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		c.logger.Error("Bedrock call failed", zap.Error(err), zap.String("model_id", c.modelID))
		return nil, fmt.Errorf("%w: %v", core.ErrOracleUnavailable, err)
	}

	responseText, err := c.extractText(resp.Body)
	if err != nil {
		return nil, err
	}

	result, err := core.DecodeResult(responseText)
	if err != nil {
		c.logger.Error("Bedrock reply violated the output contract",
			zap.Error(err),
			zap.String("model_id", c.modelID),
			zap.String("raw_response", responseText))
		return nil, err
	}

	return result, nil
}

// buildPayload creates the request body for the model family
func (c *BedrockClient) buildPayload(instr prompt.Instruction) ([]byte, error) {
	if c.isAnthropicModel() {
		// Anthropic Claude models (messages API)
		content := []map[string]any{}
		if len(instr.ImageData) > 0 {
			content = append(content, map[string]any{
				"type": "image",
				"source": map[string]any{
					"type":       "base64",
					"media_type": instr.MimeType,
					"data":       base64.StdEncoding.EncodeToString(instr.ImageData),
				},
			})
		}
		content = append(content, map[string]any{
			"type": "text",
			"text": instr.Text,
		})

		return json.Marshal(map[string]any{
			"anthropic_version": "bedrock-2023-05-31",
			"max_tokens":        c.maxTokens,
			"temperature":       c.temperature,
			"top_p":             c.topP,
			"messages": []map[string]any{
				{"role": "user", "content": content},
			},
		})
	}

	if c.isAmazonTitanModel() {
		// Amazon Titan models
		return json.Marshal(map[string]any{
			"inputText": instr.Text,
			"textGenerationConfig": map[string]any{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	}

	// Default to a generic format
	return json.Marshal(map[string]any{
		"prompt":      instr.Text,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"top_p":       c.topP,
	})
}

// extractText pulls the reply text out of the model-family-specific body
func (c *BedrockClient) extractText(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			StopReason string `json:"stop_reason"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("%w: unparseable Claude response: %v", core.ErrOracleContract, err)
		}
		if len(claudeResp.Content) == 0 {
			return "", fmt.Errorf("%w: empty response from Claude model", core.ErrOracleRefusal)
		}
		var sb strings.Builder
		for _, block := range claudeResp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return sb.String(), nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("%w: unparseable Titan response: %v", core.ErrOracleContract, err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("%w: empty response from Titan model", core.ErrOracleRefusal)
		}
		return titanResp.Results[0].OutputText, nil
	}

	// Try a generic approach
	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("%w: unparseable response: %v", core.ErrOracleContract, err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	}
	return string(body), nil
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
