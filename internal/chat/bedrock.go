package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/rachit/chat-backend/internal/models"
)

// Fixed generation configuration for every inference call.
const (
	maxTokens   = 300
	temperature = 0.7
	topP        = 0.9
)

// BedrockAPI is the subset of the Bedrock runtime client used here.
type BedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Nova messages schema.

type novaContent struct {
	Text string `json:"text"`
}

type novaMessage struct {
	Role    string        `json:"role"`
	Content []novaContent `json:"content"`
}

type novaInferenceConfig struct {
	MaxTokens     int      `json:"maxTokens"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"topP"`
	StopSequences []string `json:"stopSequences"`
}

type novaRequest struct {
	Messages        []novaMessage       `json:"messages"`
	InferenceConfig novaInferenceConfig `json:"inferenceConfig"`
}

type novaResponse struct {
	Output struct {
		Message struct {
			Content []novaContent `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

// NovaClient invokes an Amazon Nova model on Bedrock.
type NovaClient struct {
	api     BedrockAPI
	modelID string
}

func NewNovaClient(api BedrockAPI, modelID string) *NovaClient {
	return &NovaClient{api: api, modelID: modelID}
}

// Generate flattens the prior turns into an alternating user/assistant
// message sequence, appends the new user message last, and returns the
// model's single reply text.
func (c *NovaClient) Generate(ctx context.Context, history []models.Turn, userMessage string) (string, error) {
	messages := make([]novaMessage, 0, 2*len(history)+1)
	for _, turn := range history {
		messages = append(messages,
			novaMessage{Role: "user", Content: []novaContent{{Text: turn.User}}},
			novaMessage{Role: "assistant", Content: []novaContent{{Text: turn.Assistant}}},
		)
	}
	messages = append(messages, novaMessage{Role: "user", Content: []novaContent{{Text: userMessage}}})

	body, err := json.Marshal(novaRequest{
		Messages: messages,
		InferenceConfig: novaInferenceConfig{
			MaxTokens:     maxTokens,
			Temperature:   temperature,
			TopP:          topP,
			StopSequences: []string{},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal bedrock request: %w", err)
	}

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("invoke model %s: %w", c.modelID, err)
	}

	var resp novaResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode bedrock response: %w", err)
	}
	if len(resp.Output.Message.Content) == 0 {
		return "", fmt.Errorf("bedrock response from %s contained no content", c.modelID)
	}
	return resp.Output.Message.Content[0].Text, nil
}
