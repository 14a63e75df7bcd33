package memes

import (
	"context"
	"encoding/json"

	"github.com/griefbot/memeforge/internal/client"
	"github.com/griefbot/memeforge/pkg/api"
)

type (
	// Generator calls a structured-generation service: it sends a prompt
	// and receives a JSON value targeting a declared shape. The response
	// is decoded into pipeline vocabulary before a step ever sees it
	Generator struct {
		caller   client.Caller
		endpoint string
		model    string
	}

	chatRequest struct {
		ResponseFormat responseFormat `json:"response_format"`
		Model          string         `json:"model"`
		Messages       []chatMessage  `json:"messages"`
	}

	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	responseFormat struct {
		Type string `json:"type"`
	}

	chatResponse struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
)

// NewGenerator creates a generation adapter against an OpenAI-compatible
// chat-completions endpoint
func NewGenerator(caller client.Caller, endpoint, model string) *Generator {
	return &Generator{
		caller:   caller,
		endpoint: endpoint,
		model:    model,
	}
}

// Generate sends the system and user prompts and decodes the JSON object
// the service produces. A syntactically broken payload is a service-level
// failure; the transport layer has already vouched for delivery
func (g *Generator) Generate(
	ctx context.Context, system, user string,
) (api.Args, error) {
	req := &chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	var resp chatResponse
	if err := g.caller.Post(ctx, g.endpoint, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, client.NewServiceError(
			"generation service returned no choices",
		)
	}

	var value map[string]any
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &value); err != nil {
		return nil, client.NewServiceError(
			"generation service returned a non-JSON payload",
		)
	}

	res := make(api.Args, len(value))
	for k, v := range value {
		res[api.Name(k)] = v
	}
	return res, nil
}
