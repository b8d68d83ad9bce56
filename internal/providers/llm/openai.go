package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yoockh/interviewiq/internal/providers"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-3.5-turbo"

	providerOpenAI = "openai"
)

type OpenAIChat struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAIChat(apiKey, baseURL, model string) *OpenAIChat {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIChat{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *APIError `json:"error,omitempty"`
}

// APIError is the error object OpenAI returns on non-2xx responses.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func (c *OpenAIChat) Name() string { return providerOpenAI }
func (c *OpenAIChat) Close() error { return nil }

func (c *OpenAIChat) Complete(ctx context.Context, in ChatRequest) (string, error) {
	if c.apiKey == "" {
		return "", providers.Unconfigured(providerOpenAI, "missing api key")
	}

	msgs := make([]chatMessage, 0, 2)
	if in.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: in.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: in.User})

	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: in.Temperature,
		MaxTokens:   in.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &providers.Error{Provider: providerOpenAI, Kind: providers.KindUpstream, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var out chatCompletionResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		code, msg := "", strings.TrimSpace(string(raw))
		if out.Error != nil {
			code, msg = out.Error.Code, out.Error.Message
			if code == "" {
				code = out.Error.Type
			}
		}
		return "", providers.FromHTTP(providerOpenAI, resp.StatusCode, code, msg)
	}
	if out.Error != nil {
		return "", providers.FromHTTP(providerOpenAI, resp.StatusCode, out.Error.Code, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", &providers.Error{Provider: providerOpenAI, Kind: providers.KindUpstream, Message: "no choices returned"}
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
