package tts

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
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
	DefaultOpenAITTSModel = "gpt-4o-mini-tts"
	DefaultOpenAITTSVoice = "alloy"

	providerOpenAI = "openai"
)

// OpenAISpeech calls the /audio/speech endpoint with the same account key
// the chat client uses.
type OpenAISpeech struct {
	apiKey  string
	baseURL string
	model   string
	voice   string
	client  *http.Client
}

func NewOpenAISpeech(apiKey, baseURL, model, voice string) *OpenAISpeech {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultOpenAITTSModel
	}
	if voice == "" {
		voice = DefaultOpenAITTSVoice
	}
	return &OpenAISpeech{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		voice:   voice,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

func (o *OpenAISpeech) Name() string { return providerOpenAI }

func (o *OpenAISpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if o.apiKey == "" {
		return nil, providers.Unconfigured(providerOpenAI, "missing api key")
	}

	body, err := json.Marshal(speechRequest{Model: o.model, Voice: o.voice, Input: text, ResponseFormat: "mp3"})
	if err != nil {
		return nil, fmt.Errorf("marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, &providers.Error{Provider: providerOpenAI, Kind: providers.KindUpstream, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var out struct {
			Error *struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			} `json:"error"`
		}
		code, msg := "", strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &out) == nil && out.Error != nil {
			code, msg = out.Error.Code, out.Error.Message
			if code == "" {
				code = out.Error.Type
			}
		}
		return nil, providers.FromHTTP(providerOpenAI, resp.StatusCode, code, msg)
	}
	return raw, nil
}
