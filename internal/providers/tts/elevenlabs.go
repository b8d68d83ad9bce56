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
	DefaultElevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	DefaultElevenLabsVoice   = "EXAVITQu4vr4xnSDxMaL"
	DefaultElevenLabsModel   = "eleven_monolingual_v1"

	providerElevenLabs = "elevenlabs"
)

type ElevenLabs struct {
	apiKey  string
	baseURL string
	voiceID string
	modelID string
	client  *http.Client
}

func NewElevenLabs(apiKey, baseURL, voiceID, modelID string) *ElevenLabs {
	if baseURL == "" {
		baseURL = DefaultElevenLabsBaseURL
	}
	if voiceID == "" {
		voiceID = DefaultElevenLabsVoice
	}
	if modelID == "" {
		modelID = DefaultElevenLabsModel
	}
	return &ElevenLabs{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		voiceID: voiceID,
		modelID: modelID,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// elevenLabsError covers both shapes of "detail": an object with a status
// code, or a bare string.
type elevenLabsError struct {
	Detail json.RawMessage `json:"detail"`
}

func (e elevenLabsError) parse() (code, msg string) {
	var obj struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Detail, &obj); err == nil && (obj.Status != "" || obj.Message != "") {
		return obj.Status, obj.Message
	}
	var text string
	if err := json.Unmarshal(e.Detail, &text); err == nil {
		return "", text
	}
	return "", ""
}

func (e *ElevenLabs) Name() string { return providerElevenLabs }

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.apiKey == "" {
		return nil, providers.Unconfigured(providerElevenLabs, "missing api key")
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:          text,
		ModelID:       e.modelID,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", e.baseURL, e.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("Accept", ContentType)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &providers.Error{Provider: providerElevenLabs, Kind: providers.KindUpstream, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr elevenLabsError
		code, msg := "", strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &apiErr) == nil {
			if c, m := apiErr.parse(); c != "" || m != "" {
				code, msg = c, m
			}
		}
		return nil, providers.FromHTTP(providerElevenLabs, resp.StatusCode, code, msg)
	}
	if len(raw) == 0 {
		return nil, &providers.Error{Provider: providerElevenLabs, Kind: providers.KindUpstream, Message: "empty audio"}
	}
	return raw, nil
}
