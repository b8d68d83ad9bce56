package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yoockh/interviewiq/internal/providers"
)

func TestElevenLabs_Synthesize(t *testing.T) {
	var got elevenLabsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/"+DefaultElevenLabsVoice {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "el-key" || r.Header.Get("Accept") != ContentType {
			t.Errorf("missing headers: %v", r.Header)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", ContentType)
		_, _ = w.Write([]byte("ID3fakeaudio"))
	}))
	defer srv.Close()

	audio, err := NewElevenLabs("el-key", srv.URL, "", "").Synthesize(context.Background(), "Tell me about yourself.")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "ID3fakeaudio" {
		t.Fatalf("unexpected audio %q", audio)
	}
	if got.ModelID != DefaultElevenLabsModel || got.VoiceSettings.Stability != 0.5 || got.VoiceSettings.SimilarityBoost != 0.75 {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestElevenLabs_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   providers.Kind
	}{
		{"auth", http.StatusUnauthorized, `{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`, providers.KindAuth},
		{"quota", http.StatusUnauthorized, `{"detail":{"status":"quota_exceeded","message":"This request exceeds your quota"}}`, providers.KindQuota},
		{"rate limit", http.StatusTooManyRequests, `{"detail":"Too many concurrent requests"}`, providers.KindRateLimit},
		{"upstream", http.StatusBadGateway, `bad gateway`, providers.KindUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewElevenLabs("el-key", srv.URL, "", "").Synthesize(context.Background(), "hi")
			if got := providers.KindOf(err); got != tt.want {
				t.Fatalf("kind = %s, want %s (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestElevenLabs_MissingKey(t *testing.T) {
	_, err := NewElevenLabs("", "", "", "").Synthesize(context.Background(), "hi")
	if providers.KindOf(err) != providers.KindUnconfigured {
		t.Fatalf("expected unconfigured, got %v", err)
	}
}

func TestOpenAISpeech_Synthesize(t *testing.T) {
	var got speechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte("mp3bytes"))
	}))
	defer srv.Close()

	audio, err := NewOpenAISpeech("sk-test", srv.URL, "", "").Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "mp3bytes" {
		t.Fatalf("unexpected audio %q", audio)
	}
	if got.Model != DefaultOpenAITTSModel || got.Voice != DefaultOpenAITTSVoice || got.ResponseFormat != "mp3" || got.Input != "hello" {
		t.Fatalf("unexpected request %+v", got)
	}
}
