package services

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/providers"
	"github.com/yoockh/interviewiq/internal/providers/stt"
	"github.com/yoockh/interviewiq/internal/utils"
)

// MaxTranscriptionAudioBytes caps decoded audio for synchronous recognition.
const MaxTranscriptionAudioBytes = 10 << 20

type TranscribeInput struct {
	// Audio is base64, optionally with a data URI prefix.
	Audio    string
	Language string
}

type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
}

type TranscriptionService interface {
	Transcribe(ctx context.Context, callerID string, in TranscribeInput) (*Transcript, error)
}

type transcriptionService struct {
	stt stt.Provider
	log logrus.FieldLogger
}

// NewTranscriptionService accepts a nil provider when speech recognition is disabled.
func NewTranscriptionService(provider stt.Provider, log logrus.FieldLogger) TranscriptionService {
	return &transcriptionService{stt: provider, log: log}
}

func decodeAudio(s string) ([]byte, error) {
	raw := strings.TrimSpace(s)
	if strings.HasPrefix(raw, "data:") {
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:]
		}
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
}

func (s *transcriptionService) Transcribe(ctx context.Context, callerID string, in TranscribeInput) (*Transcript, error) {
	const op = "TranscriptionService.Transcribe"

	if strings.TrimSpace(in.Audio) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Please provide audio to transcribe", nil)
	}
	if s.stt == nil {
		return nil, transcriptionFailure(op, providers.Unconfigured("stt", "speech recognition disabled"))
	}

	audio, err := decodeAudio(in.Audio)
	if err != nil || len(audio) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Audio must be base64 encoded", err)
	}
	if len(audio) > MaxTranscriptionAudioBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Audio is too large. Maximum 10 MB allowed.", nil)
	}

	lang := stt.NormalizeLanguage(in.Language)
	text, conf, err := s.stt.Transcribe(ctx, audio, lang)
	if err != nil {
		logProviderFailure(s.log.WithField("user_id", callerID), op, err)
		return nil, transcriptionFailure(op, err)
	}
	return &Transcript{Text: text, Confidence: conf, Language: lang}, nil
}
