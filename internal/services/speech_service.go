package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/providers"
	"github.com/yoockh/interviewiq/internal/providers/tts"
	"github.com/yoockh/interviewiq/internal/repositories"
	"github.com/yoockh/interviewiq/internal/storage"
	"github.com/yoockh/interviewiq/internal/utils"
)

// MaxSpeechTextLength is counted in characters.
const MaxSpeechTextLength = 5000

type SynthesizeInput struct {
	Text      string
	SessionID string
}

type SynthesizedAudio struct {
	Audio       []byte
	ContentType string
	// StoredURL is what was written to the session: a generation marker or
	// an object URL. Empty when no session was updated.
	StoredURL string
	SessionID *string
}

// DataURI renders the audio for inline JSON responses.
func (a *SynthesizedAudio) DataURI() string {
	return "data:" + a.ContentType + ";base64," + base64.StdEncoding.EncodeToString(a.Audio)
}

type SpeechService interface {
	Synthesize(ctx context.Context, callerID string, in SynthesizeInput) (*SynthesizedAudio, error)
}

type speechService struct {
	tts      tts.Provider
	uploader storage.Uploader
	attach   sessionAttacher
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewSpeechService wires a synthesizer. provider may be nil when no audio
// backend is configured; uploader may be nil to store markers only.
func NewSpeechService(provider tts.Provider, uploader storage.Uploader, sessions repositories.InterviewRepository, log logrus.FieldLogger) SpeechService {
	return &speechService{
		tts:      provider,
		uploader: uploader,
		attach:   sessionAttacher{sessions: sessions, log: log},
		log:      log,
		now:      time.Now,
	}
}

func audioMarker(t time.Time) string {
	return fmt.Sprintf("audio_generated_%d", t.UnixMilli())
}

func audioObjectName(ownerID, sessionID string) string {
	return fmt.Sprintf("audio/%s/%s/%s.mp3", ownerID, sessionID, uuid.NewString())
}

func (s *speechService) Synthesize(ctx context.Context, callerID string, in SynthesizeInput) (*SynthesizedAudio, error) {
	const op = "SpeechService.Synthesize"

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Please provide text to convert to audio", nil)
	}
	if utf8.RuneCountInString(in.Text) > MaxSpeechTextLength {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Text is too long. Maximum 5000 characters allowed.", nil)
	}
	if s.tts == nil {
		return nil, audioFailure(op, providers.Unconfigured("tts", "no provider configured"))
	}

	audio, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		logProviderFailure(s.log, op, err)
		return nil, audioFailure(op, err)
	}

	out := &SynthesizedAudio{Audio: audio, ContentType: tts.ContentType}

	session, err := s.attach.resolve(ctx, op, callerID, strings.TrimSpace(in.SessionID))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return out, nil
	}

	stored := audioMarker(s.now())
	if s.uploader != nil {
		url, err := s.uploader.Upload(ctx, audioObjectName(session.OwnerID, session.ID), tts.ContentType, bytes.NewReader(audio))
		if err != nil {
			// the caller still gets the audio; the session keeps a marker
			s.log.WithFields(logrus.Fields{"op": op, "session_id": session.ID}).WithError(err).Warn("audio upload failed")
		} else {
			stored = url
		}
	}

	sessionID, err := s.attach.write(ctx, op, session.ID, models.SessionPatch{AudioURL: &stored})
	if err != nil {
		return nil, err
	}
	if sessionID != nil {
		out.StoredURL = stored
		out.SessionID = sessionID
	}
	return out, nil
}
