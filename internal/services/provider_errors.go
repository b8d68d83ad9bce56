package services

import (
	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/providers"
	"github.com/yoockh/interviewiq/internal/utils"
)

const (
	msgAIUnavailable        = "AI service temporarily unavailable. Please try again later."
	msgAudioNotConfigured   = "Audio service not configured"
	msgAudioAuthFailed      = "Audio service authentication failed"
	msgAudioRateLimited     = "Audio service rate limit exceeded. Please try again later."
	msgAudioQuotaExceeded   = "Audio service quota exceeded"
	msgTranscriptionOff     = "Transcription service not configured"
	msgTranscriptionFailing = "Transcription service temporarily unavailable. Please try again later."
)

func logProviderFailure(log logrus.FieldLogger, op string, err error) {
	log.WithFields(logrus.Fields{
		"op":       op,
		"provider": providers.NameOf(err),
		"kind":     providers.KindOf(err).String(),
	}).WithError(err).Warn("provider call failed")
}

// aiFailure maps a chat-completion failure onto the response contract.
func aiFailure(op string, err error) error {
	switch providers.KindOf(err) {
	case providers.KindQuota, providers.KindRateLimit, providers.KindAuth, providers.KindUnconfigured:
		return utils.E(utils.CodeUnavailable, op, msgAIUnavailable, err)
	}
	return utils.E(utils.CodeInternal, op, "ai request failed", err)
}

func audioFailure(op string, err error) error {
	switch providers.KindOf(err) {
	case providers.KindUnconfigured:
		return utils.E(utils.CodeUnavailable, op, msgAudioNotConfigured, err)
	case providers.KindAuth:
		return utils.E(utils.CodeUnavailable, op, msgAudioAuthFailed, err)
	case providers.KindRateLimit:
		return utils.E(utils.CodeUnavailable, op, msgAudioRateLimited, err)
	case providers.KindQuota:
		return utils.E(utils.CodeUnavailable, op, msgAudioQuotaExceeded, err)
	}
	return utils.E(utils.CodeInternal, op, "audio synthesis failed", err)
}

func transcriptionFailure(op string, err error) error {
	switch providers.KindOf(err) {
	case providers.KindUnconfigured:
		return utils.E(utils.CodeUnavailable, op, msgTranscriptionOff, err)
	case providers.KindQuota, providers.KindRateLimit, providers.KindAuth:
		return utils.E(utils.CodeUnavailable, op, msgTranscriptionFailing, err)
	}
	return utils.E(utils.CodeInternal, op, "transcription failed", err)
}
