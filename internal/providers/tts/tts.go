package tts

import "context"

// ContentType is the media type every synthesizer returns.
const ContentType = "audio/mpeg"

type Provider interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Name() string
}
