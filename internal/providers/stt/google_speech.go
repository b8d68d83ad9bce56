package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/yoockh/interviewiq/internal/providers"
)

const providerGoogleSpeech = "google_speech"

type GoogleSpeech struct {
	c *speech.Client

	Encoding     speechpb.RecognitionConfig_AudioEncoding
	SampleRateHz int32
}

// ParseEncoding accepts the configuration spelling of an audio encoding.
func ParseEncoding(s string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "webm_opus":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	case "ogg_opus":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	}
	return 0, fmt.Errorf("unsupported audio encoding %q", s)
}

func NewGoogleSpeech(ctx context.Context, encoding string, sampleRateHz int32, credentialsFile string) (*GoogleSpeech, error) {
	enc, err := ParseEncoding(encoding)
	if err != nil {
		return nil, err
	}
	if sampleRateHz <= 0 {
		sampleRateHz = 16000
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{
		c:            c,
		Encoding:     enc,
		SampleRateHz: sampleRateHz,
	}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) config(language string) *speechpb.RecognitionConfig {
	cfg := &speechpb.RecognitionConfig{
		Encoding:                   g.Encoding,
		LanguageCode:               NormalizeLanguage(language),
		EnableAutomaticPunctuation: true,
	}
	// opus containers carry their own rate
	if g.Encoding == speechpb.RecognitionConfig_LINEAR16 {
		cfg.SampleRateHertz = g.SampleRateHz
	}
	return cfg
}

func (g *GoogleSpeech) Transcribe(ctx context.Context, audio []byte, language string) (string, float64, error) {
	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: g.config(language),
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", 0, providers.FromGRPC(providerGoogleSpeech, err)
	}
	return bestAlternative(resp.Results)
}

// bestAlternative joins the top alternative of each result; results are
// consecutive segments of the same utterance.
func bestAlternative(results []*speechpb.SpeechRecognitionResult) (string, float64, error) {
	var parts []string
	var confSum float64
	var n int
	for _, r := range results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		if t := strings.TrimSpace(alt.Transcript); t != "" {
			parts = append(parts, t)
			confSum += float64(alt.Confidence)
			n++
		}
	}
	if n == 0 {
		return "", 0, nil
	}
	return strings.Join(parts, " "), confSum / float64(n), nil
}
