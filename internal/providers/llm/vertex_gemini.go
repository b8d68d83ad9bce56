package llm

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/yoockh/interviewiq/internal/providers"
)

const providerVertex = "vertex"

type VertexGemini struct {
	client    *vertexgenai.Client
	modelName string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName, credentialsFile string) (*VertexGemini, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	c, err := vertexgenai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &VertexGemini{client: c, modelName: modelName}, nil
}

func (v *VertexGemini) Name() string { return providerVertex }
func (v *VertexGemini) Close() error { return v.client.Close() }

// Complete builds a fresh model handle per call; GenerativeModel carries
// per-request settings and is not meant to be shared while mutated.
func (v *VertexGemini) Complete(ctx context.Context, in ChatRequest) (string, error) {
	m := v.client.GenerativeModel(v.modelName)
	m.SetTemperature(float32(in.Temperature))
	if in.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(in.MaxTokens))
	}
	if in.System != "" {
		m.SystemInstruction = &vertexgenai.Content{Parts: []vertexgenai.Part{vertexgenai.Text(in.System)}}
	}

	resp, err := m.GenerateContent(ctx, vertexgenai.Text(in.User))
	if err != nil {
		return "", providers.FromGRPC(providerVertex, err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		// first candidate with content is the answer
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", &providers.Error{Provider: providerVertex, Kind: providers.KindUpstream, Message: "empty response"}
	}
	return strings.TrimSpace(sb.String()), nil
}
