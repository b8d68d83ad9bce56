package services

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/interviewiq/internal/providers/llm"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []llm.ChatRequest
}

func (f *fakeLLM) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeTTS struct {
	audio []byte
	err   error
	texts []string
}

func (f *fakeTTS) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.texts = append(f.texts, text)
	return f.audio, f.err
}

func (f *fakeTTS) Name() string { return "fake" }

type fakeUploader struct {
	names []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.ReadAll(r)
	f.names = append(f.names, objectName)
	return "https://storage.googleapis.com/bucket/" + objectName, nil
}

type fakeSTT struct {
	text     string
	conf     float64
	err      error
	gotAudio []byte
	gotLang  string
}

func (f *fakeSTT) Transcribe(_ context.Context, audio []byte, language string) (string, float64, error) {
	f.gotAudio, f.gotLang = audio, language
	return f.text, f.conf, f.err
}

func (f *fakeSTT) Close() error { return nil }
