package providers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFromHTTP(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   Kind
	}{
		{"openai quota", http.StatusTooManyRequests, "insufficient_quota", KindQuota},
		{"elevenlabs quota on 401", http.StatusUnauthorized, "quota_exceeded", KindQuota},
		{"rate limit", http.StatusTooManyRequests, "rate_limit_exceeded", KindRateLimit},
		{"bad key", http.StatusUnauthorized, "invalid_api_key", KindAuth},
		{"forbidden", http.StatusForbidden, "", KindAuth},
		{"server error", http.StatusBadGateway, "", KindUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromHTTP("openai", tt.status, tt.code, "boom")
			if got := KindOf(err); got != tt.want {
				t.Fatalf("KindOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFromGRPC(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{status.Error(codes.ResourceExhausted, "quota"), KindQuota},
		{status.Error(codes.Unauthenticated, "no creds"), KindAuth},
		{status.Error(codes.PermissionDenied, "denied"), KindAuth},
		{status.Error(codes.Internal, "oops"), KindUpstream},
		{errors.New("plain"), KindUpstream},
	}
	for _, tt := range tests {
		if got := KindOf(FromGRPC("vertex", tt.err)); got != tt.want {
			t.Errorf("FromGRPC(%v) kind = %s, want %s", tt.err, got, tt.want)
		}
	}
	if FromGRPC("vertex", nil) != nil {
		t.Fatal("nil error must stay nil")
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("generate: %w", Unconfigured("elevenlabs", "missing api key"))
	if KindOf(err) != KindUnconfigured {
		t.Fatalf("expected unconfigured through wrapping")
	}
	if NameOf(err) != "elevenlabs" {
		t.Fatalf("NameOf = %q", NameOf(err))
	}
	if KindOf(errors.New("x")) != KindUpstream || NameOf(errors.New("x")) != "" {
		t.Fatal("plain errors are upstream with no provider")
	}
}
