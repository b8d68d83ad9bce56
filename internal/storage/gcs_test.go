package storage

import "testing"

func TestObjectURL(t *testing.T) {
	got := ObjectURL("iq-audio", "audio/u1/s1/a.mp3")
	if got != "https://storage.googleapis.com/iq-audio/audio/u1/s1/a.mp3" {
		t.Fatalf("ObjectURL = %q", got)
	}
}
