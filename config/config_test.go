package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		ConfigPathEnv, "PORT", "GIN_MODE", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "STORE_DRIVER", "MONGO_URI", "MONGO_DB",
		"POSTGRES_URI", "REDIS_URL", "CACHE_TTL", "JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE",
		"LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "VERTEX_PROJECT",
		"VERTEX_LOCATION", "VERTEX_MODEL", "TTS_PROVIDER", "ELEVENLABS_API_KEY", "ELEVENLABS_VOICE_ID",
		"ELEVENLABS_MODEL", "OPENAI_TTS_MODEL", "OPENAI_TTS_VOICE", "AUDIO_RESPONSE", "AUDIO_BUCKET",
		"AUDIO_PUBLIC_OBJECTS", "STT_ENABLED", "STT_ENCODING", "STT_SAMPLE_RATE_HZ", "GOOGLE_CREDENTIALS_FILE",
	} {
		t.Setenv(k, "")
	}
	// keep godotenv from picking up a developer's .env
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Store.Driver != "mongo" || cfg.Store.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.LLM.OpenAIModel != "gpt-3.5-turbo" || cfg.Audio.ElevenLabsVoiceID != "EXAVITQu4vr4xnSDxMaL" || cfg.Audio.Response != "inline" {
		t.Fatalf("unexpected provider defaults %+v", cfg)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "interviewiq.yaml")
	yml := `
server:
  port: "9000"
store:
  driver: postgres
  postgres_uri: postgres://localhost/iq
  cache_ttl: 90s
auth:
  jwt_secret: from-file
audio:
  tts_provider: openai
  response: binary
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnv, path)
	t.Setenv("PORT", "9100")
	t.Setenv("STT_ENABLED", "true")
	t.Setenv("STT_ENCODING", "webm_opus")
	t.Setenv("STT_SAMPLE_RATE_HZ", "48000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9100" {
		t.Fatalf("env must override file, port = %s", cfg.Server.Port)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.CacheTTL != 90*time.Second || cfg.Auth.JWTSecret != "from-file" {
		t.Fatalf("file values not applied %+v", cfg)
	}
	if cfg.Audio.TTSProvider != "openai" || cfg.Audio.Response != "binary" {
		t.Fatalf("audio config %+v", cfg.Audio)
	}
	if !cfg.STT.Enabled || cfg.STT.Encoding != "webm_opus" || cfg.STT.SampleRateHz != 48000 {
		t.Fatalf("stt config %+v", cfg.STT)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok memory", func(c *Config) { c.Store.Driver = "memory" }, ""},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "JWT_SECRET"},
		{"mongo without uri", func(c *Config) { c.Store.Driver = "mongo" }, "MONGO_URI"},
		{"postgres without uri", func(c *Config) { c.Store.Driver = "postgres" }, "POSTGRES_URI"},
		{"bad driver", func(c *Config) { c.Store.Driver = "sqlite" }, "STORE_DRIVER"},
		{"vertex without project", func(c *Config) { c.LLM.Provider = "vertex" }, "VERTEX_PROJECT"},
		{"bad tts", func(c *Config) { c.Audio.TTSProvider = "polly" }, "TTS_PROVIDER"},
		{"bad response", func(c *Config) { c.Audio.Response = "stream" }, "AUDIO_RESPONSE"},
		{"bad stt encoding", func(c *Config) { c.STT.Enabled = true; c.STT.Encoding = "flac" }, "STT_ENCODING"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.JWTSecret = "s"
			cfg.Store.Driver = "memory"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestRedisOptions(t *testing.T) {
	opt, err := redisOptions("redis://:pw@cache:6380/2")
	if err != nil {
		t.Fatal(err)
	}
	if opt.Addr != "cache:6380" || opt.Password != "pw" || opt.DB != 2 {
		t.Fatalf("parsed %+v", opt)
	}
	opt, _ = redisOptions("localhost:6379")
	if opt.Addr != "localhost:6379" {
		t.Fatalf("bare addr %+v", opt)
	}
}
