package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names an optional YAML file loaded before environment overrides.
const ConfigPathEnv = "INTERVIEWIQ_CONFIG"

type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Auth   AuthConfig   `yaml:"auth"`
	LLM    LLMConfig    `yaml:"llm"`
	Audio  AudioConfig  `yaml:"audio"`
	STT    STTConfig    `yaml:"stt"`

	GoogleCredentialsFile string `yaml:"google_credentials_file"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	GinMode         string        `yaml:"gin_mode"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	Driver      string        `yaml:"driver"` // mongo|postgres|memory
	MongoURI    string        `yaml:"mongo_uri"`
	MongoDB     string        `yaml:"mongo_db"`
	PostgresURI string        `yaml:"postgres_uri"`
	RedisURL    string        `yaml:"redis_url"` // empty disables the cache
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	JWTAudience string `yaml:"jwt_audience"`
}

type LLMConfig struct {
	Provider       string `yaml:"provider"` // openai|vertex
	OpenAIAPIKey   string `yaml:"openai_api_key"`
	OpenAIBaseURL  string `yaml:"openai_base_url"`
	OpenAIModel    string `yaml:"openai_model"`
	VertexProject  string `yaml:"vertex_project"`
	VertexLocation string `yaml:"vertex_location"`
	VertexModel    string `yaml:"vertex_model"`
}

type AudioConfig struct {
	TTSProvider       string `yaml:"tts_provider"` // elevenlabs|openai
	ElevenLabsAPIKey  string `yaml:"elevenlabs_api_key"`
	ElevenLabsVoiceID string `yaml:"elevenlabs_voice_id"`
	ElevenLabsModel   string `yaml:"elevenlabs_model"`
	OpenAITTSModel    string `yaml:"openai_tts_model"`
	OpenAITTSVoice    string `yaml:"openai_tts_voice"`
	Response          string `yaml:"response"` // inline|binary
	Bucket            string `yaml:"bucket"`
	PublicObjects     bool   `yaml:"public_objects"`
}

type STTConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Encoding     string `yaml:"encoding"` // linear16|webm_opus|ogg_opus
	SampleRateHz int    `yaml:"sample_rate_hz"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "release",
			LogLevel:        "info",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:   "mongo",
			MongoDB:  "interviewiq",
			CacheTTL: 5 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:       "openai",
			OpenAIBaseURL:  "https://api.openai.com/v1",
			OpenAIModel:    "gpt-3.5-turbo",
			VertexLocation: "us-central1",
			VertexModel:    "gemini-1.5-flash",
		},
		Audio: AudioConfig{
			TTSProvider:       "elevenlabs",
			ElevenLabsVoiceID: "EXAVITQu4vr4xnSDxMaL",
			ElevenLabsModel:   "eleven_monolingual_v1",
			OpenAITTSModel:    "gpt-4o-mini-tts",
			OpenAITTSVoice:    "alloy",
			Response:          "inline",
		},
		STT: STTConfig{
			Encoding:     "linear16",
			SampleRateHz: 16000,
		},
	}
}

// Load reads .env (if present), the optional YAML file, then environment
// variables, and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv(ConfigPathEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.Port, "PORT")
	overrideString(&cfg.Server.GinMode, "GIN_MODE")
	overrideString(&cfg.Server.LogLevel, "LOG_LEVEL")
	overrideDuration(&cfg.Server.ShutdownTimeout, "SHUTDOWN_TIMEOUT")

	overrideString(&cfg.Store.Driver, "STORE_DRIVER")
	overrideString(&cfg.Store.MongoURI, "MONGO_URI")
	overrideString(&cfg.Store.MongoDB, "MONGO_DB")
	overrideString(&cfg.Store.PostgresURI, "POSTGRES_URI")
	overrideString(&cfg.Store.RedisURL, "REDIS_URL")
	overrideDuration(&cfg.Store.CacheTTL, "CACHE_TTL")

	overrideString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.Auth.JWTIssuer, "JWT_ISSUER")
	overrideString(&cfg.Auth.JWTAudience, "JWT_AUDIENCE")

	overrideString(&cfg.LLM.Provider, "LLM_PROVIDER")
	overrideString(&cfg.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	overrideString(&cfg.LLM.OpenAIBaseURL, "OPENAI_BASE_URL")
	overrideString(&cfg.LLM.OpenAIModel, "OPENAI_MODEL")
	overrideString(&cfg.LLM.VertexProject, "VERTEX_PROJECT")
	overrideString(&cfg.LLM.VertexLocation, "VERTEX_LOCATION")
	overrideString(&cfg.LLM.VertexModel, "VERTEX_MODEL")

	overrideString(&cfg.Audio.TTSProvider, "TTS_PROVIDER")
	overrideString(&cfg.Audio.ElevenLabsAPIKey, "ELEVENLABS_API_KEY")
	overrideString(&cfg.Audio.ElevenLabsVoiceID, "ELEVENLABS_VOICE_ID")
	overrideString(&cfg.Audio.ElevenLabsModel, "ELEVENLABS_MODEL")
	overrideString(&cfg.Audio.OpenAITTSModel, "OPENAI_TTS_MODEL")
	overrideString(&cfg.Audio.OpenAITTSVoice, "OPENAI_TTS_VOICE")
	overrideString(&cfg.Audio.Response, "AUDIO_RESPONSE")
	overrideString(&cfg.Audio.Bucket, "AUDIO_BUCKET")
	overrideBool(&cfg.Audio.PublicObjects, "AUDIO_PUBLIC_OBJECTS")

	overrideBool(&cfg.STT.Enabled, "STT_ENABLED")
	overrideString(&cfg.STT.Encoding, "STT_ENCODING")
	overrideInt(&cfg.STT.SampleRateHz, "STT_SAMPLE_RATE_HZ")

	overrideString(&cfg.GoogleCredentialsFile, "GOOGLE_CREDENTIALS_FILE")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

func overrideDuration(target *time.Duration, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, "|"), value)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}

	if err := oneOf("STORE_DRIVER", c.Store.Driver, "mongo", "postgres", "memory"); err != nil {
		errs = append(errs, err)
	}
	switch c.Store.Driver {
	case "mongo":
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	case "postgres":
		if c.Store.PostgresURI == "" {
			errs = append(errs, errors.New("POSTGRES_URI is required for the postgres store"))
		}
	}

	if err := oneOf("LLM_PROVIDER", c.LLM.Provider, "openai", "vertex"); err != nil {
		errs = append(errs, err)
	}
	if c.LLM.Provider == "vertex" && c.LLM.VertexProject == "" {
		errs = append(errs, errors.New("VERTEX_PROJECT is required for the vertex provider"))
	}
	if err := oneOf("TTS_PROVIDER", c.Audio.TTSProvider, "elevenlabs", "openai"); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("AUDIO_RESPONSE", c.Audio.Response, "inline", "binary"); err != nil {
		errs = append(errs, err)
	}
	if c.STT.Enabled {
		if err := oneOf("STT_ENCODING", c.STT.Encoding, "linear16", "webm_opus", "ogg_opus"); err != nil {
			errs = append(errs, err)
		}
		if c.STT.SampleRateHz <= 0 {
			errs = append(errs, errors.New("STT_SAMPLE_RATE_HZ must be positive"))
		}
	}

	return errors.Join(errs...)
}
