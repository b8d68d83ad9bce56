package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yoockh/interviewiq/config"
	"github.com/yoockh/interviewiq/internal/cache"
	"github.com/yoockh/interviewiq/internal/providers/llm"
	"github.com/yoockh/interviewiq/internal/providers/stt"
	"github.com/yoockh/interviewiq/internal/providers/tts"
	"github.com/yoockh/interviewiq/internal/repositories"
	"github.com/yoockh/interviewiq/internal/repositories/memory"
	mongorepo "github.com/yoockh/interviewiq/internal/repositories/mongo"
	pgrepo "github.com/yoockh/interviewiq/internal/repositories/postgres"
	"github.com/yoockh/interviewiq/internal/storage"
)

type closer struct {
	name string
	fn   func() error
}

func closeAll(log logrus.FieldLogger, cs []closer) {
	for i := len(cs) - 1; i >= 0; i-- {
		if err := cs[i].fn(); err != nil {
			log.WithError(err).WithField("component", cs[i].name).Warn("close failed")
		}
	}
}

type store struct {
	sessions     repositories.InterviewRepository
	health       func(ctx context.Context) error
	ensureSchema func(ctx context.Context) error
	closers      []closer
}

func (s *store) close(log logrus.FieldLogger) { closeAll(log, s.closers) }

func openStore(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*store, error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, err := config.NewMongo(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		log.Info("MongoDB connected")
		db := client.Database(cfg.Store.MongoDB)
		return &store{
			sessions:     mongorepo.NewInterviewRepo(db),
			health:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
			ensureSchema: func(ctx context.Context) error { return config.EnsureMongoIndexes(ctx, db) },
			closers:      []closer{{"mongo", func() error { return client.Disconnect(context.Background()) }}},
		}, nil

	case "postgres":
		db, err := config.NewPostgres(cfg.Store.PostgresURI)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info("PostgreSQL connected")
		return &store{
			sessions:     pgrepo.NewInterviewRepo(db),
			health:       func(ctx context.Context) error { return pingGorm(ctx, db) },
			ensureSchema: func(ctx context.Context) error { return pgrepo.Migrate(db.WithContext(ctx)) },
			closers:      []closer{{"postgres", func() error { return closeGorm(db) }}},
		}, nil

	case "memory":
		log.Warn("using in-memory session store; data is lost on restart")
		return &store{
			sessions:     memory.NewInterviewRepo(),
			ensureSchema: func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func pingGorm(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// withCache wraps sessions in the Redis read-through cache when REDIS_URL is set.
func withCache(ctx context.Context, cfg config.Config, sessions repositories.InterviewRepository, log logrus.FieldLogger, closers *[]closer) (repositories.InterviewRepository, error) {
	if cfg.Store.RedisURL == "" {
		return sessions, nil
	}
	rdb, err := config.NewRedis(ctx, cfg.Store.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	log.Info("Redis connected")
	*closers = append(*closers, closer{"redis", rdb.Close})
	return repositories.NewCachedInterviewRepo(sessions, cache.NewRedisCache(rdb, ""), cfg.Store.CacheTTL, log), nil
}

type providerSet struct {
	llm      llm.Provider
	tts      tts.Provider
	stt      stt.Provider
	uploader storage.Uploader
	closers  []closer
}

func (p *providerSet) close(log logrus.FieldLogger) { closeAll(log, p.closers) }

func openProviders(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*providerSet, error) {
	p := &providerSet{}

	model, err := newLLM(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	p.llm = model
	p.closers = append(p.closers, closer{"llm", model.Close})

	p.tts = newTTS(cfg)
	log.WithFields(logrus.Fields{"llm": model.Name(), "tts": p.tts.Name()}).Info("ai providers ready")

	if cfg.STT.Enabled {
		gs, err := stt.NewGoogleSpeech(ctx, cfg.STT.Encoding, int32(cfg.STT.SampleRateHz), cfg.GoogleCredentialsFile)
		if err != nil {
			p.close(log)
			return nil, fmt.Errorf("speech: %w", err)
		}
		p.stt = gs
		p.closers = append(p.closers, closer{"speech", gs.Close})
		log.Info("Google Speech connected")
	}

	if cfg.Audio.Bucket != "" {
		up, err := storage.NewGCSUploader(ctx, cfg.Audio.Bucket, cfg.GoogleCredentialsFile, cfg.Audio.PublicObjects)
		if err != nil {
			p.close(log)
			return nil, fmt.Errorf("storage: %w", err)
		}
		p.uploader = up
		p.closers = append(p.closers, closer{"storage", up.Close})
		log.WithField("bucket", cfg.Audio.Bucket).Info("audio uploads enabled")
	}
	return p, nil
}

func newLLM(ctx context.Context, cfg config.Config) (llm.Provider, error) {
	if cfg.LLM.Provider == "vertex" {
		return llm.NewVertexGemini(ctx, cfg.LLM.VertexProject, cfg.LLM.VertexLocation, cfg.LLM.VertexModel, cfg.GoogleCredentialsFile)
	}
	return llm.NewOpenAIChat(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, cfg.LLM.OpenAIModel), nil
}

// newTTS never fails: a missing key surfaces per request as "not configured".
func newTTS(cfg config.Config) tts.Provider {
	if cfg.Audio.TTSProvider == "openai" {
		return tts.NewOpenAISpeech(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, cfg.Audio.OpenAITTSModel, cfg.Audio.OpenAITTSVoice)
	}
	return tts.NewElevenLabs(cfg.Audio.ElevenLabsAPIKey, "", cfg.Audio.ElevenLabsVoiceID, cfg.Audio.ElevenLabsModel)
}
