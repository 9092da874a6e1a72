package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wavelength-party/go-server/internal/config"
	"github.com/wavelength-party/go-server/internal/gen"
	"github.com/wavelength-party/go-server/internal/history"
	"github.com/wavelength-party/go-server/internal/httpserver"
	"github.com/wavelength-party/go-server/internal/round"
	"github.com/wavelength-party/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set; round creation will fail")
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	hist := history.NewStore(db)
	if err := hist.Init(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to init history schema")
	}

	mem := store.NewMemoryStore(cfg.RoundTTL)
	generator := gen.NewOpenAI(gen.Config{
		APIKey:       cfg.OpenAIKey,
		Model:        cfg.OpenAIModel,
		ResponsesURL: cfg.ResponsesURL,
	})
	svc := round.NewService(mem, generator, hist)

	srv := httpserver.New(svc, hist, cfg.ClientOrigin)
	log.Info().Str("port", cfg.Port).Str("model", cfg.OpenAIModel).Msg("starting spectrum server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
