package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pivolan/equipment_analyzer/client"
	"github.com/pivolan/equipment_analyzer/config"
	"github.com/pivolan/equipment_analyzer/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	viewID := flag.String("view", "", "print the dataset with this id from the API and exit")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.GetConfig()

	if *viewID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := runView(ctx, client.New(cfg.APIBaseURL, nil), *viewID, os.Stdout); err != nil {
			log.Fatal().Err(err).Str("dataset", *viewID).Msg("cannot load dataset")
		}
		return
	}

	store, err := openStore(cfg, *debug)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open storage")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("cannot create upload dir")
	}

	var notifier Notifier
	if cfg.TgToken != "" && cfg.TgChatID != 0 {
		tg, err := newTelegramNotifier(cfg.TgToken, cfg.TgChatID)
		if err != nil {
			log.Error().Err(err).Msg("telegram notifications disabled")
		} else {
			notifier = tg
		}
	}

	srv := newServer(store, cfg, notifier)
	log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	if err := http.ListenAndServe(cfg.ListenAddr, srv.routes()); err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}
}

func openStore(cfg *config.Config, debug bool) (storage.Store, error) {
	if cfg.DbDsn == "" {
		log.Warn().Msg("DB_DSN not set, datasets are kept in memory")
		return storage.NewMemoryStore(), nil
	}
	store, err := storage.OpenMySQL(cfg.DbDsn, debug)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("connected to mysql")
	return store, nil
}

// runView loads one dataset through the API and prints its tables.
func runView(ctx context.Context, c *client.Client, id string, w io.Writer) error {
	state, err := client.NewLoader(c).Load(ctx, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, GenerateDatasetText(state.Dataset, state.View, state.Records))
	return err
}
