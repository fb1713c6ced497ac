package main

import (
	"context"
	"flag"

	"github.com/meur/raidmap/internal/legacy"
	"github.com/meur/raidmap/internal/logging"
	"github.com/meur/raidmap/internal/repository"
	"github.com/meur/raidmap/internal/storage"
)

func main() {
	legacyPath := flag.String("legacy", "./tarkov-pins.db", "Legacy SQLite database path")
	backend := flag.String("backend", "file", "Storage backend: file, sqlite or badger")
	dbPath := flag.String("db", "./data", "Data directory, or database file for the sqlite backend")
	flag.Parse()

	logging.Init(logging.Config{Format: "console"})
	ctx := context.Background()

	src, err := legacy.Open(*legacyPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to read legacy database")
	}
	defer src.Close()

	markers, err := src.Markers(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to read pins")
	}
	keys, err := src.Keys(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to read keys")
	}

	b, err := storage.Open(*backend, *dbPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	store := storage.NewStore(b)
	defer store.Close()

	repo := repository.New(store)

	added, err := repo.ImportMarkers(ctx, markers)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to import markers")
	}
	logging.Info().Int("imported", added).Int("skipped", len(markers)-added).Msg("Imported markers")

	added, err = repo.ImportKeys(ctx, keys)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to import keys")
	}
	logging.Info().Int("imported", added).Int("skipped", len(keys)-added).Msg("Imported keys")
}
