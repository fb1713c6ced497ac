package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/meur/raidmap/internal/logging"
	"github.com/meur/raidmap/internal/models"
	"github.com/meur/raidmap/internal/repository"
	"github.com/meur/raidmap/internal/storage"
)

func main() {
	backend := flag.String("backend", "file", "Storage backend: file, sqlite or badger")
	dbPath := flag.String("db", "./data", "Data directory, or database file for the sqlite backend")
	seedsDir := flag.String("seeds", "./seeds", "Seeds directory")
	flag.Parse()

	logging.Init(logging.Config{Format: "console"})

	b, err := storage.Open(*backend, *dbPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	store := storage.NewStore(b)
	defer store.Close()

	repo := repository.New(store)
	ctx := context.Background()

	markers, err := readSeed[models.MarkerInput](filepath.Join(*seedsDir, "markers.json"))
	if err != nil {
		logging.Warn().Err(err).Msg("Skipping markers")
	}
	created := 0
	for i := range markers {
		if _, err := repo.CreateMarker(ctx, &markers[i]); err != nil {
			logging.Warn().Err(err).Str("id", markers[i].ID).Msg("Marker not seeded")
			continue
		}
		created++
	}
	logging.Info().Int("created", created).Int("total", len(markers)).Msg("Seeded markers")

	keys, err := readSeed[models.KeyInput](filepath.Join(*seedsDir, "keys.json"))
	if err != nil {
		logging.Warn().Err(err).Msg("Skipping keys")
	}
	created = 0
	for i := range keys {
		if _, err := repo.CreateKey(ctx, &keys[i]); err != nil {
			logging.Warn().Err(err).Str("id", keys[i].ID).Msg("Key not seeded")
			continue
		}
		created++
	}
	logging.Info().Int("created", created).Int("total", len(keys)).Msg("Seeded keys")
}

func readSeed[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
