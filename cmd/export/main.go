package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/meur/raidmap/internal/logging"
	"github.com/meur/raidmap/internal/storage"
)

// export dumps the stored collections as markers.json and keys.json,
// in the format cmd/seed reads
func main() {
	backend := flag.String("backend", "file", "Storage backend: file, sqlite or badger")
	dbPath := flag.String("db", "./data", "Data directory, or database file for the sqlite backend")
	outDir := flag.String("out", "./export", "Output directory")
	flag.Parse()

	logging.Init(logging.Config{Format: "console"})
	ctx := context.Background()

	b, err := storage.Open(*backend, *dbPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	store := storage.NewStore(b)
	defer store.Close()

	markers, keys, err := store.Snapshot(ctx)
	if err != nil {
		store.Close()
		logging.Fatal().Err(err).Msg("Failed to read storage, previous export left untouched")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create output directory")
	}

	if err := writeJSON(filepath.Join(*outDir, "markers.json"), markers); err != nil {
		logging.Fatal().Err(err).Msg("Failed to write markers")
	}
	logging.Info().Int("count", len(markers)).Msg("Exported markers")

	if err := writeJSON(filepath.Join(*outDir, "keys.json"), keys); err != nil {
		logging.Fatal().Err(err).Msg("Failed to write keys")
	}
	logging.Info().Int("count", len(keys)).Msg("Exported keys")
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
