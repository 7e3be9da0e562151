package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"epd-map-api/internal/config"
	"epd-map-api/internal/models"
	"epd-map-api/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	generalFile := flag.String("general", "", "Path to a general catalog JSON page")
	declarationFile := flag.String("declarations", "", "Path to a declaration catalog JSON page")
	flag.Parse()

	if *generalFile == "" && *declarationFile == "" {
		fmt.Println("Error: at least one of --general or --declarations is required")
		os.Exit(1)
	}

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to DB
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)

	// Ensure table exists
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	sources := []struct {
		path    string
		catalog models.Catalog
	}{
		{*generalFile, models.CatalogGeneral},
		{*declarationFile, models.CatalogDeclaration},
	}

	for _, src := range sources {
		if src.path == "" {
			continue
		}
		if err := importFile(ctx, repo, src.path, src.catalog); err != nil {
			fmt.Printf("Error importing %s: %v\n", src.path, err)
			os.Exit(1)
		}
	}
}

func importFile(ctx context.Context, repo *repository.Repository, path string, catalog models.Catalog) error {
	fmt.Printf("Starting import of %s catalog from file: %s\n", catalog, path)

	payloads, err := parsePage(path)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed %d records\n", len(payloads))

	before, err := repo.CountRecords(ctx, catalog)
	if err != nil {
		return err
	}

	n, err := repo.InsertRecords(ctx, catalog, payloads)
	if err != nil {
		return err
	}

	// Verify data
	after, err := repo.CountRecords(ctx, catalog)
	if err != nil {
		return err
	}
	if after-before != int(n) {
		return fmt.Errorf("record count mismatch: expected %d new records, got %d", n, after-before)
	}

	fmt.Printf("Successfully imported %d %s records\n", n, catalog)
	return nil
}

// parsePage reads a catalog page: a JSON array of objects. Elements are kept
// verbatim; field-level problems are left to the normalizer.
func parsePage(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	var page []json.RawMessage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	records := make([]json.RawMessage, 0, len(page))
	for i, raw := range page {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil {
			fmt.Printf("Skipping element %d: not a JSON object\n", i)
			continue
		}
		records = append(records, raw)
	}
	return records, nil
}
