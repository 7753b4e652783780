package main

import (
	"context"
	"net/http"

	"case_sheet_sync/internal/app"
	"case_sheet_sync/internal/graph"
	"case_sheet_sync/internal/rows"
	"case_sheet_sync/internal/web"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()
	client := graph.NewClient(ctx, graph.Config{
		TenantID:     cfg.TenantID,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		DriveID:      cfg.DriveID,
		ItemID:       cfg.WorkbookID,
	})

	if cfg.WorkbookID == "" {
		if cfg.WorkbookName == "" {
			log.Fatal().Msg("Neither MS_WORKBOOK_ID nor MS_WORKBOOK_NAME is set")
		}
		if _, err := client.ResolveWorkbookID(ctx, cfg.GroupID, cfg.WorkbookName); err != nil {
			log.Fatal().Err(err).Str("name", cfg.WorkbookName).Msg("Failed to resolve workbook")
		}
	}

	syncer := rows.NewSyncer(client, cfg.FirstRow)
	handler := web.NewHandler(syncer, cfg.WorkbookName)

	// Outside production accept a very wide validation window so callers can
	// test without tight clock sync.
	skew := uint(1000)
	if cfg.Production {
		skew = 1
	}
	router := web.NewRouter(handler, cfg.AuthSecret, skew)

	log.Info().Str("port", cfg.Port).Msg("Listening")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
