// Command import pushes a Salesforce case export CSV into the spreadsheet
// through the same batch machinery the webhook uses.
package main

import (
	"context"
	"os"

	"case_sheet_sync/internal/app"
	"case_sheet_sync/internal/graph"
	"case_sheet_sync/internal/importer"
	"case_sheet_sync/internal/rows"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	if len(os.Args) < 2 {
		log.Fatal().Msg("You must specify the path to the export CSV")
	}
	path := os.Args[1]

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
	if err := importer.Run(ctx, syncer, path); err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}
	log.Info().Msg("Import complete")
}
