package rows

import (
	"context"

	"case_sheet_sync/internal/graph"
)

// Store is the session-scoped slice of the workbook API the syncer needs.
// *graph.Client satisfies it; tests substitute a fake.
type Store interface {
	CreateSession(ctx context.Context) (string, error)
	CloseSession(ctx context.Context, sessionID string) error
	UsedRange(ctx context.Context, sessionID string) (*graph.Range, error)
	Match(ctx context.Context, sessionID string, value any, address string) (int, error)
	CountBlank(ctx context.Context, sessionID string, address string) (int, error)
	UpdateRow(ctx context.Context, sessionID string, address string, values []any) error
	Worksheet() string
}
