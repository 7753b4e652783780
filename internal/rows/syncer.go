package rows

import (
	"context"
	"errors"
	"fmt"

	"case_sheet_sync/internal/cases"
	"case_sheet_sync/internal/graph"

	"github.com/rs/zerolog/log"
)

// Syncer reconciles case records against rows of the backing worksheet.
// One Syncer call owns exactly one edit session; every lookup and write
// inside the call is scoped by that session so in-session reads observe
// earlier in-session writes. There is no other shared state, so safety
// across concurrent batches rests entirely on the store's session isolation.
type Syncer struct {
	store    Store
	firstRow int
}

// NewSyncer builds a Syncer. firstRow is the first sheet row holding real
// case data; rows above it are headers and are never searched for blanks.
func NewSyncer(store Store, firstRow int) *Syncer {
	return &Syncer{store: store, firstRow: firstRow}
}

// UpdateOne synchronizes a single record: open session, locate, write,
// close session. The returned RowRef reports where the record landed and
// whether the row was freshly allocated.
func (s *Syncer) UpdateOne(ctx context.Context, rec cases.Record) (cases.RowRef, error) {
	sessionID, err := s.store.CreateSession(ctx)
	if err != nil {
		return cases.RowRef{}, &SessionOpenError{Err: err}
	}
	defer s.closeSession(ctx, sessionID)

	ref, err := s.locate(ctx, sessionID, rec.ID)
	if err != nil {
		return cases.RowRef{}, err
	}
	if err := s.write(ctx, sessionID, ref.Row, rec); err != nil {
		return cases.RowRef{}, err
	}
	return ref, nil
}

// UpdateMany synchronizes records in input order under one shared session.
// Locating record N+1 sees the table state left by writing record N, which
// the blank-count insertion policy depends on. The first failure aborts the
// remainder of the batch; the session close still runs.
func (s *Syncer) UpdateMany(ctx context.Context, recs []cases.Record) error {
	sessionID, err := s.store.CreateSession(ctx)
	if err != nil {
		return &SessionOpenError{Err: err}
	}
	defer s.closeSession(ctx, sessionID)

	total := len(recs)
	for i, rec := range recs {
		log.Info().
			Int("case_id", rec.ID).
			Int("index", i+1).
			Int("total", total).
			Msg("Synchronizing case")

		ref, err := s.locate(ctx, sessionID, rec.ID)
		if err != nil {
			return err
		}
		if err := s.write(ctx, sessionID, ref.Row, rec); err != nil {
			return err
		}
	}
	return nil
}

// closeSession is the guaranteed-cleanup path. A failure here is logged and
// swallowed: a batch that already succeeded must not be reported as failed
// merely because session teardown failed.
func (s *Syncer) closeSession(ctx context.Context, sessionID string) {
	if err := s.store.CloseSession(ctx, sessionID); err != nil {
		log.Warn().
			Err(err).
			Str("session", graph.Redact(sessionID)).
			Msg("Failed to close workbook session")
	}
}

// locate finds the row holding caseID, or computes the insertion row for a
// new record. An exact match always wins; on a miss the insertion point is
// compacted to the first true gap below the header rows rather than blindly
// appended after the used range, which may include trailing blank rows
// reserved by formatting.
func (s *Syncer) locate(ctx context.Context, sessionID string, caseID int) (cases.RowRef, error) {
	usedRange, err := s.store.UsedRange(ctx, sessionID)
	if err != nil {
		return cases.RowRef{}, &RowLocateError{CaseID: caseID, Err: err}
	}

	// Sheet rows are 1-based while the reported rowIndex is 0-based. The end
	// bound is inclusive of the starting row, so rowIndex+rowCount is already
	// the last populated row.
	start := usedRange.RowIndex + 1
	end := usedRange.RowIndex + usedRange.RowCount
	sheet := s.store.Worksheet()

	lookup := fmt.Sprintf("%s!A%d:A%d", sheet, start, end)
	offset, err := s.store.Match(ctx, sessionID, caseID, lookup)
	if err == nil {
		row := offset + 1
		log.Info().Int("case_id", caseID).Int("row", row).Msg("Found existing case")
		return cases.RowRef{Row: row, IsNew: false}, nil
	}
	if !errors.Is(err, graph.ErrNoMatch) {
		return cases.RowRef{}, &RowLocateError{CaseID: caseID, Err: err}
	}

	row := end + 1 - s.blankCount(ctx, sessionID, sheet, end)
	log.Info().Int("case_id", caseID).Int("row", row).Msg("Inserting new case")
	return cases.RowRef{Row: row, IsNew: true}, nil
}

// blankCount counts blank cells in the key column between the first data row
// and the end of the used range. A failed count fails open to zero, i.e.
// append at the very end.
func (s *Syncer) blankCount(ctx context.Context, sessionID, sheet string, end int) int {
	address := fmt.Sprintf("%s!A%d:A%d", sheet, s.firstRow, end)
	count, err := s.store.CountBlank(ctx, sessionID, address)
	if err != nil {
		log.Warn().Err(err).Str("address", address).Msg("Blank count failed; appending at end of used range")
		return 0
	}
	return count
}

// write serializes the record and writes it at row with a single ranged
// update spanning columns A through H.
func (s *Syncer) write(ctx context.Context, sessionID string, row int, rec cases.Record) error {
	address := fmt.Sprintf("A%d:H%d", row, row)
	if err := s.store.UpdateRow(ctx, sessionID, address, rec.RowValues()); err != nil {
		return &RowWriteError{CaseID: rec.ID, Err: err}
	}
	return nil
}
