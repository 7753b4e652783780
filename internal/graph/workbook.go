package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrNoMatch is returned by Match when the workbook MATCH function reports
// a lookup error, i.e. the value does not occur in the search range.
var ErrNoMatch = errors.New("no matching cell")

// Range describes the extent of a worksheet range. RowIndex is 0-based as
// returned by the API; sheet row addressing is 1-based.
type Range struct {
	Address     string `json:"address"`
	RowIndex    int    `json:"rowIndex"`
	RowCount    int    `json:"rowCount"`
	ColumnIndex int    `json:"columnIndex"`
	ColumnCount int    `json:"columnCount"`
}

// functionResult is the envelope the workbook function endpoints return.
// Exactly one of Value and Error is meaningful.
type functionResult struct {
	Value json.RawMessage `json:"value"`
	Error json.RawMessage `json:"error"`
}

func (r *functionResult) failed() bool {
	return len(r.Error) > 0 && string(r.Error) != "null"
}

// CreateSession opens a workbook edit session with change persistence and
// returns the session token.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	body := map[string]any{"persistChanges": true}
	var result struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, c.itemPath()+"/workbook/createSession", "", body, &result)
	if err != nil {
		return "", fmt.Errorf("failed to open session: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("no session ID was returned")
	}
	log.Debug().Str("session", Redact(result.ID)).Msg("Created workbook session")
	return result.ID, nil
}

// CloseSession closes a workbook edit session.
func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	body := map[string]any{}
	err := c.do(ctx, http.MethodPost, c.itemPath()+"/workbook/closeSession", sessionID, body, nil)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	log.Debug().Str("session", Redact(sessionID)).Msg("Closed workbook session")
	return nil
}

// UsedRange reads the worksheet's currently filled extent. Values-only
// semantics: cells that merely carry formatting do not count.
func (c *Client) UsedRange(ctx context.Context, sessionID string) (*Range, error) {
	path := fmt.Sprintf("%s/workbook/worksheets/%s/usedRange(valuesOnly=true)?$select=address,columnIndex,columnCount,rowIndex,rowCount",
		c.itemPath(), c.worksheet)
	var result Range
	if err := c.do(ctx, http.MethodGet, path, sessionID, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to read used range: %w", err)
	}
	log.Debug().
		Str("address", result.Address).
		Int("row_index", result.RowIndex).
		Int("row_count", result.RowCount).
		Msg("Read used range")
	return &result, nil
}

// Match runs the workbook MATCH function with exact-match semantics
// (matchType 0, no wildcards) and returns the 1-based offset of the first
// occurrence of value in the range at address. ErrNoMatch means the value
// is not present.
func (c *Client) Match(ctx context.Context, sessionID string, value any, address string) (int, error) {
	body := map[string]any{
		"lookupValue": value,
		"lookupArray": map[string]any{"address": address},
		"matchType":   0,
	}
	var result functionResult
	err := c.do(ctx, http.MethodPost, c.itemPath()+"/workbook/functions/match", sessionID, body, &result)
	if err != nil {
		return 0, fmt.Errorf("failed to run match: %w", err)
	}
	if result.failed() {
		return 0, ErrNoMatch
	}
	var offset float64
	if err := json.Unmarshal(result.Value, &offset); err != nil {
		return 0, fmt.Errorf("failed to decode match result %s: %w", result.Value, err)
	}
	return int(offset), nil
}

// CountBlank runs the workbook COUNTBLANK function over the range at address.
func (c *Client) CountBlank(ctx context.Context, sessionID string, address string) (int, error) {
	body := map[string]any{
		"range": map[string]any{"address": address},
	}
	var result functionResult
	err := c.do(ctx, http.MethodPost, c.itemPath()+"/workbook/functions/countBlank", sessionID, body, &result)
	if err != nil {
		return 0, fmt.Errorf("failed to run countBlank: %w", err)
	}
	if result.failed() {
		return 0, fmt.Errorf("countBlank returned error %s", result.Error)
	}
	var count float64
	if err := json.Unmarshal(result.Value, &count); err != nil {
		return 0, fmt.Errorf("failed to decode countBlank result %s: %w", result.Value, err)
	}
	return int(count), nil
}

// UpdateRow writes values into the range at address (e.g. "A12:H12") with a
// single ranged PATCH.
func (c *Client) UpdateRow(ctx context.Context, sessionID string, address string, values []any) error {
	path := fmt.Sprintf("%s/workbook/worksheets/%s/range(address='%s')?$select=address,values",
		c.itemPath(), c.worksheet, address)
	body := map[string]any{"values": [][]any{values}}
	if err := c.do(ctx, http.MethodPatch, path, sessionID, body, nil); err != nil {
		return fmt.Errorf("failed to update range %s: %w", address, err)
	}
	log.Debug().Str("address", address).Msg("Updated range")
	return nil
}
