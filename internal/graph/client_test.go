package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(context.Background(), Config{
		DriveID:    "drive-1",
		ItemID:     "item-1",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
}

func TestCreateSession(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/drives/drive-1/items/item-1/workbook/createSession", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["persistChanges"])

		json.NewEncoder(w).Encode(map[string]string{"id": "session-token"})
	})

	id, err := client.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "session-token", id)
}

func TestCreateSessionWithoutID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := client.CreateSession(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session ID")
}

func TestCloseSessionCarriesHeader(t *testing.T) {
	var gotHeader string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("workbook-session-id")
		assert.Equal(t, "/drives/drive-1/items/item-1/workbook/closeSession", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.CloseSession(context.Background(), "session-token"))
	assert.Equal(t, "session-token", gotHeader)
}

func TestUsedRange(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.URL.Path, "/workbook/worksheets/Cases/usedRange(valuesOnly=true)")
		assert.Equal(t, "session-token", r.Header.Get("workbook-session-id"))
		json.NewEncoder(w).Encode(Range{
			Address:  "Cases!A1:H42",
			RowIndex: 0,
			RowCount: 42,
		})
	})

	usedRange, err := client.UsedRange(context.Background(), "session-token")
	require.NoError(t, err)
	assert.Equal(t, 42, usedRange.RowCount)
	assert.Equal(t, 0, usedRange.RowIndex)
}

func TestMatchHitAndMiss(t *testing.T) {
	found := true
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/drives/drive-1/items/item-1/workbook/functions/match", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(0), body["matchType"])
		lookupArray := body["lookupArray"].(map[string]any)
		assert.Equal(t, "Cases!A1:A42", lookupArray["address"])

		if found {
			w.Write([]byte(`{"value": 9, "error": null}`))
		} else {
			w.Write([]byte(`{"value": "#N/A", "error": {"code": "NotAvailable"}}`))
		}
	})

	offset, err := client.Match(context.Background(), "session-token", 35, "Cases!A1:A42")
	require.NoError(t, err)
	assert.Equal(t, 9, offset)

	found = false
	_, err = client.Match(context.Background(), "session-token", 35, "Cases!A1:A42")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestCountBlank(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/drives/drive-1/items/item-1/workbook/functions/countBlank", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		rng := body["range"].(map[string]any)
		assert.Equal(t, "Cases!A9:A42", rng["address"])

		w.Write([]byte(`{"value": 3, "error": null}`))
	})

	count, err := client.CountBlank(context.Background(), "session-token", "Cases!A9:A42")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpdateRow(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Contains(t, r.URL.Path, "range(address='A12:H12')")
		assert.Equal(t, "session-token", r.Header.Get("workbook-session-id"))

		var body struct {
			Values [][]any `json:"values"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Values, 1)
		require.Len(t, body.Values[0], 8)
		assert.Equal(t, float64(35), body.Values[0][0])
		assert.Nil(t, body.Values[0][1])

		w.Write([]byte(`{}`))
	})

	values := []any{35, nil, "7/15/2023", nil, nil, 700, nil, nil}
	err := client.UpdateRow(context.Background(), "session-token", "A12:H12", values)
	require.NoError(t, err)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"AccessDenied"}}`))
	})

	_, err := client.UsedRange(context.Background(), "session-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestResolveWorkbookID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/groups/group-1/sites/root/drives":
			json.NewEncoder(w).Encode(driveListing{Value: []driveItem{{ID: "drive-9", Name: "Documents"}}})
		case r.URL.Path == "/drives/drive-9/root/children":
			json.NewEncoder(w).Encode(driveListing{Value: []driveItem{
				{ID: "folder-1", Name: "Archive"},
				{ID: "folder-2", Name: "Spreadsheets"},
			}})
		case r.URL.Path == "/drives/drive-9/items/folder-2/children":
			json.NewEncoder(w).Encode(driveListing{Value: []driveItem{
				{ID: "item-7", Name: "Old Ledger.xlsx"},
				{ID: "item-8", Name: "FY2024 Development.xlsx"},
			}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(context.Background(), Config{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	id, err := client.ResolveWorkbookID(context.Background(), "group-1", "FY2024 Development")
	require.NoError(t, err)
	assert.Equal(t, "item-8", id)

	// The resolved item id is installed for subsequent workbook calls.
	assert.True(t, strings.Contains(client.itemPath(), "item-8"))
}

func TestRedactHidesToken(t *testing.T) {
	digest := Redact("very-secret-session-token")
	assert.NotContains(t, digest, "secret")
	assert.Len(t, digest, 12)
	assert.Equal(t, digest, Redact("very-secret-session-token"))
	assert.NotEqual(t, digest, Redact("another-token"))
}
