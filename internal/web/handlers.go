package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"case_sheet_sync/internal/cases"

	"github.com/rs/zerolog/log"
)

// Updater is the slice of the syncer the handlers need; tests substitute a
// fake.
type Updater interface {
	UpdateOne(ctx context.Context, rec cases.Record) (cases.RowRef, error)
}

// Handler serves the status and update routes.
type Handler struct {
	updater      Updater
	workbookName string
}

func NewHandler(updater Updater, workbookName string) *Handler {
	return &Handler{updater: updater, workbookName: workbookName}
}

// response is the JSON envelope every route answers with. Status is always
// "success" or "error"; Reason accompanies errors, Result and URL successes.
type response struct {
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Status answers the health probe.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Status: "success"})
}

// GetUpdate accepts a case submission via query string.
func (h *Handler) GetUpdate(w http.ResponseWriter, r *http.Request) {
	raw := make(map[string]any)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	h.performUpdate(w, r, raw)
}

// PostUpdate accepts a case submission as a JSON or form-encoded body.
func (h *Handler) PostUpdate(w http.ResponseWriter, r *http.Request) {
	raw := make(map[string]any)
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeJSON(w, http.StatusBadRequest, response{
				Status: "error",
				Reason: fmt.Sprintf("invalid JSON body: %v", err),
			})
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, response{
				Status: "error",
				Reason: fmt.Sprintf("invalid form body: %v", err),
			})
			return
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				raw[key] = values[0]
			}
		}
	}
	h.performUpdate(w, r, raw)
}

func (h *Handler) performUpdate(w http.ResponseWriter, r *http.Request, raw map[string]any) {
	rec, reason := cases.Prepare(raw)
	if reason != "" {
		log.Warn().Str("reason", reason).Msg("Rejected case submission")
		writeJSON(w, http.StatusBadRequest, response{Status: "error", Reason: reason})
		return
	}

	ref, err := h.updater.UpdateOne(r.Context(), *rec)
	if err != nil {
		log.Error().Err(err).Int("case_id", rec.ID).Msg("Case update failed")
		writeJSON(w, http.StatusInternalServerError, response{Status: "error", Reason: err.Error()})
		return
	}

	var result string
	if ref.IsNew {
		result = fmt.Sprintf("Inserted case %d at row %d", rec.ID, ref.Row)
	} else {
		result = fmt.Sprintf("Updated case %d at row %d", rec.ID, ref.Row)
	}
	log.Info().Int("case_id", rec.ID).Int("row", ref.Row).Bool("is_new", ref.IsNew).Msg(result)

	writeJSON(w, http.StatusOK, response{
		Status: "success",
		Result: result,
		URL:    cases.RowURL(h.workbookName, ref.Row),
	})
}

func writeJSON(w http.ResponseWriter, code int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
