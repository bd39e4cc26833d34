package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/epc-match/internal/epc"
	"github.com/epc-match/internal/match"
)

// MatchHandler exposes the address matcher over HTTP.
type MatchHandler struct {
	Matcher *match.Matcher
	Store   *epc.Store
}

// matchResponse wraps the ranked results for JSON output.
type matchResponse struct {
	Query   match.Query    `json:"query"`
	Matches []match.Result `json:"matches"`
}

// FindMatches handles GET /api/match. Postcode and house identifier are
// required; street, sub-unit, locality and limit are optional.
func (h *MatchHandler) FindMatches(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := match.Query{
		Postcode:        params.Get("postcode"),
		HouseIdentifier: params.Get("house"),
		SubUnit:         params.Get("unit"),
		Street:          params.Get("street"),
		Locality:        params.Get("locality"),
	}
	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		q.Limit = limit
	}

	if q.Postcode == "" {
		writeError(w, http.StatusBadRequest, "postcode is required")
		return
	}

	results, err := h.Matcher.Find(r.Context(), q)
	if err != nil {
		if errors.Is(err, epc.ErrStorageUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "certificate store unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if results == nil {
		results = []match.Result{}
	}

	writeJSON(w, http.StatusOK, matchResponse{Query: q, Matches: results})
}

// ListCertificates handles GET /api/certificates/{postcode}: the raw
// candidate set the matcher works from, newest first.
func (h *MatchHandler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	postcode := mux.Vars(r)["postcode"]

	certs, err := h.Store.CertificatesByPostcode(r.Context(), postcode, 500)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "certificate store unavailable")
		return
	}
	if certs == nil {
		certs = []epc.Certificate{}
	}

	writeJSON(w, http.StatusOK, certs)
}

// Health handles GET /api/health.
func (h *MatchHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
