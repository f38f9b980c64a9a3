package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 100 << 10

const (
	msgInvalidBody  = "Invalid request body"
	msgTextRequired = "Text is required"
	msgNotFound     = "Todo not found"
	msgFetchFailed  = "Failed to fetch todos"
	msgCreateFailed = "Failed to create todo"
	msgUpdateFailed = "Failed to update todo"
	msgDeleteFailed = "Failed to delete todo"
	msgDeleted      = "Todo deleted"
	msgInternal     = "Internal server error"
)

var errTrailingData = errors.New("unexpected data after JSON body")

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, status int, message string) {
	writeJSON(w, logger, status, errorResponse{Error: message})
}

// decodeJSON reads exactly one JSON value from the capped request body.
// An empty body leaves v untouched and unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// Recover turns a panic in h into a 500 JSON error response.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger := hlog.FromRequest(r)
			logger.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Stringer("url", r.URL).
				Msg("recovered from panic")
			writeError(w, *logger, http.StatusInternalServerError, msgInternal)
		}()

		h.ServeHTTP(w, r)
	})
}
