package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tutusiji/lantu-next/errs"
)

const maxRequestBody = 1 << 20

// decodeJSON reads a single JSON document from the request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, payloadName string) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewMalformedPayloadError(payloadName, errors.New("empty request body"))
		}
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	return nil
}

// idParam parses a positive integer URL parameter
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError(name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewInvalidFieldError(name, "must be a positive integer")
	}
	return id, nil
}
