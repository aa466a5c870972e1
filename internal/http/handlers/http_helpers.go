package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	models "github.com/rogerio-castellano/inventory-flow/internal/models"
	repo "github.com/rogerio-castellano/inventory-flow/internal/repo"
	"go.uber.org/zap"
)

const msgProductNotFound = "Product not found"

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		logger.Error("Failed to write JSON response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// writeStoreError maps a repository error onto its HTTP status.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		respond(w, r, http.StatusNotFound, ErrorResponse{Message: msgProductNotFound})
	case errors.As(err, &verr):
		respond(w, r, http.StatusBadRequest, ErrorResponse{Message: verr.Error(), Errors: verr.Fields})
	default:
		logger.Error("Store operation failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respond(w, r, http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
	}
}

// writeDecodeError answers a body that could not be decoded into ProductRequest.
func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if fe, ok := decodeError(err); ok {
		respond(w, r, http.StatusBadRequest, ErrorResponse{
			Message: "Product validation failed: " + fe.Field + ": " + fe.Description,
			Errors:  []ProductValidationError{fe},
		})
		return
	}
	respond(w, r, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
}
