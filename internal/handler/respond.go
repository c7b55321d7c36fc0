package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/service"
	"github.com/iackson05/streakd/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string                  `json:"detail"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError maps a service error to its status code. Unclassified errors
// are logged and reported as 500 without their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *validation.RequestError
	if errors.As(err, &reqErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: reqErr.Error(), Errors: reqErr.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrConflict):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		writeDetail(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeDetail(w, http.StatusBadRequest, "request body is required")
			return false
		}
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}

	err = validation.ValidateStruct(dst)
	if err != nil {
		writeError(w, r, err)
		return false
	}

	return true
}

// pathID returns a UUID path parameter, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if uuid.Validate(id) != nil {
		writeDetail(w, http.StatusBadRequest, "invalid "+name)
		return "", false
	}
	return id, true
}

// readUpload reads one multipart file field. A missing field is reported as
// ok with nil data.
func readUpload(r *http.Request, field string) (*service.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, validation.ImageConstraints.MaxSize+1))
	if err != nil {
		return nil, err
	}

	return &service.Upload{Data: data, Filename: header.Filename}, nil
}

// parseMultipart parses a multipart body no larger than one image plus form fields.
func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, validation.ImageConstraints.MaxSize+maxBodyBytes)

	err := r.ParseMultipartForm(validation.ImageConstraints.MaxSize)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid multipart form")
		return false
	}
	return true
}
