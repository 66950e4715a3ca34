package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var payload struct {
		Error ErrorBody `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload.Error
}

func TestWriteErrorKeepsAppErrorCodeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NotFound("cart not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Code != CodeNotFound {
		t.Fatalf("expected code %q, got %q", CodeNotFound, body.Code)
	}
	if body.Message != "cart not found" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestWriteErrorHidesUnexpectedErrorDetails(t *testing.T) {
	infraErr := errors.New("failed to connect to host=db user=postgres: dial tcp 10.0.0.5:5432: connect: connection refused")

	rec := httptest.NewRecorder()
	WriteError(rec, infraErr)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unexpected error, got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Code != CodeInternal {
		t.Fatalf("expected code %q, got %q", CodeInternal, body.Code)
	}
	if body.Message != "internal error" {
		t.Fatalf("expected generic message, got %q", body.Message)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("response leaked connection details: %s", rec.Body.String())
	}
}

func TestWriteErrorNilErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeErrorBody(t, rec); body.Code != CodeInternal {
		t.Fatalf("expected code %q, got %q", CodeInternal, body.Code)
	}
}

func TestWriteErrorWrappedAppErrorUnwraps(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), BadRequest("limit must be positive"))

	rec := httptest.NewRecorder()
	WriteError(rec, wrapped)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeErrorBody(t, rec); body.Message != "limit must be positive" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}