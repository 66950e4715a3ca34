package delivery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStoreWriter struct {
	createErr error
	stores    []StoreLocation
}

func (f fakeStoreWriter) CreateStore(context.Context, StoreLocation) error { return f.createErr }

func (f fakeStoreWriter) UpdateStore(context.Context, string, StoreLocation) (bool, error) {
	return true, nil
}

func (f fakeStoreWriter) DeleteStore(context.Context, string) (bool, error) { return true, nil }

func (f fakeStoreWriter) ListStores(context.Context) ([]StoreLocation, error) {
	return f.stores, nil
}

func (f fakeStoreWriter) UpsertSettings(context.Context, Settings) error { return nil }

func postStore(t *testing.T, h *AdminHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/store-locations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateStore(rec, req)
	return rec
}

func TestCreateStoreDuplicateNameConflicts(t *testing.T) {
	h := &AdminHandler{
		Repo:     fakeStoreWriter{createErr: &pgconn.PgError{Code: "23505"}},
		Validate: validator.New(),
	}
	rec := postStore(t, h, `{"name":"Koramangala","latitude":12.9352,"longitude":77.6146,"isActive":true}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFLICT")
}

func TestCreateStoreInfrastructureErrorStaysGeneric(t *testing.T) {
	h := &AdminHandler{
		Repo:     fakeStoreWriter{createErr: errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")},
		Validate: validator.New(),
	}
	rec := postStore(t, h, `{"name":"Indiranagar","latitude":12.9719,"longitude":77.6412,"isActive":true}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL")
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestCreateStoreRejectsOutOfRangeCoordinates(t *testing.T) {
	h := &AdminHandler{Repo: fakeStoreWriter{}, Validate: validator.New()}
	rec := postStore(t, h, `{"name":"Nowhere","latitude":123.0,"longitude":77.6,"isActive":true}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}