package tenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus/pkg/sentinel"
)

func newCheckServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, time.Second)
}

func TestCheckSuccess(t *testing.T) {
	client := newCheckServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenant-check/my-academy", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"tenant":{"id":"t1","name":"My Academy"}}`))
	})

	record, err := client.Check(context.Background(), "my-academy")
	require.NoError(t, err)
	assert.Equal(t, "t1", record.ID)
	assert.Equal(t, "my-academy", record.Slug, "slug backfilled from request")
}

func TestCheckNotFoundResponse(t *testing.T) {
	client := newCheckServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	})

	_, err := client.Check(context.Background(), "ghost")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestCheckMissingIdentifier(t *testing.T) {
	client := newCheckServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"tenant":{"name":"No ID"}}`))
	})

	_, err := client.Check(context.Background(), "no-id")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestCheckMalformedPayload(t *testing.T) {
	client := newCheckServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":`))
	})

	_, err := client.Check(context.Background(), "broken")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestCheckStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, sentinel.ErrNotFound},
		{http.StatusBadRequest, sentinel.ErrNotFound},
		{http.StatusInternalServerError, sentinel.ErrUnavailable},
		{http.StatusBadGateway, sentinel.ErrUnavailable},
	}
	for _, tt := range tests {
		client := newCheckServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := client.Check(context.Background(), "some-slug")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}
}

func TestCheckNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	client := NewHTTPClient(srv.URL, time.Second)

	_, err := client.Check(context.Background(), "my-academy")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
