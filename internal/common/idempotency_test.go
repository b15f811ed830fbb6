package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newIdem(t *testing.T) (Idem, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Idem{R: client, TTL: time.Minute}, mr
}

func countingHandler(hits *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*hits++
		w.WriteHeader(http.StatusCreated)
	})
}

func TestIdempotencyReplayRejected(t *testing.T) {
	idem, _ := newIdem(t)
	hits := 0
	handler := idem.Middleware(countingHandler(&hits))

	first := httptest.NewRequest(http.MethodPost, "/stays/abc/payments", nil)
	first.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, hits)

	replay := httptest.NewRequest(http.MethodPost, "/stays/abc/payments", nil)
	replay.Header.Set("Idempotency-Key", "key-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, replay)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "IDEMPOTENT_REPLAY")
	require.Equal(t, 1, hits, "replayed request must not reach the handler")
}

func TestIdempotencyDistinctKeysPass(t *testing.T) {
	idem, _ := newIdem(t)
	hits := 0
	handler := idem.Middleware(countingHandler(&hits))

	for _, key := range []string{"key-1", "key-2"} {
		req := httptest.NewRequest(http.MethodPost, "/stays/abc/payments", nil)
		req.Header.Set("Idempotency-Key", key)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, 2, hits)
}

func TestIdempotencyKeyScopedToPath(t *testing.T) {
	idem, _ := newIdem(t)
	hits := 0
	handler := idem.Middleware(countingHandler(&hits))

	for _, path := range []string{"/stays/a/payments", "/stays/b/payments"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Idempotency-Key", "shared")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, 2, hits, "same key on different paths is a different request")
}

func TestIdempotencyNoHeaderPassesThrough(t *testing.T) {
	idem, mr := newIdem(t)
	hits := 0
	handler := idem.Middleware(countingHandler(&hits))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/stays/abc/payments", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, 3, hits)
	require.Empty(t, mr.Keys())
}

func TestIdempotencyKeyExpires(t *testing.T) {
	idem, mr := newIdem(t)
	hits := 0
	handler := idem.Middleware(countingHandler(&hits))

	req := httptest.NewRequest(http.MethodPost, "/stays/abc/payments", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	mr.FastForward(2 * time.Minute)

	req = httptest.NewRequest(http.MethodPost, "/stays/abc/payments", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 2, hits)
}
