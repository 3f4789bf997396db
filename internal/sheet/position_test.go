package sheet

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, body string, status int) *PositionSource {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "err", status)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewPositionSource(srv.URL, "")
}

func TestFetch_FullRow(t *testing.T) {
	t.Parallel()

	src := serve(t, "lots,entry,cash,note,updated\n2, 21850.5 ,48000,加碼一口,2026-08-28 14:00\n", http.StatusOK)
	pos, err := src.Fetch()
	require.NoError(t, err)
	assert.Equal(t, 2, pos.Lots)
	assert.InDelta(t, 21850.5, pos.EntryPrice, 1e-9)
	assert.InDelta(t, 48000, pos.MarginCash, 1e-9)
	assert.Equal(t, "加碼一口", pos.Note)
	assert.Equal(t, "2026-08-28 14:00", pos.UpdatedAt)
}

func TestFetch_MinimalRow(t *testing.T) {
	t.Parallel()

	src := serve(t, "lots,entry,cash\n1,22000,25000\n", http.StatusOK)
	pos, err := src.Fetch()
	require.NoError(t, err)
	assert.Equal(t, 1, pos.Lots)
	assert.Empty(t, pos.Note)
	assert.Equal(t, "未知", pos.UpdatedAt)
}

func TestFetch_HeaderOnly(t *testing.T) {
	t.Parallel()

	src := serve(t, "lots,entry,cash\n\n", http.StatusOK)
	_, err := src.Fetch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no position row")
}

func TestFetch_MalformedNumbers(t *testing.T) {
	t.Parallel()

	src := serve(t, "lots,entry,cash\none,22000,25000\n", http.StatusOK)
	_, err := src.Fetch()
	assert.Error(t, err)
}

func TestFetch_HTTPError(t *testing.T) {
	t.Parallel()

	src := serve(t, "", http.StatusForbidden)
	_, err := src.Fetch()
	assert.Error(t, err)
}

func TestFetch_NoURL(t *testing.T) {
	t.Parallel()

	src := NewPositionSource("", "")
	_, err := src.Fetch()
	assert.Error(t, err)
}
