package lichess_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"woodpecker/internal/lichess"
)

func TestFetchPuzzle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/puzzle/abc12", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc12","fen":"8/8/8/8/8/8/8/8 w - - 0 1","moves":"e2e4","rating":1420,"themes":["fork","pin"]}`))
	}))
	defer server.Close()

	client := lichess.New(server.URL)
	puzzle, err := client.FetchPuzzle(context.Background(), "abc12")
	require.NoError(t, err)
	require.NotNil(t, puzzle)
	assert.Equal(t, "abc12", puzzle.ID)
	assert.Equal(t, 1420, puzzle.Rating)
	assert.Equal(t, []string{"fork", "pin"}, puzzle.Themes)
}

func TestFetchPuzzle_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := lichess.New(server.URL)
	puzzle, err := client.FetchPuzzle(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, puzzle)
}

func TestFetchPuzzle_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := lichess.New(server.URL)
	_, err := client.FetchPuzzle(context.Background(), "abc12")
	assert.Error(t, err)
}

func TestFetchCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/training/export.csv", r.URL.Path)
		_, _ = w.Write([]byte("id,fen,moves,rating\n"))
	}))
	defer server.Close()

	client := lichess.New(server.URL)
	body, err := client.FetchCatalog(context.Background(), "/training/export.csv")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "id,fen,moves,rating\n", string(data))
}

func TestFetchCatalog_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	client := lichess.New(server.URL)
	_, err := client.FetchCatalog(context.Background(), "export.csv")
	assert.Error(t, err)
}
