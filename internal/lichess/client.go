package lichess

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"woodpecker/internal/logger"
	"woodpecker/internal/models"
)

// Client talks to a puzzle catalog service. The base URL is configurable
// so tests and self-hosted mirrors can stand in for the public API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Default().WithPrefix("lichess"),
	}
}

type puzzleResp struct {
	ID     string   `json:"id"`
	FEN    string   `json:"fen"`
	Moves  string   `json:"moves"`
	Rating int      `json:"rating"`
	Themes []string `json:"themes"`
}

// FetchPuzzle retrieves a single puzzle by id.
func (c *Client) FetchPuzzle(ctx context.Context, id string) (*models.Puzzle, error) {
	log := logger.FromContext(ctx).WithPrefix("lichess").WithField("puzzle_id", id)
	url := fmt.Sprintf("%s/api/puzzle/%s", c.baseURL, id)

	log.Debug("fetching puzzle from: %s", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch puzzle: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("puzzle response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("puzzle request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("puzzle status %d: %s", resp.StatusCode, string(body))
	}

	var out puzzleResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode puzzle response: %v", err)
		return nil, err
	}

	return &models.Puzzle{
		ID:     out.ID,
		FEN:    out.FEN,
		Moves:  out.Moves,
		Rating: out.Rating,
		Themes: out.Themes,
	}, nil
}

// FetchCatalog streams a CSV catalog export. The caller owns the
// returned body and must close it.
func (c *Client) FetchCatalog(ctx context.Context, path string) (io.ReadCloser, error) {
	log := logger.FromContext(ctx).WithPrefix("lichess").WithField("path", path)
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	log.Debug("fetching catalog export from: %s", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch catalog: %v", err)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		log.Error("catalog request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("catalog status %d: %s", resp.StatusCode, string(body))
	}

	log.Info("catalog stream opened in %v", time.Since(start))
	return resp.Body, nil
}
