package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vrsandeep/chesscom-helper/internal/config"
	"github.com/vrsandeep/chesscom-helper/internal/metrics"
	"github.com/vrsandeep/chesscom-helper/internal/models"
)

const (
	DefaultBaseURL   = "https://api.chess.com"
	defaultUserAgent = "chesscom-helper/1.0"
)

// Client talks to the public Chess.com API. Every request waits on a shared
// rate limiter so a batch over many players never bursts the upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// New creates a Client from the chesscom section of the configuration.
func New(cfg config.ChessComConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		baseURL:    baseURL,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// GetProfile fetches the public profile of a player.
func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "profile", c.playerURL(username), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetGamesToMove fetches the daily games in which it is the player's turn.
func (c *Client) GetGamesToMove(ctx context.Context, username string) (*GamesToMoveResponse, error) {
	var games GamesToMoveResponse
	if err := c.get(ctx, "games_to_move", c.playerURL(username)+"/games/to-move", &games); err != nil {
		return nil, err
	}
	return &games, nil
}

func (c *Client) playerURL(username string) string {
	return fmt.Sprintf("%s/pub/player/%s", c.baseURL, url.PathEscape(strings.ToLower(strings.TrimSpace(username))))
}

// get performs a rate limited GET request and decodes the JSON response.
// Every failure is returned as *models.UpstreamError.
func (c *Client) get(ctx context.Context, endpoint, target string, result interface{}) (err error) {
	status := 0
	start := time.Now()
	defer func() {
		label := strconv.Itoa(status)
		if err != nil && status == 0 {
			label = "error"
		}
		metrics.ChessComRequest.WithLabelValues(endpoint, label).Observe(float64(time.Since(start).Milliseconds()))
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return &models.UpstreamError{Message: fmt.Sprintf("rate limiter: %v", err), Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &models.UpstreamError{Message: fmt.Sprintf("failed to create request: %v", err), Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.UpstreamError{Message: fmt.Sprintf("request failed: %v", err), Cause: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &models.UpstreamError{
			Message: fmt.Sprintf("API error: status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			Status:  resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &models.UpstreamError{Message: fmt.Sprintf("failed to decode response: %v", err), Status: resp.StatusCode, Cause: err}
	}
	return nil
}
