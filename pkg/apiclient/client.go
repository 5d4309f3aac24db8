package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artvia/artvia-backend/pkg/config"
	"github.com/artvia/artvia-backend/pkg/db/models"
	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
)

const (
	identityHeader    = "X-User-Id"
	idempotencyHeader = "Idempotency-Key"
)

// Client talks to the gallery API and translates its envelopes back
// into coded errors, so callers handle a remote failure the same way
// service code handles a local one.
type Client struct {
	baseURL string
	httpc   *http.Client
	userID  string
}

// New builds a client from the CLI configuration.
func New(cfg config.ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if base == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid api base url")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: base,
		httpc:   &http.Client{Timeout: timeout},
	}, nil
}

// WithIdentity returns a copy of the client that sends the given user
// id on every request. Like toggling requires it.
func (c *Client) WithIdentity(userID string) *Client {
	clone := *c
	clone.userID = strings.TrimSpace(userID)
	return &clone
}

// ToggleLikeResult mirrors the toggle-like response.
type ToggleLikeResult struct {
	Action  string `json:"action"`
	Likes   int    `json:"likes"`
	IsLiked bool   `json:"isLiked"`
}

// CheckoutRequest is the payload for CreatePayment.
type CheckoutRequest struct {
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	Email         string          `json:"email"`
	ContactNumber string          `json:"contactNumber"`
	Image         string          `json:"image"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Artworks      []CheckoutLine  `json:"artworks"`
}

// CheckoutLine is one artwork in a checkout.
type CheckoutLine struct {
	ArtworkID string `json:"artworkId"`
	Quantity  int    `json:"quantity"`
}

// ListArtworks fetches the full catalog.
func (c *Client) ListArtworks(ctx context.Context) ([]models.Artwork, error) {
	var artworks []models.Artwork
	if err := c.getData(ctx, "/art", nil, &artworks); err != nil {
		return nil, err
	}
	return artworks, nil
}

// GetArtwork fetches one catalog entry.
func (c *Client) GetArtwork(ctx context.Context, artworkID string) (models.Artwork, error) {
	var artwork models.Artwork
	if err := c.getData(ctx, "/art/"+url.PathEscape(artworkID), nil, &artwork); err != nil {
		return models.Artwork{}, err
	}
	return artwork, nil
}

// Trending fetches the trending list. A limit of zero lets the server
// apply its default.
func (c *Client) Trending(ctx context.Context, limit int) ([]models.Artwork, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var artworks []models.Artwork
	if err := c.getData(ctx, "/art/trending", query, &artworks); err != nil {
		return nil, err
	}
	return artworks, nil
}

// TrendingFavorites ranks the given artwork ids by the trending order.
func (c *Client) TrendingFavorites(ctx context.Context, ids []string) ([]models.Artwork, error) {
	if ids == nil {
		ids = []string{}
	}
	body, err := c.do(ctx, http.MethodPost, "/art/trending-favorites", nil,
		map[string]any{"artworkIds": ids}, nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data []models.Artwork `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode trending favorites response")
	}
	return envelope.Data, nil
}

// ToggleLike flips the caller's like on an artwork. The client must
// carry an identity (see WithIdentity).
func (c *Client) ToggleLike(ctx context.Context, artworkID string) (ToggleLikeResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/art/"+url.PathEscape(artworkID)+"/toggle-like", nil, nil, nil)
	if err != nil {
		return ToggleLikeResult{}, err
	}
	var result ToggleLikeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return ToggleLikeResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode toggle-like response")
	}
	return result, nil
}

// RecordView bumps an artwork's view counter and returns the new total.
func (c *Client) RecordView(ctx context.Context, artworkID string) (int, error) {
	body, err := c.do(ctx, http.MethodPost, "/art/view/"+url.PathEscape(artworkID), nil, nil, nil)
	if err != nil {
		return 0, err
	}
	var result struct {
		Views int `json:"views"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode view response")
	}
	return result.Views, nil
}

// Favorite reports an anonymous add/remove against an artwork's
// favorites tally and returns the new count.
func (c *Client) Favorite(ctx context.Context, artworkID, action string) (int, error) {
	body, err := c.do(ctx, http.MethodPost, "/art/favorite/"+url.PathEscape(artworkID), nil,
		map[string]string{"action": action}, nil)
	if err != nil {
		return 0, err
	}
	var result struct {
		FavoritesCount int `json:"favoritesCount"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode favorite response")
	}
	return result.FavoritesCount, nil
}

// CreatePayment submits a checkout. Each call carries a fresh
// idempotency key, so retries of the same *call* must reuse the same
// client invocation, not call CreatePayment twice.
func (c *Client) CreatePayment(ctx context.Context, req CheckoutRequest) (models.Payment, error) {
	headers := map[string]string{idempotencyHeader: uuid.NewString()}
	body, err := c.do(ctx, http.MethodPost, "/payments", nil, req, headers)
	if err != nil {
		return models.Payment{}, err
	}
	var envelope struct {
		Data models.Payment `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.Payment{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment response")
	}
	return envelope.Data, nil
}

func (c *Client) getData(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return err
	}
	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, headers map[string]string) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode request")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(identityHeader, c.userID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gallery api unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func decodeAPIError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		return pkgerrors.New(pkgerrors.Code(envelope.Error.Code), envelope.Error.Message)
	}
	return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("gallery api returned status %d", status))
}
