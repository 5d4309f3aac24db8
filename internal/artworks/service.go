package artworks

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artvia/artvia-backend/pkg/config"
	"github.com/artvia/artvia-backend/pkg/db/models"
	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
	"github.com/artvia/artvia-backend/pkg/logger"
)

// TrendingCache is the slice of the redis client the service needs.
// A nil cache disables caching without changing behavior.
type TrendingCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// ServiceParams groups dependencies for the artwork service.
type ServiceParams struct {
	Repo     *Repository
	Cache    TrendingCache
	Trending config.TrendingConfig
	Logger   *logger.Logger
}

// Service exposes catalog, trending and counter operations.
type Service interface {
	ListArtworks(ctx context.Context) ([]models.Artwork, error)
	GetArtwork(ctx context.Context, id uuid.UUID) (models.Artwork, error)
	CreateArtwork(ctx context.Context, input CreateArtworkInput) (models.Artwork, error)
	UpdateArtwork(ctx context.Context, id uuid.UUID, input UpdateArtworkInput) (models.Artwork, error)
	DeleteArtwork(ctx context.Context, id uuid.UUID) error
	Trending(ctx context.Context, limit int) ([]models.Artwork, error)
	TrendingAmong(ctx context.Context, ids []string) ([]models.Artwork, error)
	RecordView(ctx context.Context, id uuid.UUID) (int, error)
	ToggleLike(ctx context.Context, id uuid.UUID, userID string) (ToggleLikeResult, error)
	AdjustFavorites(ctx context.Context, id uuid.UUID, action string) (int, error)
}

type service struct {
	repo     *Repository
	cache    TrendingCache
	trending config.TrendingConfig
	logg     *logger.Logger
}

// NewService builds an artwork service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork repo is required")
	}
	if params.Trending.DefaultLimit <= 0 {
		params.Trending.DefaultLimit = 10
	}
	if params.Trending.MaxLimit <= 0 {
		params.Trending.MaxLimit = 50
	}
	return &service{
		repo:     params.Repo,
		cache:    params.Cache,
		trending: params.Trending,
		logg:     params.Logger,
	}, nil
}

// ListArtworks returns the full catalog, newest first.
func (s *service) ListArtworks(ctx context.Context) ([]models.Artwork, error) {
	artworks, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list artworks")
	}
	return artworks, nil
}

// GetArtwork loads one artwork by id.
func (s *service) GetArtwork(ctx context.Context, id uuid.UUID) (models.Artwork, error) {
	artwork, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Artwork{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artwork not found")
		}
		return models.Artwork{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load artwork")
	}
	return artwork, nil
}

// CreateArtwork inserts a new catalog entry with zeroed counters.
func (s *service) CreateArtwork(ctx context.Context, input CreateArtworkInput) (models.Artwork, error) {
	if input.Price.IsNegative() {
		return models.Artwork{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	artwork := models.Artwork{
		ID:          uuid.New(),
		ArtType:     input.ArtType,
		Description: input.Description,
		Price:       input.Price,
		ArtistName:  input.ArtistName,
		Gmail:       input.Gmail,
		Image:       input.Image,
	}
	if err := s.repo.Create(ctx, &artwork); err != nil {
		return models.Artwork{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create artwork")
	}
	return artwork, nil
}

// UpdateArtwork applies a partial update; blank fields keep the stored
// value.
func (s *service) UpdateArtwork(ctx context.Context, id uuid.UUID, input UpdateArtworkInput) (models.Artwork, error) {
	artwork, err := s.GetArtwork(ctx, id)
	if err != nil {
		return models.Artwork{}, err
	}

	if input.ArtType != "" {
		artwork.ArtType = input.ArtType
	}
	if input.Description != "" {
		artwork.Description = input.Description
	}
	if !input.Price.IsZero() {
		if input.Price.IsNegative() {
			return models.Artwork{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		artwork.Price = input.Price
	}
	if input.ArtistName != "" {
		artwork.ArtistName = input.ArtistName
	}
	if input.Gmail != "" {
		artwork.Gmail = input.Gmail
	}
	if input.Image != "" {
		artwork.Image = input.Image
	}

	if err := s.repo.Save(ctx, &artwork); err != nil {
		return models.Artwork{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update artwork")
	}
	return artwork, nil
}

// DeleteArtwork removes the artwork and its like rows.
func (s *service) DeleteArtwork(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artwork not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete artwork")
	}
	return nil
}

// Trending returns up to limit artworks ranked by (likes desc, views
// desc). limit <= 0 falls back to the configured default; values above
// the configured maximum are clamped. Results are cached briefly, so a
// just-recorded like may take a cache TTL to surface.
func (s *service) Trending(ctx context.Context, limit int) ([]models.Artwork, error) {
	if limit <= 0 {
		limit = s.trending.DefaultLimit
	}
	if limit > s.trending.MaxLimit {
		limit = s.trending.MaxLimit
	}

	cacheKey := ""
	if s.cache != nil && s.trending.CacheTTL > 0 {
		cacheKey = s.cache.CacheKey("trending", strconv.Itoa(limit))
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var cached []models.Artwork
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	artworks, err := s.repo.Trending(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trending artworks")
	}

	if cacheKey != "" {
		if raw, err := json.Marshal(artworks); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(raw), s.trending.CacheTTL); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "trending cache write failed")
			}
		}
	}
	return artworks, nil
}

// TrendingAmong ranks the caller's ids by (likes desc, views desc).
// Ids that do not parse or do not exist are dropped from the result.
func (s *service) TrendingAmong(ctx context.Context, ids []string) ([]models.Artwork, error) {
	if ids == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artworkIds must be a list")
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		parsed = append(parsed, id)
	}

	artworks, err := s.repo.TrendingAmong(ctx, parsed, s.trending.MaxLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trending favorites")
	}
	return artworks, nil
}

// RecordView counts one detail-page visit. Not idempotent on purpose.
func (s *service) RecordView(ctx context.Context, id uuid.UUID) (int, error) {
	views, err := s.repo.IncrementView(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artwork not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record view")
	}
	return views, nil
}

// ToggleLike flips the caller's like and reports the resulting state.
func (s *service) ToggleLike(ctx context.Context, id uuid.UUID, userID string) (ToggleLikeResult, error) {
	if userID == "" {
		return ToggleLikeResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity is required to like artworks")
	}

	liked, likes, err := s.repo.ToggleLike(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToggleLikeResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artwork not found")
		}
		return ToggleLikeResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle like")
	}

	action := ActionUnliked
	if liked {
		action = ActionLiked
	}
	return ToggleLikeResult{Action: action, Likes: likes, IsLiked: liked}, nil
}

// AdjustFavorites moves the anonymous favorites tally by one in the
// given direction, floored at zero.
func (s *service) AdjustFavorites(ctx context.Context, id uuid.UUID, action string) (int, error) {
	var delta int
	switch action {
	case FavoriteActionAdd:
		delta = 1
	case FavoriteActionRemove:
		delta = -1
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "action must be add or remove")
	}

	count, err := s.repo.AdjustFavoriteCount(ctx, id, delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artwork not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust favorites count")
	}
	return count, nil
}
