package artworks

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artvia/artvia-backend/pkg/config"
	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
)

type fakeCache struct {
	data map[string]string
	sets int
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.gets++
	return f.data[key], nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.sets++
	f.data[key] = value.(string)
	return nil
}

func (f *fakeCache) CacheKey(parts ...string) string {
	return "test:" + strings.Join(parts, ":")
}

func newTestService(t *testing.T, cache TrendingCache) (Service, *Repository) {
	t.Helper()
	db := openTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(ServiceParams{
		Repo:  repo,
		Cache: cache,
		Trending: config.TrendingConfig{
			DefaultLimit: 2,
			MaxLimit:     5,
			CacheTTL:     time.Minute,
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error for missing repo")
	}
}

func TestTrendingAppliesDefaultAndMaxLimit(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()
	db := repo.db

	for i := 0; i < 7; i++ {
		mustCreateArtwork(t, db, i, 0)
	}

	got, err := svc.Trending(ctx, 0)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit 0 should fall back to default 2, got %d", len(got))
	}

	got, err = svc.Trending(ctx, 100)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("limit should clamp to max 5, got %d", len(got))
	}
}

func TestTrendingServesFromCacheOnSecondCall(t *testing.T) {
	cache := newFakeCache()
	svc, repo := newTestService(t, cache)
	ctx := context.Background()

	mustCreateArtwork(t, repo.db, 3, 10)

	first, err := svc.Trending(ctx, 2)
	if err != nil {
		t.Fatalf("first trending: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	second, err := svc.Trending(ctx, 2)
	if err != nil {
		t.Fatalf("second trending: %v", err)
	}
	if cache.sets != 1 {
		t.Fatal("cached call must not rewrite the cache")
	}
	if len(first) != len(second) || first[0].ID != second[0].ID {
		t.Fatal("cached result should match the stored one")
	}
}

func TestTrendingAmongRejectsNilList(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.TrendingAmong(context.Background(), nil)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTrendingAmongSkipsUnparsableIDs(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()

	artwork := mustCreateArtwork(t, repo.db, 1, 1)

	got, err := svc.TrendingAmong(ctx, []string{artwork.ID.String(), "not-a-uuid"})
	if err != nil {
		t.Fatalf("trending among: %v", err)
	}
	if len(got) != 1 || got[0].ID != artwork.ID {
		t.Fatalf("expected only the parsable id, got %+v", got)
	}
}

func TestTrendingAmongEmptyListIsAllowed(t *testing.T) {
	svc, _ := newTestService(t, nil)

	got, err := svc.TrendingAmong(context.Background(), []string{})
	if err != nil {
		t.Fatalf("empty list should be valid: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestToggleLikeRequiresIdentity(t *testing.T) {
	svc, repo := newTestService(t, nil)
	artwork := mustCreateArtwork(t, repo.db, 0, 0)

	_, err := svc.ToggleLike(context.Background(), artwork.ID, "")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestToggleLikeReportsAction(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()
	artwork := mustCreateArtwork(t, repo.db, 0, 0)

	result, err := svc.ToggleLike(ctx, artwork.ID, "user-a")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if result.Action != ActionLiked || !result.IsLiked || result.Likes != 1 {
		t.Fatalf("unexpected first toggle result: %+v", result)
	}

	result, err = svc.ToggleLike(ctx, artwork.ID, "user-a")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if result.Action != ActionUnliked || result.IsLiked || result.Likes != 0 {
		t.Fatalf("unexpected second toggle result: %+v", result)
	}
}

func TestAdjustFavoritesValidatesAction(t *testing.T) {
	svc, repo := newTestService(t, nil)
	artwork := mustCreateArtwork(t, repo.db, 0, 0)

	_, err := svc.AdjustFavorites(context.Background(), artwork.ID, "boost")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdjustFavoritesAddAndRemove(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()
	artwork := mustCreateArtwork(t, repo.db, 0, 0)

	count, err := svc.AdjustFavorites(ctx, artwork.ID, FavoriteActionAdd)
	if err != nil || count != 1 {
		t.Fatalf("add: count=%d err=%v", count, err)
	}
	count, err = svc.AdjustFavorites(ctx, artwork.ID, FavoriteActionRemove)
	if err != nil || count != 0 {
		t.Fatalf("remove: count=%d err=%v", count, err)
	}
	count, err = svc.AdjustFavorites(ctx, artwork.ID, FavoriteActionRemove)
	if err != nil || count != 0 {
		t.Fatalf("remove at zero should floor: count=%d err=%v", count, err)
	}
}

func TestCreateArtworkRejectsNegativePrice(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.CreateArtwork(context.Background(), CreateArtworkInput{
		ArtType:     "painting",
		Description: "d",
		Price:       decimal.RequireFromString("-1"),
		ArtistName:  "a",
		Gmail:       "a@example.com",
		Image:       "img",
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateArtworkKeepsBlankFields(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()
	artwork := mustCreateArtwork(t, repo.db, 0, 0)

	updated, err := svc.UpdateArtwork(ctx, artwork.ID, UpdateArtworkInput{
		Description: "new description",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "new description" {
		t.Fatalf("description not updated: %q", updated.Description)
	}
	if updated.ArtType != artwork.ArtType || updated.ArtistName != artwork.ArtistName {
		t.Fatal("blank fields must keep stored values")
	}
	if !updated.Price.Equal(artwork.Price) {
		t.Fatalf("price should be unchanged, got %s", updated.Price)
	}
}

func TestGetArtworkNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.GetArtwork(context.Background(), uuid.New())
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
