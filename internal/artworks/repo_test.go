package artworks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestTrendingOrdersByLikesThenViews(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	low := mustCreateArtwork(t, db, 1, 100)
	tiedFewViews := mustCreateArtwork(t, db, 3, 10)
	tiedManyViews := mustCreateArtwork(t, db, 3, 20)

	got, err := repo.Trending(ctx, 2)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != tiedManyViews.ID {
		t.Fatalf("views should break the like tie, got %s first", got[0].ID)
	}
	if got[1].ID != tiedFewViews.ID {
		t.Fatalf("expected tied artwork second, got %s", got[1].ID)
	}
	_ = low
}

func TestTrendingLimitCapsResultLength(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustCreateArtwork(t, db, i, i)
	}

	got, err := repo.Trending(ctx, 10)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected min(limit, catalog) = 3, got %d", len(got))
	}
}

func TestTrendingAmongRestrictsToIDs(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	a := mustCreateArtwork(t, db, 5, 0)
	b := mustCreateArtwork(t, db, 1, 0)
	mustCreateArtwork(t, db, 9, 0) // not requested

	got, err := repo.TrendingAmong(ctx, []uuid.UUID{a.ID, b.ID}, 50)
	if err != nil {
		t.Fatalf("trending among: %v", err)
	}
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("expected [a b] ranked by likes, got %+v", got)
	}
}

func TestTrendingAmongEmptyIDs(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	got, err := repo.TrendingAmong(context.Background(), nil, 50)
	if err != nil {
		t.Fatalf("trending among: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestIncrementViewKeepsCounting(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	artwork := mustCreateArtwork(t, db, 0, 0)

	for want := 1; want <= 3; want++ {
		views, err := repo.IncrementView(ctx, artwork.ID)
		if err != nil {
			t.Fatalf("increment view: %v", err)
		}
		if views != want {
			t.Fatalf("expected %d views, got %d", want, views)
		}
	}
}

func TestIncrementViewUnknownArtwork(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	_, err := repo.IncrementView(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestToggleLikeKeepsLikesEqualToLikeRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	artwork := mustCreateArtwork(t, db, 0, 0)

	liked, likes, err := repo.ToggleLike(ctx, artwork.ID, "user-a")
	if err != nil || !liked || likes != 1 {
		t.Fatalf("first toggle: liked=%v likes=%d err=%v", liked, likes, err)
	}
	liked, likes, err = repo.ToggleLike(ctx, artwork.ID, "user-b")
	if err != nil || !liked || likes != 2 {
		t.Fatalf("second user toggle: liked=%v likes=%d err=%v", liked, likes, err)
	}
	liked, likes, err = repo.ToggleLike(ctx, artwork.ID, "user-a")
	if err != nil || liked || likes != 1 {
		t.Fatalf("untoggle: liked=%v likes=%d err=%v", liked, likes, err)
	}

	fresh, err := repo.FindByID(ctx, artwork.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	var rows int64
	if err := db.Table("artwork_likes").Where("artwork_id = ?", artwork.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if fresh.Likes != int(rows) {
		t.Fatalf("likes column %d diverged from %d like rows", fresh.Likes, rows)
	}
}

func TestToggleLikeConcurrentUsers(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	artwork := mustCreateArtwork(t, db, 0, 0)

	var wg sync.WaitGroup
	users := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, u := range users {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			if _, _, err := repo.ToggleLike(ctx, artwork.ID, user); err != nil {
				t.Errorf("toggle for %s: %v", user, err)
			}
		}(u)
	}
	wg.Wait()

	fresh, err := repo.FindByID(ctx, artwork.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Likes != len(users) {
		t.Fatalf("expected %d likes after distinct-user toggles, got %d", len(users), fresh.Likes)
	}
}

func TestAdjustFavoriteCountFloorsAtZero(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	artwork := mustCreateArtwork(t, db, 0, 0)

	count, err := repo.AdjustFavoriteCount(ctx, artwork.ID, -1)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected floor at 0, got %d", count)
	}

	count, err = repo.AdjustFavoriteCount(ctx, artwork.ID, 1)
	if err != nil || count != 1 {
		t.Fatalf("expected 1, got %d (err=%v)", count, err)
	}
}

func TestDeleteArtwork(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	artwork := mustCreateArtwork(t, db, 0, 0)
	if _, _, err := repo.ToggleLike(ctx, artwork.ID, "user-a"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := repo.Delete(ctx, artwork.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, artwork.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}
