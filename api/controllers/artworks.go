package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/artvia/artvia-backend/api/middleware"
	"github.com/artvia/artvia-backend/api/responses"
	"github.com/artvia/artvia-backend/api/validators"
	"github.com/artvia/artvia-backend/internal/artworks"
	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
	"github.com/artvia/artvia-backend/pkg/logger"
)

type trendingFavoritesPayload struct {
	ArtworkIDs []string `json:"artworkIds"`
}

type favoriteActionPayload struct {
	Action string `json:"action" validate:"required,oneof=add remove"`
}

func artworkIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid artwork id")
	}
	return id, nil
}

// ArtworksList returns the full catalog.
func ArtworksList(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		list, err := svc.ListArtworks(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ArtworkCreate lists a new artwork.
func ArtworkCreate(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		var payload artworks.CreateArtworkInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artwork, err := svc.CreateArtwork(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, artwork)
	}
}

// ArtworkGet returns one artwork by id.
func ArtworkGet(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		id, err := artworkIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artwork, err := svc.GetArtwork(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, artwork)
	}
}

// ArtworkUpdate applies a partial update to an artwork.
func ArtworkUpdate(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		id, err := artworkIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload artworks.UpdateArtworkInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artwork, err := svc.UpdateArtwork(ctx, id, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, artwork)
	}
}

// ArtworkDelete removes an artwork.
func ArtworkDelete(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		id, err := artworkIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteArtwork(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "artwork deleted")
	}
}

// ArtworksTrending returns the catalog ranked by likes then views.
func ArtworksTrending(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.Trending(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ArtworksTrendingFavorites ranks the caller's favorited ids by
// popularity.
func ArtworksTrendingFavorites(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		var payload trendingFavoritesPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.TrendingAmong(ctx, payload.ArtworkIDs)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ArtworkToggleLike flips the caller's like on an artwork.
func ArtworkToggleLike(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		id, err := artworkIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ToggleLike(ctx, id, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteFlat(w, http.StatusOK, map[string]any{
			"action":  result.Action,
			"likes":   result.Likes,
			"isLiked": result.IsLiked,
		})
	}
}

// ArtworkRecordView counts one detail-page visit.
func ArtworkRecordView(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		id, err := artworkIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		views, err := svc.RecordView(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteFlat(w, http.StatusOK, map[string]any{"views": views})
	}
}

// ArtworkFavorite adjusts the anonymous favorites tally.
func ArtworkFavorite(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "artwork service unavailable"))
			return
		}

		id, err := artworkIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload favoriteActionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		count, err := svc.AdjustFavorites(ctx, id, payload.Action)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteFlat(w, http.StatusOK, map[string]any{"favoritesCount": count})
	}
}
