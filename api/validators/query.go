package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
)

// ParseQueryInt reads an optional positive integer query parameter.
// Absent values return fallback; malformed or non-positive values are a
// validation error.
func ParseQueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a positive integer")
	}
	return value, nil
}
