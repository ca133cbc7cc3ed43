// AngelaMos | 2026
// request.go

package core

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathID returns the named URL parameter after checking it is a UUID.
func PathID(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", NewAppError(
			ErrInvalidInput,
			fmt.Sprintf("%s must be a valid UUID", name),
			http.StatusBadRequest,
			CodeValidation,
		)
	}
	return raw, nil
}

func QueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
