package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

// QueryString returns the trimmed query value for key, or "" when absent.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// ParseQueryInt reads an optional integer query parameter bounded to
// [min, max]. Absent values yield defaultVal.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Field(pkgerrors.CodeValidation, key, "NotNumeric", "query parameter must be numeric")
	}
	if value < min || value > max {
		return 0, pkgerrors.Field(pkgerrors.CodeValidation, key, "OutOfRange",
			fmt.Sprintf("query parameter must be between %d and %d", min, max))
	}
	return value, nil
}
