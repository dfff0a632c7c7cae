package pagination

import (
	"strconv"

	"github.com/orderstack/commerce-services/internal/errs"
)

// Params carries a validated page size and an optional continuation cursor.
// An empty Offset means "start from the beginning".
type Params struct {
	Limit  int32
	Offset string
}

// ParseParams validates raw query string values before any storage call is
// made. A missing limit falls back to defaultLimit; anything that is not a
// positive integer is a validation error, not a storage error.
func ParseParams(rawLimit, offset string, defaultLimit int32) (Params, error) {
	limit := defaultLimit
	if rawLimit != "" {
		parsed, err := strconv.ParseInt(rawLimit, 10, 32)
		if err != nil {
			return Params{}, errs.NewValidation("invalid pagination parameters")
		}
		limit = int32(parsed)
	}
	if limit <= 0 {
		return Params{}, errs.NewValidation("invalid pagination parameters")
	}

	return Params{Limit: limit, Offset: offset}, nil
}
