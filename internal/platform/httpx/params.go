package httpx

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID indicates a missing or non-numeric identifier.
var ErrInvalidID = errors.New("missing or non-numeric id")

// ParseID parses a positive numeric identifier from request input.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
