// Package service implements the application use cases on top of the
// file-backed repositories. Services validate input, enforce access rules
// and map storage failures onto API error codes.
package service

import (
	"errors"

	"github.com/stempro/academy-api/internal/filedb"
	appErrors "github.com/stempro/academy-api/pkg/errors"
)

// storeError maps a repository failure onto an API error. Lock contention
// surfaces as a retryable 503, anything else as an internal error.
func storeError(err error, message string) *appErrors.Error {
	if errors.Is(err, filedb.ErrLockTimeout) {
		return appErrors.Clone(appErrors.ErrLockTimeout, "storage busy, try again")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// normalizeLimit clamps list limits to the allowed window.
func normalizeLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

// normalizeSkip rejects negative offsets.
func normalizeSkip(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}
