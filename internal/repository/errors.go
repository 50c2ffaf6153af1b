package repository

import "errors"

var (
	// ErrSourceUnavailable indicates no configured source can serve a reference
	ErrSourceUnavailable = errors.New("no image source configured for reference")
)
