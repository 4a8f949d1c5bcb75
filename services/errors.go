package services

import "errors"

// Errors shared by services and the HTTP error mapping. Field-level
// validation failures use validation.Error instead.
var (
	ErrNotFound = errors.New("requested resource not found")
	ErrConflict = errors.New("resource conflicts with existing data")

	ErrSlugUnavailable     = errors.New("could not allocate a unique slug")
	ErrLogoStoreDisabled   = errors.New("logo storage is not configured")
	ErrUnsupportedLogoType = errors.New("unsupported logo content type")
)
