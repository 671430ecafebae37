package domain

import "errors"

// ErrUnknownBrand is returned when a brand identifier is outside the closed set.
var ErrUnknownBrand = errors.New("unknown brand")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoBrand is returned by operations that require a selected brand.
var ErrNoBrand = errors.New("no brand selected")

// ErrSessionExists is returned when creating a session whose ID is taken.
var ErrSessionExists = errors.New("session already exists")
