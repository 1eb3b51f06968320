package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound   = errors.New("not found")
	ErrNotLoaded  = errors.New("issues not loaded")
	ErrEmptyTitle = errors.New("issue title is empty")
)
