package cache

import "errors"

// ErrNoDir is returned when a FileCache is created without a directory.
var ErrNoDir = errors.New("cache directory not set")
