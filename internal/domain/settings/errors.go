package settings

import "errors"

// Settings domain errors
var (
	ErrSettingNotFound   = errors.New("setting not found")
	ErrConfigUnavailable = errors.New("settings store unavailable")
	ErrUnknownSweep      = errors.New("unknown sweep name")
)
