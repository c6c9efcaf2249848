package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	ErrInvalidPort        = errors.New("invalid port: must be between 1 and 65535")
	ErrInvalidDevice      = errors.New("invalid device: must be auto, cpu or cuda")
	ErrInvalidImageSize   = errors.New("invalid image size: must be positive")
	ErrInvalidUploadLimit = errors.New("invalid max upload bytes: must be positive")
	ErrInvalidLogFormat   = errors.New("invalid log format: must be json or text")
	ErrEmptyModelPath     = errors.New("model path must not be empty")
	ErrMalformedValue     = errors.New("malformed environment value")
)
