package scoring

import "errors"

// Errors returned by scoring providers.
var (
	ErrModelLoad    = errors.New("failed to load scoring model")
	ErrInvalidModel = errors.New("invalid scoring model")
	ErrPrediction   = errors.New("prediction failed")
)
