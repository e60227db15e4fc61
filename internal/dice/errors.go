package dice

import (
	"errors"
	"fmt"
)

// Error kinds reported by the reader. Stage failures wrap one of these in a
// *StageError, so callers match them with errors.Is.
var (
	// ErrInputDecode means the payload could not be decoded into an image.
	ErrInputDecode = errors.New("input could not be decoded as an image")
	// ErrUnsupportedImage means the image has a channel layout the
	// preprocessor cannot handle.
	ErrUnsupportedImage = errors.New("unsupported image format")
	// ErrNoViewportFound means no connected region of the photo qualified
	// as the device display.
	ErrNoViewportFound = errors.New("no viewport found")
	// ErrNoRegionsDetected means fewer die regions than expected were found.
	// The pipeline reports it in logs only and returns the short result.
	ErrNoRegionsDetected = errors.New("too few dice regions detected")
	// ErrTooManyCandidates guards the combinatorial line search.
	ErrTooManyCandidates = errors.New("too many candidate regions")
	// ErrTemplateLoad means a face template was missing or corrupt.
	ErrTemplateLoad = errors.New("template load failed")
)

// Stage names used in StageError.
const (
	StagePreprocess = "preprocess"
	StageViewport   = "viewport"
	StageRegions    = "regions"
	StageSelect     = "select"
)

// StageError records which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}
