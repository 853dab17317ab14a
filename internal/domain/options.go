package domain

import (
	"errors"
	"fmt"
)

const (
	MinQuality = 1
	MaxQuality = 100

	// MaxDimension bounds a requested output width or height.
	MaxDimension = 1<<16 - 1
)

// ProcessingOptions is the complete configuration surface of the pipeline.
// A zero Width or Height means the dimension was not requested.
type ProcessingOptions struct {
	Format  Format `json:"format"`
	Quality int    `json:"quality"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

func (o ProcessingOptions) Validate() error {
	if !o.Format.Valid() {
		return fmt.Errorf("unsupported format: %q", o.Format)
	}
	if o.Quality < MinQuality || o.Quality > MaxQuality {
		return fmt.Errorf("quality must be within [%d,%d], got %d", MinQuality, MaxQuality, o.Quality)
	}
	if o.Width < 0 {
		return errors.New("width must be positive")
	}
	if o.Height < 0 {
		return errors.New("height must be positive")
	}
	if o.Width > MaxDimension || o.Height > MaxDimension {
		return fmt.Errorf("width and height must not exceed %d", MaxDimension)
	}
	return nil
}
