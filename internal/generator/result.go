package generator

import (
	"errors"
	"image"
)

// Fatal input errors. Everything else the pipeline hits (missing
// assets, undecodable samples) degrades locally with a logged warning.
var (
	// ErrEmptyText is returned by Generate for an empty input string.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrNoCharacters is returned by GenerateRandom when the dataset
	// index resolved no labels to sample from.
	ErrNoCharacters = errors.New("no characters loaded from dataset")
)

// Result is the immutable output bundle of one generation: the final
// pixel buffer, the text it renders, one label per character, the seed
// the generator was seeded with, and the applied configuration values.
type Result struct {
	Image  *image.NRGBA   `json:"-"`
	Text   string         `json:"text"`
	Labels []string       `json:"labels"`
	Seed   int64          `json:"seed"`
	Params map[string]any `json:"params,omitempty"`
}

// BatchItem pairs one batch input with its outcome. Batch generation
// continues past individual failures; callers inspect Err per item.
type BatchItem struct {
	Text   string
	Result *Result
	Err    error
}
