// Package generator implements the case generator collaborator: it turns a
// difficulty into a murder case and player actions into narrated clues, hints,
// and resolutions, by prompting a generative model and validating its output.
package generator

import (
	"log/slog"

	"github.com/myrjola/gumshoe/internal/errors"
)

// ErrGeneration is reported for every failure at the generator boundary: the
// request failed outright or the returned payload did not validate. Callers
// detect it with errors.Is.
var ErrGeneration = errors.NewSentinel("case generation failed")

// generationError wraps err so that it matches both ErrGeneration and the
// underlying cause. err may be nil for pure validation failures.
func generationError(err error, msg string, attrs ...slog.Attr) error {
	return errors.Wrap(errors.Join(ErrGeneration, err), msg, attrs...)
}
