package errors

import (
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnnotatedError(t *testing.T) {
	err := New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors works as expected.
	sentinel := NewSentinel("sentinel error")
	require.NotErrorIs(t, err, NewSentinel("sentinel error"))
	wrapped := Wrap(sentinel, "more context", slog.Int("attempt", 2))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "more context: sentinel error", wrapped.Error())

	// Ensure log values are coming through.
	var annotated AnnotatedError
	require.True(t, As(err, &annotated))
	group := annotated.LogValue().Group()
	require.Contains(t, group, slog.String("id", "123"))

	// Assert there's a valid source.
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.NotEqual(t, -1, sourceIdx)
	source := group[sourceIdx]
	require.Contains(t, source.Value.String(), "annotatederror_test.go")
}

func TestWrapMatchesBothEnds(t *testing.T) {
	inner := NewSentinel("inner")
	joined := Join(inner, NewSentinel("other"))
	wrapped := Wrap(joined, "outer")

	require.ErrorIs(t, wrapped, inner)

	var annotated AnnotatedError
	require.True(t, As(wrapped, &annotated))
	require.Equal(t, "outer", annotated.Error())
}
