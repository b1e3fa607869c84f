package generator_test

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/gumshoe/internal/generator"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestPortraits_CachesPerCaseAndSuspect(t *testing.T) {
	ctx := context.Background()
	fake := testhelpers.NewFakeOpenAI()
	t.Cleanup(fake.Close)
	portraits := generator.NewPortraits(generator.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: fake.BaseURL(),
	}, testhelpers.NewLogger(io.Discard))

	suspect := models.Suspect{Name: "Jean Brash", Description: "the estranged niece"}

	url, err := portraits.Portrait(ctx, "The Grandfather Clock Affair", suspect)
	require.NoError(t, err)
	require.Equal(t, testhelpers.FakePortraitURL, url)
	require.Equal(t, 1, fake.ImageRequests())

	// Repeat hits the cache.
	url, err = portraits.Portrait(ctx, "The Grandfather Clock Affair", suspect)
	require.NoError(t, err)
	require.Equal(t, testhelpers.FakePortraitURL, url)
	require.Equal(t, 1, fake.ImageRequests())

	// A different case generates anew.
	_, err = portraits.Portrait(ctx, "Death at the Observatory", suspect)
	require.NoError(t, err)
	require.Equal(t, 2, fake.ImageRequests())
}
