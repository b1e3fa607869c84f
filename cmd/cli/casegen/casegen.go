// Package casegen previews generated cases for prompt tuning without running
// the web application.
package casegen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/myrjola/gumshoe/internal/generator"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/session"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "case",
	Title: "Case operations",
}

func init() {
	Preview.Flags().String("difficulty", "medium", "case difficulty: easy, medium or hard")
	Preview.Flags().String("backend", "openai", "AI backend: openai or gemini")
}

var Preview = &cobra.Command{
	Use:     "preview",
	GroupID: "case",
	Short:   "Generate and print a case",
	Long:    `Generates a murder case with the configured AI backend and prints it as JSON.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		difficultyFlag, err := cmd.Flags().GetString("difficulty")
		if err != nil {
			return fmt.Errorf("invalid difficulty flag: %w", err)
		}
		difficulty := models.ParseDifficulty(difficultyFlag)

		backend, err := cmd.Flags().GetString("backend")
		if err != nil {
			return fmt.Errorf("invalid backend flag: %w", err)
		}

		var gen session.Generator
		switch backend {
		case "openai":
			gen = generator.NewOpenAI(generator.OpenAIConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				BaseURL: os.Getenv("OPENAI_BASE_URL"),
				Model:   os.Getenv("OPENAI_MODEL"),
			}, logger)
		case "gemini":
			var gemini *generator.Gemini
			if gemini, err = generator.NewGemini(ctx, os.Getenv("GEMINI_API_KEY"),
				os.Getenv("GEMINI_MODEL"), logger); err != nil {
				return fmt.Errorf("new gemini client: %w", err)
			}
			defer func() {
				_ = gemini.Close()
			}()
			gen = gemini
		default:
			return fmt.Errorf("unknown backend %q", backend)
		}

		generatedCase, err := gen.GenerateCase(ctx, difficulty)
		if err != nil {
			return fmt.Errorf("generate case: %w", err)
		}

		out, err := json.MarshalIndent(generatedCase, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal case: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}
