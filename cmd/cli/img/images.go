// Package img renders suspect portraits for manual prompt tuning.
package img

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "img",
	Title: "Image operations",
}

func init() {
	Portrait.Flags().String("out", "./portrait.png", "path to generated portrait file")
}

var Portrait = &cobra.Command{
	Use:     "portrait [description]",
	GroupID: "img",
	Short:   "Generate a suspect portrait",
	Long:    `Renders a suspect portrait with Dall-E using the same style as the game.`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := openai.NewClient(os.Getenv("OPENAI_API_KEY"))

		ctx := context.Background()

		description := strings.Join(args, " ")
		prompt := fmt.Sprintf(
			"A moody film noir portrait of %s, 1920s attire, chiaroscuro lighting, grainy photograph.",
			description)

		request := openai.ImageRequest{
			Model:          openai.CreateImageModelDallE3,
			Prompt:         prompt,
			Size:           openai.CreateImageSize1024x1024,
			ResponseFormat: openai.CreateImageResponseFormatB64JSON,
			N:              1,
		}

		response, err := c.CreateImage(ctx, request)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Image creation error: %v\n", err)
			return
		}

		imgBytes, err := base64.StdEncoding.DecodeString(response.Data[0].B64JSON)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Base64 decode error: %v\n", err)
			return
		}

		imgData, err := png.Decode(bytes.NewReader(imgBytes))
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "PNG decode error: %v\n", err)
			return
		}

		outPath, err := cmd.Flags().GetString("out")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid out flag: %v\n", err)
			return
		}
		file, err := os.Create(outPath)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "File creation error: %v\n", err)
			return
		}
		defer func(file *os.File) {
			_ = file.Close()
		}(file)

		if err := png.Encode(file, imgData); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "PNG encode error: %v\n", err)
			return
		}

		fmt.Printf("The portrait was saved as %s\n", outPath)
	},
}
