// Command cli bundles development utilities for Gumshoe.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/gumshoe/cmd/cli/casegen"
	"github.com/myrjola/gumshoe/cmd/cli/img"
	"github.com/spf13/cobra"
)

func init() {
	// A missing .env is fine, the commands read plain environment variables too.
	_ = godotenv.Load()
	rootCmd.AddGroup(img.Group)
	rootCmd.AddCommand(img.Portrait)
	rootCmd.AddGroup(casegen.Group)
	rootCmd.AddCommand(casegen.Preview)
}

var rootCmd = &cobra.Command{
	Use:  "gumshoe-cli",
	Long: `Command line utilities for Gumshoe https://github.com/myrjola/gumshoe`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
