package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/glefebvre/mediathek/internal/config"
	"github.com/glefebvre/mediathek/internal/description"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [text]",
	Short: "Normalize a film description",
	Long: `Run a raw description through the normalization pipeline and print the result.

The text is taken from the argument, or read from stdin when no argument is given.
Title and topic are stripped when the description starts with them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		topic, _ := cmd.Flags().GetString("topic")
		maxLength, _ := cmd.Flags().GetInt("max-length")
		if maxLength <= 0 {
			maxLength = config.Get().Description.MaxLength
		}

		raw, err := readDescription(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		pipeline := description.NewPipeline(maxLength)
		fmt.Fprintln(cmd.OutOrStdout(), pipeline.Normalize(raw, description.PlainText(title), description.PlainText(topic)))
		return nil
	},
}

func init() {
	normalizeCmd.Flags().String("title", "", "film title stripped from the start of the description")
	normalizeCmd.Flags().String("topic", "", "film topic stripped from the start of the description")
	normalizeCmd.Flags().Int("max-length", 0, "maximum description length (default from configuration)")
	rootCmd.AddCommand(normalizeCmd)
}

// readDescription returns the argument, or all of in with the final newline removed
func readDescription(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read description: %w", err)
	}
	return strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r"), nil
}
