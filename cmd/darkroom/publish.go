package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/aellingwood/darkroom/internal/config"
	"github.com/aellingwood/darkroom/internal/pipeline"
	"github.com/aellingwood/darkroom/internal/publish"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Resize new photos, update the gallery page, and push",
	Long: "Publish runs the full pipeline: scan the input directory, resize " +
		"and rename new photos into the output directory, insert the matching " +
		"fragments into the gallery page, and commit and push the change " +
		"after confirmation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Root().PersistentFlags().GetString("config")
		verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		cfg.WithOverrides(map[string]any{
			"input":  input,
			"output": output,
		})
		if err := cfg.Validate(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		result, err := pipeline.New(cfg, verbose).Run()
		if err != nil {
			return err
		}

		for _, s := range result.Skipped {
			fmt.Fprintf(out, "skipped %s\n", s)
		}
		if len(result.Photos) == 0 {
			fmt.Fprintln(out, "No new photos found. Nothing to do.")
			return nil
		}

		// Summary for the operator before anything touches the repository.
		fmt.Fprintf(out, "\nProcessed %d new photo(s):\n", len(result.Photos))
		for _, p := range result.Photos {
			fmt.Fprintf(out, "  %s -> %s (%dx%d)\n", p.Name, p.OutputName, p.Width, p.Height)
		}
		fmt.Fprintf(out, "Gallery now references %d image(s) in %s.\n\n", result.TotalImages, cfg.HTML)

		publisher := publish.NewPublisher("", cfg.Git.Remote)
		if err := publisher.EnsureRepository(); err != nil {
			return err
		}

		skipConfirm, _ := cmd.Flags().GetBool("yes")
		if !skipConfirm {
			ok, err := publish.Confirm(cmd.InOrStdin(), out, "Commit and push these changes?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Publish cancelled. Resized photos are kept on disk; the repository is untouched.")
				return nil
			}
		}

		changed, err := publisher.HasChanges(cfg.Output, cfg.HTML)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintln(out, "No repository changes detected. Nothing to commit.")
			return nil
		}

		if err := publisher.Stage(cfg.Output, cfg.HTML); err != nil {
			return err
		}

		message, _ := cmd.Flags().GetString("message")
		if message == "" {
			message = commitMessage(cfg.Git.CommitTemplate, len(result.Photos))
		}
		if err := publisher.Commit(message); err != nil {
			return err
		}

		if err := publisher.Push(); err != nil {
			// The commit is in place; the operator can pull/rebase and push
			// by hand.
			log.Printf("push failed, local commit preserved: %v", err)
			return nil
		}

		fmt.Fprintf(out, "Published %d photo(s).\n", len(result.Photos))
		return nil
	},
}

// commitMessage expands the configured template with the photo count. A
// template without a %d verb is used verbatim.
func commitMessage(template string, count int) string {
	if strings.Contains(template, "%d") {
		return fmt.Sprintf(template, count)
	}
	return template
}

func init() {
	publishCmd.Flags().String("input", "", "directory with new photos (overrides config)")
	publishCmd.Flags().String("output", "", "directory for resized photos (overrides config)")
	publishCmd.Flags().String("message", "", "commit message (overrides the configured template)")
	publishCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	rootCmd.AddCommand(publishCmd)
}
