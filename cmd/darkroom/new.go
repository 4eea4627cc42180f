package main

import (
	"fmt"
	"os"

	"github.com/aellingwood/darkroom/internal/scaffold"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new gallery site",
	Long: "Create a new gallery site: the input and output directories, a " +
		"darkroom.yaml, and an index.html with the photo grid container.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		title, _ := cmd.Flags().GetString("title")
		aboutPath, _ := cmd.Flags().GetString("about")

		var about []byte
		if aboutPath != "" {
			data, err := os.ReadFile(aboutPath)
			if err != nil {
				return fmt.Errorf("reading about file: %w", err)
			}
			about = data
		}

		if err := scaffold.NewGallery(name, scaffold.Options{Title: title, About: about}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Gallery created: %s/\n", name)
		return nil
	},
}

func init() {
	newCmd.Flags().String("title", "", "gallery title (defaults to the directory name)")
	newCmd.Flags().String("about", "", "Markdown file rendered above the photo grid")

	rootCmd.AddCommand(newCmd)
}
