package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "darkroom",
	Short: "Publish photos to a static portfolio site",
	Long: "Darkroom resizes new photos, adds them to your gallery page, " +
		"and pushes the result to the site's repository.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env next to the site can carry AWS credentials or profile
		// selection; its absence is fine.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "darkroom.yaml", "path to config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
}
