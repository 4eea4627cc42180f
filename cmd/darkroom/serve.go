package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aellingwood/darkroom/internal/config"
	"github.com/aellingwood/darkroom/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the gallery locally",
	Long:  "Start a local preview server for the gallery with live reload support.",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Root().PersistentFlags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		noLiveReload, _ := cmd.Flags().GetBool("no-live-reload")
		cfg.WithOverrides(map[string]any{
			"port":       port,
			"host":       bind,
			"livereload": !noLiveReload,
		})

		siteRoot, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determining site root: %w", err)
		}

		srv := server.New(server.Options{
			Port:       cfg.Server.Port,
			Bind:       cfg.Server.Host,
			SiteRoot:   siteRoot,
			LiveReload: cfg.Server.LiveReload,
		})

		// Reload browsers when the page or the published photos change.
		watchPaths := []string{
			filepath.Join(siteRoot, cfg.HTML),
			filepath.Join(siteRoot, cfg.Output),
		}
		watcher := server.NewWatcher(watchPaths, 100*time.Millisecond, func() {
			log.Println("Change detected, reloading...")
			srv.NotifyReload()
		})
		srv.SetWatcher(watcher)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Println("\nShutting down...")
			cancel()
		}()

		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 1313, "server port")
	serveCmd.Flags().String("bind", "localhost", "bind address")
	serveCmd.Flags().Bool("no-live-reload", false, "disable live reload")

	rootCmd.AddCommand(serveCmd)
}
