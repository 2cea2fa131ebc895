package main

import (
	"fmt"
	"os"

	"github.com/de-tools/farm-insights/pkg/runtime/bootstrap"
	"github.com/de-tools/farm-insights/pkg/server"
	"github.com/de-tools/farm-insights/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Farm Insights",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the settings file (environment variables are used when empty)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	app, err := bootstrap.New(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close application")
		}
	}()

	logger.Info().
		Str("provider", settings.Backend.Provider).
		Str("format", settings.Backend.Format).
		Str("source", settings.Source.Kind).
		Msg("settings loaded")

	api := server.NewWebAPI(logger, server.Config{
		Addr:           settings.Server.Addr,
		RequestTimeout: settings.Server.RequestTimeout,
		Dependencies: server.Dependencies{
			Insights: app.Insights,
			Records:  app.Records,
		},
	})

	return api.Start()
}
