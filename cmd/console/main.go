package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/4oBuko/spy-cat-console/internal/config"
	"github.com/4oBuko/spy-cat-console/internal/slogx"
	"github.com/4oBuko/spy-cat-console/pkg/agencyapi"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

const (
	FlagAPIURL   = "api-url"
	FlagLogLevel = "log-level"
)

const serviceName = "spy-cat-console"

// app holds what every subcommand needs to talk to the agency.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	api    *agencyapi.Client
}

// loadConfig reads the configuration and applies the persistent flags on
// top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed(FlagAPIURL) {
		if cfg.APIBaseURL, err = cmd.Flags().GetString(FlagAPIURL); err != nil {
			return config.Config{}, fmt.Errorf("%s flag: %w", FlagAPIURL, err)
		}
	}
	if cmd.Flags().Changed(FlagLogLevel) {
		if cfg.LogLevel, err = cmd.Flags().GetString(FlagLogLevel); err != nil {
			return config.Config{}, fmt.Errorf("%s flag: %w", FlagLogLevel, err)
		}
	}
	return cfg, nil
}

func buildApp(cfg config.Config, logOut io.Writer) *app {
	logger := slogx.New(slogx.Config{
		Service: serviceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}, logOut)

	return &app{
		cfg:    cfg,
		logger: logger,
		api:    agencyapi.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, agencyapi.WithLogger(logger)),
	}
}

func newApp(cmd *cobra.Command, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, logOut), nil
}

// GetRootCmd returns the base command with every subcommand attached.
func GetRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "console",
		Short:         "Spy cat agency console",
		SilenceUsage:  true,
		SilenceErrors: true,
		// every invocation gets one id, sent with each agency request
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(slogx.WithRequestID(cmd.Context(), ulid.Make().String()))
		},
	}
	cmd.PersistentFlags().String(FlagAPIURL, "", "(optional) agency base address, overrides AGENCY_API_URL")
	cmd.PersistentFlags().String(FlagLogLevel, "", "(optional) debug, info, warn or error")

	cmd.AddCommand(
		GetTUICmd(),
		GetCatsCmd(),
		GetMissionsCmd(),
		GetProxyCmd(),
	)
	return cmd
}

func main() {
	if err := GetRootCmd().Execute(); err != nil {
		log.Fatalf("rootCmd.Execute: %v", err)
	}
}
