package main

import (
	"fmt"
	"os"

	"github.com/4oBuko/spy-cat-console/internal/console"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// GetTUICmd returns the interactive console command.
func GetTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// The program owns the terminal, so logs go to a file.
			logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			a := buildApp(cfg, logFile)
			a.logger.Info("console started", "api", a.api.BaseURL())

			program := tea.NewProgram(
				console.New(cmd.Context(), a.api, a.logger),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("console: %w", err)
			}
			a.logger.Info("console stopped")
			return nil
		},
	}
}
