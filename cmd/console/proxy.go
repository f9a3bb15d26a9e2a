package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/4oBuko/spy-cat-console/internal/devproxy"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	FlagAddr      = "addr"
	FlagRateLimit = "rate-limit"
)

// GetProxyCmd returns the development proxy command.
func GetProxyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Forward /api/ requests to the agency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed(FlagAddr) {
				if a.cfg.ProxyAddr, err = cmd.Flags().GetString(FlagAddr); err != nil {
					return fmt.Errorf("%s flag: %w", FlagAddr, err)
				}
			}
			if cmd.Flags().Changed(FlagRateLimit) {
				if a.cfg.ProxyRateLimit, err = cmd.Flags().GetFloat64(FlagRateLimit); err != nil {
					return fmt.Errorf("%s flag: %w", FlagRateLimit, err)
				}
			}

			if a.cfg.Env != "dev" {
				gin.SetMode(gin.ReleaseMode)
			}
			server, err := devproxy.NewServer(devproxy.Config{
				Addr:      a.cfg.ProxyAddr,
				Target:    a.cfg.APIBaseURL,
				RateLimit: a.cfg.ProxyRateLimit,
			}, a.logger)
			if err != nil {
				return err
			}

			runErr := make(chan error, 1)
			go func() {
				a.logger.Info("proxy listening", "addr", a.cfg.ProxyAddr, "target", a.cfg.APIBaseURL)
				runErr <- server.Run()
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-runErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("proxy failed to start: %w", err)
				}
				return nil
			case <-quit:
			}

			a.logger.Info("shutting down proxy")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("proxy forced to shutdown: %w", err)
			}
			a.logger.Info("proxy exited")
			return nil
		},
	}
	cmd.Flags().String(FlagAddr, "", "(optional) listen address, overrides PROXY_ADDR")
	cmd.Flags().Float64(FlagRateLimit, 0, "(optional) requests per second, 0 disables")
	return cmd
}
