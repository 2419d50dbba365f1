package main

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/auth"
	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/web"

	"github.com/spf13/cobra"
)

var (
	webAPITimeout    time.Duration
	webSecureCookies bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the storefront web front end against the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWeb()
	},
}

func init() {
	webCmd.Flags().DurationVar(&webAPITimeout, "api-timeout", 10*time.Second, "timeout for each REST API call")
	webCmd.Flags().BoolVar(&webSecureCookies, "secure-cookies", false, "mark session cookies Secure (serve behind HTTPS)")
}

func runWeb() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "web")
	logger.Info().Str("api_url", cfg.Web.APIURL).Msg("starting storefront web front end")

	api := client.New(cfg.Web.APIURL, webAPITimeout, logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var opts []web.Option
	if webSecureCookies {
		opts = append(opts, web.WithSecureCookies())
	}
	srv, err := web.NewServer(api, tokens, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize web server: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.Web.Address(),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return listenAndServe(server, logger)
}
