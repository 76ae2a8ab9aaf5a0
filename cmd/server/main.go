package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"landreg-portal/internal/app"
	"landreg-portal/internal/config"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/core/policy"
	"landreg-portal/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "landreg-portal/docs" // Swagger docs
)

// @title District Land Registration Portal API
// @version 1.0
// @description Land, development and building permit registration for the district assembly.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@techimannorth.gov.gh

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "landreg",
	Short:        "District land registration portal",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		log, err := logger.New(cfg.AppMode)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		a, err := app.New(cmd.Context(), cfg, log, app.Options{})
		if err != nil {
			return err
		}
		a.Start()

		go gracefulShutdown(a, log)

		log.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
		if err := a.Fiber.Listen(":" + cfg.Port); err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	},
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the role/action decision table",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		header := []string{"ROLE"}
		for _, action := range policy.Actions {
			header = append(header, strings.ToUpper(action.String()))
		}
		fmt.Fprintln(w, strings.Join(header, "\t"))

		for _, role := range domain.Roles {
			row := []string{string(role)}
			for _, action := range policy.Actions {
				mark := "-"
				if policy.Can(role, action) {
					mark = "yes"
				}
				row = append(row, mark)
			}
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		return w.Flush()
	},
}

var ghanaCardCmd = &cobra.Command{
	Use:   "ghana-card <digits>",
	Short: "Format a Ghana Card number and append its check digit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatted := domain.FormatGhanaCard(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), formatted)
		if !domain.ValidGhanaCard(formatted) {
			return fmt.Errorf("%q does not contain nine digits", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, policyCmd, ghanaCardCmd)
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(a *app.App, log *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down server")
	if err := a.Shutdown(); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
}
