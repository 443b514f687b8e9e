package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"crudgate/internal/pkg/config"
	"crudgate/internal/service/data"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	version = "1.0.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "data-service",
	Short: "Users and tasks data service",
	Long:  `Standalone data service with CRUD operations for users and tasks, rate limited and instrumented.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the data service",
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig(config.ServiceData)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Data Service Version: %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServer() {
	var cfg *config.Config

	app := fx.New(
		data.DataApp,
		fx.NopLogger,
		fx.Populate(&cfg),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start data service: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Data service started successfully on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stop data service: %v\n", err)
		os.Exit(1)
	}
}
