package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"crudgate/internal/pkg/config"
	"crudgate/internal/service/gateway"

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
	Use:   "gateway",
	Short: "Rate limited API gateway",
	Long:  `Public entry point that rate limits, measures and proxies API traffic to the data service.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway",
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig(config.ServiceGateway)
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
		fmt.Printf("Gateway Version: %s\n", version)
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
		gateway.GatewayApp,
		fx.NopLogger,
		fx.Populate(&cfg),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start gateway: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Gateway started successfully on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stop gateway: %v\n", err)
		os.Exit(1)
	}
}
