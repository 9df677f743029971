package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/baddebtguard/risk-engine/internal/config"
)

var cfg *config.Config

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "risk-engine",
		Short:             "Hybrid loan-risk fusion engine",
		Long:              "Assesses Malaysian loan applicants by fusing a statistical approval model with an AI document assessment, grounded in BNM lending guidelines.",
		PersistentPreRunE: initApp,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}
}

func initApp(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	if err := config.InitLogger(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

var rootCmd = newRootCmd()

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
