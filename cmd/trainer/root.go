package main

import (
	"github.com/gmkornilov/bughouse-trainer/internal/config"
	"github.com/gmkornilov/bughouse-trainer/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "trainer",
	Short:         "Bughouse puzzle trainer",
	Long:          "Imports bughouse puzzles from BPGN files and lets you solve them move by move.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the environment configuration and the logger every subcommand shares.
func setup() (*config.Configuration, zerolog.Logger, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.New(cfg), nil
}
