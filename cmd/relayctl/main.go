package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/logger"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/core/config"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:     "relayctl",
		Short:   "Command line client for the Studio Mobile publish relay",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(cmd.PersistentFlags(), opts)

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		// Loads .env.cli (or .env) in development so RELAY_URL and ROBLOX_API_KEY resolve.
		if _, err := config.Load(config.ServiceTypeCLI); err != nil {
			return err
		}

		level := slog.LevelWarn
		if opts.verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(logger.NewTraceHandler(
			slog.NewTextHandler(c.ErrOrStderr(), &slog.HandlerOptions{Level: level}),
		)))

		opts.resolve(c.Flags())
		c.SetContext(withOptions(c.Context(), opts))
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdHealth())
	cmd.AddCommand(newCmdStatus())
	cmd.AddCommand(newCmdPublish())
	cmd.AddCommand(newCmdCreate())
	cmd.AddCommand(newCmdPlaces())
	cmd.AddCommand(newCmdConvert())
	return cmd
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	if _, err := root.ExecuteC(); err != nil {
		slog.Error("relayctl failed", "error", err)
		os.Exit(1)
	}
}
