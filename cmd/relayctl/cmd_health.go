package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// newCmdHealth checks the relay's liveness endpoint.
func newCmdHealth() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check relay health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := optionsFrom(cmd)
			c, err := o.client()
			if err != nil {
				return err
			}
			health, err := c.Health(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, o, health, func(w io.Writer) {
				fmt.Fprintf(w, "%s at %s\n", health.Status, health.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
			})
		},
	}
}

func newCmdStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the relay service descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := optionsFrom(cmd)
			c, err := o.client()
			if err != nil {
				return err
			}
			status, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, o, status, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s (%s)\n", status.Service, status.Version, status.Status)
			})
		},
	}
}
