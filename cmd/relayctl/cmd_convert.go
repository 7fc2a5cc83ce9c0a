package main

import (
	"github.com/spf13/cobra"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/workspace"
)

// newCmdConvert renders a workspace document locally without calling the relay.
func newCmdConvert() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a workspace JSON document to place XML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readWorkspace(cmd, file)
			if err != nil {
				return err
			}
			xml, err := workspace.Convert(data)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(xml)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Workspace JSON file, or - for stdin")
	return cmd
}
