package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCmdPlaces() *cobra.Command {
	return &cobra.Command{
		Use:   "places",
		Short: "List places visible to the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := optionsFrom(cmd)
			c, err := o.client()
			if err != nil {
				return err
			}
			places, err := c.ListPlaces(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, o, places, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "UNIVERSE\tPLACE\tNAME\tURL")
				for _, p := range places {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.UniverseID, p.PlaceID, p.Name, p.URL)
				}
				_ = tw.Flush()
			})
		},
	}
}
