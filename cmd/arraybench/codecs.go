package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCodecsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codecs",
		Short: "List the available codecs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reg, err := newRegistry(cfg)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tFILE\tWIDTH\tSELF-DESCRIBING\tFIDELITY")
			for _, c := range reg.Codecs() {
				d := c.Descriptor()
				fmt.Fprintf(tw, "%s\tfile.%s\t%d\t%t\t%s\n", d.Name, c.Extension(), d.ElementWidth, d.SelfDescribing, d.Fidelity)
			}
			return tw.Flush()
		},
	}
}
