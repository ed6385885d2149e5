package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/arraybench/config"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "arraybench",
		Short: "Benchmark persistence formats for large float64 arrays",
		Long: `arraybench writes one buffer of float64 values through several
persistence codecs (text, raw binary, self-describing container), reads each
file back, checks the data and reports write and read timings.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "YAML configuration file")

	root.AddCommand(newRunCmd(), newCodecsCmd(), newVersionCmd())
	return root
}

// loadConfig returns the file configuration, or defaults when no file is given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("arraybench", version)
		},
	}
}
