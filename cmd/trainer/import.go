package main

import (
	"encoding/json"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Print the puzzles of a BPGN file as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, err := setup()
		if err != nil {
			return err
		}
		puzzles, err := puzgen.NewImporter(log).ImportFile(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "\t")
		return enc.Encode(puzzles)
	},
}
