package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/weft/state"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample scenario",
	Run: func(cmd *cobra.Command, args []string) {
		outPath := cmd.Flag("output").Value.String()
		if _, err := os.Stat(outPath); err == nil {
			fmt.Printf("%s already exists\n", outPath)
			os.Exit(-1)
		}
		cfg := state.SampleScenario()
		if algorithm != "" {
			cfg.Algorithm = state.Algorithm(algorithm)
		}
		if err := state.AlgorithmValidator(cfg.Algorithm); err != nil {
			panic(err)
		}
		if err := state.WriteScenario(outPath, cfg); err != nil {
			panic(err)
		}
	},
	GroupID: "init",
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringP("output", "o", DefaultConfigPath, "scenario output file path")
}
