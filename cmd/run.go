package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a scenario and print every routing table",
	Run: func(cmd *cobra.Command, args []string) {
		n := bootstrap(false)
		defer closeNetwork(n)
		simulate(n, 0)
		for _, id := range n.Cfg.Nodes {
			printTable(os.Stdout, n.Nodes[id])
		}
		printStats(os.Stdout, n)
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(runCmd)
}
