package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/weft/sim"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Stream every message and link change while simulating",
	Run: func(cmd *cobra.Command, args []string) {
		n := bootstrap(true)
		n.Trace().Listen(func(ev sim.TraceEvent) {
			fmt.Println(ev)
		})
		simulate(n, 0)
		closeNetwork(n)
		printStats(os.Stdout, n)
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(traceCmd)
}
