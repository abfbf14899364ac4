package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Simulate a scenario and check every next hop against the true shortest paths",
	Run: func(cmd *cobra.Command, args []string) {
		n := bootstrap(false)
		simulate(n, 0)
		settled := n.Settled()
		violations := n.Verify()
		printStats(os.Stdout, n)
		closeNetwork(n)

		if !settled {
			fmt.Println("network did not settle")
			os.Exit(1)
		}
		if len(violations) != 0 {
			for _, v := range violations {
				fmt.Println(v)
			}
			fmt.Printf("%d violations\n", len(violations))
			os.Exit(1)
		}
		fmt.Println("all routes are loop-free and shortest")
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
