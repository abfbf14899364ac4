package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/encodeous/weft/state"
	"github.com/spf13/cobra"
)

var inspectAt uint64

var inspectCmd = &cobra.Command{
	Use:     "inspect [node]",
	Aliases: []string{"i"},
	Short:   "Print a node's routing table after the simulation",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			_ = cmd.Usage()
			return
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("Error:", err.Error())
			return
		}
		n := bootstrap(false)
		defer closeNetwork(n)
		node, ok := n.Nodes[state.NodeId(id)]
		if !ok {
			fmt.Printf("node %d is not part of the scenario\n", id)
			return
		}
		simulate(n, inspectAt)
		printTable(os.Stdout, node)
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Uint64Var(&inspectAt, "at", 0, "stop at this virtual time instead of running to completion")
}
