package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath = DefaultConfigPath
	logPath    string
	algorithm  string
	verbose    bool
	debugAddr  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "Weft routing simulator",
	Long: `Weft runs path-vector and link-state routing engines over a simulated network.
Every node runs its own engine and only talks to its direct neighbours, the simulator delivers
messages with the latency of the link they travel on.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "init",
		Title: "Create Scenarios",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "sim",
		Title: "Simulation Commands",
	})
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "scenario file")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "also write logs to this file")
	rootCmd.PersistentFlags().StringVarP(&algorithm, "algorithm", "a", "", "override the scenario algorithm (path_vector or link_state)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every engine event")
	rootCmd.PersistentFlags().StringVar(&debugAddr, "debug", "", "serve /debug/metrics and /debug/vars on this address")
}
