package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/sim"
	"github.com/encodeous/weft/state"
)

const DefaultConfigPath = "scenario.yaml"

func bootstrap(trace bool) *sim.Network {
	if debugAddr != "" {
		go func() {
			log.Println(http.ListenAndServe(debugAddr, nil))
		}()
	}
	if algorithm != "" {
		if err := state.AlgorithmValidator(state.Algorithm(algorithm)); err != nil {
			panic(err)
		}
	}
	n, err := sim.Bootstrap(sim.BootstrapOptions{
		ConfigPath: configPath,
		LogPath:    logPath,
		Algorithm:  state.Algorithm(algorithm),
		Verbose:    verbose,
		Trace:      trace,
	})
	if err != nil {
		panic(err)
	}
	return n
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// simulate runs the network to completion, or until the given virtual time if until is non-zero
func simulate(n *sim.Network, until uint64) {
	ctx, cancel := signalContext()
	defer cancel()
	var err error
	if until > 0 {
		err = n.RunUntil(ctx, until)
	} else {
		err = n.Run(ctx)
	}
	if errors.Is(err, sim.ErrEventLimit) {
		n.Log.Warn("simulation stopped early", "err", err)
		return
	}
	if err != nil {
		panic(err)
	}
}

func printTable(w io.Writer, node core.Node) {
	_, _ = fmt.Fprintf(w, "node %v\n", node.Id())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  DST\tNEXT HOP\tMETRIC\tPATH")
	for _, r := range node.Table() {
		_, _ = fmt.Fprintf(tw, "  %v\t%v\t%v\t%v\n", r.Dst, r.Nh, r.Metric, r.Path)
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, n *sim.Network) {
	_, _ = fmt.Fprintf(w, "t=%d events=%d sent=%d delivered=%d dropped=%d duplicated=%d\n",
		n.Now, n.Processed(), n.Stats.Sent, n.Stats.Delivered, n.Stats.Dropped, n.Stats.Duplicated)
}

func closeNetwork(n *sim.Network) {
	if err := n.Close(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error closing network:", err)
	}
}
