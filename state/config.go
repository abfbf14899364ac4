package state

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// LinkCfg is a link that is up when the scenario starts
type LinkCfg struct {
	A       NodeId `yaml:"a"`
	B       NodeId `yaml:"b"`
	Latency int    `yaml:"latency"`
}

func (l LinkCfg) Link() Link {
	return MakeLink(l.A, l.B)
}

// EventCfg changes a link at a point in virtual time. A latency of -1 takes the link down.
type EventCfg struct {
	At      uint64 `yaml:"at"`
	A       NodeId `yaml:"a"`
	B       NodeId `yaml:"b"`
	Latency int    `yaml:"latency"`
}

type ScenarioCfg struct {
	Algorithm      Algorithm  `yaml:"algorithm"`
	Nodes          []NodeId   `yaml:"nodes"`
	Graph          []string   `yaml:"graph,omitempty"`           // group syntax, see ParseGraph
	DefaultLatency int        `yaml:"default_latency,omitempty"` // latency of links produced by Graph
	Links          []LinkCfg  `yaml:"links,omitempty"`
	Events         []EventCfg `yaml:"events,omitempty"`
	Jitter         uint64     `yaml:"jitter,omitempty"`    // max extra delivery delay
	Duplicate      float64    `yaml:"duplicate,omitempty"` // probability that a message is delivered twice
	Seed           int64      `yaml:"seed,omitempty"`
	MaxEvents      int        `yaml:"max_events,omitempty"` // 0 uses DefaultMaxEvents
	LogPath        string     `yaml:"log_path,omitempty"`   // if not empty, every node also logs to this file
}

func ParseScenario(data []byte) (*ScenarioCfg, error) {
	var cfg ScenarioCfg
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	return &cfg, nil
}

func ReadScenario(path string) (*ScenarioCfg, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(file)
}

func WriteScenario(path string, cfg *ScenarioCfg) error {
	bytes, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0644)
}

// ExpandScenario fills in defaults and turns Graph into explicit links.
// Links listed explicitly keep their latency.
func ExpandScenario(cfg *ScenarioCfg) error {
	if cfg.DefaultLatency == 0 {
		cfg.DefaultLatency = DefaultLatency
	}
	if cfg.MaxEvents == 0 {
		cfg.MaxEvents = DefaultMaxEvents
	}
	if len(cfg.Graph) == 0 {
		return nil
	}
	pairs, err := ParseGraph(cfg.Graph, cfg.Nodes)
	if err != nil {
		return err
	}
	for _, l := range pairs {
		if slices.ContainsFunc(cfg.Links, func(lc LinkCfg) bool { return lc.Link() == l }) {
			continue
		}
		cfg.Links = append(cfg.Links, LinkCfg{A: l.V1, B: l.V2, Latency: cfg.DefaultLatency})
	}
	cfg.Graph = nil
	return nil
}

// InitialTopology returns the latency of every link that is up at time zero
func (c *ScenarioCfg) InitialTopology() map[Link]Latency {
	topo := make(map[Link]Latency, len(c.Links))
	for _, l := range c.Links {
		lat, err := ParseLatency(l.Latency)
		if err != nil || lat.Down {
			continue
		}
		topo[l.Link()] = lat
	}
	return topo
}

// SampleScenario is a triangle that loses a link and gains a late joiner
func SampleScenario() *ScenarioCfg {
	return &ScenarioCfg{
		Algorithm:      AlgoLinkState,
		Nodes:          []NodeId{0, 1, 2, 3},
		DefaultLatency: 1,
		Graph:          []string{"core = 0, 1, 2", "core, core"},
		Links: []LinkCfg{
			{A: 0, B: 2, Latency: 5},
		},
		Events: []EventCfg{
			{At: 100, A: 1, B: 2, Latency: -1},
			{At: 200, A: 2, B: 3, Latency: 2},
		},
		Seed: 1,
	}
}

func parseSymbolList(s string, validSymbols []string) ([]string, error) {
	spl := strings.Split(strings.TrimSpace(s), ",")
	line := make([]string, 0)
	for _, s := range spl {
		x := strings.TrimSpace(s)
		if x == "" {
			continue
		}
		if !slices.Contains(validSymbols, x) {
			return nil, fmt.Errorf(`%s is not a valid node/group`, x)
		}
		line = append(line, x)
	}
	if len(line) == 0 {
		return nil, fmt.Errorf(`node/group list must not be empty`)
	}
	slices.Sort(line)
	return line, nil
}

/*
ParseGraph Graph syntax is something like this:

core = 1, 2, 3

edge = 4, 5

core, edge, 6 // core, edge and 6 will all be interconnected, but not within core or edge

core, core // every node in core is connected to every other node in core

8, 9 // 8 and 9 will be connected

nodes are the ids the graph evaluates down to, anything else on the left of '=' is a group
*/
func ParseGraph(graph []string, nodes []NodeId) ([]Link, error) {
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.String())
	}

	parsedPairings := make([]Pair[string, string], 0)
	groups := make(map[string][]string)
	symbols := slices.Clone(names)

	// pass 0, collect all symbols
	for _, line := range graph {
		line = strings.ToLower(strings.TrimSpace(line))
		if strings.Contains(line, "=") {
			spl := strings.Split(line, "=")
			if len(spl) != 2 {
				return nil, fmt.Errorf("invalid graph: %s. group definition must contain one '='", line)
			}
			grp := strings.TrimSpace(spl[0])
			if slices.Contains(names, grp) {
				return nil, fmt.Errorf("group name must not be a node name: %s", grp)
			}
			symbols = append(symbols, grp)
		}
	}
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)

	// group -> groups it depends on, drained in topological order
	topo := make(map[string][]string)
	expansion := make(map[string][]string)

	// pass 1, parse graph
	for _, line := range graph {
		line = strings.ToLower(strings.TrimSpace(line))
		if strings.Contains(line, "=") {
			spl := strings.Split(line, "=")
			grp := strings.TrimSpace(spl[0])
			if _, ok := groups[grp]; ok {
				return nil, fmt.Errorf("duplicate group name: %s", grp)
			}
			lst, err := parseSymbolList(spl[1], symbols)
			if err != nil {
				return nil, err
			}
			deps := make([]string, 0)
			for _, l := range lst {
				if !slices.Contains(names, l) {
					deps = append(deps, l)
				} else {
					expansion[grp] = append(expansion[grp], l)
				}
			}
			slices.Sort(deps)
			topo[grp] = slices.Compact(deps)
			groups[grp] = lst
		} else {
			members, err := parseSymbolList(line, symbols)
			if err != nil {
				return nil, err
			}
			if len(members) < 2 {
				return nil, fmt.Errorf("invalid pairing, %v", members)
			}
			for i, a := range members {
				for _, b := range members[:i] {
					parsedPairings = append(parsedPairings, MakeSortedPair(a, b))
				}
			}
			SortPairs(parsedPairings)
			parsedPairings = slices.Compact(parsedPairings)
		}
	}

	// pass 2, expand group names
	for len(topo) > 0 {
		var group string
		for k, v := range topo {
			if len(v) == 0 {
				group = k
				break
			}
		}
		if group == "" {
			cycle := make([]string, 0)
			for g := range topo {
				cycle = append(cycle, g)
			}
			slices.Sort(cycle)
			return nil, fmt.Errorf("cycle detected in graph: %v", cycle)
		}
		delete(topo, group)

		for k, deps := range topo {
			if slices.Contains(deps, group) {
				expansion[k] = append(expansion[k], expansion[group]...)
				slices.Sort(expansion[k])
				expansion[k] = slices.Compact(expansion[k])
				topo[k] = slices.DeleteFunc(deps, func(d string) bool { return d == group })
			}
		}
	}

	resolve := func(sym string) []NodeId {
		if slices.Contains(names, sym) {
			id, _ := strconv.Atoi(sym)
			return []NodeId{NodeId(id)}
		}
		out := make([]NodeId, 0, len(expansion[sym]))
		for _, exp := range expansion[sym] {
			id, _ := strconv.Atoi(exp)
			out = append(out, NodeId(id))
		}
		return out
	}

	// pass 3, rewrite pairings
	links := make([]Link, 0)
	for _, pair := range parsedPairings {
		for _, x := range resolve(pair.V1) {
			for _, y := range resolve(pair.V2) {
				if x != y {
					links = append(links, MakeLink(x, y))
				}
			}
		}
	}
	slices.SortFunc(links, CompareLinks)
	return slices.Compact(links), nil
}

// Peers returns the nodes that share an initial link with id
func (c *ScenarioCfg) Peers(id NodeId) []NodeId {
	peers := make([]NodeId, 0)
	for _, l := range c.Links {
		if l.Link().Has(id) {
			peers = append(peers, l.Link().Other(id))
		}
	}
	slices.Sort(peers)
	return slices.Compact(peers)
}
