package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/example/maskstudio/internal/backend"
)

type healthCmd struct {
	gpu bool
	out io.Writer
	*root
	fs *flag.FlagSet
}

func (h *healthCmd) FlagSet() *flag.FlagSet {
	return h.fs
}

func parseHealthCmd(args []string, r *root) (*healthCmd, error) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	h := &healthCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(h)
	fs.BoolVar(&h.gpu, "gpu", true, "also query /gpu-status/")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *healthCmd) Run() error {
	ctx := context.Background()
	c := h.client()
	st, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	fmt.Fprintf(h.out, "server %s: status %s, cuda %t, model loaded %t\n", c.BaseURL(), st.Status, st.CUDAAvailable, st.ModelLoaded)
	if h.gpu {
		gs, err := c.GPUStatus(ctx)
		if err != nil {
			return fmt.Errorf("gpu status: %w", err)
		}
		printGPUStatus(h.out, gs)
	}
	if !st.Ready() {
		return fmt.Errorf("server is not ready")
	}
	return nil
}

func printGPUStatus(w io.Writer, gs *backend.GPUStatus) {
	if gs.Timestamp != "" {
		fmt.Fprintf(w, "gpu status at %s\n", gs.Timestamp)
	}
	for _, k := range sortedKeys(gs.GPU) {
		fmt.Fprintf(w, "  gpu.%s: %v\n", k, gs.GPU[k])
	}
	for _, k := range sortedKeys(gs.SystemMemory) {
		fmt.Fprintf(w, "  memory.%s: %.2f\n", k, gs.SystemMemory[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
