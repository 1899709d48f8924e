// Command cxl-switch runs a standalone CXL fabric-manager-facing switch
// emulator: it loads a YAML-configured switch model, serves FM API and CSE
// frames off its dispatcher, and (optionally) dumps final state to stderr
// on shutdown. Grounded on cc-helper's flag/signal/serve shape
// (internal/helper/main.go), adapted from a single Unix-socket connection
// to an in-process channel dispatcher, since MCTP transport is out of
// scope for this emulator.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cxlfabric/swemu/internal/config"
	"github.com/cxlfabric/swemu/internal/dispatch"
)

func main() {
	configPath := flag.String("config", "", "path to the switch's YAML configuration file")
	dumpState := flag.Bool("dump-state", false, "dump switch/port/VCS state to stderr on shutdown")
	queueDepth := flag.Int("queue-depth", 64, "depth of the inbound/outbound/completion frame queues")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "cxl-switch: -config is required")
		os.Exit(1)
	}

	sw, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cxl-switch: %v\n", err)
		os.Exit(1)
	}

	d := dispatch.New(sw, *queueDepth)
	go d.Run()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("cxl-switch: running", "config", *configPath, "ports", sw.NumPorts(), "vcss", sw.NumVCSs())
	<-sigCh

	slog.Info("cxl-switch: shutting down")
	close(d.Inbound)

	if *dumpState {
		sw.Lock()
		sw.Dump(os.Stderr)
		sw.Unlock()
	}
}
