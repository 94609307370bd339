// Command missionplan is a single-shot batch CLI: it loads a YAML
// mission file, runs the planning core once, and prints either a text
// summary or a JSON snapshot. Grounded on cmd/ls-horizons/main.go's
// flag parsing, signal-to-context cancellation, and headless
// -summary/-snapshot-path reporting paths, adapted from a continuous
// fetch loop to one bounded Plan call.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eoplan/missionplanner/internal/missionconfig"
	"github.com/eoplan/missionplanner/internal/obslog"
	"github.com/eoplan/missionplanner/internal/propagation"
	"github.com/eoplan/missionplanner/internal/request"
)

func main() {
	missionPath := flag.String("mission", "", "Path to the mission YAML file (required)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	summaryMode := flag.Bool("summary", false, "Print a text summary instead of the full JSON response")
	snapshotPath := flag.String("snapshot-path", "", "Write the JSON response to this file (use - for stdout)")
	strategiesFlag := flag.String("strategies", "", "Comma-separated strategy override (default: mission file's strategies)")
	flag.Parse()

	if *missionPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -mission is required")
		os.Exit(1)
	}

	logger := obslog.New(obslog.ParseLevel(*logLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("received shutdown signal, cancelling")
		cancel()
	}()

	if err := run(ctx, *missionPath, *strategiesFlag, *summaryMode, *snapshotPath, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, missionPath, strategiesOverride string, summaryMode bool, snapshotPath string, logger *obslog.Logger) error {
	req, err := missionconfig.Load(missionPath)
	if err != nil {
		return fmt.Errorf("load mission file: %w", err)
	}

	if strategiesOverride != "" {
		req.Strategies = splitCSV(strategiesOverride)
	}

	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid mission request: %w", err)
	}

	logger.Info("planning %d satellites against %d targets over [%s, %s)",
		len(req.Satellites), len(req.Targets), req.HorizonStart, req.HorizonEnd)

	resp, err := request.Plan(ctx, req, propagation.NewReferenceSunProvider(), logger)
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	if summaryMode {
		writeSummary(os.Stdout, resp)
	}

	if snapshotPath != "" {
		if err := writeSnapshot(snapshotPath, resp); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	if !summaryMode && snapshotPath == "" {
		return writeJSON(os.Stdout, resp)
	}

	return nil
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func writeSummary(w *os.File, resp request.PlanningResponse) {
	for _, result := range resp.Results {
		fmt.Fprintf(w, "strategy=%s accepted=%d/%d coverage=%.1f%% total_value=%.2f mean_incidence=%.1fdeg runtime=%.3fs\n",
			result.Strategy,
			result.Metrics.OpportunitiesAccepted, result.Metrics.OpportunitiesEvaluated,
			result.Metrics.CoveragePercent, result.Metrics.TotalValue,
			result.Metrics.MeanIncidenceDeg, result.Metrics.WallClockRuntimeS)
	}
}

func writeSnapshot(path string, resp request.PlanningResponse) error {
	if path == "-" {
		return writeJSON(os.Stdout, resp)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()
	return writeJSON(f, resp)
}

func writeJSON(w *os.File, resp request.PlanningResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
