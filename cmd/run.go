package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/BumgeunSong/daily-writing-friends-sub002/streak"
	"github.com/BumgeunSong/daily-writing-friends-sub002/streak/runner"
	"github.com/BumgeunSong/daily-writing-friends-sub002/streak/source"
	"github.com/BumgeunSong/daily-writing-friends-sub002/streak/store"
	streaktrace "github.com/BumgeunSong/daily-writing-friends-sub002/streak/trace"
)

var (
	eventsFile string // JSON posting-history fixture (overrides the postings database)
	userID     string // single user to backfill; empty = all users
	horizonEnd string // simulate through this day key; empty = last event's day
	dryRun     bool   // simulate without persisting
	resume     bool   // start from the persisted snapshot instead of the zero state
	workers    int    // worker pool size for whole-roster runs
	traceOut   string // write the per-day trace JSON to this file
	configPath string // host configuration file
)

// runCmd executes a backfill using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay posting history and recompute streak state",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := LoadHostConfig(configPath)
		if err != nil {
			logrus.Fatalf("load config: %v", err)
		}
		if workers > 0 {
			cfg.Backfill.Workers = workers
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid config: %v", err)
		}

		src, closeSrc, err := openSource(cfg)
		if err != nil {
			logrus.Fatalf("open event source: %v", err)
		}
		defer closeSrc()

		var st store.Store = store.NoopStore{}
		if !dryRun {
			sqlStore, err := store.NewSQLiteStore(cfg.Database.StorePath)
			if err != nil {
				logrus.Fatalf("open store: %v", err)
			}
			defer sqlStore.Close()
			st = sqlStore
		}

		r := &runner.Runner{
			Source:  src,
			Store:   st,
			Workers: cfg.Backfill.Workers,
			Horizon: streak.DayKey(horizonEnd),
			Resume:  resume,
		}

		if userID != "" {
			out := r.RunUser(userID)
			if out.Err != nil {
				logrus.Fatalf("backfill: %v", out.Err)
			}
			report(out)
			return
		}

		outcomes, err := r.RunAll()
		if err != nil {
			logrus.Fatalf("backfill all: %v", err)
		}
		for _, out := range outcomes {
			if out.Err == nil {
				report(out)
			}
		}
	},
}

// openSource picks the JSON fixture when --events is set, the postings
// database otherwise.
func openSource(cfg *HostConfig) (source.EventSource, func(), error) {
	if eventsFile != "" {
		src, err := source.LoadJSONSource(eventsFile)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	}
	src, err := source.NewSQLiteSource(cfg.Database.PostingsPath)
	if err != nil {
		return nil, nil, err
	}
	return src, func() { src.Close() }, nil
}

// report prints one user's final state and stats, and optionally dumps the
// per-day trace.
func report(out runner.UserOutcome) {
	res := out.Result
	fmt.Printf("=== %s ===\n", out.UserID)
	fmt.Printf("Final State       : %s\n", res.FinalState)
	for _, ev := range res.RecoveryEvents {
		fmt.Printf("Recovery %s : missed %s, recovered %s (%d/%d posts)\n",
			ev.RecoveryID, ev.MissedDate, ev.RecoveryDate, ev.PostsWritten, ev.PostsRequired)
	}
	res.Stats.Print()

	summary := streaktrace.Summarize(res.PerDayTrace)
	fmt.Printf("Working Days      : %d (%d posted)\n", summary.WorkingDays, summary.DaysWithPosts)

	if traceOut != "" {
		data, err := json.MarshalIndent(res.PerDayTrace.Days, "", "  ")
		if err != nil {
			logrus.Errorf("marshal trace: %v", err)
			return
		}
		if err := os.WriteFile(traceOut, data, 0o644); err != nil {
			logrus.Errorf("write trace: %v", err)
			return
		}
		logrus.Infof("per-day trace written to %s", traceOut)
	}
}

// init sets up CLI flags for the run command
func init() {
	runCmd.Flags().StringVar(&eventsFile, "events", "", "JSON posting-history fixture (instead of the postings database)")
	runCmd.Flags().StringVar(&userID, "user", "", "Backfill a single user id (default: all users)")
	runCmd.Flags().StringVar(&horizonEnd, "horizon-end", "", "Simulate through this KST day (YYYY-MM-DD); default last event's day")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Simulate without persisting results")
	runCmd.Flags().BoolVar(&resume, "resume", false, "Start from the persisted snapshot instead of the zero state")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size for whole-roster runs (0 = config value)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the per-day trace JSON to this file")
	runCmd.Flags().StringVar(&configPath, "config", "config.yaml", "Host configuration file")

	rootCmd.AddCommand(runCmd)
}
