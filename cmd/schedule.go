package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/BumgeunSong/daily-writing-friends-sub002/streak"
	"github.com/BumgeunSong/daily-writing-friends-sub002/streak/runner"
	"github.com/BumgeunSong/daily-writing-friends-sub002/streak/source"
	"github.com/BumgeunSong/daily-writing-friends-sub002/streak/store"
)

var (
	scheduleConfig string // host configuration file for the scheduler
	runOnStart     bool   // run one whole-roster backfill immediately
)

// scheduleCmd runs the periodic whole-roster backfill daemon
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run periodic whole-roster backfills on a cron schedule",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := LoadHostConfig(scheduleConfig)
		if err != nil {
			logrus.Fatalf("load config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid config: %v", err)
		}

		src, err := source.NewSQLiteSource(cfg.Database.PostingsPath)
		if err != nil {
			logrus.Fatalf("open event source: %v", err)
		}
		defer src.Close()

		st, err := store.NewSQLiteStore(cfg.Database.StorePath)
		if err != nil {
			logrus.Fatalf("open store: %v", err)
		}
		defer st.Close()

		r := &runner.Runner{
			Source:  src,
			Store:   st,
			Workers: cfg.Backfill.Workers,
			Horizon: streak.DayKey(cfg.Backfill.HorizonEnd),
			Resume:  cfg.Backfill.Resume,
		}

		task := func() {
			logrus.Info("running scheduled backfill")
			if _, err := r.RunAll(); err != nil {
				logrus.Errorf("scheduled backfill: %v", err)
			}
		}

		// The schedule is interpreted in KST so day boundaries line up with
		// the streak calendar.
		c := cron.New(cron.WithSeconds(), cron.WithLocation(streak.KST))
		if _, err := c.AddFunc(cfg.Schedule.BackfillCron, task); err != nil {
			logrus.Fatalf("register backfill task: %v", err)
		}

		if runOnStart {
			task()
		}

		c.Start()
		logrus.Infof("scheduler started (cron %q)", cfg.Schedule.BackfillCron)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		c.Stop()
		logrus.Info("scheduler stopped")
	},
}

// init sets up CLI flags for the schedule command
func init() {
	scheduleCmd.Flags().StringVar(&scheduleConfig, "config", "config.yaml", "Host configuration file")
	scheduleCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Run one whole-roster backfill immediately on startup")

	rootCmd.AddCommand(scheduleCmd)
}
