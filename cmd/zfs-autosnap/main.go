package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gestur1976/zfs-autosnap/internal/config"
	"github.com/gestur1976/zfs-autosnap/internal/logging"
	"github.com/gestur1976/zfs-autosnap/internal/probe"
	"github.com/gestur1976/zfs-autosnap/internal/runner"
	"github.com/gestur1976/zfs-autosnap/internal/zfs"
)

const (
	defaultMinFreeGiB    = 200
	defaultRetentionDays = 30
	defaultIntradayDays  = 7
)

var (
	cfgFile  string
	schedule string
	dryRun   bool
)

var rootCmd = &cobra.Command{
	Use:   "zfs-autosnap <pool> [min-free-gib] [retention-days] [intraday-days]",
	Short: "snapshot retention and space-reclamation controller for a ZFS pool",
	Long: `zfs-autosnap takes one snapshot per dataset in <pool> on every run,
collapses aged intraday snapshots to one per day, and deletes oldest
snapshots while pool free space sits below the floor. Snapshots newer
than the retention window are never deleted.`,
	Args:          cobra.RangeArgs(1, 4),
	SilenceUsage:  false,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "optional yaml config file")
	rootCmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule; keeps running and triggers a run per tick")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log planned creations/destroys without executing them")
}

func run(cmd *cobra.Command, args []string) error {
	params := runner.Params{
		Pool:          args[0],
		MinFreeGiB:    defaultMinFreeGiB,
		RetentionDays: defaultRetentionDays,
		IntradayDays:  defaultIntradayDays,
		DryRun:        dryRun,
	}
	if len(args) > 1 {
		n, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("min-free-gib must be a non-negative integer, got %q", args[1])
		}
		params.MinFreeGiB = n
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 0 {
			return fmt.Errorf("retention-days must be a non-negative integer, got %q", args[2])
		}
		params.RetentionDays = n
	}
	if len(args) > 3 {
		n, err := strconv.Atoi(args[3])
		if err != nil || n < 0 {
			return fmt.Errorf("intraday-days must be a non-negative integer, got %q", args[3])
		}
		params.IntradayDays = n
	}

	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if schedule == "" {
		schedule = cfg.Schedule
	}

	log, flush, err := logging.New(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		// Log file may be unwritable when run unprivileged; fall
		// back to stderr-only rather than refusing to run.
		log, flush, err = logging.New("", cfg.Logging.Level)
		if err != nil {
			return err
		}
		log.Warn("cannot open log file %s, logging to stderr only", cfg.Logging.File)
	}
	defer flush()

	if res := probe.Binaries(cfg.Paths.ZFS, cfg.Paths.ZPool); !res.Usable {
		log.Warn("storage engine binaries look unusable: %s", res.Reason)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	eng := zfs.New(cfg.Paths.ZFS, cfg.Paths.ZPool)
	r := runner.New(cfg, eng, log)

	if schedule != "" {
		if err := r.Daemon(ctx, params, schedule); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}

	// One-shot: operational trouble mid-run is logged, not fatal. The
	// process fails only on a usage or configuration error.
	if err := r.Once(ctx, params); err != nil && ctx.Err() == nil {
		log.Error("run finished with errors: %v", err)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
