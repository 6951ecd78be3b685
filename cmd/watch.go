package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"mediasort/internal"
)

var (
	watchSourceFlag   string
	watchOutputFlag   string
	watchMoveFlag     bool
	watchLogLevelFlag string
)

// settleDelay gives the writer time to finish before we hash a new file.
const settleDelay = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source directory and organize new media as it arrives",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := internal.ParseLogLevel(watchLogLevelFlag)
		if err != nil {
			return err
		}

		info, err := os.Stat(watchSourceFlag)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("source directory does not exist: %s", watchSourceFlag)
		}

		conf, err := internal.LoadConfig()
		if err != nil {
			return err
		}

		logger, err := internal.NewLogger(conf.LogFile, level)
		if err != nil {
			return err
		}
		defer logger.Close()

		if err := os.MkdirAll(watchOutputFlag, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", watchOutputFlag, err)
		}

		org, cleanup := buildOrganizer(conf, logger)
		defer cleanup()
		org.Move = watchMoveFlag

		watcher, err := internal.NewWatcher(watchSourceFlag, conf)
		if err != nil {
			return err
		}
		defer watcher.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger.Info("watching %s, organizing into %s", watchSourceFlag, watchOutputFlag)
		for {
			select {
			case ev := <-watcher.Events():
				if ev.Type != internal.EventCreate {
					continue
				}
				time.Sleep(settleDelay)
				if err := org.ProcessOne(ctx, ev.Path, watchOutputFlag); err != nil {
					logger.Error("failed to process %s: %v", ev.Path, err)
				}
			case err := <-watcher.Errors():
				logger.Warning("watcher error: %v", err)
			case <-ctx.Done():
				logger.Info("watch stopped")
				return nil
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchSourceFlag, "source", "s", "", "Source directory to watch")
	watchCmd.Flags().StringVarP(&watchOutputFlag, "output", "o", "", "Output directory for organized media")
	watchCmd.Flags().BoolVar(&watchMoveFlag, "move", false, "Move files instead of copying them")
	watchCmd.Flags().StringVar(&watchLogLevelFlag, "log-level", "INFO", "Log level (DEBUG, INFO, WARNING, ERROR)")
	watchCmd.MarkFlagRequired("source")
	watchCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(watchCmd)
}
