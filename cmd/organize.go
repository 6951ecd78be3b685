package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"mediasort/internal"
)

var (
	sourceFlag   string
	outputFlag   string
	moveFlag     bool
	dryRunFlag   bool
	logLevelFlag string
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Organize media files from source into output by date and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := internal.ParseLogLevel(logLevelFlag)
		if err != nil {
			return err
		}

		// Checked before anything is written, so a bad source never leaves a
		// partial output tree.
		info, err := os.Stat(sourceFlag)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("source directory does not exist: %s", sourceFlag)
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

		if dryRunFlag {
			logger.Info("DRY RUN MODE - no files will be moved or copied")
		} else if err := os.MkdirAll(outputFlag, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputFlag, err)
		}

		org, cleanup := buildOrganizer(conf, logger)
		defer cleanup()
		org.Move = moveFlag
		org.DryRun = dryRunFlag

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger.Info("starting organization: %s -> %s", sourceFlag, outputFlag)
		stats, err := org.Run(ctx, sourceFlag, outputFlag)
		if err != nil {
			return err
		}

		fmt.Printf("📁 Organizing complete! Processed %d/%d files\n", stats.Succeeded, stats.Attempted)
		return nil
	},
}

// buildOrganizer wires the pipeline: exiftool-backed video reader (degrading
// to no-op), Nominatim client behind the pacing limiter, shared caches.
func buildOrganizer(conf *internal.Config, logger *internal.Logger) (*internal.Organizer, func()) {
	video := internal.NewVideoReader(logger)
	geo := internal.NewNominatimClient(conf.GeocodeURL, conf.GeocodeAgent, conf.GeocodeTimeout)
	resolver := internal.NewLocationResolver(geo, internal.NewLimiter(conf.GeocodeDelay), logger)
	org := internal.NewOrganizer(conf, logger, video, resolver)
	return org, func() { video.Close() }
}

func init() {
	organizeCmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "Source directory containing photos and videos")
	organizeCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory for organized media")
	organizeCmd.Flags().BoolVar(&moveFlag, "move", false, "Move files instead of copying them")
	organizeCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be done without organizing files")
	organizeCmd.Flags().StringVar(&logLevelFlag, "log-level", "INFO", "Log level (DEBUG, INFO, WARNING, ERROR)")
	organizeCmd.MarkFlagRequired("source")
	organizeCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(organizeCmd)
}
