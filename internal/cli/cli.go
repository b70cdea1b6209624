package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/analysis"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/config"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/export"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/logging"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/logreader"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configFile  string
	topN        int
	noColor     bool
	quiet       bool
	logLevel    string
	summaryFile string
}

// paths holds the five positional arguments
type paths struct {
	input     string
	hosts     string
	hours     string
	resources string
	blocked   string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "fansite <log> <hosts> <hours> <resources> <blocked>",
		Short: "Fansite access log analyzer",
		Long: `Analyzes a common log format access log and writes four reports:

  hosts      the 10 most active hosts with their request counts
  hours      the 10 busiest 60 minute windows
  resources  the 10 resources that consumed the most bandwidth
  blocked    requests blocked after bursts of failed logins`,
		Version:       "1.0.0",
		Args:          cobra.ExactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := paths{
				input:     args[0],
				hosts:     args[1],
				hours:     args[2],
				resources: args[3],
				blocked:   args[4],
			}
			return runAnalyze(cmd, opts, p)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "YAML file overriding the analysis defaults")
	cmd.Flags().IntVarP(&opts.topN, "top", "n", 10, "Number of rows in each ranked report")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the summary")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.summaryFile, "summary", "", "Write a JSON summary of the run to this file")

	return cmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

func runAnalyze(cmd *cobra.Command, opts *options, p paths) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := logging.New(cfg.Output.LogLevel).With(zap.String("run_id", runID))
	defer logger.Sync()

	return run(cmd.Context(), cfg, p, runID, opts.summaryFile, cmd.OutOrStdout(), logger)
}

// loadConfig reads the config file and applies the flags the user set
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("top") {
		cfg.Analysis.TopN = opts.topN
	}
	if flags.Changed("log-level") {
		cfg.Output.LogLevel = opts.logLevel
	}
	if opts.noColor {
		cfg.Output.Color = false
	}
	if opts.quiet {
		cfg.Output.Quiet = true
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, p paths, runID, summaryFile string, out io.Writer, logger *zap.Logger) error {
	writer := export.NewReportWriter()

	// The blocked report is only ever written by this run
	if reset := writer.ResetBlocked(p.blocked); !reset.OK() {
		logger.Warn("previous blocked report could not be removed", zap.String("path", p.blocked), zap.Error(reset.Err))
	} else {
		logger.Debug("blocked report reset", zap.String("path", p.blocked), zap.Stringer("status", reset.Status))
	}

	dataset, err := logreader.NewLogReader(logger).ReadFile(ctx, p.input)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		zap.String("path", p.input),
		zap.Int("records", dataset.Len()),
		zap.Int("skipped", dataset.Skipped),
	)

	report, err := analysis.BuildReport(dataset, cfg)
	if err != nil {
		return err
	}
	report.RunID = runID
	report.Input = p.input

	if err := writer.WriteHosts(p.hosts, report.TopHosts); err != nil {
		return fmt.Errorf("hosts report: %w", err)
	}
	logger.Info("report written", zap.String("report", "hosts"), zap.String("path", p.hosts), zap.Int("rows", len(report.TopHosts)))

	if err := writer.WriteHours(p.hours, report.BusiestHours); err != nil {
		return fmt.Errorf("hours report: %w", err)
	}
	logger.Info("report written", zap.String("report", "hours"), zap.String("path", p.hours), zap.Int("rows", len(report.BusiestHours)))

	if err := writer.WriteResources(p.resources, report.TopResources); err != nil {
		return fmt.Errorf("resources report: %w", err)
	}
	logger.Info("report written", zap.String("report", "resources"), zap.String("path", p.resources), zap.Int("rows", len(report.TopResources)))

	if err := writer.WriteBlocked(p.blocked, report.Blocked); err != nil {
		return fmt.Errorf("blocked report: %w", err)
	}
	logger.Info("report written", zap.String("report", "blocked"), zap.String("path", p.blocked), zap.Int("rows", len(report.Blocked)))

	if summaryFile != "" {
		if err := writer.ExportJSON(report, summaryFile); err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		logger.Info("summary written", zap.String("path", summaryFile))
	}

	if !cfg.Output.Quiet {
		ui.NewConsoleUIWriter(out, cfg.Output.Color).DisplayReport(report)
	}

	logger.Info("run complete",
		zap.Int64("requests", report.Stats.TotalRequests),
		zap.Int("blocked", len(report.Blocked)),
	)
	return nil
}
