package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/audit"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/checks"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/config"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/logging"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/metrics"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/output"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/provision"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/version"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	profile    string
	region     string
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "grce",
		Short:         "grce: S3 bucket hygiene provisioning and compliance audit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.profile, "profile", "", "AWS profile name (default: credential chain)")
	root.PersistentFlags().StringVar(&g.region, "region", "", "AWS region (default: environment / profile, then us-east-1)")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to config file (default ./"+config.DefaultPath+", optional)")
	root.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "Write debug logs to stderr")

	root.AddCommand(newS3Cmd(&g))
	root.AddCommand(newDoctorCmd(&g))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

func newS3Cmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "s3",
		Short: "S3 bucket hygiene commands",
	}
	cmd.AddCommand(newProvisionCmd(g))
	cmd.AddCommand(newS3AuditCmd(g))
	return cmd
}

// loadConfig reads the config file and lets the persistent flags override
// its AWS section.
func loadConfig(loader config.Loader, g *globalFlags) (*config.Config, common.LoadOptions, error) {
	cfg, err := loader.Load()
	if err != nil {
		return nil, common.LoadOptions{}, err
	}

	opts := common.LoadOptions{
		Profile:      cfg.AWS.Profile,
		Region:       cfg.AWS.Region,
		Endpoint:     cfg.AWS.Endpoint,
		UsePathStyle: cfg.AWS.UsePathStyle,
	}
	if g.profile != "" {
		opts.Profile = g.profile
	}
	if g.region != "" {
		opts.Region = g.region
	}
	return cfg, opts, nil
}

// ── provision ────────────────────────────────────────────────────────────────

func newProvisionCmd(g *globalFlags) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the three test buckets with distinct public access block postures",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, loadOpts, err := loadConfig(config.NewFileLoader(g.configPath), g)
			if err != nil {
				return err
			}
			logger, err := logging.New(g.verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			return runProvision(cmd.Context(), common.NewDefaultAWSClientProvider(), logger, cmd.OutOrStdout(), provisionSettings{
				Load:      loadOpts,
				KeepGoing: keepGoing,
			})
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue with the next bucket after an unexpected error")
	return cmd
}

type provisionSettings struct {
	Load      common.LoadOptions
	KeepGoing bool
}

// runProvision resolves the account and region from provider and provisions
// the default bucket set, writing progress to w.
func runProvision(ctx context.Context, provider common.AWSClientProvider, logger *zap.Logger, w io.Writer, s provisionSettings) error {
	profile, err := provider.LoadProfile(ctx, s.Load)
	if err != nil {
		return fmt.Errorf("load aws profile: %w", err)
	}
	logger.Debug("provisioning",
		zap.String("profile", profile.ProfileName),
		zap.String("account", profile.AccountID),
		zap.String("region", profile.Region))

	p := provision.New(profile.Clients.S3, w, logger)
	target := provision.Target{AccountID: profile.AccountID, Region: profile.Region}
	if _, err := p.Run(ctx, target, provision.DefaultSpecs(profile.AccountID), provision.Options{KeepGoing: s.KeepGoing}); err != nil {
		return fmt.Errorf("provision buckets: %w", err)
	}
	return nil
}

// ── audit ────────────────────────────────────────────────────────────────────

// auditFlags are the flags of grce s3 audit.
type auditFlags struct {
	reportFmt   string
	colored     bool
	outputPath  string
	metricsFile string
	keepGoing   bool
}

func (f *auditFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.reportFmt, "report", "text", "Output format: text, table or json")
	cmd.Flags().BoolVar(&f.colored, "color", false, "Colour status cells in the table report")
	cmd.Flags().StringVar(&f.outputPath, "output", "", "Also write the JSON report to this file path")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVar(&f.keepGoing, "keep-going", false, "Report an ERROR row for a failing bucket and continue")
}

// settings merges the config file's audit section with the flags. A flag
// set on the command line always wins, including an explicit false.
func (f *auditFlags) settings(cmd *cobra.Command, cfg *config.Config, load common.LoadOptions) auditSettings {
	s := auditSettings{
		Load:        load,
		Report:      cfg.Audit.Report,
		Colored:     f.colored,
		OutputPath:  f.outputPath,
		MetricsFile: cfg.Audit.MetricsFile,
		KeepGoing:   cfg.Audit.KeepGoing,
	}
	if cmd.Flags().Changed("report") || s.Report == "" {
		s.Report = f.reportFmt
	}
	if cmd.Flags().Changed("metrics-file") {
		s.MetricsFile = f.metricsFile
	}
	if cmd.Flags().Changed("keep-going") {
		s.KeepGoing = f.keepGoing
	}
	return s
}

func newS3AuditCmd(g *globalFlags) *cobra.Command {
	var f auditFlags

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check every bucket for default encryption and a full public access block",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, loadOpts, err := loadConfig(config.NewFileLoader(g.configPath), g)
			if err != nil {
				return err
			}
			logger, err := logging.New(g.verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			return runAudit(cmd.Context(), common.NewDefaultAWSClientProvider(), logger, cmd.OutOrStdout(), f.settings(cmd, cfg, loadOpts))
		},
	}
	f.bind(cmd)
	return cmd
}

type auditSettings struct {
	Load        common.LoadOptions
	Report      string
	Colored     bool
	OutputPath  string
	MetricsFile string
	KeepGoing   bool
}

// runAudit audits every bucket visible through provider and renders the
// report to w in the requested format. The text format streams one block
// per bucket as it is audited, so output already written survives an abort.
func runAudit(ctx context.Context, provider common.AWSClientProvider, logger *zap.Logger, w io.Writer, s auditSettings) error {
	if !slices.Contains(config.ReportFormats, s.Report) {
		return fmt.Errorf("unknown report format %q (want text, table or json)", s.Report)
	}

	profile, err := provider.LoadProfile(ctx, s.Load)
	if err != nil {
		return fmt.Errorf("load aws profile: %w", err)
	}

	opts := audit.Options{
		KeepGoing: s.KeepGoing,
		Profile:   profile.ProfileName,
		AccountID: profile.AccountID,
		Region:    profile.Region,
	}
	if s.Report == "text" {
		opts.Listener = output.NewTextReporter(w)
	}

	report, err := audit.New(profile.Clients.S3, checks.Default(), logger).Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("audit buckets: %w", err)
	}

	switch s.Report {
	case "json":
		if err := output.WriteJSON(w, report); err != nil {
			return err
		}
	case "table":
		output.RenderTable(w, report, output.TableOptions{Colored: s.Colored})
	default:
		output.WriteTextSummary(w, report.Summary)
	}

	if s.OutputPath != "" {
		if err := output.WriteJSONFile(s.OutputPath, report); err != nil {
			return err
		}
	}
	if s.MetricsFile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(report)
		if err := rec.WriteTextfile(s.MetricsFile); err != nil {
			return err
		}
		logger.Debug("wrote metrics", zap.String("path", s.MetricsFile))
	}
	return nil
}
