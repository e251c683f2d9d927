package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/config"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/output"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/common"
	awss3 "github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/s3"
)

// DoctorResult is the structured output of grce doctor. It can be serialised
// to JSON via --format=json or rendered as a human-readable list (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		Region      string `json:"region,omitempty"`
		RegionsOK   bool   `json:"regions_ok"`
		S3OK        bool   `json:"s3_ok"`
		BucketCount int    `json:"bucket_count"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Config struct {
		Path    string   `json:"path"`
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"config"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run environment diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewFileLoader(g.configPath)
			loadOpts := common.LoadOptions{Profile: g.profile, Region: g.region}
			// A broken config file is reported by the diagnostics, not fatal.
			if cfg, err := loader.Load(); err == nil {
				if loadOpts.Profile == "" {
					loadOpts.Profile = cfg.AWS.Profile
				}
				if loadOpts.Region == "" {
					loadOpts.Region = cfg.AWS.Region
				}
				loadOpts.Endpoint = cfg.AWS.Endpoint
				loadOpts.UsePathStyle = cfg.AWS.UsePathStyle
			}

			result, err := runDoctor(
				cmd.Context(),
				common.NewDefaultAWSClientProvider(),
				loader,
				cmd.OutOrStdout(),
				format,
				loadOpts,
			)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main's stderr path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", `Output format: "table" or "json"`)
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures. Callers must inspect
// result.OverallHealthy to decide whether the environment is usable.
func runDoctor(ctx context.Context, provider common.AWSClientProvider, loader config.Loader, w io.Writer, format string, opts common.LoadOptions) (DoctorResult, error) {
	result := collectDoctorResult(ctx, provider, loader, opts)

	switch format {
	case "json":
		if err := output.WriteJSON(w, result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}
	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
func collectDoctorResult(ctx context.Context, provider common.AWSClientProvider, loader config.Loader, opts common.LoadOptions) DoctorResult {
	var result DoctorResult

	// AWS: credentials → STS account ID → region discovery → S3 list.
	result.AWS.Profile = opts.Profile
	profileCfg, err := provider.LoadProfile(ctx, opts)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
		result.AWS.Region = profileCfg.Region
		if _, err := provider.GetActiveRegions(ctx, profileCfg); err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.RegionsOK = true
		}
		if names, err := awss3.ListBuckets(ctx, profileCfg.Clients.S3); err != nil {
			if result.AWS.Error == "" {
				result.AWS.Error = err.Error()
			}
		} else {
			result.AWS.S3OK = true
			result.AWS.BucketCount = len(names)
		}
	}

	// Config: stat → load → validate. The loader decides whether a missing
	// file is acceptable.
	result.Config.Path = loader.ConfigPath()
	_, statErr := os.Stat(loader.ConfigPath())
	result.Config.Present = statErr == nil
	if _, err := loader.Load(); err != nil {
		result.Config.Errors = []string{err.Error()}
	} else if result.Config.Present {
		result.Config.Valid = true
	}

	result.OverallHealthy = result.AWS.Credentials &&
		result.AWS.RegionsOK &&
		result.AWS.S3OK &&
		len(result.Config.Errors) == 0

	return result
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
		doctorPrint(w, "Regions API", "FAIL", "skipped")
		doctorPrint(w, "S3 ListBuckets", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		doctorPrint(w, "Region", "OK", result.AWS.Region)
		if result.AWS.RegionsOK {
			doctorPrint(w, "Regions API", "OK", "")
		} else {
			doctorPrint(w, "Regions API", "FAIL", result.AWS.Error)
		}
		if result.AWS.S3OK {
			doctorPrint(w, "S3 ListBuckets", "OK", fmt.Sprintf("%d buckets", result.AWS.BucketCount))
		} else {
			doctorPrint(w, "S3 ListBuckets", "FAIL", result.AWS.Error)
		}
	}

	fmt.Fprintln(w, "\nConfig:")
	label := result.Config.Path + " present"
	switch {
	case result.Config.Present:
		doctorPrint(w, label, "YES", "")
		if result.Config.Valid {
			doctorPrint(w, "Config valid", "OK", "")
		}
		for _, e := range result.Config.Errors {
			doctorPrint(w, "Config valid", "FAIL", e)
		}
	case len(result.Config.Errors) > 0:
		doctorPrint(w, label, "FAIL", result.Config.Errors[0])
	default:
		doctorPrint(w, label, "Not found (optional)", "")
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
