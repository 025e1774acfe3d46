package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/iwvelando/loan-report/internal/appraisal"
	"github.com/iwvelando/loan-report/internal/artifact"
	"github.com/iwvelando/loan-report/internal/config"
	"github.com/iwvelando/loan-report/internal/csvcodec"
	"github.com/iwvelando/loan-report/internal/project"
	"github.com/iwvelando/loan-report/internal/report"
	"github.com/iwvelando/loan-report/internal/server"
	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/iwvelando/loan-report/pkg/output"
	"github.com/iwvelando/loan-report/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadProject reads a project from a .csv export or a .json object.
func (a *app) loadProject(ctx context.Context, path string) (project.ProjectData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		p, result, err := csvcodec.New(a.logger).ImportFile(ctx, path)
		if err != nil {
			return project.ProjectData{}, err
		}
		for _, header := range result.UnknownHeaders {
			a.logger.Warn("ignoring unknown CSV column",
				zap.String("op", "main.loadProject"),
				zap.String("header", header),
			)
		}
		return p, nil
	case ".json":
		var p project.ProjectData
		if err := readJSON(path, &p); err != nil {
			return project.ProjectData{}, err
		}
		return p, nil
	default:
		return project.ProjectData{}, fmt.Errorf("unsupported project file %s: expected .csv or .json", path)
	}
}

func readJSON(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (a *app) appraisalOptions() appraisal.Options {
	return appraisal.Options{
		DiscountRate: a.conf.Appraisal.DiscountRate,
		MinHorizon:   a.conf.Appraisal.MinHorizon,
		Logger:       a.logger,
	}
}

func (a *app) outputDir(override string) string {
	if override != "" {
		return override
	}
	return a.conf.Output.Directory
}

func (a *app) exportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export <project.json>",
		Short: "Write a project as a single-record CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			emitter := artifact.NewDirEmitter(a.logger, a.outputDir(dir))
			if _, err := csvcodec.New(a.logger).Export(cmd.Context(), p, emitter, time.Now()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), emitter.LastPath())
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "out-dir", "", "directory for the CSV file (default: output.directory)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import <project.csv>",
		Short: "Read a project CSV file and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, result, err := csvcodec.New(a.logger).ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("imported project",
				zap.String("op", "main.import"),
				zap.Int("fields", result.ImportedFields),
				zap.Bool("headerFallback", result.HeaderFallback),
			)

			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode project: %w", err)
			}
			data = append(data, '\n')
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the JSON to this file instead of stdout")
	return cmd
}

func (a *app) appraiseCmd() *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "appraise <project.csv|project.json>",
		Short: "Compute and print the appraisal of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Determine output format (CLI override takes precedence over config)
			format := a.conf.Output.Format
			if outputFormat != "" {
				format = outputFormat
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}

			p, err := a.loadProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			results, err := appraisal.Compute(p, a.appraisalOptions())
			if err != nil {
				return err
			}

			summary := output.NewSummary(p, results, appraisal.Warnings(p))
			switch format {
			case constants.OutputFormatJSON:
				return output.JSONFormat(cmd.OutOrStdout(), summary)
			default:
				return output.PrettyFormat(cmd.OutOrStdout(), summary)
			}
		},
	}
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, json")
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	var (
		dir         string
		resultsPath string
		toStdout    bool
	)
	cmd := &cobra.Command{
		Use:   "report <project.csv|project.json>",
		Short: "Render the HTML project report",
		Long: `Render the HTML project report. Results are computed from the project
unless --results names a JSON file produced by another calculator.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var results appraisal.CalculatedResults
			if resultsPath != "" {
				if err := readJSON(resultsPath, &results); err != nil {
					return err
				}
			} else {
				results, err = appraisal.Compute(p, a.appraisalOptions())
				if err != nil {
					return err
				}
				for _, warning := range appraisal.Warnings(p) {
					a.logger.Warn("Project warning: "+warning,
						zap.String("op", "main.report"),
					)
				}
			}

			renderer := report.NewRenderer(a.logger, report.Config{
				FontStylesheet: a.conf.Report.FontStylesheet,
				CurrencySymbol: a.conf.Report.CurrencySymbol,
			})

			if toStdout {
				_, err := renderer.Generate(cmd.Context(), p, results, artifact.WriterEmitter{W: cmd.OutOrStdout()})
				return err
			}
			emitter := artifact.NewDirEmitter(a.logger, a.outputDir(dir))
			if _, err := renderer.Generate(cmd.Context(), p, results, emitter); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), emitter.LastPath())
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "out-dir", "", "directory for the report (default: output.directory)")
	cmd.Flags().StringVar(&resultsPath, "results", "", "JSON file with precomputed results")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the report to stdout instead of a file")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var serverConfig string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(serverConfig)
			if err != nil {
				return err
			}

			// Settings absent from the server file fall back to the main configuration.
			if cfg.Report.FontStylesheet == "" {
				cfg.Report.FontStylesheet = a.conf.Report.FontStylesheet
			}
			if cfg.Report.CurrencySymbol == "" {
				cfg.Report.CurrencySymbol = a.conf.Report.CurrencySymbol
			}
			if cfg.Appraisal == (config.AppraisalConfig{}) {
				cfg.Appraisal = a.conf.Appraisal
			}

			logger := a.logger
			if cfg.Logging != (config.LoggingConfig{}) {
				logger, err = initializeLogger(cfg.Logging, a.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() { _ = logger.Sync() }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, logger, cfg, version)
		},
	}
	cmd.Flags().StringVar(&serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}
