package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/config"
	"github.com/Skufu/heartcheck/internal/export"
	"github.com/Skufu/heartcheck/internal/importer"
	"github.com/Skufu/heartcheck/internal/logger"
	"github.com/Skufu/heartcheck/internal/store"
)

func main() {
	lg, err := logger.New(os.Getenv("LOG_LEVEL"), "console", "heartcheck-cli")
	if err != nil {
		lg = zap.NewNop()
	}
	defer func() { _ = lg.Sync() }()

	if err := newRootCmd(os.Stdout, lg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer, lg *zap.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "heartcheck",
		Short:        "Heart health screening tools",
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(scoreCmd(lg))
	rootCmd.AddCommand(migrateCmd())
	return rootCmd
}

func scoreCmd(lg *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <file-or-url>",
		Short: "Normalize a patient spreadsheet and optionally score it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calculate, _ := cmd.Flags().GetBool("calculate")
			outPath, _ := cmd.Flags().GetString("out")
			format, _ := cmd.Flags().GetString("format")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			maxBytes, _ := cmd.Flags().GetInt64("max-bytes")

			mode := importer.ModeNormalize
			if calculate {
				mode = importer.ModeCalculate
			}
			if format == "" {
				format = formatFromPath(outPath)
			}
			switch format {
			case "json", "csv", "parquet":
			default:
				return fmt.Errorf("unknown format %q (want json, csv or parquet)", format)
			}
			if format == "parquet" && outPath == "" {
				return fmt.Errorf("--out is required for parquet output")
			}

			im := importer.New(importer.NewFetcher(timeout, maxBytes, lg), lg)
			src := args[0]

			var (
				res *importer.Result
				err error
			)
			if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()
				res, err = im.ProcessURL(ctx, src, mode)
			} else {
				var data []byte
				data, err = os.ReadFile(src)
				if err != nil {
					return fmt.Errorf("read %s: %w", src, err)
				}
				res, err = im.Process(data, mode)
			}
			if err != nil {
				return err
			}
			if res.Diagnostic != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), res.Diagnostic)
			}

			var buf bytes.Buffer
			switch format {
			case "parquet":
				err = export.WriteParquet(&buf, res.Records)
			case "csv":
				err = export.WriteCSV(&buf, res.Records)
			default:
				err = export.WriteJSON(&buf, res.Records)
			}
			if err != nil {
				return fmt.Errorf("encode %s: %w", format, err)
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d record(s) to %s\n", len(res.Records), outPath)
			return nil
		},
	}
	cmd.Flags().Bool("calculate", false, "Attach risk_score and heart_age to every record")
	cmd.Flags().String("out", "", "Output file (stdout when empty)")
	cmd.Flags().String("format", "", "Output format: json, csv or parquet (default from --out extension)")
	cmd.Flags().Duration("timeout", 30*time.Second, "Download timeout for URL sources")
	cmd.Flags().Int64("max-bytes", 10<<20, "Largest spreadsheet accepted from URL sources")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the assessments table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("create pool: %w", err)
			}
			defer pool.Close()

			if err := store.EnsureSchema(ctx, pool, cfg.AssessmentsTable); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Table %s is ready.\n", cfg.AssessmentsTable)
			return nil
		},
	}
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "parquet"
	case ".csv":
		return "csv"
	default:
		return "json"
	}
}
