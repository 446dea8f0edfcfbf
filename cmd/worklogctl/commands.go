package main

import (
	"context"
	"fmt"
	"os"

	"worklog/adapters/excel"
	"worklog/app"
	"worklog/internal/config"
	"worklog/internal/migration"
	"worklog/models"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Println(okStyle.Render("schema is up to date (version " + runner.Version() + ")"))
			return nil
		},
	}
}

func newReportsCmd() *cobra.Command {
	var userID string
	var limit int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List a user's generated reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(svc services) error {
				reports, err := svc.reports.List(cmd.Context(), userID, limit)
				if err != nil {
					return err
				}
				fmt.Println(renderReports(reports))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of reports (0 for all)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newCooldownCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "cooldown",
		Short: "Show whether a user may generate a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(svc services) error {
				status, err := svc.reports.Cooldown(cmd.Context(), userID)
				if err != nil {
					return err
				}
				fmt.Println(renderCooldown(userID, status))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newExportCmd() *cobra.Command {
	var userID, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's logs and reports to an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(svc services) error {
				ctx := cmd.Context()
				logs, err := svc.logs.All(ctx, userID)
				if err != nil {
					return err
				}
				reports, err := svc.reports.List(ctx, userID, 0)
				if err != nil {
					return err
				}

				f, err := os.Create(out)
				if err != nil {
					return err
				}
				if err := excel.WriteWorkbook(f, logs, reports); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Println(okStyle.Render(fmt.Sprintf("wrote %d logs and %d reports to %s", len(logs), len(reports), out)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&out, "out", "worklog.xlsx", "output file")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newImportCmd() *cobra.Command {
	var userID, file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import log entries from an XLSX or CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := excel.NewDataReader(file).ReadData()
			if err != nil {
				return err
			}
			rows, err := excel.LogRows(data)
			if err != nil {
				return err
			}

			return withContainer(cmd.Context(), func(svc services) error {
				result := importRows(cmd.Context(), svc.logs, userID, rows)
				fmt.Println(renderImport(result))
				if len(result.Failed) > 0 {
					return fmt.Errorf("%d of %d rows failed", len(result.Failed), len(rows))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&file, "file", "", "xlsx or csv file with a Content column")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// services are the parts of the container the commands use
type services struct {
	logs    *app.LogService
	reports *app.ReportService
}

func withContainer(ctx context.Context, fn func(services) error) error {
	c, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown(context.Background())
	return fn(services{logs: c.Logs, reports: c.Reports})
}

// LogCreator stores one log entry
type LogCreator interface {
	Create(ctx context.Context, ownerID string, req app.LogRequest) (*models.LogEntry, error)
}

type importFailure struct {
	Line int
	Err  error
}

type importResult struct {
	Imported int
	Failed   []importFailure
}

// importRows creates every row it can; a bad row does not stop the rest
func importRows(ctx context.Context, logs LogCreator, userID string, rows []excel.LogRow) importResult {
	var result importResult
	for _, row := range rows {
		if row.Err != nil {
			result.Failed = append(result.Failed, importFailure{Line: row.Line, Err: row.Err})
			continue
		}
		_, err := logs.Create(ctx, userID, app.LogRequest{
			Title:     row.Title,
			Content:   row.Content,
			Category:  row.Category,
			Duration:  row.Duration,
			Timestamp: row.Timestamp,
		})
		if err != nil {
			result.Failed = append(result.Failed, importFailure{Line: row.Line, Err: err})
			continue
		}
		result.Imported++
	}
	return result
}
