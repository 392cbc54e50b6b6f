package main

import (
	"context"
	"database/sql"
	"dispatch-conflict-service/internal/adapters/repositories"
	"dispatch-conflict-service/internal/config"
	"dispatch-conflict-service/internal/domain"
	"dispatch-conflict-service/internal/platform/db"
	"dispatch-conflict-service/internal/platform/logging"
	"dispatch-conflict-service/internal/services"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Schedule database maintenance and conflict reports",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, dotenv, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			logger = logging.SetupWithWriter(cfg.Environment, cmd.ErrOrStderr())
			if !dotenv {
				logger.Debug().Msg("No .env file found (using environment variables)")
			}
			return nil
		},
	}

	root.AddCommand(newInitCmd(), newSeedCmd(), newCheckCmd())
	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the schedule schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(conn *sql.DB) error {
				logger.Info().Msg("Initializing database schema...")
				if err := repositories.InitSchema(conn); err != nil {
					return fmt.Errorf("schema initialization failed: %w", err)
				}
				logger.Info().Msg("Schema ready.")
				return nil
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	var seedPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load a JSON schedule seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seedPath == "" {
				seedPath = cfg.SeedPath
			}
			return withDB(func(conn *sql.DB) error {
				if err := repositories.InitSchema(conn); err != nil {
					return fmt.Errorf("schema initialization failed: %w", err)
				}
				logger.Info().Str("path", seedPath).Msg("Seeding database...")
				if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
					return fmt.Errorf("seeding failed: %w", err)
				}
				logger.Info().Msg("Seeding complete.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&seedPath, "file", "", "seed file (default SEED_PATH)")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Print the conflict report for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			date := domain.DateOf(time.Now())
			if day != "" {
				d, err := domain.ParseDate(day)
				if err != nil {
					return err
				}
				date = d
			}

			return withDB(func(conn *sql.DB) error {
				svc := services.NewConflictService(repositories.NewSQLScheduleRepository(conn), nil, nil, logger)
				conflicts, err := svc.DayConflicts(logger.WithContext(context.Background()), date)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), date, conflicts)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&day, "date", "", "day to check, YYYY-MM-DD (default today)")
	return cmd
}

func withDB(fn func(conn *sql.DB) error) error {
	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func printReport(w io.Writer, date domain.Date, conflicts []domain.Conflict) {
	if len(conflicts) == 0 {
		fmt.Fprintf(w, "%s: %s\n", date, color.GreenString("no conflicts"))
		return
	}

	sum := services.Summarize(conflicts)
	fmt.Fprintf(w, "%s: %d conflicts (%s, %s)\n", date, sum.Total,
		color.RedString("%d critical", sum.Critical),
		color.YellowString("%d warning", sum.Warning),
	)
	for _, c := range conflicts {
		sev := color.YellowString("WARN")
		if c.Severity == domain.SeverityCritical {
			sev = color.RedString("CRIT")
		}
		fmt.Fprintf(w, "  %s %-22s %-12s %s\n", sev, c.Kind, c.AssignmentID, c.Message)
	}
}
