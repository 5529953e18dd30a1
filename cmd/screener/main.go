package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/internal/screener/export"
	"golang-garp-screener/internal/screener/repository"
	"golang-garp-screener/internal/screener/service"
	"golang-garp-screener/pkg/logger"
	"golang-garp-screener/pkg/postgres"
	"golang-garp-screener/pkg/telegram"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	configPath   string
	limit        int
	cleanup      bool
	keepRuns     int
	exportFormat string
	exportDir    string
	noPersist    bool
)

type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	screener service.ScreenerService
	runs     service.RunService
	close    func()
}

func newApp(withPersistence bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	closers := []func(){func() { _ = appLogger.Sync() }}
	var gormDB *gorm.DB
	if withPersistence && cfg.Database.Host != "" {
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Database.LogLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		gormDB = db.DB
	}

	var notifier telegram.Notifier
	if withPersistence && cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Warn("Telegram notifier disabled", logger.ErrorField(err))
			notifier = nil
		}
	}

	providers := service.NewProviders(cfg, appLogger, gormDB)
	var runRepo repository.ScreenerRunRepository
	if gormDB != nil {
		runRepo = repository.NewScreenerRunRepository(gormDB)
	}
	var related service.RelatedAssetResolver
	if cfg.Screener.RelatedAssets {
		related = service.NewRelatedAssetResolver(providers.History, appLogger)
	}

	screener, err := service.NewScreenerService(cfg, appLogger, providers, runRepo, notifier, related)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   appLogger,
		screener: screener,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}
	if runRepo != nil {
		a.runs = service.NewRunService(runRepo, appLogger)
	}
	return a, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the screener once and prints the ranked result",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(!noPersist)
		if err != nil {
			return err
		}
		defer a.close()

		run, err := a.screener.Run(ctx, dto.RunOptions{Limit: limit})
		if run == nil {
			return err
		}
		if err != nil {
			a.logger.Error("Screener run finished but was not saved", logger.ErrorField(err))
		}
		printRun(cmd, run)

		if exportFormat != "" {
			format, err := export.ParseFormat(exportFormat)
			if err != nil {
				return err
			}
			dir := exportDir
			if dir == "" {
				dir = a.cfg.Export.Dir
			}
			path, err := export.NewExporter(dir).Export(run, format)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nExported to %s\n", path)
		}

		if cleanup {
			keep := keepRuns
			if keep <= 0 {
				keep = a.cfg.Screener.KeepRuns
			}
			deleted, err := a.screener.Cleanup(ctx, keep)
			if err != nil && !errors.Is(err, service.ErrPersistenceDisabled) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d old runs\n", deleted)
		}
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Scores a single symbol and prints its trade idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		stock, err := a.screener.Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if stock.TradeIdea != nil {
			fmt.Fprintln(cmd.OutOrStdout(), *stock.TradeIdea)
		}
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Deletes all but the newest persisted runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		keep := keepRuns
		if keep <= 0 {
			keep = a.cfg.Screener.KeepRuns
		}
		deleted, err := a.screener.Cleanup(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d old runs, kept %d\n", deleted, keep)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export RUN_ID",
	Short: "Exports a persisted run to json, csv or xlsx",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()
		if a.runs == nil {
			return service.ErrPersistenceDisabled
		}

		run, err := a.runs.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load run %s: %w", args[0], err)
		}
		format := exportFormat
		if format == "" {
			format = a.cfg.Export.Format
		}
		return exportRun(cmd, a, run, format)
	},
}

func exportRun(cmd *cobra.Command, a *app, run *dto.ScreenerRun, name string) error {
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}
	dir := exportDir
	if dir == "" {
		dir = a.cfg.Export.Dir
	}
	path, err := export.NewExporter(dir).Export(run, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nExported to %s\n", path)
	return nil
}

func printRun(cmd *cobra.Command, run *dto.ScreenerRun) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s): scanned %d, matched %d in %.1fs\n\n",
		run.ID, run.ConfigName, run.TotalScanned, run.TotalMatches, run.ExecutionTimeSeconds)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSYMBOL\tSCORE\tRECOMMENDATION\tSECTOR\tFLAGS")
	for _, s := range run.Stocks {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\t%s\n",
			s.Rank, s.Symbol, s.RankScore(), s.Recommendation, s.Sector, strings.Join(s.Flags(), ", "))
	}
	_ = w.Flush()

	if len(run.Errors) > 0 {
		fmt.Fprintf(out, "\n%d errors:\n", len(run.Errors))
		for _, e := range run.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
	}
}

func main() {
	rootCmd := &cobra.Command{Use: "screener", SilenceUsage: true}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-screener.yaml", "Path to the configuration file")

	runCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Scan at most this many symbols")
	runCmd.Flags().BoolVar(&cleanup, "cleanup", false, "Delete old runs after saving")
	runCmd.Flags().IntVar(&keepRuns, "keep-runs", 0, "Runs to keep when cleaning up (default from config)")
	runCmd.Flags().StringVarP(&exportFormat, "export", "e", "", "Export the run as json, csv or xlsx")
	runCmd.Flags().StringVar(&exportDir, "output-dir", "", "Export directory (default from config)")
	runCmd.Flags().BoolVar(&noPersist, "no-persist", false, "Do not save the run or send notifications")
	cleanupCmd.Flags().IntVar(&keepRuns, "keep-runs", 0, "Runs to keep (default from config)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export format: json, csv or xlsx (default from config)")
	exportCmd.Flags().StringVar(&exportDir, "output-dir", "", "Export directory (default from config)")

	rootCmd.AddCommand(runCmd, analyzeCmd, cleanupCmd, exportCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error executing screener CLI: %s", err)
		os.Exit(1)
	}
}
