// Package main provides the CLI entry point for kriterion.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ukaji3/kriterion-go/pkg/kriterion"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/catalog"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/config"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/metrics"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/output"
)

const (
	pushJob       = "kriterion_export"
	watchDebounce = 500 * time.Millisecond
)

var (
	configPath string
	verbose    bool
	logger     *zap.Logger

	outDir      string
	pretty      bool
	sqlitePath  string
	alignMode   string
	strict      bool
	concurrency int
	noLinks     bool
	watch       bool
	pushgateway string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kriterion",
		Short: "Export criteria catalog workbooks to JSON fixtures",
		Long: `kriterion reads a criteria catalog workbook (a template sheet plus one sheet
per evaluated product) and exports the criteria tree, the product list and
the score table as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Layout config file (YAML, default: built-in catalog layout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newExportCmd(), newListCmd(), newConfigCmd())
	return rootCmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [input.xlsx]",
		Short: "Export tree.json, products.json and scores.json",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "fixtures", "Output directory for the JSON fixtures")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "Pretty-print JSON output")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also write the export to this SQLite database")
	cmd.Flags().StringVar(&alignMode, "align", string(catalog.AlignIdentifier), "Row alignment: identifier or positional")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a product sheet's row count differs from the template")
	cmd.Flags().IntVar(&concurrency, "concurrency", kriterion.DefaultConcurrency, "Product sheets aligned in parallel")
	cmd.Flags().BoolVar(&noLinks, "no-links", false, "Ignore cell hyperlinks in evidence columns")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-export whenever the workbook changes")
	cmd.Flags().StringVar(&pushgateway, "pushgateway", "", "Push export metrics to this Pushgateway URL")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := exportWorkbook(ctx, cmd, inputPath, opts); err != nil {
		if !watch {
			return err
		}
		logger.Error("export failed", zap.Error(err))
	}
	if !watch {
		return nil
	}

	return watchWorkbook(ctx, inputPath, func() error {
		return exportWorkbook(ctx, cmd, inputPath, opts)
	})
}

func buildOptions() (kriterion.Options, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return kriterion.Options{}, err
	}
	mode, err := catalog.ParseAlignMode(alignMode)
	if err != nil {
		return kriterion.Options{}, err
	}

	opts := kriterion.DefaultOptions()
	opts.Config = cfg
	opts.Align = mode
	opts.Strict = strict
	opts.Concurrency = concurrency
	if noLinks {
		includeLinks := false
		opts.IncludeLinks = &includeLinks
	}
	return opts, nil
}

func exportWorkbook(ctx context.Context, cmd *cobra.Command, inputPath string, opts kriterion.Options) error {
	runID := uuid.NewString()
	workbook := filepath.Base(inputPath)
	opts.Logger = logger.With(zap.String("run_id", runID), zap.String("workbook", workbook))
	opts.Metrics = metrics.New()

	cat, err := kriterion.Extract(ctx, inputPath, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	paths, err := output.WriteFixtures(outDir, cat, pretty)
	if err != nil {
		return fmt.Errorf("failed to write fixtures: %w", err)
	}

	if sqlitePath != "" {
		run := output.RunInfo{ID: runID, Workbook: workbook, ExportedAt: time.Now()}
		if err := output.WriteSQLite(ctx, sqlitePath, cat, run); err != nil {
			return fmt.Errorf("failed to write sqlite: %w", err)
		}
		paths = append(paths, sqlitePath)
	}

	if pushgateway != "" {
		if err := opts.Metrics.Push(pushgateway, pushJob, workbook); err != nil {
			opts.Logger.Warn("metrics push failed", zap.Error(err))
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "OK: exported fixtures")
	for _, p := range paths {
		fmt.Fprintf(out, "- %s\n", p)
	}
	fmt.Fprintln(out, output.Summary(cat))
	return nil
}

// watchWorkbook runs fn after each change of the workbook until ctx is done.
func watchWorkbook(ctx context.Context, path string, fn func() error) error {
	ww, err := newWorkbookWatcher(path, watchDebounce)
	if err != nil {
		return err
	}
	defer ww.Close()

	logger.Info("watching workbook", zap.String("path", ww.path))
	return ww.run(ctx, fn)
}

// workbookWatcher watches the parent directory of a workbook, because
// spreadsheet tools replace the file on save.
type workbookWatcher struct {
	w        *fsnotify.Watcher
	path     string
	debounce time.Duration
}

func newWorkbookWatcher(path string, debounce time.Duration) (*workbookWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &workbookWatcher{w: w, path: abs, debounce: debounce}, nil
}

func (ww *workbookWatcher) Close() error {
	return ww.w.Close()
}

// run calls fn once per burst of writes to the workbook; events on other
// files in the directory are ignored.
func (ww *workbookWatcher) run(ctx context.Context, fn func() error) error {
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ww.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != ww.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce = time.After(ww.debounce)
		case <-debounce:
			debounce = nil
			if err := fn(); err != nil {
				logger.Error("export failed", zap.Error(err))
			}
		case err, ok := <-ww.w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [tree.json|input.xlsx]",
		Short: "List domains, criteria and sub-criteria ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output.WriteList(cmd.OutOrStdout(), tree)
		},
	}
}

func loadTree(ctx context.Context, path string) (models.Tree, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return output.ReadTree(path)
	}
	opts, err := buildOptions()
	if err != nil {
		return models.Tree{}, err
	}
	opts.Logger = logger
	cat, err := kriterion.Extract(ctx, path, opts)
	if err != nil {
		return models.Tree{}, fmt.Errorf("extraction failed: %w", err)
	}
	return cat.Tree, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the layout configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "kriterion.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	return cmd
}
