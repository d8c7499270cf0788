// Package cli implements the slabcost command line interface.
//
// Command structure:
//
//	slabcost
//	├── eval       evaluate a formula against name=value bindings
//	├── validate   check a formula and the variables it uses
//	├── vars       list the variable catalog
//	├── estimate   recompute a product file and print the breakdown
//	├── compare    price a product under what-if scenarios
//	├── import     build a product from a CSV, XLSX or DXF file
//	├── export     write a product as PDF, XLSX, CSV or QR labels
//	├── list       list saved products
//	├── catalog    init, show, check the catalog and manage prices
//	├── backup     create or restore a backup of all data
//	└── demo       estimate the sample desk
//
// Every command reads the app config (file, .env, SLABCOST_* variables) and
// sets up logging first. With --metrics-file the counters collected during
// the command are written out in the Prometheus text format on exit.
package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SlabCost/internal/config"
	"github.com/piwi3910/SlabCost/internal/engine"
	"github.com/piwi3910/SlabCost/internal/formula"
	"github.com/piwi3910/SlabCost/internal/logger"
	"github.com/piwi3910/SlabCost/internal/metrics"
	"github.com/piwi3910/SlabCost/internal/model"
	"github.com/piwi3910/SlabCost/internal/project"
)

// Version is reported by --version.
var Version = "1.0.0"

// app carries the flags and the state loaded before a command runs.
type app struct {
	configPath  string
	catalogPath string
	pricesPath  string
	productsDir string
	logLevel    string
	logJSON     bool
	metricsFile string

	cfg      model.AppConfig
	log      *zap.Logger
	undoLog  func()
	registry *prometheus.Registry
	recorder *metrics.Recorder

	catalog *model.Catalog
	prices  *model.PriceBook
}

// BuildCLI returns the root command with every subcommand attached.
func BuildCLI() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "slabcost",
		Short: "SlabCost: formula-driven furniture process time and cost estimation",
		Long: `SlabCost estimates machining time and cost for furniture components
and products. Process durations come from user-editable formulas over
component dimensions, features and complexity, priced with equipment
rates and rolled up into a labor-based quote.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", project.DefaultConfigPath(), "app config file")
	flags.StringVar(&a.catalogPath, "catalog", project.DefaultCatalogPath(), "template catalog file (.yaml or .json)")
	flags.StringVar(&a.pricesPath, "prices", project.DefaultPriceBookPath(), "price book file")
	flags.StringVar(&a.productsDir, "products", project.DefaultProductsDir(), "directory of saved products")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.BoolVar(&a.logJSON, "log-json", false, "log in JSON")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		buildEvalCommand(a),
		buildValidateCommand(a),
		buildVarsCommand(a),
		buildEstimateCommand(a),
		buildCompareCommand(a),
		buildImportCommand(a),
		buildExportCommand(a),
		buildListCommand(a),
		buildCatalogCommand(a),
		buildBackupCommand(a),
		buildDemoCommand(a),
	)

	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	log, undo, err := logger.Init(logger.Config{Level: level, JSON: cfg.LogJSON || a.logJSON})
	if err != nil {
		return err
	}
	a.log, a.undoLog = log, undo

	a.registry = prometheus.NewRegistry()
	a.recorder = metrics.New(a.registry)
	return nil
}

func (a *app) teardown() error {
	var err error
	if a.metricsFile != "" && a.registry != nil {
		err = metrics.WriteTextfile(a.metricsFile, a.registry)
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.undoLog != nil {
		a.undoLog()
	}
	return err
}

// loadCatalog reads the template catalog once.
func (a *app) loadCatalog() (*model.Catalog, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}
	catalog, err := project.LoadCatalog(a.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for cat, ids := range model.DefaultConflicts(catalog.Templates) {
		a.log.Warn("several default logics in one category",
			zap.String("category", string(cat)), zap.Strings("logics", ids))
	}
	a.catalog = &catalog
	return a.catalog, nil
}

// loadPrices reads the price book once. A missing file is created with the
// stock prices.
func (a *app) loadPrices() (*model.PriceBook, error) {
	if a.prices != nil {
		return a.prices, nil
	}
	prices, err := project.LoadPriceBook(a.pricesPath)
	if err != nil {
		return nil, fmt.Errorf("load price book: %w", err)
	}
	a.prices = &prices
	return a.prices, nil
}

// estimator builds an Estimator over the loaded catalog, observed by the
// metrics recorder.
func (a *app) estimator(opts ...engine.Option) (*engine.Estimator, error) {
	catalog, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	prices, err := a.loadPrices()
	if err != nil {
		return nil, err
	}
	base := []engine.Option{
		engine.WithLogger(a.log.Named("engine")),
		engine.WithObserver(a.recorder),
		engine.WithPriceBook(*prices),
		engine.WithConfig(a.cfg),
		engine.WithCatalog(catalog.Variables),
	}
	return engine.NewEstimator(catalog, append(base, opts...)...), nil
}

func (a *app) evaluator() *formula.Evaluator {
	return formula.NewEvaluator(
		formula.WithLogger(a.log.Named("formula")),
		formula.WithObserver(a.recorder),
	)
}
