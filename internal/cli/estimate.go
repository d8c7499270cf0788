package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SlabCost/internal/engine"
	"github.com/piwi3910/SlabCost/internal/export"
	"github.com/piwi3910/SlabCost/internal/model"
	"github.com/piwi3910/SlabCost/internal/project"
)

// recentLimit is the number of recent products kept in the app config.
const recentLimit = 10

// estimateOptions are shared by estimate and demo.
type estimateOptions struct {
	strategy string
	asJSON   bool
	detail   bool
}

func (o *estimateOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.strategy, "strategy", "", "force one duration strategy: formula, heuristic, efficiency")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print the recomputed product as JSON")
	cmd.Flags().BoolVar(&o.detail, "detail", false, "list every process under its component")
}

func (o *estimateOptions) engineOptions() ([]engine.Option, error) {
	if o.strategy == "" {
		return nil, nil
	}
	kind, err := model.ParseStrategyKind(o.strategy)
	if err != nil {
		return nil, err
	}
	return []engine.Option{engine.WithStrategyOverride(kind)}, nil
}

// recompute prices p and prints it.
func (a *app) recompute(w io.Writer, p model.Product, o estimateOptions) (model.Product, error) {
	opts, err := o.engineOptions()
	if err != nil {
		return model.Product{}, err
	}
	est, err := a.estimator(opts...)
	if err != nil {
		return model.Product{}, err
	}
	p = est.RecomputeProduct(p)

	if o.asJSON {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return model.Product{}, err
		}
		fmt.Fprintln(w, string(data))
		return p, nil
	}
	return p, printProduct(w, p, a.catalog, o.detail)
}

// saveProduct writes p and records it in the recent products list.
func (a *app) saveProduct(path string, p model.Product) error {
	if err := project.SaveProduct(path, p); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	a.cfg.AddRecentProduct(path, recentLimit)
	if err := project.SaveAppConfig(a.configPath, a.cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	a.log.Info("product saved", zap.String("product", p.Name), zap.String("path", path))
	return nil
}

func buildEstimateCommand(a *app) *cobra.Command {
	var opts estimateOptions
	var save bool

	cmd := &cobra.Command{
		Use:   "estimate PRODUCT_FILE",
		Short: "Recompute a product and print its time and cost breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.LoadProduct(args[0])
			if err != nil {
				return fmt.Errorf("load product: %w", err)
			}
			p, err = a.recompute(cmd.OutOrStdout(), p, opts)
			if err != nil {
				return err
			}
			if save {
				p.Touch()
				return a.saveProduct(args[0], p)
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "write the recomputed product back to the file")
	return cmd
}

func buildCompareCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare PRODUCT_FILE",
		Short: "Price a product under alternative rates and strategies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.LoadProduct(args[0])
			if err != nil {
				return fmt.Errorf("load product: %w", err)
			}
			est, err := a.estimator()
			if err != nil {
				return err
			}

			results := est.CompareScenarios(engine.BuildDefaultScenarios(a.cfg), p)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENARIO\tTIME (MIN)\tASSEMBLY (MIN)\tCOST\tPRICE\tDELTA")
			for _, r := range results {
				delta := r.EstimatedCost - results[0].EstimatedCost
				fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%+.2f\n",
					r.Scenario.Name, r.TotalTime, r.AssemblyTime, r.TotalCost, r.EstimatedCost, delta)
			}
			return tw.Flush()
		},
	}
}

func buildDemoCommand(a *app) *cobra.Command {
	var opts estimateOptions
	var save bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Estimate the sample office desk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}
			p, err := a.recompute(cmd.OutOrStdout(), model.SampleDesk(&catalog.TemplateStore), opts)
			if err != nil {
				return err
			}
			if save {
				path := project.ProductPath(a.productsDir, p)
				if err := a.saveProduct(path, p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "save the sample product to the products directory")
	return cmd
}

// printProduct writes the component table and the quote of a recomputed
// product.
func printProduct(w io.Writer, p model.Product, templates engine.TemplateLookup, detail bool) error {
	title := p.Name
	if p.Code != "" {
		title += " (" + p.Code + ")"
	}
	fmt.Fprintf(w, "Product: %s  [%s]  progress %.1f%%\n\n", title, p.Status, engine.ProductProgress(p))

	lines := export.ProcessLines(p, templates)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tSIZE (MM)\tMATERIAL\tQTY\tCOMPLEXITY\tTIME (MIN)\tMATERIAL\tPROCESS\tTOTAL")
	for _, pc := range p.Components {
		c := pc.Component
		fmt.Fprintf(tw, "%s\t%.0fx%.0fx%.0f\t%s\t%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			c.Name, c.Size.Length, c.Size.Width, c.Size.Thickness, c.Material, pc.Quantity,
			c.Complexity, c.TotalTime, c.MaterialCost, c.ProcessCost, c.TotalCost)
		if !detail {
			continue
		}
		for _, l := range lines {
			if l.ComponentID != c.ID {
				continue
			}
			fmt.Fprintf(tw, "  %s %s\t%s\t\t\t%s\t%.2f\t\t%.2f\t\n",
				l.TemplateCode, l.TemplateName, l.Equipment, l.Status, l.Minutes, l.Cost)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	q := p.Quote
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Process time:    %.2f min\n", p.TotalTime)
	fmt.Fprintf(w, "Assembly time:   %.2f min\n", p.AssemblyTime)
	fmt.Fprintf(w, "Material cost:   %.2f\n", q.MaterialCost)
	fmt.Fprintf(w, "Process cost:    %.2f\n", p.TotalCost-p.MaterialCost)
	fmt.Fprintf(w, "Labor:           %.2f min x %.2f/h = %.2f\n", q.LaborMinutes, q.HourlyRate, q.LaborCost)
	fmt.Fprintf(w, "Overhead:        %.0f%% = %.2f\n", q.OverheadRate*100, q.Overhead)
	fmt.Fprintf(w, "Estimated price: %.2f\n", p.EstimatedCost)
	return nil
}
