package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SlabCost/internal/export"
	"github.com/piwi3910/SlabCost/internal/importer"
	"github.com/piwi3910/SlabCost/internal/model"
	"github.com/piwi3910/SlabCost/internal/project"
)

var errNothingImported = errors.New("no components imported")

func buildImportCommand(a *app) *cobra.Command {
	var name, code, out string
	dxfOpts := importer.DefaultDXFOptions()

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create a product from a CSV, XLSX or DXF component list",
		Long: `Create a product from a component list. CSV and XLSX files are mapped by
their header row (name, length, width, thickness, material, quantity,
complexity, holes, grooves, chamfers, roundings, edges, processes); a file
without a header is read positionally. Process codes are resolved against
the template catalog. In a DXF file every closed outline becomes a panel
and circles inside it count as holes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}

			path := args[0]
			var result importer.ImportResult
			switch strings.ToLower(filepath.Ext(path)) {
			case ".xlsx":
				result = importer.ImportExcel(path, &catalog.TemplateStore)
			case ".dxf":
				result = importer.ImportDXF(path, dxfOpts)
			default:
				result = importer.ImportCSV(path, &catalog.TemplateStore)
			}

			stderr := cmd.ErrOrStderr()
			for _, w := range result.Warnings {
				fmt.Fprintln(stderr, "warning:", w)
			}
			for _, e := range result.Errors {
				fmt.Fprintln(stderr, "error:", e)
			}
			if len(result.Components) == 0 {
				return fmt.Errorf("import %s: %w", path, errNothingImported)
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			p := model.NewProduct(name, code, "Imported from "+filepath.Base(path))
			for _, c := range result.Components {
				p.AddComponent(c, c.Quantity, "")
			}

			p, err = a.recompute(cmd.OutOrStdout(), p, estimateOptions{})
			if err != nil {
				return err
			}
			if out == "" {
				out = project.ProductPath(a.productsDir, p)
			}
			if err := a.saveProduct(out, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d components (%d errors) into %s\n",
				len(result.Components), len(result.Errors), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product name (default: file name)")
	cmd.Flags().StringVar(&code, "code", "", "product code")
	cmd.Flags().StringVarP(&out, "out", "o", "", "product file to write (default: in the products directory)")
	cmd.Flags().Float64Var(&dxfOpts.Thickness, "thickness", dxfOpts.Thickness, "board thickness for DXF panels (mm)")
	cmd.Flags().StringVar(&dxfOpts.Material, "material", dxfOpts.Material, "material for DXF panels")
	return cmd
}

// Export formats.
const (
	formatPDF    = "pdf"
	formatXLSX   = "xlsx"
	formatCSV    = "csv"
	formatLabels = "labels"
)

// defaultExportPath derives the output file from the product file.
func defaultExportPath(productPath, format, table string) string {
	base := strings.TrimSuffix(productPath, project.ProductExt)
	if base == productPath {
		base = strings.TrimSuffix(productPath, filepath.Ext(productPath))
	}
	switch format {
	case formatLabels:
		return base + "-labels.pdf"
	case formatCSV:
		return base + "-" + table + ".csv"
	}
	return base + "." + format
}

func buildExportCommand(a *app) *cobra.Command {
	var format, out, table string

	cmd := &cobra.Command{
		Use:   "export PRODUCT_FILE",
		Short: "Write a product estimate as PDF, XLSX, CSV or QR labels",
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
			p = est.RecomputeProduct(p)

			if out == "" {
				out = defaultExportPath(args[0], format, table)
			}
			switch format {
			case formatPDF:
				err = export.ExportPDF(out, p, a.catalog)
			case formatXLSX:
				err = export.ExportXLSX(out, p, a.catalog)
			case formatLabels:
				err = export.ExportLabels(out, p, a.catalog)
			case formatCSV:
				err = writeFile(out, func(w io.Writer) error {
					switch table {
					case "components":
						return export.WriteComponentsCSV(w, p, a.catalog)
					case "processes":
						return export.WriteProcessesCSV(w, p, a.catalog)
					}
					return fmt.Errorf("unknown table %q (components, processes)", table)
				})
			default:
				return fmt.Errorf("unknown format %q (pdf, xlsx, csv, labels)", format)
			}
			if err != nil {
				return err
			}

			a.log.Info("product exported", zap.String("format", format), zap.String("path", out))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatPDF, "pdf, xlsx, csv or labels")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: next to the product file)")
	cmd.Flags().StringVar(&table, "table", "components", "CSV table: components or processes")
	return cmd
}

// writeFile creates path and hands it to fn. A failed write removes the
// partial file.
func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func buildListCommand(a *app) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the saved products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := project.ListProducts(a.productsDir)
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}
			est, err := a.estimator()
			if err != nil {
				return err
			}
			for i := range products {
				products[i] = est.RecomputeProduct(products[i])
			}

			if csvPath != "" {
				if err := writeFile(csvPath, func(w io.Writer) error {
					return export.WriteProductsCSV(w, products)
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", csvPath)
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCODE\tSTATUS\tCOMPONENTS\tTIME (MIN)\tPRICE")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
					p.ID, p.Name, p.Code, p.Status, p.TotalComponents, p.TotalTime+p.AssemblyTime, p.EstimatedCost)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "write the list as CSV to this file")
	return cmd
}

func buildCatalogCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the variable catalog, calculation logics and process templates",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the stock catalog to the catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.catalogPath); err == nil && !force {
				return fmt.Errorf("catalog %s exists, use --force to overwrite", a.catalogPath)
			}
			if err := project.SaveCatalog(a.catalogPath, model.DefaultCatalog()); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.catalogPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing catalog")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "List the process templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tCATEGORY\tSTRATEGY\tEQUIPMENT\tACTIVE\tFORMULA")
			for _, t := range catalog.Templates {
				expr := "-"
				if t.CalculationLogic != nil {
					expr = t.CalculationLogic.Formula
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
					t.Code, t.Name, t.Category, t.Strategy, t.PrimaryEquipment(), t.IsActive, expr)
			}
			return tw.Flush()
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ok: %d variables, %d logics, %d templates (%d active)\n",
				len(catalog.Variables), len(catalog.Logics), len(catalog.Templates), len(catalog.Active()))
			for cat, ids := range model.DefaultConflicts(catalog.Templates) {
				fmt.Fprintf(out, "note: %s has several default logics: %s\n", cat, strings.Join(ids, ", "))
			}
			return nil
		},
	}

	pricesCmd := &cobra.Command{
		Use:   "prices [FILE]",
		Short: "Show the price book, merging FILE into it first when given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pb, err := a.loadPrices()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				merged, err := project.ImportPriceBook(args[0], *pb)
				if err != nil {
					return fmt.Errorf("import prices: %w", err)
				}
				if err := project.SavePriceBook(a.pricesPath, merged); err != nil {
					return fmt.Errorf("save prices: %w", err)
				}
				*pb = merged
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MATERIAL\tPRICE / M2")
			for _, m := range pb.Materials {
				fmt.Fprintf(tw, "%s\t%.2f\n", m.Name, m.UnitPrice)
			}
			fmt.Fprintf(tw, "(default)\t%.2f\n\n", a.cfg.DefaultMaterialPrice)
			fmt.Fprintln(tw, "EQUIPMENT\tRATE / H")
			for _, e := range pb.Equipment {
				fmt.Fprintf(tw, "%s\t%.2f\n", e.Name, e.HourlyRate)
			}
			fmt.Fprintf(tw, "(default)\t%.2f\n", a.cfg.DefaultEquipmentRate)
			return tw.Flush()
		},
	}

	cmd.AddCommand(initCmd, showCmd, checkCmd, pricesCmd)
	return cmd
}

func buildBackupCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up or restore the config, catalog, price book and products",
	}

	createCmd := &cobra.Command{
		Use:   "create FILE",
		Short: "Write everything to a single JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}
			pb, err := a.loadPrices()
			if err != nil {
				return err
			}
			products, err := project.ListProducts(a.productsDir)
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}
			if err := project.ExportAllData(args[0], a.cfg, *catalog, *pb, products); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backed up %d products to %s\n", len(products), args[0])
			return nil
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Restore everything from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(a.configPath, backup.Config); err != nil {
				return fmt.Errorf("restore config: %w", err)
			}
			if err := project.SaveCatalog(a.catalogPath, backup.Catalog); err != nil {
				return fmt.Errorf("restore catalog: %w", err)
			}
			if err := project.SavePriceBook(a.pricesPath, backup.PriceBook); err != nil {
				return fmt.Errorf("restore prices: %w", err)
			}
			for _, p := range backup.Products {
				if err := project.SaveProduct(project.ProductPath(a.productsDir, p), p); err != nil {
					return fmt.Errorf("restore product %s: %w", p.Name, err)
				}
			}
			a.log.Info("backup restored", zap.String("path", args[0]), zap.Int("products", len(backup.Products)))
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d products from %s (version %s)\n",
				len(backup.Products), args[0], backup.Version)
			return nil
		},
	}

	cmd.AddCommand(createCmd, restoreCmd)
	return cmd
}
