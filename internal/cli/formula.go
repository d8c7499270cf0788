package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabCost/internal/formula"
	"github.com/piwi3910/SlabCost/internal/model"
)

var errEvaluation = errors.New("evaluation failed")

// parseBindings parses name=value arguments.
func parseBindings(args []string) (map[string]float64, error) {
	env := make(map[string]float64, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || !formula.IsIdentifier(name) {
			return nil, fmt.Errorf("binding %q: expected name=value", arg)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", arg, err)
		}
		env[name] = v
	}
	return env, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func buildEvalCommand(a *app) *cobra.Command {
	var useDefaults, explain bool

	cmd := &cobra.Command{
		Use:   "eval FORMULA [name=value ...]",
		Short: "Evaluate a formula",
		Long: `Evaluate a formula with the given bindings. A formula that cannot be
evaluated prints 0 and exits with an error naming the problem. Division by
zero yields 0 and is not an error.`,
		Example: `  slabcost eval "5 + area / 100000 * complexity" area=720000 complexity=1.3
  slabcost eval --defaults --explain "length * width" length=1200`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := map[string]float64{}
			if useDefaults {
				catalog, err := a.loadCatalog()
				if err != nil {
					return err
				}
				for name, v := range catalog.Variables.Defaults() {
					env[name] = v
				}
			}
			bindings, err := parseBindings(args[1:])
			if err != nil {
				return err
			}
			for name, v := range bindings {
				env[name] = v
			}

			out := cmd.OutOrStdout()
			if explain {
				fmt.Fprintln(out, formula.Format(args[0], env))
			}
			r := a.evaluator().EvaluateResult(args[0], env)
			fmt.Fprintln(out, formatValue(r.Value))
			if !r.OK {
				return fmt.Errorf("%w: %s", errEvaluation, r.Diagnostic)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "bind catalog default values before the arguments")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the formula with bound values")
	return cmd
}

func buildValidateCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate FORMULA",
		Short: "Check a formula's grammar and variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := formula.Check(args[0]); err != nil {
				return err
			}
			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			vars := formula.Variables(args[0])
			fmt.Fprintln(out, "valid")
			if len(vars) > 0 {
				fmt.Fprintf(out, "variables: %s\n", strings.Join(vars, ", "))
			}
			if unknown := catalog.Variables.Unknown(vars); len(unknown) > 0 {
				if strict {
					return fmt.Errorf("%w: %s", model.ErrUnknownVariable, strings.Join(unknown, ", "))
				}
				fmt.Fprintf(out, "not in catalog: %s\n", strings.Join(unknown, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on variables missing from the catalog")
	return cmd
}

func buildVarsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vars",
		Short: "List the variables formulas can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tUNIT\tDEFAULT\tRANGE\tDESCRIPTION")
			for _, v := range catalog.Variables {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					v.Name, v.Kind, v.Unit, optional(v.DefaultValue), valueRange(v), v.Description)
			}
			return tw.Flush()
		},
	}
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatValue(*v)
}

func valueRange(v model.Variable) string {
	if v.MinValue == nil && v.MaxValue == nil {
		return "-"
	}
	lo, hi := "", ""
	if v.MinValue != nil {
		lo = formatValue(*v.MinValue)
	}
	if v.MaxValue != nil {
		hi = formatValue(*v.MaxValue)
	}
	return "[" + lo + ", " + hi + "]"
}
