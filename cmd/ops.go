package cmd

import (
	"fmt"
	"strings"

	"github.com/gnolang/fol/formatter"
	"github.com/gnolang/fol/formula"
	"github.com/gnolang/fol/internal"
	tt "github.com/gnolang/fol/internal/types"
	"github.com/spf13/cobra"
)

// operationCmds returns one command per formula operation. Each takes the
// formula as its arguments, joined with spaces.
func operationCmds() []*cobra.Command {
	return []*cobra.Command{
		parseCmd,
		printCmd,
		namesCmd,
		freeCmd,
		containsFreeCmd,
		newTransformCmd("negate", "negate", "Print the negation of a formula"),
		newTransformCmd("collapse", "collapse-negations", "Collapse chains of negations"),
		newTransformCmd("remove-implications", "remove-implications", "Rewrite implications as disjunctions"),
		newTransformCmd("rename", "rename", "Rename quantified variables so each name is bound once"),
		newTransformCmd("prenex", "move-quantifiers-left", "Move quantifiers to the front where it is safe"),
	}
}

var parseCmd = &cobra.Command{
	Use:   "parse <formula>",
	Short: "Print the syntax tree of a formula",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseFormula(cmd, formulaArg(args))
		if err != nil {
			return err
		}
		writeTree(cmd.OutOrStdout(), n, 0)
		return nil
	},
}

var printCmd = &cobra.Command{
	Use:   "print <formula>",
	Short: "Print a formula in canonical notation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseFormula(cmd, formulaArg(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formula.Stringify(n))
		return nil
	},
}

var namesCmd = &cobra.Command{
	Use:   "names <formula>",
	Short: "List the variable, constant and function names of a formula",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := formulaArg(args)
		n, err := parseFormula(cmd, input)
		if err != nil {
			return err
		}
		names, err := formula.CollectNames(n)
		if err != nil {
			return report(cmd, err, input)
		}
		for _, name := range formula.SortedNames(names) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, names[name])
		}
		return nil
	},
}

var freeCmd = &cobra.Command{
	Use:   "free <formula>",
	Short: "List the free and bound variables of a formula",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseFormula(cmd, formulaArg(args))
		if err != nil {
			return err
		}
		marked := formula.MarkFree(n)
		free, bound := collectMarks(marked)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, formula.Stringify(marked))
		fmt.Fprintln(out, strings.TrimSpace("free: "+strings.Join(free, ", ")))
		fmt.Fprintln(out, strings.TrimSpace("bound: "+strings.Join(bound, ", ")))
		return nil
	},
}

var containsFreeCmd = &cobra.Command{
	Use:   "contains-free <formula> <name>",
	Short: "Report whether a name occurs free in a formula",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseFormula(cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formula.ContainsFree(n, args[1]))
		return nil
	},
}

func newTransformCmd(use, transform, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <formula>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := internal.LookupTransform(transform)
			if err != nil {
				return err
			}

			input := formulaArg(args)
			n, err := parseFormula(cmd, input)
			if err != nil {
				return err
			}
			out, err := t.Apply(n)
			if err != nil {
				return report(cmd, err, input)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formula.Stringify(out))
			return nil
		},
	}
}

func formulaArg(args []string) string {
	return strings.Join(args, " ")
}

func parseFormula(cmd *cobra.Command, input string) (formula.Node, error) {
	n, err := formula.NewParser().WithMaxDepth(maxDepth).Parse(input)
	if err != nil {
		return nil, report(cmd, err, input)
	}
	return n, nil
}

// report prints err against input on the command's error stream.
func report(cmd *cobra.Command, err error, input string) error {
	issue := internal.IssueFromError(err, input, 1)
	output := formatter.GenerateFormattedIssue([]tt.Issue{issue}, internal.NewSourceCode(input))
	fmt.Fprint(cmd.ErrOrStderr(), output)
	return &reportedError{err: err}
}
