// Package cli implements the toolctl commands for working with import files
// offline.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/aitools/internal/core"
)

// ErrRowsFailed is returned by validate --strict when any row is invalid.
var ErrRowsFailed = errors.New("one or more rows failed validation")

// RootCmd builds the toolctl command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "toolctl",
		Short: "Work with AI tool directory import files",
		Long: `toolctl checks bulk import files before they are uploaded, prints
import templates and lists the directory categories.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(ValidateCmd())
	root.AddCommand(TemplateCmd())
	root.AddCommand(CategoriesCmd())
	return root
}

// ValidateCmd returns the validate command.
func ValidateCmd() *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Dry-run an import file and report row errors",
		Long: `Parse an import file exactly as the server would, without importing it.

The format is taken from --format, or from the file extension. Use "-" to
read from stdin. Exits non-zero when the file is structurally invalid, or
with --strict when any row fails.

Examples:
  toolctl validate tools.csv
  toolctl validate --format json --strict export.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], format, strict)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "import format: csv or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any row is invalid")
	return cmd
}

func runValidate(stdin io.Reader, out io.Writer, path, format string, strict bool) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	f, err := core.ParseFormat(format)
	if err != nil {
		return err
	}

	result, candidates, err := core.ParseImport(core.CleanPayload(data), f)
	if err != nil {
		fmt.Fprintf(out, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("INVALID"), err)
		return err
	}

	displayResult(out, path, result, candidates)

	if strict && result.Failed > 0 {
		return ErrRowsFailed
	}
	return nil
}

func displayResult(out io.Writer, path string, result core.ImportResult, candidates []core.Candidate) {
	fmt.Fprintf(out, "Import check: %s (%s)\n\n", path, result.Format)

	fmt.Fprintf(out, "  Rows:    %d\n", result.Total)
	fmt.Fprintf(out, "  Valid:   %s\n", color.New(color.FgGreen).Sprint(result.Success))
	failed := fmt.Sprint(result.Failed)
	if result.Failed > 0 {
		failed = color.New(color.FgRed).Sprint(result.Failed)
	}
	fmt.Fprintf(out, "  Failed:  %s\n", failed)

	unknown := 0
	for _, c := range candidates {
		if _, ok := core.LookupCategory(c.Category); !ok {
			unknown++
		}
	}
	if unknown > 0 {
		fmt.Fprintf(out, "  %s %d row(s) use a category outside the directory list\n",
			color.New(color.FgYellow).Sprint("!"), unknown)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Errors:")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  %s %s\n", color.New(color.FgRed).Sprint("✗"), e)
		}
	}
}

// Report writes err to w. Errors with a known mapping get a second line
// with the support code and suggested action.
func Report(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
	if core.IsUserFacing(err) {
		fmt.Fprintf(w, "  %s\n", core.FormatUserError(err))
	}
}

// TemplateCmd returns the template command.
func TemplateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print an example import file",
		Long: `Print the import template for a format. The output imports cleanly.

Examples:
  toolctl template > tools.csv
  toolctl template --format json > tools.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := core.ParseFormat(format)
			if err != nil {
				return err
			}
			body, err := core.ImportTemplate(f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "import format: csv or json")
	return cmd
}

// CategoriesCmd returns the categories command.
func CategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the directory categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tLABEL")
			for _, c := range core.Categories {
				fmt.Fprintf(w, "%s\t%s\n", c.Slug, c.Label)
			}
			return w.Flush()
		},
	}
}
