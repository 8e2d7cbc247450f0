package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/refx/pkg/logger"
	"github.com/oakwood-commons/refx/pkg/validate"
)

// reportFormat is the -o value of `refx validate`.
type reportFormat string

const (
	reportText reportFormat = "text"
	reportJSON reportFormat = "json"
	reportYAML reportFormat = "yaml"
)

var reportFormats = []reportFormat{reportText, reportJSON, reportYAML}

func (f *reportFormat) String() string {
	if *f == "" {
		return string(reportText)
	}
	return string(*f)
}

func (f *reportFormat) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, rf := range reportFormats {
		if string(rf) == s {
			*f = rf
			return nil
		}
	}
	return fmt.Errorf("invalid output %q: valid values are text, json, yaml", s)
}

func (f *reportFormat) Type() string {
	return "format"
}

var (
	validateStrict bool
	validateOutput = reportText
)

var validateCmd = &cobra.Command{
	Use:   "validate [root]",
	Short: "Check every dataset under a directory for missing fields",
	Long: `Validate walks every *-reference-helper directory under root (default: the
data directory) and checks each *-commands.json file. Every record needs an
identity field (element, command or property) plus category, example,
purpose, docs and tips. --strict also rejects multiple identity fields,
non-http(s) docs links and duplicate names.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, run, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		root := run.DataRoot
		if len(args) > 0 {
			root = args[0]
		}
		st, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		if !st.IsDir() {
			return fmt.Errorf("validate: %s is not a directory", root)
		}

		report, err := validate.Validate(os.DirFS(root), root, validate.Options{Strict: validateStrict})
		if err != nil {
			return err
		}
		logger.FromContext(rootCtx).V(1).Info("validated", "root", root, "files", len(report.Files), "issues", len(report.Issues()))

		out := cmd.OutOrStdout()
		switch validateOutput {
		case reportJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		case reportYAML:
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}
		default:
			report.Print(out, cmd.ErrOrStderr())
		}
		if report.Failed() {
			return ErrReported
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "enable the extra consistency checks")
	validateCmd.Flags().VarP(&validateOutput, "output", "o", "report format: text|json|yaml")
}
