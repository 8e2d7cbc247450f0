package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/refx/internal/cel"
	"github.com/oakwood-commons/refx/internal/formatter"
	"github.com/oakwood-commons/refx/internal/limiter"
	"github.com/oakwood-commons/refx/internal/ui"
	"github.com/oakwood-commons/refx/pkg/loader"
	"github.com/oakwood-commons/refx/pkg/logger"
	"github.com/oakwood-commons/refx/pkg/reference"
	"github.com/oakwood-commons/refx/pkg/settings"
)

// ErrReported is returned when a command already printed its failure and
// main should only set the exit code.
var ErrReported = errors.New("failure already reported")

var (
	dataRoot    string
	baseURL     string
	searchTerm  string
	category    string
	where       string
	output      = formatter.FormatTable
	interactive bool
	expand      bool
	themeName   string
	configFile  string
	noColor     bool
	width       int
	watch       bool
	debug       bool
	limits      limiter.Config

	rootCtx = context.Background()
)

var rootCmd = &cobra.Command{
	Use:   "refx [language]",
	Short: "refx - terminal reference helper for language commands, elements and properties",
	Long: `refx browses reference datasets stored as
<language>-reference-helper/<language>-commands.json.

Without -i the matching records are printed once in the --output format.
With -i an interactive table opens with live search, category and language
selectors, and expandable tips.`,
	Example:       "  refx shell --search grep\n  refx css -c Beginner -o list\n  refx html -o html > html.html\n  refx -i --watch\n  refx python -w 'r.category == \"Advanced\" && name.startsWith(\"a\")'\n",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// debug => zap.DebugLevel (-1), else zap.InfoLevel (0)
		var level int8
		if debug {
			level = -1
		}
		opts := logger.Options{Level: level, Output: cmd.ErrOrStderr()}
		if interactive && !debug {
			// the TUI owns the terminal
			opts.Output = io.Discard
		}
		lgr := logger.Setup(opts)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = logger.WithLogger(context.Background(), lgr)
	},
	RunE: runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	if err := limits.Validate(); err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	lang, langs, err := s.resolveLanguage(rootCtx, args)
	if err != nil {
		return err
	}
	th, err := s.theme(themeName)
	if err != nil {
		return err
	}
	pred, err := compileWhere(where)
	if err != nil {
		return err
	}

	lgr := logger.FromContext(rootCtx)
	lgr.V(1).Info("resolved run", logger.LanguageKey, lang, logger.SourceKey, s.src.String(), "interactive", interactive)

	if interactive {
		opts, err := s.uiOptions(lang, langs, pred, th.Name)
		if err != nil {
			return err
		}
		progOpts, cleanup := getProgramOptions()
		defer cleanup()
		return ui.Run(rootCtx, opts, progOpts...)
	}

	recs, err := s.load(rootCtx, lang)
	if err != nil {
		return err
	}
	recs = reference.Filter(recs, searchTerm, category)
	if pred != nil {
		if recs, err = pred.Filter(recs); err != nil {
			return fmt.Errorf("evaluate --where: %w", err)
		}
	}
	recs = limiter.Apply(limits, recs)
	formatter.SetTableTheme(th.TableColors())
	return formatter.Write(cmd.OutOrStdout(), recs, formatter.Options{
		Format:         output,
		Search:         searchTerm,
		Width:          width,
		NoColor:        s.run.NoColor,
		Expand:         expand,
		MaxColumnWidth: s.cfg.UI.MaxColumnWidth,
		Title:          lang,
		CategoryOrder:  s.cfg.Data.Categories,
	})
}

func compileWhere(expr string) (*cel.Predicate, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	pred, err := cel.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid --where expression: %w", err)
	}
	return pred, nil
}

// uiOptions maps the resolved session onto the interactive browser.
func (s *session) uiOptions(lang string, langs []string, pred *cel.Predicate, theme string) (ui.Options, error) {
	opts := ui.Options{
		AppName:       s.cfg.App.Name,
		Source:        s.src,
		Languages:     langs,
		Language:      lang,
		Search:        searchTerm,
		Category:      category,
		CategoryOrder: s.cfg.Data.Categories,
		Where:         pred,
		Themes:        s.cfg.Themes,
		Theme:         theme,
		NoColor:       s.run.NoColor,
		Debounce:      s.cfg.UI.SearchDebounce(),
	}
	if s.run.Watch {
		if s.run.RemoteData() {
			return opts, errors.New("--watch needs a local data directory, not --url")
		}
		root := s.run.DataRoot
		opts.WatchFile = func(language string) string {
			return filepath.Join(root, filepath.FromSlash(loader.DatasetPath(language)))
		}
	}
	return opts, nil
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&dataRoot, "data", "d", ".", "directory holding <language>-reference-helper datasets (default from config)")
	pf.StringVar(&baseURL, "url", "", "fetch datasets from this base URL instead of --data")
	pf.StringVar(&configFile, "config-file", "", "path to a YAML config file (themes, settings)")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.BoolVar(&debug, "debug", false, "enable debug logging on stderr")

	f := rootCmd.Flags()
	f.StringVarP(&searchTerm, "search", "s", "", "case-insensitive search over name, purpose, example and tips")
	f.StringVarP(&category, "category", "c", "", "only show records in this category")
	f.StringVarP(&where, "where", "w", "", "CEL filter over r (record map) and name, e.g. 'r.category == \"Beginner\"'")
	f.VarP(&output, "output", "o", "output format: table|list|json|yaml|toml|csv|tree|html")
	f.BoolVarP(&interactive, "interactive", "i", false, "start the interactive table")
	f.BoolVar(&expand, "expand", false, "print tips beneath each table row")
	f.StringVar(&themeName, "theme", "", "theme name (default from config; see 'refx config')")
	f.IntVar(&width, "width", 0, "output width in columns (default: terminal width)")
	f.BoolVar(&watch, "watch", false, "reload the active dataset when it changes on disk (with -i)")
	f.IntVar(&limits.Limit, "limit", 0, "print at most N records")
	f.IntVar(&limits.Offset, "offset", 0, "skip the first N records")
	f.IntVar(&limits.Tail, "tail", 0, "print the last N records (mutually exclusive with --limit; ignores --offset)")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(validateCmd, languagesCmd, categoriesCmd, configCmd, versionCmd)
}

// PrintError writes err for the user unless the command already reported it.
func PrintError(w io.Writer, err error) {
	if err == nil || errors.Is(err, ErrReported) {
		return
	}
	fmt.Fprintln(w, err)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
