package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/refx/internal/config"
	"github.com/oakwood-commons/refx/internal/ui"
	"github.com/oakwood-commons/refx/pkg/loader"
	"github.com/oakwood-commons/refx/pkg/logger"
	"github.com/oakwood-commons/refx/pkg/reference"
	"github.com/oakwood-commons/refx/pkg/settings"
)

// session is the merged configuration and data source for one invocation.
type session struct {
	cfg config.Config
	run *settings.Run
	src loader.Source
}

// loadSettings merges defaults, the config file, the environment and the
// flags that were set explicitly, in increasing precedence.
func loadSettings(cmd *cobra.Command) (config.Config, *settings.Run, error) {
	cfg, err := config.Load(config.ResolvePath(configFile))
	if err != nil {
		return cfg, nil, err
	}
	run := settings.NewCliParams()
	if cfg.Data.Root != "" {
		run.DataRoot = cfg.Data.Root
	}
	run.BaseURL = strings.TrimSpace(cfg.Data.URL)
	run.Language = strings.TrimSpace(cfg.Data.Language)
	run.NoColor = cfg.UI.NoColor || noColor
	run.Interactive = interactive
	run.Watch = watch
	if debug {
		run.MinLogLevel = -1
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		run.DataRoot = dataRoot
		run.BaseURL = ""
	}
	if flags.Changed("url") {
		run.BaseURL = strings.TrimSpace(baseURL)
	}
	rootCtx = settings.IntoContext(rootCtx, run)
	return cfg, run, nil
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, run, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	src, err := newSource(run)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, run: run, src: src}, nil
}

// newSource picks the HTTP source when a base URL is set, else the data
// directory.
func newSource(run *settings.Run) (loader.Source, error) {
	if run.RemoteData() {
		src, err := loader.NewHTTPSource(run.BaseURL, nil)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	st, err := os.Stat(run.DataRoot)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", run.DataRoot)
	}
	return loader.NewDirSource(run.DataRoot), nil
}

// languages discovers datasets when the source can list them. Remote
// sources fall back to the configured list.
func (s *session) languages(ctx context.Context) ([]string, error) {
	if l, ok := s.src.(loader.Lister); ok {
		return l.Languages(ctx)
	}
	return slices.Clone(s.cfg.Data.Languages), nil
}

// resolveLanguage picks the positional argument, else the configured
// language, else the first discovered one.
func (s *session) resolveLanguage(ctx context.Context, args []string) (string, []string, error) {
	langs, err := s.languages(ctx)
	if err != nil {
		return "", nil, err
	}
	var lang string
	switch {
	case len(args) > 0 && strings.TrimSpace(args[0]) != "":
		lang = strings.TrimSpace(args[0])
	case s.run.Language != "":
		lang = s.run.Language
	case len(langs) > 0:
		lang = langs[0]
	}
	if lang == "" {
		return "", langs, fmt.Errorf("no datasets found in %s", s.src)
	}
	s.run.Language = lang
	return lang, langs, nil
}

// theme resolves the --theme flag, else the configured default.
func (s *session) theme(name string) (ui.Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.cfg.UI.Theme
	}
	return ui.NewThemeSet(s.cfg.Themes).Get(name)
}

// load fetches one dataset. Load failures surface as the single
// user-facing status message; the detailed cause goes to the debug log.
func (s *session) load(ctx context.Context, lang string) ([]reference.Record, error) {
	recs, err := loader.Load(ctx, s.src, lang)
	if err == nil {
		return recs, nil
	}
	logger.FromContext(ctx).V(1).Info("load failed", logger.LanguageKey, lang, "error", err.Error())
	var le *loader.LoadError
	if errors.As(err, &le) {
		return nil, errors.New(le.StatusMessage())
	}
	return nil, err
}
