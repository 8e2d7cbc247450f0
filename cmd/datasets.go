package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/refx/pkg/reference"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the available datasets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		langs, err := s.languages(rootCtx)
		if err != nil {
			return err
		}
		if len(langs) == 0 {
			return fmt.Errorf("no datasets found in %s", s.src)
		}
		for _, l := range langs {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories [language]",
	Short: "List the categories of a dataset with their record counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		lang, _, err := s.resolveLanguage(rootCtx, args)
		if err != nil {
			return err
		}
		recs, err := s.load(rootCtx, lang)
		if err != nil {
			return err
		}
		counts := make(map[string]int)
		for _, r := range recs {
			counts[r.Category]++
		}
		cats := reference.Categories(recs, s.cfg.Data.Categories)
		wide := 0
		for _, c := range cats {
			wide = max(wide, len(c))
		}
		for _, c := range cats {
			fmt.Fprintf(cmd.OutOrStdout(), "%-*s  %d\n", wide, c, counts[c])
		}
		return nil
	},
}
