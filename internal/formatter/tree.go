package formatter

import (
	"slices"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/refx/pkg/reference"
)

// Uncategorized labels the branch for records without a category.
const Uncategorized = "(uncategorized)"

// RenderTree renders categories as branches and record names as leaves.
// Branch order follows opts.CategoryOrder, then the remaining categories
// alphabetically; uncategorized records come last. Leaves keep dataset
// order.
func RenderTree(records []reference.Record, opts Options) string {
	title := opts.Title
	if title == "" {
		title = "."
	}
	tree := treeprint.NewWithRoot(title)
	if len(records) == 0 {
		tree.AddNode(NoResults)
		return tree.String()
	}

	byCategory := make(map[string][]string)
	for _, r := range records {
		cat := r.Category
		if cat == "" {
			cat = Uncategorized
		}
		byCategory[cat] = append(byCategory[cat], r.Name())
	}

	branches := reference.Categories(records, opts.CategoryOrder)
	if _, ok := byCategory[Uncategorized]; ok && !slices.Contains(branches, Uncategorized) {
		branches = append(branches, Uncategorized)
	}
	for _, cat := range branches {
		br := tree.AddBranch(cat)
		for _, name := range byCategory[cat] {
			br.AddNode(name)
		}
	}
	return tree.String()
}
