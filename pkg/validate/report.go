package validate

import (
	"fmt"
	"io"
	"os"
)

// Print writes the human-readable run log. Progress and the success line go
// to stdout; issues and the failure line go to stderr.
func (r Report) Print(stdout, stderr io.Writer) {
	fmt.Fprintln(stdout, "Starting data validation...")
	if len(r.Files) == 0 {
		fmt.Fprintln(stdout, "No dataset files found.")
	}
	for _, f := range r.Files {
		fmt.Fprintf(stdout, "Validating %s...\n", f.Path)
		for _, issue := range f.Issues {
			fmt.Fprintf(stderr, "❌ %s\n", issue)
		}
	}
	if r.Failed() {
		fmt.Fprintln(stderr, "\n❌ Validation Failed.")
		return
	}
	fmt.Fprintln(stdout, "\n✅ All data files are valid.")
}

// Run validates the directory root, prints the log to the given writers and
// returns the process exit code: 0 when valid, 1 otherwise.
func Run(root string, opts Options, stdout, stderr io.Writer) int {
	if root == "" {
		root = "."
	}
	st, err := os.Stat(root)
	if err != nil || !st.IsDir() {
		fmt.Fprintf(stderr, "❌ %s is not a directory\n", root)
		return 1
	}
	report, err := Validate(os.DirFS(root), root, opts)
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return 1
	}
	report.Print(stdout, stderr)
	if report.Failed() {
		return 1
	}
	return 0
}
