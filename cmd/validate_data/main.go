// Command validate_data checks every dataset under the current directory and
// exits non-zero when any record is incomplete.
package main

import (
	"os"

	"github.com/oakwood-commons/refx/pkg/validate"
)

func main() {
	os.Exit(validate.Run(".", validate.Options{}, os.Stdout, os.Stderr))
}
