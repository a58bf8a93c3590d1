// filmorate-lint checks the locking and error-wrapping conventions of filmorate.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/filmorate/tools/filmorate-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
