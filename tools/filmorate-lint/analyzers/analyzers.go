// Package analyzers provides all custom static analyzers for filmorate.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/filmorate/tools/filmorate-lint/analyzers/errorfwrap"
	"github.com/ersonp/filmorate/tools/filmorate-lint/analyzers/lockdefer"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		lockdefer.Analyzer,
		errorfwrap.Analyzer,
	}
}
