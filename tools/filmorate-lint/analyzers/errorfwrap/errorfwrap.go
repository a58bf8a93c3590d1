// Package errorfwrap reports fmt.Errorf calls that format an error operand
// without %w, which breaks errors.Is and errors.As on the result.
package errorfwrap

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer reports fmt.Errorf calls that drop the error chain.
var Analyzer = &analysis.Analyzer{
	Name:     "errorfwrap",
	Doc:      "reports fmt.Errorf calls that format an error without %w",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var errorType = types.Universe.Lookup("error").Type().Underlying().(*types.Interface)

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if !isErrorf(pass, call) || len(call.Args) < 2 {
			return
		}

		format, ok := stringLiteral(call.Args[0])
		if !ok || strings.Contains(format, "%w") {
			return
		}

		for _, arg := range call.Args[1:] {
			t := pass.TypesInfo.TypeOf(arg)
			if t == nil {
				continue
			}
			if types.Implements(t, errorType) {
				pass.Reportf(arg.Pos(), "error formatted without %%w; use %%w to keep it in the chain")
				return
			}
		}
	})

	return nil, nil
}

func isErrorf(pass *analysis.Pass, call *ast.CallExpr) bool {
	fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}
	return fn.Pkg().Path() == "fmt" && fn.Name() == "Errorf"
}

func stringLiteral(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}
