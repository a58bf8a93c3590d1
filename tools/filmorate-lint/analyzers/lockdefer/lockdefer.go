// Package lockdefer requires every sync mutex acquisition to be released by
// a defer on the very next statement.
package lockdefer

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer reports Lock and RLock calls not followed by the matching deferred unlock.
var Analyzer = &analysis.Analyzer{
	Name:     "lockdefer",
	Doc:      "reports sync mutex locks that are not released by an immediate defer",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var unlockFor = map[string]string{
	"Lock":  "Unlock",
	"RLock": "RUnlock",
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.BlockStmt)(nil),
		(*ast.CaseClause)(nil),
		(*ast.CommClause)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var stmts []ast.Stmt
		switch n := n.(type) {
		case *ast.BlockStmt:
			stmts = n.List
		case *ast.CaseClause:
			stmts = n.Body
		case *ast.CommClause:
			stmts = n.Body
		}

		for i, stmt := range stmts {
			recv, method, ok := syncLock(pass, stmt)
			if !ok {
				continue
			}
			want := unlockFor[method]

			if i+1 < len(stmts) && defersUnlock(stmts[i+1], recv, want) {
				continue
			}
			pass.Reportf(stmt.Pos(), "%s.%s() is not followed by defer %s.%s()", recv, method, recv, want)
		}
	})

	return nil, nil
}

// syncLock reports whether stmt is a bare call to a sync Lock or RLock method.
func syncLock(pass *analysis.Pass, stmt ast.Stmt) (recv, method string, ok bool) {
	expr, isExpr := stmt.(*ast.ExprStmt)
	if !isExpr {
		return "", "", false
	}
	call, isCall := expr.X.(*ast.CallExpr)
	if !isCall {
		return "", "", false
	}
	sel, isSel := call.Fun.(*ast.SelectorExpr)
	if !isSel {
		return "", "", false
	}
	if _, known := unlockFor[sel.Sel.Name]; !known {
		return "", "", false
	}

	fn, isFunc := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
	if !isFunc || fn.Pkg() == nil || fn.Pkg().Path() != "sync" {
		return "", "", false
	}

	recv = exprString(sel.X)
	if recv == "" {
		return "", "", false
	}
	return recv, sel.Sel.Name, true
}

func defersUnlock(stmt ast.Stmt, recv, unlock string) bool {
	d, ok := stmt.(*ast.DeferStmt)
	if !ok {
		return false
	}
	sel, ok := d.Call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	return sel.Sel.Name == unlock && exprString(sel.X) == recv
}

func exprString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		x := exprString(e.X)
		if x == "" {
			return ""
		}
		return x + "." + e.Sel.Name
	case *ast.StarExpr:
		return exprString(e.X)
	case *ast.ParenExpr:
		return exprString(e.X)
	default:
		return ""
	}
}
