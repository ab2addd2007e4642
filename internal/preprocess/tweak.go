package preprocess

import (
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

// Splits "var a = 1, b = 2" at the top level into one statement per
// declarator so each binding gets its own statement info and can be
// tree-shaken on its own. "export" forms are split the same way.
func splitDeclarators(tree *js_ast.AST) {
	count := 0
	for _, stmt := range tree.Stmts {
		if local, ok := stmt.Data.(*js_ast.SLocal); ok && len(local.Decls) > 1 {
			count += len(local.Decls) - 1
		}
	}
	if count == 0 {
		return
	}

	stmts := make([]js_ast.Stmt, 0, len(tree.Stmts)+count)
	for _, stmt := range tree.Stmts {
		local, ok := stmt.Data.(*js_ast.SLocal)
		if !ok || len(local.Decls) < 2 {
			stmts = append(stmts, stmt)
			continue
		}
		for i, decl := range local.Decls {
			r := declRange(decl)
			if i == 0 && !r.IsEmpty() {
				// The first one keeps the "var" or "export" keyword
				r = logger.RangeBetween(stmt.Range.Loc, r.End())
			}
			stmts = append(stmts, js_ast.Stmt{
				Range: r,
				Data: &js_ast.SLocal{
					Decls:    []js_ast.Decl{decl},
					Kind:     local.Kind,
					IsExport: local.IsExport,
				},
			})
		}
	}
	tree.Stmts = stmts
}

// The range from the binding to the end of the initializer
func declRange(decl js_ast.Decl) logger.Range {
	r := decl.Binding.Range
	if r.IsEmpty() {
		return r
	}
	if decl.ValueOrNil.Data != nil && !decl.ValueOrNil.Range.IsEmpty() && decl.ValueOrNil.Range.End() > r.End() {
		return logger.RangeBetween(r.Loc, decl.ValueOrNil.Range.End())
	}
	return r
}
