package preprocess

import (
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

// Later passes use a node's range as its identity, so no two statements,
// expressions or bindings may share one. The walk is post-order: a child
// keeps its range and a parent with the same range gets a new one. New
// ranges are empty and start past the end of the source, so they never
// overlap real code and are never equal to each other.
func ensureSpanUniqueness(source *logger.Source, tree *js_ast.AST) {
	// Ranges handed out by an earlier run are past the end too, so new ones
	// start after the last range already in the tree
	next := int32(len(source.Contents)) + 1
	find := js_ast.Visitor{
		Stmt:    func(stmt *js_ast.Stmt) { next = maxStart(next, stmt.Range) },
		Expr:    func(expr *js_ast.Expr) { next = maxStart(next, expr.Range) },
		Binding: func(binding *js_ast.Binding) { next = maxStart(next, binding.Range) },
	}
	find.VisitStmts(tree.Stmts)

	seen := make(map[logger.Range]bool)
	end := int32(len(source.Contents))

	claim := func(r *logger.Range) {
		// An empty range inside the source is synthesized and could be
		// mistaken for a real position
		synthesized := r.IsEmpty() && r.Loc.Start <= end
		if !synthesized && !seen[*r] {
			seen[*r] = true
			return
		}
		*r = logger.Range{Loc: logger.Loc{Start: next}}
		next++
		seen[*r] = true
	}

	v := js_ast.Visitor{
		Stmt:    func(stmt *js_ast.Stmt) { claim(&stmt.Range) },
		Expr:    func(expr *js_ast.Expr) { claim(&expr.Range) },
		Binding: func(binding *js_ast.Binding) { claim(&binding.Range) },
	}
	tree.Stmts = v.VisitStmts(tree.Stmts)
}

func maxStart(next int32, r logger.Range) int32 {
	if r.Loc.Start >= next {
		return r.Loc.Start + 1
	}
	return next
}
