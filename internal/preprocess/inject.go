package preprocess

import (
	"strings"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_semantic"
)

// Binds configured globals to imports. Every unresolved use of the global is
// rewritten to the import's local alias and the import is prepended to the
// module. Globals the module never uses are skipped. Returns true if any
// import was added.
func injectGlobals(tree *js_ast.AST, semantic *js_semantic.Semantic, injects []config.InjectImport) bool {
	var imports []js_ast.Stmt

	for _, inject := range injects {
		parts := strings.Split(inject.Name, ".")

		// A single identifier can be checked without walking the tree
		if len(parts) == 1 && !semantic.HasUnresolvedReference(inject.Name) {
			continue
		}

		alias := inject.Alias()
		if !rewriteGlobalUses(tree, semantic, parts, alias) {
			continue
		}
		imports = append(imports, injectImportStmt(inject, alias))
	}

	if len(imports) == 0 {
		return false
	}
	tree.Stmts = append(imports, tree.Stmts...)
	return true
}

func rewriteGlobalUses(tree *js_ast.AST, semantic *js_semantic.Semantic, parts []string, alias string) bool {
	found := false
	v := js_ast.Visitor{
		EnterExpr: func(expr *js_ast.Expr) bool {
			switch expr.Data.(type) {
			case *js_ast.EIdentifier, *js_ast.EDot:
				root, _, props, ok := js_ast.MemberChain(*expr)
				if !ok || len(props)+1 != len(parts) || root.Name != parts[0] || !semantic.IsGlobalReference(root) {
					return true
				}
				for i, prop := range props {
					if prop != parts[i+1] {
						return true
					}
				}
				expr.Data = &js_ast.EIdentifier{Name: alias, ReferenceID: js_ast.InvalidReferenceID}
				found = true
				return false
			}
			return true
		},
	}
	v.VisitStmts(tree.Stmts)
	return found
}

// The source of an injected import has no span in the module
func injectImportStmt(inject config.InjectImport, alias string) js_ast.Stmt {
	name := &js_ast.LocRef{Name: alias, Ref: js_ast.InvalidRef}
	s := &js_ast.SImport{Path: inject.Path}

	switch inject.ImportedName {
	case "default":
		s.DefaultName = name
	case "*":
		s.StarNameOrNil = name
	default:
		s.Items = &[]js_ast.ClauseItem{{Alias: inject.ImportedName, Name: *name}}
	}
	return js_ast.Stmt{Data: s}
}
