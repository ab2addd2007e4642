package preprocess

import (
	"fmt"
	"strings"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_semantic"
	"github.com/yuusheng/rolldown/internal/logger"
)

// Replaces unresolved identifiers and property chains such as
// "process.env.NODE_ENV" with their configured values. Chains are matched
// from the outside in, so the longest defined chain wins. Returns true if
// anything was replaced.
func replaceDefines(source *logger.Source, tree *js_ast.AST, semantic *js_semantic.Semantic, defines *config.ProcessedDefines, log logger.Log) bool {
	changed := false

	var v js_ast.Visitor
	v.EnterExpr = func(expr *js_ast.Expr) bool {
		switch e := expr.Data.(type) {
		case *js_ast.EIdentifier, *js_ast.EDot:
			if value, ok := findDefine(expr, semantic, defines); ok {
				expr.Data = value
				changed = true
				return false
			}

		case *js_ast.EBinary:
			if e.Op.BinaryAssignTarget() != js_ast.AssignTargetNone {
				if warnOnDefinedTarget(source, e.Left, semantic, defines, log) {
					v.VisitExpr(&e.Right)
					return false
				}
			}

		case *js_ast.EUnary:
			if e.Op.UnaryAssignTarget() != js_ast.AssignTargetNone {
				if warnOnDefinedTarget(source, e.Value, semantic, defines, log) {
					return false
				}
			}
		}
		return true
	}

	v.VisitStmts(tree.Stmts)
	return changed
}

func findDefine(expr *js_ast.Expr, semantic *js_semantic.Semantic, defines *config.ProcessedDefines) (js_ast.E, bool) {
	root, _, props, ok := js_ast.MemberChain(*expr)
	if !ok || !semantic.IsGlobalReference(root) {
		return nil, false
	}
	parts := append([]string{root.Name}, props...)
	if data, ok := defines.Find(parts); ok && data.DefineFunc != nil {
		return data.DefineFunc(), true
	}
	return nil, false
}

// Assigning to a defined global is left alone because the replacement would
// not be a valid assignment target
func warnOnDefinedTarget(source *logger.Source, target js_ast.Expr, semantic *js_semantic.Semantic, defines *config.ProcessedDefines, log logger.Log) bool {
	root, _, props, ok := js_ast.MemberChain(target)
	if !ok || !semantic.IsGlobalReference(root) {
		return false
	}
	parts := append([]string{root.Name}, props...)
	if data, ok := defines.Find(parts); !ok || data.DefineFunc == nil {
		return false
	}
	log.AddID(logger.MsgID_Transform_DefineReplacement, logger.Warning, source, target.Range,
		fmt.Sprintf("Ignoring assignment to the defined global %q", strings.Join(parts, ".")))
	return true
}
