package scanner

import (
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_semantic"
)

// SideEffectDetector decides whether a top-level statement can be removed
// when nothing it declares is used. Anything not known to be pure is assumed
// to have side effects. A detector holds no state between statements.
type SideEffectDetector struct {
	semantic *js_semantic.Semantic
	globals  *config.ProcessedDefines
}

func NewSideEffectDetector(semantic *js_semantic.Semantic, globals *config.ProcessedDefines) *SideEffectDetector {
	return &SideEffectDetector{semantic: semantic, globals: globals}
}

func (d *SideEffectDetector) HasSideEffect(stmt js_ast.Stmt) bool {
	return !d.stmtCanBeRemovedIfUnused(stmt)
}

func (d *SideEffectDetector) stmtsCanBeRemovedIfUnused(stmts []js_ast.Stmt) bool {
	for _, stmt := range stmts {
		if !d.stmtCanBeRemovedIfUnused(stmt) {
			return false
		}
	}
	return true
}

func (d *SideEffectDetector) stmtCanBeRemovedIfUnused(stmt js_ast.Stmt) bool {
	switch s := stmt.Data.(type) {
	case *js_ast.SFunction, *js_ast.SEmpty, *js_ast.STypeScript:
		// These never have side effects

	case *js_ast.SImport:
		// Whether the imported module itself has side effects is decided when
		// linking, not here

	case *js_ast.SExportFrom, *js_ast.SExportStar, *js_ast.SExportClause:
		// Exports are tracked separately

	case *js_ast.SClass:
		return d.classCanBeRemovedIfUnused(&s.Class)

	case *js_ast.SExpr:
		return d.exprCanBeRemovedIfUnused(s.Value)

	case *js_ast.SLocal:
		if s.Kind == js_ast.LocalUsing || s.Kind == js_ast.LocalAwaitUsing {
			return false
		}
		for _, decl := range s.Decls {
			if !d.bindingCanBeRemovedIfUnused(decl.Binding) {
				return false
			}
			if decl.ValueOrNil.Data != nil && !d.exprCanBeRemovedIfUnused(decl.ValueOrNil) {
				return false
			}
		}

	case *js_ast.STry:
		if !d.stmtsCanBeRemovedIfUnused(s.Block.Stmts) || (s.Finally != nil && !d.stmtsCanBeRemovedIfUnused(s.Finally.Block.Stmts)) {
			return false
		}

	case *js_ast.SExportDefault:
		switch s2 := s.Value.Data.(type) {
		case *js_ast.SExpr:
			return d.exprCanBeRemovedIfUnused(s2.Value)

		case *js_ast.SFunction:
			// These never have side effects

		case *js_ast.SClass:
			return d.classCanBeRemovedIfUnused(&s2.Class)

		default:
			return false
		}

	default:
		// Assume that all statements not explicitly special-cased here have side
		// effects, and cannot be removed even if unused
		return false
	}

	return true
}

func (d *SideEffectDetector) classCanBeRemovedIfUnused(class *js_ast.Class) bool {
	if class.ExtendsOrNil.Data != nil && !d.exprCanBeRemovedIfUnused(class.ExtendsOrNil) {
		return false
	}

	for _, property := range class.Properties {
		if property.ClassStaticBlock != nil {
			if !d.stmtsCanBeRemovedIfUnused(property.ClassStaticBlock.Stmts) {
				return false
			}
			continue
		}
		if property.Flags.Has(js_ast.PropertyIsComputed) && !d.exprCanBeRemovedIfUnused(property.Key) {
			return false
		}

		// Instance fields are evaluated when the class is constructed
		if property.Flags.Has(js_ast.PropertyIsStatic) && property.InitializerOrNil.Data != nil &&
			!d.exprCanBeRemovedIfUnused(property.InitializerOrNil) {
			return false
		}
	}

	return true
}

func (d *SideEffectDetector) bindingCanBeRemovedIfUnused(binding js_ast.Binding) bool {
	switch b := binding.Data.(type) {
	case *js_ast.BArray:
		for _, item := range b.Items {
			if !d.bindingCanBeRemovedIfUnused(item.Binding) {
				return false
			}
			if item.DefaultValueOrNil.Data != nil && !d.exprCanBeRemovedIfUnused(item.DefaultValueOrNil) {
				return false
			}
		}

	case *js_ast.BObject:
		for _, property := range b.Properties {
			if property.IsComputed && !d.exprCanBeRemovedIfUnused(property.Key) {
				return false
			}
			if !d.bindingCanBeRemovedIfUnused(property.Value) {
				return false
			}
			if property.DefaultValueOrNil.Data != nil && !d.exprCanBeRemovedIfUnused(property.DefaultValueOrNil) {
				return false
			}
		}
	}

	return true
}

func (d *SideEffectDetector) isKnownGlobal(parts []string) bool {
	if d.globals == nil {
		return false
	}
	data, ok := d.globals.Find(parts)
	return ok && data.CanBeRemovedIfUnused
}

func (d *SideEffectDetector) exprCanBeRemovedIfUnused(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.ENull, *js_ast.EUndefined, *js_ast.EMissing, *js_ast.EBoolean, *js_ast.ENumber, *js_ast.EBigInt,
		*js_ast.EString, *js_ast.EThis, *js_ast.ERegExp, *js_ast.EFunction, *js_ast.EArrow, *js_ast.EImportMeta:
		return true

	case *js_ast.EParenthesized:
		return d.exprCanBeRemovedIfUnused(e.Value)

	case *js_ast.ETypeAssertion:
		return d.exprCanBeRemovedIfUnused(e.Value)

	case *js_ast.EDot:
		if e.CanBeRemovedIfUnused {
			return true
		}
		if root, _, props, ok := js_ast.MemberChain(expr); ok && d.semantic.IsGlobalReference(root) {
			return d.isKnownGlobal(append([]string{root.Name}, props...))
		}

	case *js_ast.EClass:
		return d.classCanBeRemovedIfUnused(&e.Class)

	case *js_ast.EIdentifier:
		// Unbound identifiers cannot be removed because they can have side
		// effects. One possible side effect is throwing a ReferenceError if they
		// don't exist. Another one is a getter with side effects on the global
		// object.
		if !d.semantic.IsGlobalReference(e) {
			return true
		}
		return d.isKnownGlobal([]string{e.Name})

	case *js_ast.EIf:
		return d.exprCanBeRemovedIfUnused(e.Test) &&
			(d.isSideEffectFreeUnboundIdentifierRef(e.Yes, e.Test, true) || d.exprCanBeRemovedIfUnused(e.Yes)) &&
			(d.isSideEffectFreeUnboundIdentifierRef(e.No, e.Test, false) || d.exprCanBeRemovedIfUnused(e.No))

	case *js_ast.EArray:
		for _, item := range e.Items {
			if _, ok := item.Data.(*js_ast.ESpread); ok {
				return false
			}
			if !d.exprCanBeRemovedIfUnused(item) {
				return false
			}
		}
		return true

	case *js_ast.EObject:
		for _, property := range e.Properties {
			// The key must still be evaluated if it's computed or a spread
			if property.Kind == js_ast.PropertySpread || property.Flags.Has(js_ast.PropertyIsComputed) {
				return false
			}
			if property.ValueOrNil.Data != nil && !d.exprCanBeRemovedIfUnused(property.ValueOrNil) {
				return false
			}
		}
		return true

	case *js_ast.ETemplate:
		// Converting an object to a string can call arbitrary code
		if e.TagOrNil.Data != nil {
			return false
		}
		for _, part := range e.Parts {
			if !js_ast.IsPrimitiveLiteral(part.Value.Data) {
				return false
			}
		}
		return true

	case *js_ast.ESequence:
		for _, value := range e.Exprs {
			if !d.exprCanBeRemovedIfUnused(value) {
				return false
			}
		}
		return true

	case *js_ast.ECall:
		// A call that has been marked "__PURE__" can be removed if all arguments
		// can be removed. The annotation causes us to ignore the target.
		if e.CanBeUnwrappedIfUnused {
			return d.exprsCanBeRemovedIfUnused(e.Args)
		}

	case *js_ast.ENew:
		if e.CanBeUnwrappedIfUnused {
			return d.exprsCanBeRemovedIfUnused(e.Args)
		}

	case *js_ast.EUnary:
		switch e.Op {
		// These operators must not have any type conversions that can execute code
		// such as "toString" or "valueOf". They must also never throw any exceptions.
		case js_ast.UnOpVoid, js_ast.UnOpNot:
			return d.exprCanBeRemovedIfUnused(e.Value)

		// "typeof x" doesn't throw even if "x" doesn't exist
		case js_ast.UnOpTypeof:
			if _, ok := e.Value.Data.(*js_ast.EIdentifier); ok {
				return true
			}
			return d.exprCanBeRemovedIfUnused(e.Value)
		}

	case *js_ast.EBinary:
		switch e.Op {
		case js_ast.BinOpStrictEq, js_ast.BinOpStrictNe, js_ast.BinOpComma, js_ast.BinOpNullishCoalescing:
			return d.exprCanBeRemovedIfUnused(e.Left) && d.exprCanBeRemovedIfUnused(e.Right)

		// Special-case "||" to make sure "typeof x === 'undefined' || x" can be removed
		case js_ast.BinOpLogicalOr:
			return d.exprCanBeRemovedIfUnused(e.Left) &&
				(d.isSideEffectFreeUnboundIdentifierRef(e.Right, e.Left, false) || d.exprCanBeRemovedIfUnused(e.Right))

		// Special-case "&&" to make sure "typeof x !== 'undefined' && x" can be removed
		case js_ast.BinOpLogicalAnd:
			return d.exprCanBeRemovedIfUnused(e.Left) &&
				(d.isSideEffectFreeUnboundIdentifierRef(e.Right, e.Left, true) || d.exprCanBeRemovedIfUnused(e.Right))

		// Loose equality between values of the same primitive type can't call
		// "valueOf" or "toString"
		case js_ast.BinOpLooseEq, js_ast.BinOpLooseNe:
			leftType := js_ast.KnownPrimitiveType(e.Left)
			return leftType != js_ast.PrimitiveUnknown && leftType != js_ast.PrimitiveMixed &&
				leftType == js_ast.KnownPrimitiveType(e.Right) &&
				d.exprCanBeRemovedIfUnused(e.Left) && d.exprCanBeRemovedIfUnused(e.Right)
		}
	}

	// Assume all other expression types have side effects and cannot be removed
	return false
}

func (d *SideEffectDetector) exprsCanBeRemovedIfUnused(exprs []js_ast.Expr) bool {
	for _, expr := range exprs {
		if !d.exprCanBeRemovedIfUnused(expr) {
			return false
		}
	}
	return true
}

// Matches the guard in "typeof x !== 'undefined' && x" so that reading the
// unbound "x" counts as side-effect free
func (d *SideEffectDetector) isSideEffectFreeUnboundIdentifierRef(value js_ast.Expr, guardCondition js_ast.Expr, isYesBranch bool) bool {
	id, ok := value.Data.(*js_ast.EIdentifier)
	if !ok || !d.semantic.IsGlobalReference(id) {
		return false
	}
	binary, ok := guardCondition.Data.(*js_ast.EBinary)
	if !ok {
		return false
	}
	switch binary.Op {
	case js_ast.BinOpStrictEq, js_ast.BinOpStrictNe, js_ast.BinOpLooseEq, js_ast.BinOpLooseNe:
		typeof, str := binary.Left, binary.Right
		if _, ok := typeof.Data.(*js_ast.EString); ok {
			typeof, str = str, typeof
		}
		unary, ok := typeof.Data.(*js_ast.EUnary)
		if !ok || unary.Op != js_ast.UnOpTypeof {
			return false
		}
		text, ok := str.Data.(*js_ast.EString)
		if !ok {
			return false
		}

		// In "typeof x !== 'undefined' ? x : null", the reference to "x" is side-effect free
		// In "typeof x === 'object' ? x : null", the reference to "x" is side-effect free
		if (text.Value == "undefined" == isYesBranch) == (binary.Op == js_ast.BinOpStrictNe || binary.Op == js_ast.BinOpLooseNe) {
			if id2, ok := unary.Value.Data.(*js_ast.EIdentifier); ok && id2.Name == id.Name {
				return true
			}
		}
	}
	return false
}
