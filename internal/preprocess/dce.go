package preprocess

import (
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_semantic"
	"github.com/yuusheng/rolldown/internal/scanner"
)

// Folds constant conditions and removes code that can never run or that has
// no effect. Passes repeat until nothing changes because each fold can expose
// another one. Returns true if the tree changed.
//
// Removing nodes never invalidates the reference ids that remain, so the
// semantic data is still valid for the resolution checks done here.
func eliminateDeadCode(tree *js_ast.AST, semantic *js_semantic.Semantic, globals *config.ProcessedDefines) bool {
	if globals == nil {
		known := config.ProcessDefines(nil)
		globals = &known
	}
	d := &dce{
		detector:  scanner.NewSideEffectDetector(semantic, globals),
		chainEnds: make(map[*js_ast.EParenthesized]bool),
	}
	v := js_ast.Visitor{
		Stmts:     d.visitStmts,
		Stmt:      d.visitStmt,
		Expr:      d.visitExpr,
		EnterExpr: d.enterExpr,
	}

	everChanged := false
	for {
		d.changed = false
		tree.Stmts = v.VisitStmts(tree.Stmts)
		if !d.changed {
			return everChanged
		}
		everChanged = true
	}
}

type dce struct {
	detector *scanner.SideEffectDetector
	changed  bool

	// Parentheses that end an optional chain: "(a?.b).c" throws when "a" is
	// nullish but "a?.b.c" doesn't
	chainEnds map[*js_ast.EParenthesized]bool
}

func (d *dce) enterExpr(expr *js_ast.Expr) bool {
	var target js_ast.Expr
	switch e := expr.Data.(type) {
	case *js_ast.EDot:
		target = e.Target
	case *js_ast.EIndex:
		target = e.Target
	case *js_ast.ECall:
		target = e.Target
	case *js_ast.ENew:
		target = e.Target
	default:
		return true
	}
	if paren, ok := target.Data.(*js_ast.EParenthesized); ok && isOptionalChain(js_ast.StripParens(paren.Value)) {
		d.chainEnds[paren] = true
	}
	return true
}

func isOptionalChain(expr js_ast.Expr) bool {
	for {
		switch e := expr.Data.(type) {
		case *js_ast.EDot:
			if e.OptionalChain {
				return true
			}
			expr = e.Target
		case *js_ast.EIndex:
			if e.OptionalChain {
				return true
			}
			expr = e.Target
		case *js_ast.ECall:
			if e.OptionalChain {
				return true
			}
			expr = e.Target
		default:
			return false
		}
	}
}

func (d *dce) visitExpr(expr *js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EParenthesized:
		if d.chainEnds[e] {
			break
		}
		*expr = e.Value
		d.changed = true

	case *js_ast.EUnary:
		switch e.Op {
		case js_ast.UnOpNot:
			if result, ok := js_ast.MaybeSimplifyNot(e.Value); ok {
				*expr = result
				d.changed = true
			}

		case js_ast.UnOpTypeof:
			if typeof, ok := js_ast.TypeofWithoutSideEffects(e.Value.Data); ok {
				expr.Data = &js_ast.EString{Value: typeof}
				d.changed = true
			}
		}

	case *js_ast.EBinary:
		if result, ok := foldBinary(e); ok {
			*expr = result
			d.changed = true
		}

	case *js_ast.EIf:
		if boolean, sideEffects, ok := js_ast.ToBooleanWithSideEffects(e.Test.Data); ok && sideEffects == js_ast.NoSideEffects {
			if boolean {
				*expr = e.Yes
			} else {
				*expr = e.No
			}
			d.changed = true
		}
	}
}

func foldBinary(e *js_ast.EBinary) (js_ast.Expr, bool) {
	switch e.Op {
	case js_ast.BinOpStrictEq, js_ast.BinOpStrictNe, js_ast.BinOpLooseEq, js_ast.BinOpLooseNe:
		equal, ok := js_ast.CheckEqualityIfNoSideEffects(e.Left.Data, e.Right.Data)
		if !ok && (e.Op == js_ast.BinOpLooseEq || e.Op == js_ast.BinOpLooseNe) {
			// "null == undefined" is the one loose comparison across types
			left, right := js_ast.KnownPrimitiveType(e.Left), js_ast.KnownPrimitiveType(e.Right)
			if (left == js_ast.PrimitiveNull || left == js_ast.PrimitiveUndefined) &&
				(right == js_ast.PrimitiveNull || right == js_ast.PrimitiveUndefined) &&
				js_ast.IsPrimitiveLiteral(e.Left.Data) && js_ast.IsPrimitiveLiteral(e.Right.Data) {
				equal, ok = true, true
			}
		}
		if !ok {
			return js_ast.Expr{}, false
		}
		if e.Op == js_ast.BinOpStrictNe || e.Op == js_ast.BinOpLooseNe {
			equal = !equal
		}
		return js_ast.Expr{Range: e.Left.Range, Data: &js_ast.EBoolean{Value: equal}}, true

	case js_ast.BinOpLogicalAnd:
		if boolean, sideEffects, ok := js_ast.ToBooleanWithSideEffects(e.Left.Data); ok {
			if !boolean {
				return e.Left, true
			}
			if sideEffects == js_ast.NoSideEffects {
				return e.Right, true
			}
		}

	case js_ast.BinOpLogicalOr:
		if boolean, sideEffects, ok := js_ast.ToBooleanWithSideEffects(e.Left.Data); ok {
			if boolean {
				return e.Left, true
			}
			if sideEffects == js_ast.NoSideEffects {
				return e.Right, true
			}
		}

	case js_ast.BinOpNullishCoalescing:
		switch js_ast.KnownPrimitiveType(e.Left) {
		case js_ast.PrimitiveNull, js_ast.PrimitiveUndefined:
			if js_ast.IsPrimitiveLiteral(e.Left.Data) {
				return e.Right, true
			}
		case js_ast.PrimitiveBoolean, js_ast.PrimitiveNumber, js_ast.PrimitiveString, js_ast.PrimitiveBigInt:
			return e.Left, true
		}
	}
	return js_ast.Expr{}, false
}

func (d *dce) visitStmt(stmt *js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SIf:
		boolean, sideEffects, ok := js_ast.ToBooleanWithSideEffects(s.Test.Data)
		if !ok || sideEffects != js_ast.NoSideEffects {
			return
		}
		kept, dropped := s.Yes, s.NoOrNil
		if !boolean {
			kept, dropped = s.NoOrNil, s.Yes
		}
		stmts := make([]js_ast.Stmt, 0, 2)
		if kept.Data != nil {
			stmts = append(stmts, kept)
		}
		if hoisted, ok := hoistedVars(dropped); ok {
			stmts = append(stmts, hoisted)
		}
		*stmt = js_ast.Stmt{Range: stmt.Range, Data: wrapStmts(stmts)}
		d.changed = true

	case *js_ast.SWhile:
		boolean, sideEffects, ok := js_ast.ToBooleanWithSideEffects(s.Test.Data)
		if !ok || boolean || sideEffects != js_ast.NoSideEffects {
			return
		}
		var stmts []js_ast.Stmt
		if hoisted, ok := hoistedVars(s.Body); ok {
			stmts = append(stmts, hoisted)
		}
		*stmt = js_ast.Stmt{Range: stmt.Range, Data: wrapStmts(stmts)}
		d.changed = true
	}
}

func wrapStmts(stmts []js_ast.Stmt) js_ast.S {
	switch len(stmts) {
	case 0:
		return &js_ast.SEmpty{}
	case 1:
		return stmts[0].Data
	}
	return &js_ast.SBlock{Stmts: stmts}
}

func (d *dce) visitStmts(stmts []js_ast.Stmt) []js_ast.Stmt {
	result := make([]js_ast.Stmt, 0, len(stmts))
	isUnreachable := false

	for _, stmt := range stmts {
		if isUnreachable {
			// Hoisted declarations stay visible to the reachable code
			if _, ok := stmt.Data.(*js_ast.SFunction); ok || isBareVarDecl(stmt) {
				result = append(result, stmt)
				continue
			}
			if hoisted, ok := hoistedVars(stmt); ok {
				result = append(result, hoisted)
			}
			d.changed = true
			continue
		}

		switch s := stmt.Data.(type) {
		case *js_ast.SEmpty:
			d.changed = true
			continue

		case *js_ast.SExpr:
			if !d.detector.HasSideEffect(stmt) {
				d.changed = true
				continue
			}

		case *js_ast.SBlock:
			// A block without lexical declarations doesn't need its own scope
			if !hasLexicalDecls(s.Stmts) {
				result = append(result, s.Stmts...)
				d.changed = true
				continue
			}

		case *js_ast.SReturn, *js_ast.SThrow, *js_ast.SBreak, *js_ast.SContinue:
			isUnreachable = true
		}

		result = append(result, stmt)
	}
	return result
}

// "var a, b" without initializers is what unreachable code is reduced to
func isBareVarDecl(stmt js_ast.Stmt) bool {
	s, ok := stmt.Data.(*js_ast.SLocal)
	if !ok || s.Kind != js_ast.LocalVar {
		return false
	}
	for _, decl := range s.Decls {
		if _, ok := decl.Binding.Data.(*js_ast.BIdentifier); !ok || decl.ValueOrNil.Data != nil {
			return false
		}
	}
	return true
}

func hasLexicalDecls(stmts []js_ast.Stmt) bool {
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SLocal:
			if s.Kind.IsLexical() {
				return true
			}
		case *js_ast.SClass, *js_ast.SFunction, *js_ast.SEnum, *js_ast.SNamespace:
			return true
		}
	}
	return false
}

// Returns "var a, b" for every "var" declared somewhere in the statement
// outside of nested functions. Dropping the statement would otherwise unbind
// those names from the enclosing function.
func hoistedVars(stmt js_ast.Stmt) (js_ast.Stmt, bool) {
	var decls []js_ast.Decl
	collectHoistedVars(stmt, &decls)
	if len(decls) == 0 {
		return js_ast.Stmt{}, false
	}
	return js_ast.Stmt{Range: stmt.Range, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}, true
}

func collectHoistedVars(stmt js_ast.Stmt, decls *[]js_ast.Decl) {
	switch s := stmt.Data.(type) {
	case *js_ast.SLocal:
		if s.Kind == js_ast.LocalVar {
			for _, decl := range s.Decls {
				collectBindingNames(decl.Binding, decls)
			}
		}
	case *js_ast.SBlock:
		for _, child := range s.Stmts {
			collectHoistedVars(child, decls)
		}
	case *js_ast.SIf:
		collectHoistedVars(s.Yes, decls)
		collectHoistedVars(s.NoOrNil, decls)
	case *js_ast.SFor:
		collectHoistedVars(s.InitOrNil, decls)
		collectHoistedVars(s.Body, decls)
	case *js_ast.SForIn:
		collectHoistedVars(s.Init, decls)
		collectHoistedVars(s.Body, decls)
	case *js_ast.SForOf:
		collectHoistedVars(s.Init, decls)
		collectHoistedVars(s.Body, decls)
	case *js_ast.SWhile:
		collectHoistedVars(s.Body, decls)
	case *js_ast.SDoWhile:
		collectHoistedVars(s.Body, decls)
	case *js_ast.SWith:
		collectHoistedVars(s.Body, decls)
	case *js_ast.SLabel:
		collectHoistedVars(s.Stmt, decls)
	case *js_ast.STry:
		for _, child := range s.Block.Stmts {
			collectHoistedVars(child, decls)
		}
		if s.Catch != nil {
			for _, child := range s.Catch.Block.Stmts {
				collectHoistedVars(child, decls)
			}
		}
		if s.Finally != nil {
			for _, child := range s.Finally.Block.Stmts {
				collectHoistedVars(child, decls)
			}
		}
	case *js_ast.SSwitch:
		for _, c := range s.Cases {
			for _, child := range c.Body {
				collectHoistedVars(child, decls)
			}
		}
	}
}

func collectBindingNames(binding js_ast.Binding, decls *[]js_ast.Decl) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		*decls = append(*decls, js_ast.Decl{Binding: js_ast.Binding{
			Range: binding.Range,
			Data:  &js_ast.BIdentifier{Name: b.Name, Ref: js_ast.InvalidRef},
		}})
	case *js_ast.BArray:
		for _, item := range b.Items {
			collectBindingNames(item.Binding, decls)
		}
	case *js_ast.BObject:
		for _, property := range b.Properties {
			collectBindingNames(property.Value, decls)
		}
	}
}
