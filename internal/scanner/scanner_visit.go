package scanner

import (
	"github.com/yuusheng/rolldown/internal/ast"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

func (s *scanner) visitStmts(stmts []js_ast.Stmt) {
	for i := range stmts {
		s.visitStmt(&stmts[i])
	}
}

func (s *scanner) visitBlock(block *js_ast.SBlock) {
	s.pushScope(block.ScopeID)
	s.visitStmts(block.Stmts)
	s.popScope()
}

func (s *scanner) visitStmt(stmt *js_ast.Stmt) {
	if stmt.Data == nil {
		return
	}

	if js_ast.IsModuleDecl(stmt.Data) {
		s.scanModuleDecl(stmt)
	}

	if _, ok := stmt.Data.(*js_ast.SExpr); ok {
		s.pushNode(nodeExprStmt)
	} else {
		s.pushNode(nodeStmt)
	}

	switch st := stmt.Data.(type) {
	case *js_ast.SBlock:
		s.visitBlock(st)

	case *js_ast.SExpr:
		s.visitExpr(&st.Value)

	case *js_ast.SLocal:
		for i := range st.Decls {
			decl := &st.Decls[i]
			s.visitBinding(&decl.Binding)
			s.visitExpr(&decl.ValueOrNil)
		}

	case *js_ast.SFunction:
		s.visitDeclaredName(st.Fn.Name)
		s.visitFn(&st.Fn)

	case *js_ast.SClass:
		s.visitClassDecl(&st.Class)

	case *js_ast.SExportDefault:
		switch value := st.Value.Data.(type) {
		case *js_ast.SExpr:
			// The value is used by the export so it isn't an expression statement
			s.visitExpr(&value.Value)
		case *js_ast.SFunction:
			s.visitDeclaredName(value.Fn.Name)
			s.visitFn(&value.Fn)
		case *js_ast.SClass:
			s.visitClassDecl(&value.Class)
		}

	case *js_ast.SExportClause:
		for i := range st.Items {
			s.visitExpr(&st.Items[i].Local)
		}

	case *js_ast.SImport:
		s.visitDeclaredName(st.DefaultName)
		s.visitDeclaredName(st.StarNameOrNil)
		if st.Items != nil {
			for i := range *st.Items {
				s.visitDeclaredName(&(*st.Items)[i].Name)
			}
		}

	case *js_ast.SEnum:
		s.visitDeclaredName(&st.Name)
		for i := range st.Values {
			s.visitExpr(&st.Values[i].ValueOrNil)
		}

	case *js_ast.SNamespace:
		s.visitDeclaredName(&st.Name)

	case *js_ast.SLabel:
		s.visitStmt(&st.Stmt)

	case *js_ast.SIf:
		s.visitExpr(&st.Test)
		s.visitStmt(&st.Yes)
		s.visitStmt(&st.NoOrNil)

	case *js_ast.SFor:
		s.pushScope(st.ScopeID)
		s.visitStmt(&st.InitOrNil)
		s.visitExpr(&st.TestOrNil)
		s.visitExpr(&st.UpdateOrNil)
		s.visitStmt(&st.Body)
		s.popScope()

	case *js_ast.SForIn:
		s.pushScope(st.ScopeID)
		s.visitStmt(&st.Init)
		s.visitExpr(&st.Value)
		s.visitStmt(&st.Body)
		s.popScope()

	case *js_ast.SForOf:
		if st.IsAwait {
			s.checkTopLevelAwait(stmt.Range)
		}
		s.pushScope(st.ScopeID)
		s.visitStmt(&st.Init)
		s.visitExpr(&st.Value)
		s.visitStmt(&st.Body)
		s.popScope()

	case *js_ast.SDoWhile:
		s.visitStmt(&st.Body)
		s.visitExpr(&st.Test)

	case *js_ast.SWhile:
		s.visitExpr(&st.Test)
		s.visitStmt(&st.Body)

	case *js_ast.SWith:
		s.visitExpr(&st.Value)
		s.visitStmt(&st.Body)

	case *js_ast.STry:
		s.visitBlock(&st.Block)
		if st.Catch != nil {
			// The catch binding and the catch body share one scope
			s.pushScope(st.Catch.ScopeID)
			s.visitBinding(&st.Catch.BindingOrNil)
			s.visitStmts(st.Catch.Block.Stmts)
			s.popScope()
		}
		if st.Finally != nil {
			s.visitBlock(&st.Finally.Block)
		}

	case *js_ast.SSwitch:
		s.visitExpr(&st.Test)
		s.pushScope(st.ScopeID)
		for i := range st.Cases {
			c := &st.Cases[i]
			s.visitExpr(&c.ValueOrNil)
			s.visitStmts(c.Body)
		}
		s.popScope()

	case *js_ast.SReturn:
		s.visitExpr(&st.ValueOrNil)

	case *js_ast.SThrow:
		s.visitExpr(&st.Value)
	}

	s.popNode()
}

func (s *scanner) visitDeclaredName(name *js_ast.LocRef) {
	if name != nil && s.isRootSymbol(name.Ref) {
		s.addDeclaredSymbol(name.Ref)
	}
}

func (s *scanner) visitBinding(binding *js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		if s.isRootSymbol(b.Ref) {
			s.addDeclaredSymbol(b.Ref)
		}

	case *js_ast.BArray:
		for i := range b.Items {
			item := &b.Items[i]
			s.visitBinding(&item.Binding)
			s.visitExpr(&item.DefaultValueOrNil)
		}

	case *js_ast.BObject:
		for i := range b.Properties {
			property := &b.Properties[i]
			if property.IsComputed {
				s.visitExpr(&property.Key)
			}
			s.visitBinding(&property.Value)
			s.visitExpr(&property.DefaultValueOrNil)
		}
	}
}

func (s *scanner) visitArgs(args []js_ast.Arg) {
	for i := range args {
		arg := &args[i]
		s.visitBinding(&arg.Binding)
		s.visitExpr(&arg.DefaultOrNil)
	}
}

func (s *scanner) visitFn(fn *js_ast.Fn) {
	s.pushScope(fn.ScopeID)
	s.visitArgs(fn.Args)
	s.visitStmts(fn.Body.Stmts)
	s.popScope()
}

// References to a class from inside its own body are found by checking each
// identifier against the references that resolved to the class symbol. The
// previous context is restored afterward so nested classes work.
func (s *scanner) visitClassDecl(class *js_ast.Class) {
	if class.Name == nil {
		s.visitClass(class)
		return
	}
	s.visitDeclaredName(class.Name)

	references := make(map[js_ast.ReferenceID]bool)
	for _, id := range s.semantic.ResolvedReferences(class.Name.Ref) {
		references[id] = true
	}

	previous := s.class
	s.class = &classContext{ref: class.Name.Ref, references: references}
	s.visitClass(class)
	s.class = previous
}

func (s *scanner) visitClass(class *js_ast.Class) {
	s.pushScope(class.ScopeID)
	s.visitExpr(&class.ExtendsOrNil)
	s.visitProperties(class.Properties)
	s.popScope()
}

func (s *scanner) visitProperties(properties []js_ast.Property) {
	for i := range properties {
		property := &properties[i]
		if block := property.ClassStaticBlock; block != nil {
			s.pushScope(block.ScopeID)
			s.visitStmts(block.Stmts)
			s.popScope()
			continue
		}
		if property.Flags.Has(js_ast.PropertyIsComputed) {
			s.visitExpr(&property.Key)
		}
		s.visitExpr(&property.ValueOrNil)
		s.visitExpr(&property.InitializerOrNil)
	}
}

func (s *scanner) visitExprs(exprs []js_ast.Expr) {
	for i := range exprs {
		s.visitExpr(&exprs[i])
	}
}

func (s *scanner) visitExpr(expr *js_ast.Expr) {
	if expr.Data == nil {
		return
	}

	// These run before the node is pushed, so the top of the visit path is
	// the parent of the node
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		s.visitIdentifier(e)
		return

	case *js_ast.EDot:
		if s.scanMemberExpr(expr, e) {
			return
		}

	case *js_ast.ECall:
		s.scanCall(expr, e)

	case *js_ast.EImport:
		s.scanImportExpr(expr, e)

	case *js_ast.EBinary:
		if e.Op.BinaryAssignTarget() != js_ast.AssignTargetNone {
			s.scanAssign(e)
		}

	case *js_ast.EUnary:
		if e.Op.UnaryAssignTarget() != js_ast.AssignTargetNone {
			if id, ok := e.Value.Data.(*js_ast.EIdentifier); ok {
				s.checkConstAssign(id, e.Value.Range)
			}
		}

	case *js_ast.EAwait:
		s.checkTopLevelAwait(expr.Range)
	}

	switch e := expr.Data.(type) {
	case *js_ast.EParenthesized:
		s.pushNode(nodeParenthesized)
	case *js_ast.ESequence:
		s.visitPath = append(s.visitPath, visitNode{kind: nodeSequence, sequence: e})
	default:
		s.pushNode(nodeExpr)
	}

	switch e := expr.Data.(type) {
	case *js_ast.EArray:
		s.visitExprs(e.Items)

	case *js_ast.EUnary:
		s.visitExpr(&e.Value)

	case *js_ast.EBinary:
		s.visitExpr(&e.Left)
		s.visitExpr(&e.Right)

	case *js_ast.ENew:
		s.visitExpr(&e.Target)
		s.visitExprs(e.Args)

	case *js_ast.ECall:
		s.visitExpr(&e.Target)
		s.visitExprs(e.Args)

	case *js_ast.EDot:
		s.visitExpr(&e.Target)

	case *js_ast.EIndex:
		s.visitExpr(&e.Target)
		s.visitExpr(&e.Index)

	case *js_ast.EArrow:
		s.pushScope(e.ScopeID)
		s.visitArgs(e.Args)
		s.visitStmts(e.Body.Stmts)
		s.popScope()

	case *js_ast.EFunction:
		s.visitFn(&e.Fn)

	case *js_ast.EClass:
		s.visitClass(&e.Class)

	case *js_ast.EJSXElement:
		s.visitExpr(&e.TagOrNil)
		s.visitProperties(e.Properties)
		s.visitExprs(e.Children)

	case *js_ast.EObject:
		s.visitProperties(e.Properties)

	case *js_ast.ESpread:
		s.visitExpr(&e.Value)

	case *js_ast.ETemplate:
		s.visitExpr(&e.TagOrNil)
		for i := range e.Parts {
			s.visitExpr(&e.Parts[i].Value)
		}

	case *js_ast.EAwait:
		s.visitExpr(&e.Value)

	case *js_ast.EYield:
		s.visitExpr(&e.ValueOrNil)

	case *js_ast.EIf:
		s.visitExpr(&e.Test)
		s.visitExpr(&e.Yes)
		s.visitExpr(&e.No)

	case *js_ast.EImport:
		s.visitExpr(&e.Expr)
		s.visitExpr(&e.OptionsOrNil)

	case *js_ast.EParenthesized:
		s.visitExpr(&e.Value)

	case *js_ast.ESequence:
		s.visitExprs(e.Exprs)

	case *js_ast.ETypeAssertion:
		s.visitExpr(&e.Value)
	}

	s.popNode()
}

func (s *scanner) visitIdentifier(id *js_ast.EIdentifier) {
	if ref, ok := s.semantic.ResolveToRootSymbol(id); ok {
		s.addReferencedSymbol(ref)
	}
	if s.class != nil && id.ReferenceID != js_ast.InvalidReferenceID && s.class.references[id.ReferenceID] {
		s.result.SelfReferencedClasses[s.class.ref] = true
	}
}

// Records "ns.a.b" when "ns" is an import binding. The chain is not walked
// any further so the import isn't recorded a second time as a plain
// reference. Nodes without a range are skipped since ranges identify nodes.
func (s *scanner) scanMemberExpr(expr *js_ast.Expr, dot *js_ast.EDot) bool {
	if dot.OptionalChain || expr.Range.IsEmpty() {
		return false
	}
	root, _, props, ok := js_ast.MemberChain(*expr)
	if !ok {
		return false
	}
	ref, ok := s.semantic.ResolveToRootSymbol(root)
	if !ok || s.semantic.Symbols.Get(ref).Kind != js_ast.SymbolImport {
		return false
	}
	s.addMemberExprRef(ref, props, expr.Range)
	return true
}

func (s *scanner) scanImportExpr(expr *js_ast.Expr, e *js_ast.EImport) {
	str, ok := e.Expr.Data.(*js_ast.EString)
	if !ok {
		return
	}
	var flags ast.ImportRecordFlags
	if e.Expr.Range.IsEmpty() {
		flags |= ast.IsUnspannedImport
	}
	s.result.Imports[expr.Range] = s.addImportRecord(str.Value, ast.ImportDynamic, e.Expr.Range, flags)
}

func (s *scanner) scanAssign(e *js_ast.EBinary) {
	switch left := e.Left.Data.(type) {
	case *js_ast.EIdentifier:
		s.checkConstAssign(left, e.Left.Range)

	case *js_ast.EDot:
		switch object := left.Target.Data.(type) {
		case *js_ast.EIdentifier:
			// "module.exports = ..."
			if object.Name == "module" && left.Name == "exports" && s.semantic.IsGlobalReference(object) {
				s.setCJSModuleIdent(left.Target.Range.Loc)
			}

			// "exports.foo = ..."
			if object.Name == "exports" && s.semantic.IsGlobalReference(object) && s.result.CJSExportsIdent == nil {
				r := logger.Range{Loc: left.Target.Range.Loc, Len: int32(len("exports"))}
				s.result.CJSExportsIdent = &r
			}

		case *js_ast.EDot:
			// "module.exports.foo = ..."
			if inner, ok := object.Target.Data.(*js_ast.EIdentifier); ok &&
				inner.Name == "module" && object.Name == "exports" && s.semantic.IsGlobalReference(inner) {
				s.setCJSModuleIdent(object.Target.Range.Loc)
			}
		}
	}
}

func (s *scanner) setCJSModuleIdent(loc logger.Loc) {
	if s.result.CJSModuleIdent == nil {
		r := logger.Range{Loc: loc, Len: int32(len("module"))}
		s.result.CJSModuleIdent = &r
	}
}

func (s *scanner) scanCall(expr *js_ast.Expr, call *js_ast.ECall) {
	id, ok := call.Target.Data.(*js_ast.EIdentifier)
	if !ok || !s.semantic.IsGlobalReference(id) {
		return
	}

	switch id.Name {
	case "eval":
		s.result.HasEval = true
		s.addWarning(logger.MsgID_JS_DirectEval, call.Target.Range,
			"Using direct eval with a bundler is not recommended and may cause problems")

	case "require":
		if len(call.Args) != 1 {
			return
		}
		str, ok := call.Args[0].Data.(*js_ast.EString)
		if !ok {
			return
		}
		request := call.Args[0].Range
		var flags ast.ImportRecordFlags
		if request.IsEmpty() {
			flags |= ast.IsUnspannedImport
		} else if s.isRequireUnused(expr.Range) {
			flags |= ast.IsRequireUnused
		}
		s.result.Imports[expr.Range] = s.addImportRecord(str.Value, ast.ImportRequire, request, flags)
	}
}

// Walks outward from the call. Parentheses are transparent and reaching an
// expression statement means the value is dropped. Inside a sequence only the
// last operand survives: a call inside it is used, a call in any other
// operand is dropped at that point and the walk continues. Every other parent
// uses the value. A last operand without a range can't contain the call.
func (s *scanner) isRequireUnused(call logger.Range) bool {
	for i := len(s.visitPath) - 1; i >= 0; i-- {
		node := s.visitPath[i]
		switch node.kind {
		case nodeParenthesized:

		case nodeExprStmt:
			return true

		case nodeSequence:
			last := node.sequence.Exprs[len(node.sequence.Exprs)-1]
			if !last.Range.IsEmpty() && !call.IsEmpty() && last.Range.Contains(call) {
				return false
			}

		default:
			return false
		}
	}
	return false
}
