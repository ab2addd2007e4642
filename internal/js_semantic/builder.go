package js_semantic

import (
	"fmt"

	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

// Builder binds a tree in one walk. Declarations are recorded as they are
// visited and references are resolved after the walk, once every scope has
// all of its members. That way hoisted declarations are visible to
// references that appear before them.
//
// Building also writes scope ids, symbol refs and reference ids into the
// tree, so a tree can only have one set of semantic data at a time.
type Builder struct {
	stats        *Stats
	withChildIDs bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Uses the counts from a previous build as capacity hints
func (b *Builder) WithStats(stats Stats) *Builder {
	b.stats = &stats
	return b
}

func (b *Builder) WithScopeChildIDs(enabled bool) *Builder {
	b.withChildIDs = enabled
	return b
}

func (b *Builder) Build(source *logger.Source, tree *js_ast.AST) Semantic {
	p := &binder{source: source}
	if b.stats != nil {
		p.scopes = make([]js_ast.Scope, 0, b.stats.Scopes)
		p.symbols = make([]js_ast.Symbol, 0, b.stats.Symbols)
		p.references = make([]js_ast.Reference, 0, b.stats.References)
	}

	p.pushScope(js_ast.ScopeEntry, logger.Range{Len: int32(len(source.Contents))})
	p.scopes[js_ast.RootScopeID].Flags |= js_ast.ScopeIsStrict
	p.visitStmts(tree.Stmts)
	p.popScope()

	symbols := js_ast.SymbolTable{
		SourceIndex:              source.Index,
		Symbols:                  p.symbols,
		References:               p.references,
		ResolvedReferences:       make([][]js_ast.ReferenceID, len(p.symbols)),
		RootUnresolvedReferences: make(map[string][]js_ast.ReferenceID),
	}
	scopes := js_ast.ScopeTree{Scopes: p.scopes}

	for i := range symbols.References {
		reference := &symbols.References[i]
		id := js_ast.ReferenceID(i)
		reference.Ref = scopes.FindBinding(reference.ScopeID, reference.Name)
		if reference.Ref == js_ast.InvalidRef {
			symbols.RootUnresolvedReferences[reference.Name] = append(symbols.RootUnresolvedReferences[reference.Name], id)
			continue
		}
		inner := reference.Ref.InnerIndex
		symbols.ResolvedReferences[inner] = append(symbols.ResolvedReferences[inner], id)
		if reference.Flags.Has(js_ast.ReferenceWrite) {
			symbols.Symbols[inner].Flags |= js_ast.SymbolIsReassigned
		}
	}

	if b.withChildIDs {
		for i := 1; i < len(scopes.Scopes); i++ {
			parent := &scopes.Scopes[scopes.Scopes[i].Parent]
			parent.Children = append(parent.Children, js_ast.ScopeID(i))
		}
		scopes.HasChildIDs = true
	}

	return Semantic{
		Symbols: symbols,
		Scopes:  scopes,
		Stats: Stats{
			Nodes:      p.nodes,
			Scopes:     uint32(len(scopes.Scopes)),
			Symbols:    uint32(len(symbols.Symbols)),
			References: uint32(len(symbols.References)),
		},
		Errors: p.errors,
	}
}

type binder struct {
	source     *logger.Source
	scopes     []js_ast.Scope
	symbols    []js_ast.Symbol
	references []js_ast.Reference
	errors     []logger.Msg
	current    js_ast.ScopeID
	nodes      uint32
}

func (p *binder) pushScope(kind js_ast.ScopeKind, r logger.Range) js_ast.ScopeID {
	id := js_ast.ScopeID(len(p.scopes))
	scope := js_ast.Scope{
		Kind:    kind,
		Range:   r,
		Parent:  js_ast.InvalidScopeID,
		Members: make(map[string]js_ast.Ref),
	}
	if len(p.scopes) > 0 {
		parent := &p.scopes[p.current]
		scope.Parent = p.current
		scope.Flags = parent.Flags & js_ast.ScopeIsStrict
	}
	p.scopes = append(p.scopes, scope)
	p.current = id
	return id
}

func (p *binder) popScope() {
	if parent := p.scopes[p.current].Parent; parent != js_ast.InvalidScopeID {
		p.current = parent
	}
}

func (p *binder) newSymbol(kind js_ast.SymbolKind, name string, r logger.Range, scope js_ast.ScopeID) js_ast.Ref {
	ref := js_ast.Ref{OuterIndex: p.source.Index, InnerIndex: uint32(len(p.symbols))}
	p.symbols = append(p.symbols, js_ast.Symbol{
		OriginalName: name,
		Range:        r,
		ScopeID:      scope,
		Kind:         kind,
	})
	return ref
}

func (p *binder) addSymbolAlreadyDeclaredError(name string, r logger.Range) {
	p.errors = append(p.errors, logger.Msg{
		Kind:     logger.Error,
		ID:       logger.MsgID_JS_SemanticError,
		Text:     fmt.Sprintf("The symbol %q has already been declared", name),
		Location: logger.LocationOrNil(p.source, r),
	})
}

type mergeResult uint8

const (
	mergeForbidden mergeResult = iota
	mergeReplaceWithNew
	mergeKeepExisting
)

func canMergeSymbols(scope *js_ast.Scope, existing js_ast.SymbolKind, new js_ast.SymbolKind) mergeResult {
	// "var foo; var foo;"
	// "var foo; function foo() {}"
	// "function foo() {} var foo;"
	// but not "{ function foo() {} function foo() {} }" since modules are strict
	if new.IsHoisted() && existing.IsHoisted() &&
		(scope.Kind.StopsHoisting() || (new == js_ast.SymbolHoisted && existing == js_ast.SymbolHoisted)) {
		return mergeKeepExisting
	}

	// "enum Foo {} enum Foo {}"
	if new == js_ast.SymbolTSEnum && existing == js_ast.SymbolTSEnum {
		return mergeKeepExisting
	}

	// "(function foo() { var foo })" re-declares the name of the function
	if existing == js_ast.SymbolFunctionExpressionName {
		return mergeReplaceWithNew
	}

	return mergeForbidden
}

func (p *binder) declareInScope(scopeID js_ast.ScopeID, kind js_ast.SymbolKind, name string, r logger.Range) js_ast.Ref {
	scope := &p.scopes[scopeID]
	if existing, ok := scope.Members[name]; ok {
		symbol := &p.symbols[existing.InnerIndex]
		switch canMergeSymbols(scope, symbol.Kind, kind) {
		case mergeForbidden:
			p.addSymbolAlreadyDeclaredError(name, r)
			return existing

		case mergeKeepExisting:
			symbol.Flags |= js_ast.SymbolWasRedeclared
			if kind == js_ast.SymbolHoistedFunction {
				symbol.Kind = kind
			}
			return existing
		}
	}

	ref := p.newSymbol(kind, name, r, scopeID)
	scope.Members[name] = ref
	return ref
}

func (p *binder) declare(kind js_ast.SymbolKind, name string, r logger.Range) js_ast.Ref {
	return p.declareInScope(p.current, kind, name, r)
}

// "var" declarations bind in the closest function or module scope. Every
// scope they pass through also gets the name so that a later lexical
// declaration of the same name in one of them is reported.
func (p *binder) declareHoisted(name string, r logger.Range) js_ast.Ref {
	var passed []js_ast.ScopeID
	target := p.current
	for !p.scopes[target].Kind.StopsHoisting() {
		scope := &p.scopes[target]
		if existing, ok := scope.Members[name]; ok {
			kind := p.symbols[existing.InnerIndex].Kind
			if kind == js_ast.SymbolCatchIdentifier {
				// "try {} catch (e) { var e }" is allowed
				target = scope.Parent
				continue
			}
			if !kind.IsHoisted() {
				p.addSymbolAlreadyDeclaredError(name, r)
				return existing
			}
		}
		passed = append(passed, target)
		target = scope.Parent
	}

	ref := p.declareInScope(target, js_ast.SymbolHoisted, name, r)
	for _, id := range passed {
		p.scopes[id].Members[name] = ref
	}
	return ref
}

func (p *binder) addReference(id *js_ast.EIdentifier, r logger.Range, flags js_ast.ReferenceFlags) {
	id.ReferenceID = js_ast.ReferenceID(len(p.references))
	p.references = append(p.references, js_ast.Reference{
		Name:    id.Name,
		Range:   r,
		ScopeID: p.current,
		Ref:     js_ast.InvalidRef,
		Flags:   flags,
	})
}

func localSymbolKind(kind js_ast.LocalKind) js_ast.SymbolKind {
	switch kind {
	case js_ast.LocalConst, js_ast.LocalAwaitUsing:
		return js_ast.SymbolConst
	}
	return js_ast.SymbolOther
}

func (p *binder) visitStmts(stmts []js_ast.Stmt) {
	for i := range stmts {
		p.visitStmt(&stmts[i])
	}
}

// Blocks that are the direct body of a function, catch clause or class
// static block don't get a scope of their own
func (p *binder) visitBlock(block *js_ast.SBlock, r logger.Range) {
	block.ScopeID = p.pushScope(js_ast.ScopeBlock, r)
	p.visitStmts(block.Stmts)
	p.popScope()
}

func (p *binder) visitStmt(stmt *js_ast.Stmt) {
	if stmt.Data == nil {
		return
	}
	p.nodes++

	switch s := stmt.Data.(type) {
	case *js_ast.SBlock:
		p.visitBlock(s, stmt.Range)

	case *js_ast.SExpr:
		p.visitExpr(&s.Value)

	case *js_ast.SLocal:
		kind := localSymbolKind(s.Kind)
		for i := range s.Decls {
			decl := &s.Decls[i]
			if s.Kind == js_ast.LocalVar {
				p.visitBinding(&decl.Binding, p.declareVar)
			} else {
				p.visitBinding(&decl.Binding, p.declareLexical(kind))
			}
			p.visitExpr(&decl.ValueOrNil)
		}

	case *js_ast.SFunction:
		if name := s.Fn.Name; name != nil {
			name.Ref = p.declare(js_ast.SymbolHoistedFunction, name.Name, name.Range)
		}
		p.visitFn(&s.Fn, stmt.Range, false)

	case *js_ast.SClass:
		if name := s.Class.Name; name != nil {
			name.Ref = p.declare(js_ast.SymbolClass, name.Name, name.Range)
		}
		p.visitClass(&s.Class, false)

	case *js_ast.SExportDefault:
		p.visitStmt(&s.Value)

	case *js_ast.SExportClause:
		for i := range s.Items {
			item := &s.Items[i]
			p.visitExpr(&item.Local)
		}

	case *js_ast.SImport:
		if s.DefaultName != nil {
			s.DefaultName.Ref = p.declareInScope(js_ast.RootScopeID, js_ast.SymbolImport, s.DefaultName.Name, s.DefaultName.Range)
		}
		if s.StarNameOrNil != nil {
			s.StarNameOrNil.Ref = p.declareInScope(js_ast.RootScopeID, js_ast.SymbolImport, s.StarNameOrNil.Name, s.StarNameOrNil.Range)
		}
		if s.Items != nil {
			items := *s.Items
			for i := range items {
				name := &items[i].Name
				name.Ref = p.declareInScope(js_ast.RootScopeID, js_ast.SymbolImport, name.Name, name.Range)
			}
		}

	case *js_ast.SEnum:
		s.Name.Ref = p.declare(js_ast.SymbolTSEnum, s.Name.Name, s.Name.Range)
		for i := range s.Values {
			p.visitExpr(&s.Values[i].ValueOrNil)
		}

	case *js_ast.SNamespace:
		s.Name.Ref = p.declare(js_ast.SymbolTSEnum, s.Name.Name, s.Name.Range)

	case *js_ast.SLabel:
		p.visitStmt(&s.Stmt)

	case *js_ast.SIf:
		p.visitExpr(&s.Test)
		p.visitStmt(&s.Yes)
		p.visitStmt(&s.NoOrNil)

	case *js_ast.SFor:
		s.ScopeID = p.pushScope(js_ast.ScopeFor, stmt.Range)
		p.visitStmt(&s.InitOrNil)
		p.visitExpr(&s.TestOrNil)
		p.visitExpr(&s.UpdateOrNil)
		p.visitStmt(&s.Body)
		p.popScope()

	case *js_ast.SForIn:
		s.ScopeID = p.pushScope(js_ast.ScopeFor, stmt.Range)
		p.visitForInit(&s.Init)
		p.visitExpr(&s.Value)
		p.visitStmt(&s.Body)
		p.popScope()

	case *js_ast.SForOf:
		s.ScopeID = p.pushScope(js_ast.ScopeFor, stmt.Range)
		p.visitForInit(&s.Init)
		p.visitExpr(&s.Value)
		p.visitStmt(&s.Body)
		p.popScope()

	case *js_ast.SDoWhile:
		p.visitStmt(&s.Body)
		p.visitExpr(&s.Test)

	case *js_ast.SWhile:
		p.visitExpr(&s.Test)
		p.visitStmt(&s.Body)

	case *js_ast.SWith:
		p.visitExpr(&s.Value)
		p.visitStmt(&s.Body)

	case *js_ast.STry:
		p.visitBlock(&s.Block, stmt.Range)
		if c := s.Catch; c != nil {
			c.ScopeID = p.pushScope(js_ast.ScopeCatch, c.Range)
			c.Block.ScopeID = c.ScopeID
			if id, ok := c.BindingOrNil.Data.(*js_ast.BIdentifier); ok {
				p.nodes++
				id.Ref = p.declare(js_ast.SymbolCatchIdentifier, id.Name, c.BindingOrNil.Range)
			} else {
				p.visitBinding(&c.BindingOrNil, p.declareLexical(js_ast.SymbolOther))
			}
			p.visitStmts(c.Block.Stmts)
			p.popScope()
		}
		if f := s.Finally; f != nil {
			p.visitBlock(&f.Block, f.Range)
		}

	case *js_ast.SSwitch:
		p.visitExpr(&s.Test)
		s.ScopeID = p.pushScope(js_ast.ScopeSwitch, stmt.Range)
		for i := range s.Cases {
			c := &s.Cases[i]
			p.visitExpr(&c.ValueOrNil)
			p.visitStmts(c.Body)
		}
		p.popScope()

	case *js_ast.SReturn:
		p.visitExpr(&s.ValueOrNil)

	case *js_ast.SThrow:
		p.visitExpr(&s.Value)
	}
}

// The left side of "for (x in y)" is either a declaration or an assignment
// target
func (p *binder) visitForInit(init *js_ast.Stmt) {
	if expr, ok := init.Data.(*js_ast.SExpr); ok {
		p.nodes++
		p.visitAssignTarget(&expr.Value, js_ast.ReferenceWrite)
		return
	}
	p.visitStmt(init)
}

type declareFunc func(name string, r logger.Range) js_ast.Ref

func (p *binder) declareVar(name string, r logger.Range) js_ast.Ref {
	return p.declareHoisted(name, r)
}

func (p *binder) declareLexical(kind js_ast.SymbolKind) declareFunc {
	return func(name string, r logger.Range) js_ast.Ref {
		return p.declare(kind, name, r)
	}
}

func (p *binder) declareArg(name string, r logger.Range) js_ast.Ref {
	return p.declare(js_ast.SymbolHoisted, name, r)
}

func (p *binder) visitBinding(binding *js_ast.Binding, declare declareFunc) {
	if binding.Data == nil {
		return
	}
	p.nodes++

	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		b.Ref = declare(b.Name, binding.Range)

	case *js_ast.BArray:
		for i := range b.Items {
			item := &b.Items[i]
			p.visitBinding(&item.Binding, declare)
			p.visitExpr(&item.DefaultValueOrNil)
		}

	case *js_ast.BObject:
		for i := range b.Properties {
			property := &b.Properties[i]
			if property.IsComputed {
				p.visitExpr(&property.Key)
			}
			p.visitBinding(&property.Value, declare)
			p.visitExpr(&property.DefaultValueOrNil)
		}
	}
}

func (p *binder) visitArgs(args []js_ast.Arg) {
	for i := range args {
		arg := &args[i]
		p.visitBinding(&arg.Binding, p.declareArg)
		p.visitExpr(&arg.DefaultOrNil)
	}
}

func (p *binder) visitFn(fn *js_ast.Fn, r logger.Range, isExpr bool) {
	fn.ScopeID = p.pushScope(js_ast.ScopeFunction, r)
	if isExpr && fn.Name != nil {
		fn.Name.Ref = p.declare(js_ast.SymbolFunctionExpressionName, fn.Name.Name, fn.Name.Range)
	}
	p.visitArgs(fn.Args)
	p.visitStmts(fn.Body.Stmts)
	p.popScope()
}

func (p *binder) visitClass(class *js_ast.Class, isExpr bool) {
	class.ScopeID = p.pushScope(js_ast.ScopeClassBody, class.BodyRange)
	if isExpr && class.Name != nil {
		class.Name.Ref = p.declare(js_ast.SymbolClass, class.Name.Name, class.Name.Range)
	}
	p.visitExpr(&class.ExtendsOrNil)
	p.visitProperties(class.Properties)
	p.popScope()
}

func (p *binder) visitProperties(properties []js_ast.Property) {
	for i := range properties {
		property := &properties[i]
		if block := property.ClassStaticBlock; block != nil {
			block.ScopeID = p.pushScope(js_ast.ScopeClassStaticBlock, block.Range)
			p.visitStmts(block.Stmts)
			p.popScope()
			continue
		}
		if property.Flags.Has(js_ast.PropertyIsComputed) {
			p.visitExpr(&property.Key)
		}
		p.visitExpr(&property.ValueOrNil)
		p.visitExpr(&property.InitializerOrNil)
	}
}

func (p *binder) visitExprs(exprs []js_ast.Expr) {
	for i := range exprs {
		p.visitExpr(&exprs[i])
	}
}

// Destructuring assignments write to every identifier in the pattern. Member
// expressions in the pattern are only read.
func (p *binder) visitAssignTarget(expr *js_ast.Expr, flags js_ast.ReferenceFlags) {
	if expr.Data == nil {
		return
	}
	p.nodes++

	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		p.addReference(e, expr.Range, flags)

	case *js_ast.EParenthesized:
		p.visitAssignTarget(&e.Value, flags)

	case *js_ast.ETypeAssertion:
		p.visitAssignTarget(&e.Value, flags)

	case *js_ast.ESpread:
		p.visitAssignTarget(&e.Value, flags)

	case *js_ast.EBinary:
		if e.Op == js_ast.BinOpAssign {
			// A default value: "[a = 1] = b"
			p.visitAssignTarget(&e.Left, flags)
			p.visitExpr(&e.Right)
			return
		}
		p.visitExpr(&e.Left)
		p.visitExpr(&e.Right)

	case *js_ast.EArray:
		for i := range e.Items {
			p.visitAssignTarget(&e.Items[i], flags)
		}

	case *js_ast.EObject:
		for i := range e.Properties {
			property := &e.Properties[i]
			if property.Flags.Has(js_ast.PropertyIsComputed) {
				p.visitExpr(&property.Key)
			}
			p.visitAssignTarget(&property.ValueOrNil, flags)
			p.visitExpr(&property.InitializerOrNil)
		}

	default:
		p.nodes--
		p.visitExpr(expr)
	}
}

func (p *binder) visitExpr(expr *js_ast.Expr) {
	if expr.Data == nil {
		return
	}
	p.nodes++

	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		p.addReference(e, expr.Range, js_ast.ReferenceRead)

	case *js_ast.EArray:
		p.visitExprs(e.Items)

	case *js_ast.EUnary:
		if e.Op.UnaryAssignTarget() != js_ast.AssignTargetNone {
			p.visitAssignTarget(&e.Value, js_ast.ReferenceRead|js_ast.ReferenceWrite)
		} else {
			p.visitExpr(&e.Value)
		}

	case *js_ast.EBinary:
		switch e.Op.BinaryAssignTarget() {
		case js_ast.AssignTargetReplace:
			p.visitAssignTarget(&e.Left, js_ast.ReferenceWrite)
		case js_ast.AssignTargetUpdate:
			p.visitAssignTarget(&e.Left, js_ast.ReferenceRead|js_ast.ReferenceWrite)
		default:
			p.visitExpr(&e.Left)
		}
		p.visitExpr(&e.Right)

	case *js_ast.ENew:
		p.visitExpr(&e.Target)
		p.visitExprs(e.Args)

	case *js_ast.ECall:
		p.visitExpr(&e.Target)
		p.visitExprs(e.Args)

	case *js_ast.EDot:
		p.visitExpr(&e.Target)

	case *js_ast.EIndex:
		p.visitExpr(&e.Target)
		p.visitExpr(&e.Index)

	case *js_ast.EArrow:
		e.ScopeID = p.pushScope(js_ast.ScopeFunction, expr.Range)
		p.scopes[e.ScopeID].Flags |= js_ast.ScopeIsArrow
		p.visitArgs(e.Args)
		p.visitStmts(e.Body.Stmts)
		p.popScope()

	case *js_ast.EFunction:
		p.visitFn(&e.Fn, expr.Range, true)

	case *js_ast.EClass:
		p.visitClass(&e.Class, true)

	case *js_ast.EJSXElement:
		p.visitExpr(&e.TagOrNil)
		p.visitProperties(e.Properties)
		p.visitExprs(e.Children)

	case *js_ast.EObject:
		p.visitProperties(e.Properties)

	case *js_ast.ESpread:
		p.visitExpr(&e.Value)

	case *js_ast.ETemplate:
		p.visitExpr(&e.TagOrNil)
		for i := range e.Parts {
			p.visitExpr(&e.Parts[i].Value)
		}

	case *js_ast.EAwait:
		p.visitExpr(&e.Value)

	case *js_ast.EYield:
		p.visitExpr(&e.ValueOrNil)

	case *js_ast.EIf:
		p.visitExpr(&e.Test)
		p.visitExpr(&e.Yes)
		p.visitExpr(&e.No)

	case *js_ast.EImport:
		p.visitExpr(&e.Expr)
		p.visitExpr(&e.OptionsOrNil)

	case *js_ast.EParenthesized:
		p.visitExpr(&e.Value)

	case *js_ast.ESequence:
		p.visitExprs(e.Exprs)

	case *js_ast.ETypeAssertion:
		p.visitExpr(&e.Value)
	}
}
