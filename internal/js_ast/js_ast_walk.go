package js_ast

// Visitor walks every statement, expression and binding of a tree in
// post-order: the callbacks for a node run after all of its children have
// been visited. Callbacks receive a pointer so they can replace the node in
// place. Any callback may be nil.
//
// The walker doesn't track scopes. Passes that need scope information read it
// from the semantic data built before the walk.
type Visitor struct {
	// Called for every statement list (module body, blocks, function bodies,
	// switch cases, class static blocks) after its statements were visited
	Stmts func(stmts []Stmt) []Stmt

	Stmt    func(stmt *Stmt)
	Expr    func(expr *Expr)
	Binding func(binding *Binding)

	// Called before the children of an expression are visited. Returning
	// false skips the children and the "Expr" callback for that expression.
	EnterExpr func(expr *Expr) bool
}

func (v *Visitor) VisitStmts(stmts []Stmt) []Stmt {
	for i := range stmts {
		v.VisitStmt(&stmts[i])
	}
	if v.Stmts != nil {
		stmts = v.Stmts(stmts)
	}
	return stmts
}

func (v *Visitor) visitBlock(block *SBlock) {
	block.Stmts = v.VisitStmts(block.Stmts)
}

func (v *Visitor) VisitStmt(stmt *Stmt) {
	if stmt.Data == nil {
		return
	}

	switch s := stmt.Data.(type) {
	case *SBlock:
		v.visitBlock(s)

	case *SExpr:
		v.VisitExpr(&s.Value)

	case *SLocal:
		for i := range s.Decls {
			decl := &s.Decls[i]
			v.VisitBinding(&decl.Binding)
			v.VisitExpr(&decl.ValueOrNil)
		}

	case *SFunction:
		v.visitFn(&s.Fn)

	case *SClass:
		v.visitClass(&s.Class)

	case *SExportDefault:
		v.VisitStmt(&s.Value)

	case *SExportClause:
		for i := range s.Items {
			v.VisitExpr(&s.Items[i].Local)
		}

	case *SEnum:
		for i := range s.Values {
			v.VisitExpr(&s.Values[i].ValueOrNil)
		}

	case *SLabel:
		v.VisitStmt(&s.Stmt)

	case *SIf:
		v.VisitExpr(&s.Test)
		v.VisitStmt(&s.Yes)
		v.VisitStmt(&s.NoOrNil)

	case *SFor:
		v.VisitStmt(&s.InitOrNil)
		v.VisitExpr(&s.TestOrNil)
		v.VisitExpr(&s.UpdateOrNil)
		v.VisitStmt(&s.Body)

	case *SForIn:
		v.VisitStmt(&s.Init)
		v.VisitExpr(&s.Value)
		v.VisitStmt(&s.Body)

	case *SForOf:
		v.VisitStmt(&s.Init)
		v.VisitExpr(&s.Value)
		v.VisitStmt(&s.Body)

	case *SDoWhile:
		v.VisitStmt(&s.Body)
		v.VisitExpr(&s.Test)

	case *SWhile:
		v.VisitExpr(&s.Test)
		v.VisitStmt(&s.Body)

	case *SWith:
		v.VisitExpr(&s.Value)
		v.VisitStmt(&s.Body)

	case *STry:
		v.visitBlock(&s.Block)
		if s.Catch != nil {
			v.VisitBinding(&s.Catch.BindingOrNil)
			v.visitBlock(&s.Catch.Block)
		}
		if s.Finally != nil {
			v.visitBlock(&s.Finally.Block)
		}

	case *SSwitch:
		v.VisitExpr(&s.Test)
		for i := range s.Cases {
			c := &s.Cases[i]
			v.VisitExpr(&c.ValueOrNil)
			c.Body = v.VisitStmts(c.Body)
		}

	case *SReturn:
		v.VisitExpr(&s.ValueOrNil)

	case *SThrow:
		v.VisitExpr(&s.Value)
	}

	if v.Stmt != nil {
		v.Stmt(stmt)
	}
}

func (v *Visitor) visitFn(fn *Fn) {
	v.visitArgs(fn.Args)
	fn.Body.Stmts = v.VisitStmts(fn.Body.Stmts)
}

func (v *Visitor) visitArgs(args []Arg) {
	for i := range args {
		arg := &args[i]
		v.VisitBinding(&arg.Binding)
		v.VisitExpr(&arg.DefaultOrNil)
	}
}

func (v *Visitor) visitClass(class *Class) {
	v.VisitExpr(&class.ExtendsOrNil)
	v.visitProperties(class.Properties)
}

func (v *Visitor) visitProperties(properties []Property) {
	for i := range properties {
		property := &properties[i]
		if property.ClassStaticBlock != nil {
			property.ClassStaticBlock.Stmts = v.VisitStmts(property.ClassStaticBlock.Stmts)
			continue
		}
		v.VisitExpr(&property.Key)
		v.VisitExpr(&property.ValueOrNil)
		v.VisitExpr(&property.InitializerOrNil)
	}
}

func (v *Visitor) VisitBinding(binding *Binding) {
	if binding.Data == nil {
		return
	}

	switch b := binding.Data.(type) {
	case *BArray:
		for i := range b.Items {
			item := &b.Items[i]
			v.VisitBinding(&item.Binding)
			v.VisitExpr(&item.DefaultValueOrNil)
		}

	case *BObject:
		for i := range b.Properties {
			property := &b.Properties[i]
			v.VisitExpr(&property.Key)
			v.VisitBinding(&property.Value)
			v.VisitExpr(&property.DefaultValueOrNil)
		}
	}

	if v.Binding != nil {
		v.Binding(binding)
	}
}

func (v *Visitor) VisitExpr(expr *Expr) {
	if expr.Data == nil {
		return
	}
	if v.EnterExpr != nil && !v.EnterExpr(expr) {
		return
	}

	switch e := expr.Data.(type) {
	case *EArray:
		v.visitExprs(e.Items)

	case *EUnary:
		v.VisitExpr(&e.Value)

	case *EBinary:
		v.VisitExpr(&e.Left)
		v.VisitExpr(&e.Right)

	case *ENew:
		v.VisitExpr(&e.Target)
		v.visitExprs(e.Args)

	case *ECall:
		v.VisitExpr(&e.Target)
		v.visitExprs(e.Args)

	case *EDot:
		v.VisitExpr(&e.Target)

	case *EIndex:
		v.VisitExpr(&e.Target)
		v.VisitExpr(&e.Index)

	case *EArrow:
		v.visitArgs(e.Args)
		e.Body.Stmts = v.VisitStmts(e.Body.Stmts)

	case *EFunction:
		v.visitFn(&e.Fn)

	case *EClass:
		v.visitClass(&e.Class)

	case *EJSXElement:
		v.VisitExpr(&e.TagOrNil)
		v.visitProperties(e.Properties)
		v.visitExprs(e.Children)

	case *EObject:
		v.visitProperties(e.Properties)

	case *ESpread:
		v.VisitExpr(&e.Value)

	case *ETemplate:
		v.VisitExpr(&e.TagOrNil)
		for i := range e.Parts {
			v.VisitExpr(&e.Parts[i].Value)
		}

	case *EAwait:
		v.VisitExpr(&e.Value)

	case *EYield:
		v.VisitExpr(&e.ValueOrNil)

	case *EIf:
		v.VisitExpr(&e.Test)
		v.VisitExpr(&e.Yes)
		v.VisitExpr(&e.No)

	case *EImport:
		v.VisitExpr(&e.Expr)
		v.VisitExpr(&e.OptionsOrNil)

	case *EParenthesized:
		v.VisitExpr(&e.Value)

	case *ESequence:
		v.visitExprs(e.Exprs)

	case *ETypeAssertion:
		v.VisitExpr(&e.Value)
	}

	if v.Expr != nil {
		v.Expr(expr)
	}
}

func (v *Visitor) visitExprs(exprs []Expr) {
	for i := range exprs {
		v.VisitExpr(&exprs[i])
	}
}
