package preprocess

import (
	"fmt"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_semantic"
	"github.com/yuusheng/rolldown/internal/logger"
)

// Lowers TypeScript and JSX syntax to plain JavaScript. The semantic data
// must describe the tree as it was before lowering. Every reference id in the
// tree is stale afterward.
type lowerer struct {
	source   *logger.Source
	semantic *js_semantic.Semantic
	loader   config.Loader
	jsx      config.JSXOptions
	msgs     []logger.Msg

	hasClassicJSX bool

	// Automatic runtime helpers that were used, keyed by export name
	jsxHelpers     map[string]string
	jsxHelperOrder []string
	usedNames      map[string]bool
}

func lowerSyntax(source *logger.Source, tree *js_ast.AST, semantic *js_semantic.Semantic, loader config.Loader, jsx config.JSXOptions) []logger.Msg {
	defaults := config.DefaultJSXOptions()
	if len(jsx.Factory) == 0 {
		jsx.Factory = defaults.Factory
	}
	if len(jsx.Fragment) == 0 {
		jsx.Fragment = defaults.Fragment
	}
	if jsx.ImportSource == "" {
		jsx.ImportSource = defaults.ImportSource
	}

	l := &lowerer{
		source:     source,
		semantic:   semantic,
		loader:     loader,
		jsx:        jsx,
		jsxHelpers: make(map[string]string),
	}

	v := js_ast.Visitor{
		Stmts: l.lowerStmts,
		Expr:  l.lowerExpr,
	}
	tree.Stmts = v.VisitStmts(tree.Stmts)

	// Import elision runs last so it can see whether the JSX factory is used
	if loader.IsTypeScript() {
		tree.Stmts = l.elideImports(tree.Stmts)
	}

	if len(l.jsxHelperOrder) > 0 {
		items := make([]js_ast.ClauseItem, 0, len(l.jsxHelperOrder))
		for _, name := range l.jsxHelperOrder {
			items = append(items, js_ast.ClauseItem{
				Alias: name,
				Name:  js_ast.LocRef{Name: l.jsxHelpers[name], Ref: js_ast.InvalidRef},
			})
		}
		runtime := js_ast.Stmt{Data: &js_ast.SImport{
			Items: &items,
			Path:  l.jsx.ImportSource + "/jsx-runtime",
		}}
		tree.Stmts = append([]js_ast.Stmt{runtime}, tree.Stmts...)
	}

	return l.msgs
}

func (l *lowerer) addError(r logger.Range, text string) {
	l.msgs = append(l.msgs, logger.Msg{
		Kind:     logger.Error,
		Text:     text,
		Location: logger.LocationOrNil(l.source, r),
	})
}

func (l *lowerer) lowerStmts(stmts []js_ast.Stmt) []js_ast.Stmt {
	result := stmts[:0]
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.STypeScript:
			continue

		case *js_ast.SImport:
			if s.IsTypeOnly {
				continue
			}

		case *js_ast.SExportClause:
			if len(s.Items) > 0 {
				items := s.Items[:0]
				for _, item := range s.Items {
					if !item.IsTypeOnly {
						items = append(items, item)
					}
				}
				if len(items) == 0 {
					continue
				}
				s.Items = items
			}

		case *js_ast.SExportFrom:
			if len(s.Items) > 0 {
				items := s.Items[:0]
				for _, item := range s.Items {
					if !item.IsTypeOnly {
						items = append(items, item)
					}
				}
				if len(items) == 0 {
					continue
				}
				s.Items = items
			}

		case *js_ast.SEnum:
			stmt = l.lowerEnum(stmt, s)

		case *js_ast.SNamespace:
			l.addError(stmt.Range, fmt.Sprintf("TypeScript namespace %q is not supported", s.Name.Name))
		}
		result = append(result, stmt)
	}
	return result
}

func (l *lowerer) lowerExpr(expr *js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.ETypeAssertion:
		expr.Data = e.Value.Data

	case *js_ast.EJSXElement:
		if l.jsx.Runtime == config.JSXAutomatic {
			expr.Data = l.lowerJSXAutomatic(e)
		} else {
			expr.Data = l.lowerJSXClassic(e)
		}
	}
}

// TypeScript drops imports that are only used as types. Type positions are
// never parsed into the tree, so an import binding without any reference is
// either unused or only used as a type.
func (l *lowerer) elideImports(stmts []js_ast.Stmt) []js_ast.Stmt {
	result := stmts[:0]
	for _, stmt := range stmts {
		s, ok := stmt.Data.(*js_ast.SImport)
		if !ok {
			result = append(result, stmt)
			continue
		}

		hadBindings := false
		if s.DefaultName != nil {
			hadBindings = true
			if !l.isImportUsed(s.DefaultName) {
				s.DefaultName = nil
			}
		}
		if s.StarNameOrNil != nil {
			hadBindings = true
			if !l.isImportUsed(s.StarNameOrNil) {
				s.StarNameOrNil = nil
			}
		}
		if s.Items != nil {
			items := (*s.Items)[:0]
			for _, item := range *s.Items {
				hadBindings = true
				if !item.IsTypeOnly && l.isImportUsed(&item.Name) {
					items = append(items, item)
				}
			}
			if len(items) == 0 {
				s.Items = nil
			} else {
				*s.Items = items
			}
		}

		// "import 'x'" is kept for its side effects
		if hadBindings && s.DefaultName == nil && s.StarNameOrNil == nil && s.Items == nil {
			continue
		}
		result = append(result, stmt)
	}
	return result
}

func (l *lowerer) isImportUsed(name *js_ast.LocRef) bool {
	if len(l.semantic.ResolvedReferences(name.Ref)) > 0 {
		return true
	}

	// The classic JSX factory is referenced by the lowered code only
	if l.hasClassicJSX {
		if name.Name == l.jsx.Factory[0] || name.Name == l.jsx.Fragment[0] {
			return true
		}
	}
	return false
}

// Enums become a "var" initialized by an arrow function that fills in both
// the forward and the reverse mapping:
//
//	var E = /* @__PURE__ */ ((E) => {
//	  E[E["A"] = 0] = "A";
//	  E["B"] = "b";
//	  return E;
//	})(E || {});
//
// Passing the existing value in merges enums declared more than once.
func (l *lowerer) lowerEnum(stmt js_ast.Stmt, s *js_ast.SEnum) js_ast.Stmt {
	name := s.Name.Name
	ref := func() js_ast.Expr {
		return js_ast.Expr{Data: &js_ast.EIdentifier{Name: name, ReferenceID: js_ast.InvalidReferenceID}}
	}

	members := make(map[string]bool)
	body := make([]js_ast.Stmt, 0, len(s.Values)+1)
	nextIsKnown := true
	nextValue := 0.0
	previous := ""
	previousIsString := false

	for _, value := range s.Values {
		key := js_ast.Expr{Data: &js_ast.EString{Value: value.Name}}
		init := value.ValueOrNil
		isString := false

		if init.Data != nil {
			l.qualifyMemberReferences(&init, name, members)
			switch e := init.Data.(type) {
			case *js_ast.ENumber:
				nextIsKnown, nextValue = true, e.Value+1
			case *js_ast.EString:
				isString = true
				nextIsKnown = false
			default:
				nextIsKnown = false
			}
		} else if nextIsKnown {
			init = js_ast.Expr{Data: &js_ast.ENumber{Value: nextValue}}
			nextValue++
		} else if previous != "" && !previousIsString {
			// "A = f(), B" continues counting from whatever "A" turned out to be
			init = js_ast.Expr{Data: &js_ast.EBinary{
				Op:    js_ast.BinOpAdd,
				Left:  js_ast.Expr{Data: &js_ast.EIndex{Target: ref(), Index: js_ast.Expr{Data: &js_ast.EString{Value: previous}}}},
				Right: js_ast.Expr{Data: &js_ast.ENumber{Value: 1}},
			}}
		} else {
			l.addError(value.NameRange, fmt.Sprintf("Enum member %q must have an initializer", value.Name))
			init = js_ast.Expr{Data: &js_ast.EUndefined{}}
		}

		// "E["A"] = value" and, for non-string values, the reverse mapping
		// "E[E["A"] = value] = "A""
		assign := js_ast.Assign(js_ast.Expr{Data: &js_ast.EIndex{Target: ref(), Index: key}}, init)
		if !isString {
			assign = js_ast.Assign(
				js_ast.Expr{Data: &js_ast.EIndex{Target: ref(), Index: assign}},
				js_ast.Expr{Data: &js_ast.EString{Value: value.Name}},
			)
		}
		body = append(body, js_ast.Stmt{Data: &js_ast.SExpr{Value: assign}})

		members[value.Name] = true
		previous = value.Name
		previousIsString = isString
	}

	body = append(body, js_ast.Stmt{Data: &js_ast.SReturn{ValueOrNil: ref()}})

	arrow := js_ast.Expr{Data: &js_ast.EArrow{
		Args: []js_ast.Arg{{Binding: js_ast.Binding{Data: &js_ast.BIdentifier{Name: name, Ref: js_ast.InvalidRef}}}},
		Body: js_ast.FnBody{Stmts: body},
	}}
	call := js_ast.Expr{Data: &js_ast.ECall{
		Target: js_ast.Expr{Data: &js_ast.EParenthesized{Value: arrow}},
		Args: []js_ast.Expr{{Data: &js_ast.EBinary{
			Op:    js_ast.BinOpLogicalOr,
			Left:  ref(),
			Right: js_ast.Expr{Data: &js_ast.EObject{}},
		}}},
		CanBeUnwrappedIfUnused: true,
	}}

	return js_ast.Stmt{Range: stmt.Range, Data: &js_ast.SLocal{
		Kind:     js_ast.LocalVar,
		IsExport: s.IsExport,
		Decls: []js_ast.Decl{{
			Binding:    js_ast.Binding{Range: s.Name.Range, Data: &js_ast.BIdentifier{Name: name, Ref: js_ast.InvalidRef}},
			ValueOrNil: call,
		}},
	}}
}

// Inside an enum initializer, earlier members can be referenced by their
// bare name. They aren't bindings, so they show up as unresolved references.
func (l *lowerer) qualifyMemberReferences(init *js_ast.Expr, enumName string, members map[string]bool) {
	if len(members) == 0 {
		return
	}
	v := js_ast.Visitor{
		Expr: func(expr *js_ast.Expr) {
			if id, ok := expr.Data.(*js_ast.EIdentifier); ok && members[id.Name] && l.semantic.IsGlobalReference(id) {
				expr.Data = &js_ast.EDot{
					Target: js_ast.Expr{Data: &js_ast.EIdentifier{Name: enumName, ReferenceID: js_ast.InvalidReferenceID}},
					Name:   id.Name,
				}
			}
		},
	}
	v.VisitExpr(init)
}

// "<div a={1}>text</div>" becomes "React.createElement("div", { a: 1 }, "text")"
func (l *lowerer) lowerJSXClassic(e *js_ast.EJSXElement) js_ast.E {
	l.hasClassicJSX = true

	args := make([]js_ast.Expr, 0, 2+len(e.Children))
	if e.TagOrNil.Data != nil {
		args = append(args, e.TagOrNil)
	} else {
		args = append(args, js_ast.DotChainFromParts(l.jsx.Fragment))
	}

	if len(e.Properties) > 0 {
		args = append(args, js_ast.Expr{Data: &js_ast.EObject{Properties: e.Properties}})
	} else {
		args = append(args, js_ast.Expr{Data: &js_ast.ENull{}})
	}

	for _, child := range e.Children {
		args = append(args, jsxChild(child))
	}

	return &js_ast.ECall{
		Target: js_ast.DotChainFromParts(l.jsx.Factory),
		Args:   args,
	}
}

// "<div key={k}>a{b}</div>" becomes "jsxs("div", { children: ["a", b] }, k)"
func (l *lowerer) lowerJSXAutomatic(e *js_ast.EJSXElement) js_ast.E {
	var tag js_ast.Expr
	if e.TagOrNil.Data != nil {
		tag = e.TagOrNil
	} else {
		tag = l.jsxHelper("Fragment")
	}

	properties := make([]js_ast.Property, 0, len(e.Properties)+1)
	var key js_ast.Expr
	for _, property := range e.Properties {
		if str, ok := property.Key.Data.(*js_ast.EString); ok && property.Kind != js_ast.PropertySpread && str.Value == "key" {
			key = property.ValueOrNil
			continue
		}
		properties = append(properties, property)
	}

	helper := "jsx"
	switch len(e.Children) {
	case 0:
	case 1:
		properties = append(properties, jsxChildrenProperty(jsxChild(e.Children[0])))
	default:
		items := make([]js_ast.Expr, 0, len(e.Children))
		for _, child := range e.Children {
			items = append(items, jsxChild(child))
		}
		properties = append(properties, jsxChildrenProperty(js_ast.Expr{Data: &js_ast.EArray{Items: items}}))
		helper = "jsxs"
	}

	args := []js_ast.Expr{tag, {Data: &js_ast.EObject{Properties: properties}}}
	if key.Data != nil {
		args = append(args, key)
	}
	return &js_ast.ECall{Target: l.jsxHelper(helper), Args: args}
}

func jsxChild(child js_ast.Expr) js_ast.Expr {
	if text, ok := child.Data.(*js_ast.EJSXText); ok {
		return js_ast.Expr{Range: child.Range, Data: &js_ast.EString{Value: text.Value}}
	}
	return child
}

func jsxChildrenProperty(value js_ast.Expr) js_ast.Property {
	return js_ast.Property{
		Key:        js_ast.Expr{Data: &js_ast.EString{Value: "children"}},
		ValueOrNil: value,
	}
}

// Returns a reference to the local name of an automatic runtime helper,
// picking a name that doesn't collide with anything in the module
func (l *lowerer) jsxHelper(name string) js_ast.Expr {
	local, ok := l.jsxHelpers[name]
	if !ok {
		if l.usedNames == nil {
			l.usedNames = make(map[string]bool)
			for _, symbol := range l.semantic.Symbols.Symbols {
				l.usedNames[symbol.OriginalName] = true
			}
			for unresolved := range l.semantic.Symbols.RootUnresolvedReferences {
				l.usedNames[unresolved] = true
			}
		}
		local = "_" + name
		for i := 2; l.usedNames[local]; i++ {
			local = fmt.Sprintf("_%s%d", name, i)
		}
		l.usedNames[local] = true
		l.jsxHelpers[name] = local
		l.jsxHelperOrder = append(l.jsxHelperOrder, name)
	}
	return js_ast.Expr{Data: &js_ast.EIdentifier{Name: local, ReferenceID: js_ast.InvalidReferenceID}}
}
