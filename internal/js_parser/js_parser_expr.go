package js_parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

func (p *parser) parseExprOrSequence(nodes []*sitter.Node) js_ast.Expr {
	if len(nodes) == 1 {
		return p.parseExpr(nodes[0])
	}
	first := nodes[0]
	last := nodes[len(nodes)-1]
	exprs := make([]js_ast.Expr, 0, len(nodes))
	for _, node := range nodes {
		exprs = append(exprs, p.parseExpr(node))
	}
	return js_ast.Expr{
		Range: logger.RangeBetween(logger.Loc{Start: int32(first.StartByte())}, int32(last.EndByte())),
		Data:  &js_ast.ESequence{Exprs: exprs},
	}
}

// Older grammars nest "a, b, c" as "a, (b, c)"
func (p *parser) flattenSequence(node *sitter.Node, exprs []js_ast.Expr) []js_ast.Expr {
	for _, child := range namedChildren(node) {
		if child.Type() == "sequence_expression" {
			exprs = p.flattenSequence(child, exprs)
		} else {
			exprs = append(exprs, p.parseExpr(child))
		}
	}
	return exprs
}

func hasOptionalChain(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if t := node.Child(i).Type(); t == "?." || t == "optional_chain" {
			return true
		}
	}
	return false
}

// Returns true if a "@__PURE__" or "#__PURE__" comment comes right before
// the node. A comment before "/* @__PURE__ */ foo()" at the start of a
// statement is a sibling of the enclosing statement instead of the call.
func (p *parser) hasPureComment(node *sitter.Node) bool {
	for {
		for prev := node.PrevSibling(); prev != nil && isComment(prev); prev = prev.PrevSibling() {
			text := p.text(prev)
			if strings.Contains(text, "@__PURE__") || strings.Contains(text, "#__PURE__") {
				return true
			}
		}

		parent := node.Parent()
		if parent == nil || parent.StartByte() != node.StartByte() {
			return false
		}
		switch parent.Type() {
		case "expression_statement", "parenthesized_expression", "sequence_expression":
			node = parent
		default:
			return false
		}
	}
}

func (p *parser) parseArgs(node *sitter.Node) []js_ast.Expr {
	if node == nil {
		return nil
	}
	children := namedChildren(node)
	args := make([]js_ast.Expr, 0, len(children))
	for _, child := range children {
		args = append(args, p.parseExpr(child))
	}
	return args
}

// Array literals and patterns may contain holes: "[a, , b]"
func (p *parser) parseArrayItems(node *sitter.Node, item func(*sitter.Node) js_ast.Expr) []js_ast.Expr {
	items := []js_ast.Expr{}
	expectingItem := true
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if isComment(child) {
			continue
		}
		if child.Type() == "," {
			if expectingItem {
				items = append(items, js_ast.Expr{Range: logger.Range{Loc: logger.Loc{Start: int32(child.StartByte())}}, Data: &js_ast.EMissing{}})
			}
			expectingItem = true
			continue
		}
		if child.IsNamed() {
			items = append(items, item(child))
			expectingItem = false
		}
	}
	return items
}

func (p *parser) parseExpr(node *sitter.Node) js_ast.Expr {
	r := p.rangeOf(node)

	switch node.Type() {
	case "identifier", "shorthand_property_identifier", "undefined":
		return js_ast.Expr{Range: r, Data: &js_ast.EIdentifier{Name: p.text(node), ReferenceID: js_ast.InvalidReferenceID}}

	case "this":
		return js_ast.Expr{Range: r, Data: &js_ast.EThis{}}

	case "super":
		return js_ast.Expr{Range: r, Data: &js_ast.ESuper{}}

	case "true":
		return js_ast.Expr{Range: r, Data: &js_ast.EBoolean{Value: true}}

	case "false":
		return js_ast.Expr{Range: r, Data: &js_ast.EBoolean{Value: false}}

	case "null":
		return js_ast.Expr{Range: r, Data: &js_ast.ENull{}}

	case "number":
		return p.parseNumber(node)

	case "string":
		return js_ast.Expr{Range: r, Data: &js_ast.EString{Value: p.stringValue(node)}}

	case "regex":
		return js_ast.Expr{Range: r, Data: &js_ast.ERegExp{Value: p.text(node)}}

	case "template_string":
		return js_ast.Expr{Range: r, Data: p.parseTemplate(node, js_ast.Expr{})}

	case "private_property_identifier":
		return js_ast.Expr{Range: r, Data: &js_ast.EPrivateIdentifier{Name: p.text(node)}}

	case "meta_property":
		if strings.HasPrefix(p.text(node), "new") {
			return js_ast.Expr{Range: r, Data: &js_ast.ENewTarget{}}
		}
		return js_ast.Expr{Range: r, Data: &js_ast.EImportMeta{}}

	case "parenthesized_expression":
		children := namedChildren(node)
		if len(children) == 0 {
			break
		}
		return js_ast.Expr{Range: r, Data: &js_ast.EParenthesized{Value: p.parseExprOrSequence(children[:1])}}

	case "sequence_expression":
		return js_ast.Expr{Range: r, Data: &js_ast.ESequence{Exprs: p.flattenSequence(node, nil)}}

	case "array":
		return js_ast.Expr{Range: r, Data: &js_ast.EArray{Items: p.parseArrayItems(node, p.parseExpr)}}

	case "object":
		return js_ast.Expr{Range: r, Data: &js_ast.EObject{Properties: p.parseObjectProperties(node)}}

	case "spread_element":
		return js_ast.Expr{Range: r, Data: &js_ast.ESpread{Value: p.parseExpr(namedChildren(node)[0])}}

	case "function", "function_expression", "generator_function":
		return js_ast.Expr{Range: r, Data: &js_ast.EFunction{Fn: p.parseFn(node)}}

	case "arrow_function":
		return js_ast.Expr{Range: r, Data: p.parseArrow(node)}

	case "class":
		return js_ast.Expr{Range: r, Data: &js_ast.EClass{Class: p.parseClass(node)}}

	case "member_expression":
		property := node.ChildByFieldName("property")
		object := node.ChildByFieldName("object")

		// The grammar has no node for "import.meta"
		if object.Type() == "import" && p.text(property) == "meta" {
			return js_ast.Expr{Range: r, Data: &js_ast.EImportMeta{}}
		}

		target := p.parseExpr(object)
		if property.Type() == "private_property_identifier" {
			return js_ast.Expr{Range: r, Data: &js_ast.EIndex{
				Target:        target,
				Index:         p.parseExpr(property),
				OptionalChain: hasOptionalChain(node),
			}}
		}
		return js_ast.Expr{Range: r, Data: &js_ast.EDot{
			Target:        target,
			Name:          p.text(property),
			NameRange:     p.rangeOf(property),
			OptionalChain: hasOptionalChain(node),
		}}

	case "subscript_expression":
		return js_ast.Expr{Range: r, Data: &js_ast.EIndex{
			Target:        p.parseExpr(node.ChildByFieldName("object")),
			Index:         p.parseExpr(node.ChildByFieldName("index")),
			OptionalChain: hasOptionalChain(node),
		}}

	case "call_expression":
		return p.parseCall(node, r)

	case "new_expression":
		return js_ast.Expr{Range: r, Data: &js_ast.ENew{
			Target:                 p.parseExpr(node.ChildByFieldName("constructor")),
			Args:                   p.parseArgs(node.ChildByFieldName("arguments")),
			CanBeUnwrappedIfUnused: p.hasPureComment(node),
		}}

	case "await_expression":
		return js_ast.Expr{Range: r, Data: &js_ast.EAwait{Value: p.parseExpr(namedChildren(node)[0])}}

	case "yield_expression":
		e := &js_ast.EYield{IsStar: hasToken(node, "*")}
		if children := namedChildren(node); len(children) > 0 {
			e.ValueOrNil = p.parseExpr(children[0])
		}
		return js_ast.Expr{Range: r, Data: e}

	case "unary_expression":
		operator := p.text(node.ChildByFieldName("operator"))
		op, ok := js_ast.PrefixOpCodeFromText(operator)
		if !ok {
			break
		}
		return js_ast.Expr{Range: r, Data: &js_ast.EUnary{Op: op, Value: p.parseExpr(node.ChildByFieldName("argument"))}}

	case "update_expression":
		operator := node.ChildByFieldName("operator")
		isPrefix := operator.StartByte() == node.StartByte()
		var op js_ast.OpCode
		switch {
		case isPrefix && p.text(operator) == "++":
			op = js_ast.UnOpPreInc
		case isPrefix:
			op = js_ast.UnOpPreDec
		case p.text(operator) == "++":
			op = js_ast.UnOpPostInc
		default:
			op = js_ast.UnOpPostDec
		}
		return js_ast.Expr{Range: r, Data: &js_ast.EUnary{Op: op, Value: p.parseAssignTarget(node.ChildByFieldName("argument"))}}

	case "binary_expression":
		op, ok := js_ast.BinaryOpCodeFromText(p.text(node.ChildByFieldName("operator")))
		if !ok {
			break
		}
		return js_ast.Expr{Range: r, Data: &js_ast.EBinary{
			Op:    op,
			Left:  p.parseExpr(node.ChildByFieldName("left")),
			Right: p.parseExpr(node.ChildByFieldName("right")),
		}}

	case "assignment_expression":
		return js_ast.Expr{Range: r, Data: &js_ast.EBinary{
			Op:    js_ast.BinOpAssign,
			Left:  p.parseAssignTarget(node.ChildByFieldName("left")),
			Right: p.parseExpr(node.ChildByFieldName("right")),
		}}

	case "augmented_assignment_expression":
		op, ok := js_ast.BinaryOpCodeFromText(p.text(node.ChildByFieldName("operator")))
		if !ok {
			break
		}
		return js_ast.Expr{Range: r, Data: &js_ast.EBinary{
			Op:    op,
			Left:  p.parseAssignTarget(node.ChildByFieldName("left")),
			Right: p.parseExpr(node.ChildByFieldName("right")),
		}}

	case "ternary_expression":
		return js_ast.Expr{Range: r, Data: &js_ast.EIf{
			Test: p.parseExpr(node.ChildByFieldName("condition")),
			Yes:  p.parseExpr(node.ChildByFieldName("consequence")),
			No:   p.parseExpr(node.ChildByFieldName("alternative")),
		}}

	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return p.parseJSXElement(node)

	// TypeScript wrappers around a value
	case "as_expression", "satisfies_expression", "non_null_expression", "instantiation_expression":
		return js_ast.Expr{Range: r, Data: &js_ast.ETypeAssertion{Value: p.parseExpr(namedChildren(node)[0])}}

	case "type_assertion":
		children := namedChildren(node)
		return js_ast.Expr{Range: r, Data: &js_ast.ETypeAssertion{Value: p.parseExpr(children[len(children)-1])}}
	}

	p.unsupported(node, fmt.Sprintf("Expression %q", node.Type()))
	return js_ast.Expr{Range: r, Data: &js_ast.EMissing{}}
}

func (p *parser) parseCall(node *sitter.Node, r logger.Range) js_ast.Expr {
	function := node.ChildByFieldName("function")
	arguments := node.ChildByFieldName("arguments")

	// "tag`text`"
	if arguments != nil && arguments.Type() == "template_string" {
		return js_ast.Expr{Range: r, Data: p.parseTemplate(arguments, p.parseExpr(function))}
	}

	// "import('path')"
	if function.Type() == "import" {
		args := p.parseArgs(arguments)
		e := &js_ast.EImport{}
		if len(args) > 0 {
			e.Expr = args[0]
		} else {
			e.Expr = js_ast.Expr{Range: r, Data: &js_ast.EMissing{}}
		}
		if len(args) > 1 {
			e.OptionsOrNil = args[1]
		}
		return js_ast.Expr{Range: r, Data: e}
	}

	return js_ast.Expr{Range: r, Data: &js_ast.ECall{
		Target:                 p.parseExpr(function),
		Args:                   p.parseArgs(arguments),
		OptionalChain:          hasOptionalChain(node),
		CanBeUnwrappedIfUnused: p.hasPureComment(node),
	}}
}

func (p *parser) parseTemplate(node *sitter.Node, tag js_ast.Expr) *js_ast.ETemplate {
	e := &js_ast.ETemplate{TagOrNil: tag}
	start := node.StartByte() + 1
	first := true
	var part *js_ast.TemplatePart

	setRaw := func(end uint32) {
		raw := string(p.contents[start:end])
		if first {
			e.HeadRaw = raw
			e.HeadCooked = cookTemplate(raw)
			first = false
		} else {
			part.TailRaw = raw
			part.TailCooked = cookTemplate(raw)
		}
	}

	for _, child := range namedChildren(node) {
		if child.Type() != "template_substitution" {
			continue
		}
		setRaw(child.StartByte())
		e.Parts = append(e.Parts, js_ast.TemplatePart{Value: p.parseExprOrSequence(namedChildren(child))})
		part = &e.Parts[len(e.Parts)-1]
		start = child.EndByte()
	}
	setRaw(node.EndByte() - 1)
	return e
}

func (p *parser) parsePropertyKey(node *sitter.Node) (js_ast.Expr, js_ast.PropertyFlags) {
	r := p.rangeOf(node)
	switch node.Type() {
	case "computed_property_name":
		return p.parseExprOrSequence(namedChildren(node)), js_ast.PropertyIsComputed
	case "string":
		return js_ast.Expr{Range: r, Data: &js_ast.EString{Value: p.stringValue(node)}}, 0
	case "number":
		return p.parseNumber(node), 0
	case "private_property_identifier":
		return js_ast.Expr{Range: r, Data: &js_ast.EPrivateIdentifier{Name: p.text(node)}}, 0
	}
	return js_ast.Expr{Range: r, Data: &js_ast.EString{Value: p.text(node)}}, 0
}

func (p *parser) parseObjectProperties(node *sitter.Node) []js_ast.Property {
	var properties []js_ast.Property
	for _, child := range namedChildren(node) {
		r := p.rangeOf(child)
		switch child.Type() {
		case "pair":
			key, flags := p.parsePropertyKey(child.ChildByFieldName("key"))
			properties = append(properties, js_ast.Property{
				Range:      r,
				Key:        key,
				ValueOrNil: p.parseExpr(child.ChildByFieldName("value")),
				Flags:      flags,
			})

		case "shorthand_property_identifier":
			properties = append(properties, js_ast.Property{
				Range:      r,
				Key:        js_ast.Expr{Range: r, Data: &js_ast.EString{Value: p.text(child)}},
				ValueOrNil: p.parseExpr(child),
				Flags:      js_ast.PropertyWasShorthand,
			})

		case "spread_element":
			properties = append(properties, js_ast.Property{
				Range:      r,
				Kind:       js_ast.PropertySpread,
				ValueOrNil: p.parseExpr(namedChildren(child)[0]),
			})

		case "method_definition":
			properties = append(properties, p.parseMethod(child))

		default:
			p.unsupported(child, fmt.Sprintf("Object member %q", child.Type()))
		}
	}
	return properties
}

func (p *parser) parseMethod(node *sitter.Node) js_ast.Property {
	key, flags := p.parsePropertyKey(node.ChildByFieldName("name"))
	property := js_ast.Property{
		Range: p.rangeOf(node),
		Key:   key,
		Flags: flags | js_ast.PropertyIsMethod,
	}
	if hasToken(node, "static") {
		property.Flags |= js_ast.PropertyIsStatic
	}
	if hasToken(node, "get") {
		property.Kind = js_ast.PropertyGet
	} else if hasToken(node, "set") {
		property.Kind = js_ast.PropertySet
	}

	fn := js_ast.Fn{
		IsAsync:     hasToken(node, "async"),
		IsGenerator: hasToken(node, "*"),
	}
	fn.Args, fn.HasRestArg = p.parseParams(node.ChildByFieldName("parameters"))
	if body := node.ChildByFieldName("body"); body != nil {
		fn.Body = js_ast.FnBody{Range: p.rangeOf(body), Stmts: p.parseBlockStmts(body)}
	}
	property.ValueOrNil = js_ast.Expr{Range: property.Range, Data: &js_ast.EFunction{Fn: fn}}
	return property
}

func (p *parser) parseFn(node *sitter.Node) js_ast.Fn {
	fn := js_ast.Fn{
		IsAsync:     hasToken(node, "async"),
		IsGenerator: hasToken(node, "*"),
	}
	if name := node.ChildByFieldName("name"); name != nil {
		fn.Name = &js_ast.LocRef{Range: p.rangeOf(name), Name: p.text(name), Ref: js_ast.InvalidRef}
	}
	fn.Args, fn.HasRestArg = p.parseParams(node.ChildByFieldName("parameters"))
	if body := node.ChildByFieldName("body"); body != nil {
		fn.Body = js_ast.FnBody{Range: p.rangeOf(body), Stmts: p.parseBlockStmts(body)}
	}
	return fn
}

func (p *parser) parseArrow(node *sitter.Node) *js_ast.EArrow {
	e := &js_ast.EArrow{IsAsync: hasToken(node, "async")}
	if param := node.ChildByFieldName("parameter"); param != nil {
		e.Args = []js_ast.Arg{{Binding: p.parseBinding(param)}}
	} else {
		e.Args, e.HasRestArg = p.parseParams(node.ChildByFieldName("parameters"))
	}

	body := node.ChildByFieldName("body")
	r := p.rangeOf(body)
	if body.Type() == "statement_block" {
		e.Body = js_ast.FnBody{Range: r, Stmts: p.parseBlockStmts(body)}
	} else {
		value := p.parseExpr(body)
		e.Body = js_ast.FnBody{Range: r, Stmts: []js_ast.Stmt{{Range: r, Data: &js_ast.SReturn{ValueOrNil: value}}}}
		e.PreferExpr = true
	}
	return e
}

func (p *parser) parseParams(node *sitter.Node) (args []js_ast.Arg, hasRest bool) {
	if node == nil {
		return nil, false
	}
	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "required_parameter", "optional_parameter":
			// TypeScript parameters wrap the pattern with a type annotation
			for _, modifier := range namedChildren(child) {
				if modifier.Type() == "accessibility_modifier" || modifier.Type() == "override_modifier" {
					p.unsupported(child, "TypeScript parameter properties")
				}
			}
			if hasToken(child, "readonly") {
				p.unsupported(child, "TypeScript parameter properties")
			}
			pattern := child.ChildByFieldName("pattern")
			if pattern == nil || pattern.Type() == "this" {
				continue
			}
			arg := js_ast.Arg{}
			if pattern.Type() == "rest_pattern" {
				hasRest = true
				arg.Binding = p.parseBinding(namedChildren(pattern)[0])
			} else {
				arg.Binding = p.parseBinding(pattern)
			}
			if value := child.ChildByFieldName("value"); value != nil {
				arg.DefaultOrNil = p.parseExpr(value)
			}
			args = append(args, arg)

		case "assignment_pattern":
			args = append(args, js_ast.Arg{
				Binding:      p.parseBinding(child.ChildByFieldName("left")),
				DefaultOrNil: p.parseExpr(child.ChildByFieldName("right")),
			})

		case "rest_pattern":
			hasRest = true
			args = append(args, js_ast.Arg{Binding: p.parseBinding(namedChildren(child)[0])})

		case "decorator":
			p.unsupported(child, "Decorators")

		default:
			args = append(args, js_ast.Arg{Binding: p.parseBinding(child)})
		}
	}
	return
}

func (p *parser) parseClass(node *sitter.Node) js_ast.Class {
	class := js_ast.Class{}
	if name := node.ChildByFieldName("name"); name != nil {
		class.Name = &js_ast.LocRef{Range: p.rangeOf(name), Name: p.text(name), Ref: js_ast.InvalidRef}
	}

	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "class_heritage":
			for _, clause := range namedChildren(child) {
				if clause.Type() == "implements_clause" {
					continue
				}
				if clause.Type() == "extends_clause" {
					if value := clause.ChildByFieldName("value"); value != nil {
						clause = value
					} else {
						clause = namedChildren(clause)[0]
					}
				}
				class.ExtendsOrNil = p.parseExpr(clause)
				break
			}
		case "decorator":
			p.unsupported(child, "Decorators")
		}
	}

	body := node.ChildByFieldName("body")
	class.BodyRange = p.rangeOf(body)
	for _, member := range namedChildren(body) {
		r := p.rangeOf(member)
		switch member.Type() {
		case "method_definition":
			if member.ChildByFieldName("body") == nil {
				continue
			}
			class.Properties = append(class.Properties, p.parseMethod(member))

		case "field_definition", "public_field_definition":
			if hasToken(member, "declare") || hasToken(member, "abstract") {
				continue
			}
			keyNode := member.ChildByFieldName("property")
			if keyNode == nil {
				keyNode = member.ChildByFieldName("name")
			}
			key, flags := p.parsePropertyKey(keyNode)
			property := js_ast.Property{Range: r, Key: key, Flags: flags}
			if hasToken(member, "static") {
				property.Flags |= js_ast.PropertyIsStatic
			}
			if value := member.ChildByFieldName("value"); value != nil {
				property.InitializerOrNil = p.parseExpr(value)
			}
			class.Properties = append(class.Properties, property)

		case "class_static_block":
			block := member.ChildByFieldName("body")
			if block == nil {
				children := namedChildren(member)
				block = children[len(children)-1]
			}
			class.Properties = append(class.Properties, js_ast.Property{
				Range: r,
				Kind:  js_ast.PropertyClassStaticBlock,
				ClassStaticBlock: &js_ast.ClassStaticBlock{
					Range: p.rangeOf(block),
					Stmts: p.parseBlockStmts(block),
				},
			})

		case "decorator":
			p.unsupported(member, "Decorators")

		// Type-only members
		case "method_signature", "abstract_method_signature", "index_signature", "property_signature":
		}
	}
	return class
}

// Converts a declaration pattern
func (p *parser) parseBinding(node *sitter.Node) js_ast.Binding {
	r := p.rangeOf(node)
	switch node.Type() {
	case "identifier", "shorthand_property_identifier_pattern", "undefined":
		return js_ast.Binding{Range: r, Data: &js_ast.BIdentifier{Name: p.text(node), Ref: js_ast.InvalidRef}}

	case "array_pattern":
		b := &js_ast.BArray{}
		expectingItem := true
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if isComment(child) {
				continue
			}
			if child.Type() == "," {
				if expectingItem {
					b.Items = append(b.Items, js_ast.ArrayBinding{Binding: js_ast.Binding{Data: &js_ast.BMissing{}}})
				}
				expectingItem = true
				continue
			}
			if !child.IsNamed() {
				continue
			}
			expectingItem = false
			switch child.Type() {
			case "assignment_pattern":
				b.Items = append(b.Items, js_ast.ArrayBinding{
					Binding:           p.parseBinding(child.ChildByFieldName("left")),
					DefaultValueOrNil: p.parseExpr(child.ChildByFieldName("right")),
				})
			case "rest_pattern":
				b.HasSpread = true
				b.Items = append(b.Items, js_ast.ArrayBinding{Binding: p.parseBinding(namedChildren(child)[0])})
			default:
				b.Items = append(b.Items, js_ast.ArrayBinding{Binding: p.parseBinding(child)})
			}
		}
		return js_ast.Binding{Range: r, Data: b}

	case "object_pattern":
		b := &js_ast.BObject{}
		for _, child := range namedChildren(node) {
			cr := p.rangeOf(child)
			switch child.Type() {
			case "shorthand_property_identifier_pattern":
				b.Properties = append(b.Properties, js_ast.PropertyBinding{
					Key:   js_ast.Expr{Range: cr, Data: &js_ast.EString{Value: p.text(child)}},
					Value: p.parseBinding(child),
				})

			case "object_assignment_pattern":
				left := child.ChildByFieldName("left")
				b.Properties = append(b.Properties, js_ast.PropertyBinding{
					Key:               js_ast.Expr{Range: p.rangeOf(left), Data: &js_ast.EString{Value: p.text(left)}},
					Value:             p.parseBinding(left),
					DefaultValueOrNil: p.parseExpr(child.ChildByFieldName("right")),
				})

			case "pair_pattern":
				key, flags := p.parsePropertyKey(child.ChildByFieldName("key"))
				property := js_ast.PropertyBinding{Key: key, IsComputed: flags.Has(js_ast.PropertyIsComputed)}
				value := child.ChildByFieldName("value")
				if value.Type() == "assignment_pattern" {
					property.Value = p.parseBinding(value.ChildByFieldName("left"))
					property.DefaultValueOrNil = p.parseExpr(value.ChildByFieldName("right"))
				} else {
					property.Value = p.parseBinding(value)
				}
				b.Properties = append(b.Properties, property)

			case "rest_pattern":
				b.Properties = append(b.Properties, js_ast.PropertyBinding{
					Value:    p.parseBinding(namedChildren(child)[0]),
					IsSpread: true,
				})
			}
		}
		return js_ast.Binding{Range: r, Data: b}
	}

	p.unsupported(node, fmt.Sprintf("Binding %q", node.Type()))
	return js_ast.Binding{Range: r, Data: &js_ast.BMissing{}}
}

// Converts the left side of an assignment. Patterns become array and object
// literals so the semantic builder can mark every identifier as written.
func (p *parser) parseAssignTarget(node *sitter.Node) js_ast.Expr {
	r := p.rangeOf(node)
	switch node.Type() {
	case "shorthand_property_identifier_pattern":
		return js_ast.Expr{Range: r, Data: &js_ast.EIdentifier{Name: p.text(node), ReferenceID: js_ast.InvalidReferenceID}}

	case "parenthesized_expression":
		children := namedChildren(node)
		return js_ast.Expr{Range: r, Data: &js_ast.EParenthesized{Value: p.parseAssignTarget(children[0])}}

	case "assignment_pattern":
		return js_ast.Expr{Range: r, Data: &js_ast.EBinary{
			Op:    js_ast.BinOpAssign,
			Left:  p.parseAssignTarget(node.ChildByFieldName("left")),
			Right: p.parseExpr(node.ChildByFieldName("right")),
		}}

	case "rest_pattern":
		return js_ast.Expr{Range: r, Data: &js_ast.ESpread{Value: p.parseAssignTarget(namedChildren(node)[0])}}

	case "array_pattern", "array":
		return js_ast.Expr{Range: r, Data: &js_ast.EArray{Items: p.parseArrayItems(node, p.parseAssignTarget)}}

	case "object_pattern", "object":
		e := &js_ast.EObject{}
		for _, child := range namedChildren(node) {
			cr := p.rangeOf(child)
			switch child.Type() {
			case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
				e.Properties = append(e.Properties, js_ast.Property{
					Range:      cr,
					Key:        js_ast.Expr{Range: cr, Data: &js_ast.EString{Value: p.text(child)}},
					ValueOrNil: p.parseAssignTarget(child),
					Flags:      js_ast.PropertyWasShorthand,
				})

			case "object_assignment_pattern":
				left := child.ChildByFieldName("left")
				e.Properties = append(e.Properties, js_ast.Property{
					Range:            cr,
					Key:              js_ast.Expr{Range: p.rangeOf(left), Data: &js_ast.EString{Value: p.text(left)}},
					ValueOrNil:       p.parseAssignTarget(left),
					InitializerOrNil: p.parseExpr(child.ChildByFieldName("right")),
					Flags:            js_ast.PropertyWasShorthand,
				})

			case "pair_pattern", "pair":
				key, flags := p.parsePropertyKey(child.ChildByFieldName("key"))
				property := js_ast.Property{Range: cr, Key: key, Flags: flags}
				value := child.ChildByFieldName("value")
				if value.Type() == "assignment_pattern" {
					property.ValueOrNil = p.parseAssignTarget(value.ChildByFieldName("left"))
					property.InitializerOrNil = p.parseExpr(value.ChildByFieldName("right"))
				} else {
					property.ValueOrNil = p.parseAssignTarget(value)
				}
				e.Properties = append(e.Properties, property)

			case "rest_pattern", "spread_element":
				e.Properties = append(e.Properties, js_ast.Property{
					Range:      cr,
					Kind:       js_ast.PropertySpread,
					ValueOrNil: p.parseAssignTarget(namedChildren(child)[0]),
				})
			}
		}
		return js_ast.Expr{Range: r, Data: e}
	}
	return p.parseExpr(node)
}
