package js_parser

import (
	"html"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

func (p *parser) parseJSXElement(node *sitter.Node) js_ast.Expr {
	r := p.rangeOf(node)
	e := &js_ast.EJSXElement{}

	var opening *sitter.Node
	switch node.Type() {
	case "jsx_self_closing_element":
		opening = node
	case "jsx_element":
		opening = node.ChildByFieldName("open_tag")
		if opening == nil {
			opening = node.NamedChild(0)
		}
	}

	if opening != nil {
		if name := opening.ChildByFieldName("name"); name != nil {
			e.TagOrNil = p.parseJSXTag(name)
		}
		for _, child := range namedChildren(opening) {
			switch child.Type() {
			case "jsx_attribute":
				e.Properties = append(e.Properties, p.parseJSXAttribute(child))
			case "jsx_expression":
				// "{...props}"
				for _, spread := range namedChildren(child) {
					if spread.Type() == "spread_element" {
						e.Properties = append(e.Properties, js_ast.Property{
							Range:      p.rangeOf(child),
							Kind:       js_ast.PropertySpread,
							ValueOrNil: p.parseExpr(namedChildren(spread)[0]),
						})
					}
				}
			}
		}
	}

	if node.Type() == "jsx_self_closing_element" {
		return js_ast.Expr{Range: r, Data: e}
	}

	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "jsx_opening_element", "jsx_closing_element":
			continue

		case "jsx_text", "html_character_reference":
			if text := fixWhitespaceInJSXText(p.text(child)); text != "" {
				e.Children = append(e.Children, js_ast.Expr{Range: p.rangeOf(child), Data: &js_ast.EJSXText{Value: html.UnescapeString(text)}})
			}

		case "jsx_expression":
			inner := namedChildren(child)
			if len(inner) == 0 {
				continue
			}
			if inner[0].Type() == "spread_element" {
				e.Children = append(e.Children, js_ast.Expr{Range: p.rangeOf(child), Data: &js_ast.ESpread{Value: p.parseExpr(namedChildren(inner[0])[0])}})
			} else {
				e.Children = append(e.Children, p.parseExprOrSequence(inner))
			}

		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			e.Children = append(e.Children, p.parseJSXElement(child))
		}
	}
	return js_ast.Expr{Range: r, Data: e}
}

// Intrinsic elements such as "<div>" are strings and components are
// references
func (p *parser) parseJSXTag(node *sitter.Node) js_ast.Expr {
	r := p.rangeOf(node)
	text := p.text(node)

	switch node.Type() {
	case "identifier":
		if c := text[0]; (c >= 'a' && c <= 'z') || strings.ContainsRune(text, '-') {
			return js_ast.Expr{Range: r, Data: &js_ast.EString{Value: text}}
		}
		return js_ast.Expr{Range: r, Data: &js_ast.EIdentifier{Name: text, ReferenceID: js_ast.InvalidReferenceID}}

	case "member_expression":
		return p.parseExpr(node)

	case "nested_identifier":
		// "<a.b.c>" in older grammars
		parts := strings.Split(text, ".")
		start := r.Loc.Start
		value := js_ast.Expr{
			Range: logger.Range{Loc: r.Loc, Len: int32(len(parts[0]))},
			Data:  &js_ast.EIdentifier{Name: parts[0], ReferenceID: js_ast.InvalidReferenceID},
		}
		offset := start + int32(len(parts[0])) + 1
		for _, part := range parts[1:] {
			nameRange := logger.Range{Loc: logger.Loc{Start: offset}, Len: int32(len(part))}
			value = js_ast.Expr{
				Range: logger.RangeBetween(r.Loc, nameRange.End()),
				Data:  &js_ast.EDot{Target: value, Name: part, NameRange: nameRange},
			}
			offset = nameRange.End() + 1
		}
		return value
	}

	// "<svg:rect>"
	return js_ast.Expr{Range: r, Data: &js_ast.EString{Value: text}}
}

func (p *parser) parseJSXAttribute(node *sitter.Node) js_ast.Property {
	r := p.rangeOf(node)
	children := namedChildren(node)
	name := children[0]
	property := js_ast.Property{
		Range: r,
		Key:   js_ast.Expr{Range: p.rangeOf(name), Data: &js_ast.EString{Value: p.text(name)}},
	}

	if len(children) < 2 {
		// "<input disabled>"
		property.ValueOrNil = js_ast.Expr{Range: r, Data: &js_ast.EBoolean{Value: true}}
		return property
	}

	value := children[1]
	switch value.Type() {
	case "string":
		// Attribute strings don't have escape sequences
		text := p.text(value)
		property.ValueOrNil = js_ast.Expr{Range: p.rangeOf(value), Data: &js_ast.EString{Value: html.UnescapeString(text[1 : len(text)-1])}}
	case "jsx_expression":
		if inner := namedChildren(value); len(inner) > 0 {
			property.ValueOrNil = p.parseExprOrSequence(inner)
		}
	default:
		property.ValueOrNil = p.parseExpr(value)
	}
	return property
}

// Lines are trimmed and whitespace-only lines are dropped. The remaining
// lines are joined with a single space.
func fixWhitespaceInJSXText(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return text
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if i != 0 {
			line = strings.TrimLeft(line, " \t")
		}
		if i != len(lines)-1 {
			line = strings.TrimRight(line, " \t")
		}
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}
