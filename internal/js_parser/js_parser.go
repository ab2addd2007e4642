package js_parser

// This front end turns a tree-sitter concrete syntax tree into a "js_ast.AST".
// Tree-sitter does the tokenizing and parsing. This code only decides which
// concrete nodes matter and drops the rest (punctuation, comments and type
// annotations). The resulting tree is unbound: scopes, symbols and references
// are filled in later by the semantic builder.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

var ErrSyntax = errors.New("syntax error")

type parser struct {
	log      logger.Log
	source   logger.Source
	contents []byte
	loader   config.Loader

	// The log may be shared with other files so errors are counted here
	errorCount int
}

func languageForLoader(loader config.Loader) *sitter.Language {
	switch loader {
	case config.LoaderTS:
		return typescript.GetLanguage()
	case config.LoaderTSX:
		return tsx.GetLanguage()
	}

	// The JavaScript grammar always accepts JSX
	return javascript.GetLanguage()
}

// Parse converts one source file into a tree. Syntax errors are added to the
// log and reported as "ErrSyntax" so the caller can stop before doing any
// further work on the module.
func Parse(ctx context.Context, log logger.Log, source logger.Source, loader config.Loader) (*js_ast.AST, error) {
	contents := []byte(source.Contents)
	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(languageForLoader(loader))

	tree, err := tsParser.ParseCtx(ctx, nil, contents)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source.PrettyPath, err)
	}
	defer tree.Close()

	p := &parser{
		log:      log,
		source:   source,
		contents: contents,
		loader:   loader,
	}

	root := tree.RootNode()
	if root.HasError() {
		p.reportSyntaxErrors(root)
		return nil, fmt.Errorf("%s: %w", source.PrettyPath, ErrSyntax)
	}

	result := p.parseProgram(root)
	if p.errorCount > 0 {
		return nil, fmt.Errorf("%s: %w", source.PrettyPath, ErrSyntax)
	}
	return result, nil
}

func (p *parser) rangeOf(node *sitter.Node) logger.Range {
	return logger.Range{Loc: logger.Loc{Start: int32(node.StartByte())}, Len: int32(node.EndByte() - node.StartByte())}
}

func (p *parser) text(node *sitter.Node) string {
	return node.Content(p.contents)
}

// Reports every error and missing node. Tree-sitter recovers from errors so
// there may be more than one.
func (p *parser) reportSyntaxErrors(node *sitter.Node) {
	if node.IsMissing() {
		r := p.rangeOf(node)
		p.log.AddError(&p.source, r, fmt.Sprintf("Expected %q", node.Type()))
		return
	}
	if node.Type() == "ERROR" {
		r := p.rangeOf(node)
		text := p.text(node)
		if firstLine := strings.IndexByte(text, '\n'); firstLine != -1 {
			text = text[:firstLine]
		}
		if len(text) > 20 {
			text = text[:20]
		}
		if text == "" {
			p.log.AddError(&p.source, r, "Unexpected end of file")
		} else {
			p.log.AddError(&p.source, r, fmt.Sprintf("Unexpected %q", strings.TrimSpace(text)))
		}
		return
	}
	if !node.HasError() {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		p.reportSyntaxErrors(node.Child(i))
	}
}

func (p *parser) unsupported(node *sitter.Node, what string) {
	p.errorCount++
	p.log.AddID(logger.MsgID_Transform_UnsupportedSyntax, logger.Error, &p.source, p.rangeOf(node),
		fmt.Sprintf("%s is not supported", what))
}

func isComment(node *sitter.Node) bool {
	return node.Type() == "comment" || node.Type() == "html_comment"
}

// Returns the named children that aren't comments
func namedChildren(node *sitter.Node) []*sitter.Node {
	count := int(node.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if child := node.NamedChild(i); !isComment(child) {
			children = append(children, child)
		}
	}
	return children
}

// Returns true if one of the anonymous tokens of the node is "token"
func hasToken(node *sitter.Node, token string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

func (p *parser) parseProgram(root *sitter.Node) *js_ast.AST {
	tree := &js_ast.AST{}
	children := namedChildren(root)
	inPrologue := true

	for _, child := range children {
		if child.Type() == "hash_bang_line" {
			tree.Hashbang = p.text(child)
			tree.HashbangRange = p.rangeOf(child)
			continue
		}

		// Directives like "use strict" only appear before other statements
		if inPrologue {
			if directive, ok := p.directive(child); ok {
				tree.Directives = append(tree.Directives, directive)
				continue
			}
			inPrologue = false
		}

		tree.Stmts = p.appendStmt(tree.Stmts, child)
	}
	return tree
}

func (p *parser) directive(node *sitter.Node) (string, bool) {
	if node.Type() != "expression_statement" {
		return "", false
	}
	children := namedChildren(node)
	if len(children) != 1 || children[0].Type() != "string" {
		return "", false
	}
	text := p.text(children[0])
	return text[1 : len(text)-1], true
}

func (p *parser) parseStmts(nodes []*sitter.Node) []js_ast.Stmt {
	stmts := make([]js_ast.Stmt, 0, len(nodes))
	for _, node := range nodes {
		stmts = p.appendStmt(stmts, node)
	}
	return stmts
}

// Some concrete statements expand to more than one statement (e.g. a
// TypeScript "import x = require()" with an export) or to nothing at all.
func (p *parser) appendStmt(stmts []js_ast.Stmt, node *sitter.Node) []js_ast.Stmt {
	if isComment(node) {
		return stmts
	}
	stmt := p.parseStmt(node)
	if stmt.Data == nil {
		return stmts
	}
	return append(stmts, stmt)
}

func (p *parser) parseBlockStmts(node *sitter.Node) []js_ast.Stmt {
	if node == nil {
		return nil
	}
	return p.parseStmts(namedChildren(node))
}

// Returns an "SBlock" for a statement block and otherwise converts the
// statement normally
func (p *parser) parseBody(node *sitter.Node) js_ast.Stmt {
	if node == nil {
		return js_ast.Stmt{Data: &js_ast.SEmpty{}}
	}
	stmt := p.parseStmt(node)
	if stmt.Data == nil {
		stmt = js_ast.Stmt{Range: p.rangeOf(node), Data: &js_ast.SEmpty{}}
	}
	return stmt
}

func (p *parser) parseStmt(node *sitter.Node) js_ast.Stmt {
	r := p.rangeOf(node)

	switch node.Type() {
	case "expression_statement":
		children := namedChildren(node)
		if len(children) == 0 {
			return js_ast.Stmt{Range: r, Data: &js_ast.SEmpty{}}
		}
		if children[0].Type() == "internal_module" {
			return p.parseNamespace(children[0], r, false)
		}
		return js_ast.Stmt{Range: r, Data: &js_ast.SExpr{Value: p.parseExprOrSequence(children)}}

	case "empty_statement":
		return js_ast.Stmt{Range: r, Data: &js_ast.SEmpty{}}

	case "debugger_statement":
		return js_ast.Stmt{Range: r, Data: &js_ast.SDebugger{}}

	case "statement_block":
		return js_ast.Stmt{Range: r, Data: &js_ast.SBlock{Stmts: p.parseBlockStmts(node)}}

	case "variable_declaration", "lexical_declaration":
		return js_ast.Stmt{Range: r, Data: p.parseLocal(node, false)}

	case "function_declaration", "generator_function_declaration":
		return js_ast.Stmt{Range: r, Data: &js_ast.SFunction{Fn: p.parseFn(node)}}

	case "function_signature":
		// An overload without a body
		return js_ast.Stmt{Range: r, Data: &js_ast.STypeScript{}}

	case "class_declaration", "abstract_class_declaration":
		return js_ast.Stmt{Range: r, Data: &js_ast.SClass{Class: p.parseClass(node)}}

	case "import_statement":
		return p.parseImport(node, r)

	case "export_statement":
		return p.parseExport(node, r)

	case "if_statement":
		s := &js_ast.SIf{
			Test: p.parseParenthesizedCondition(node.ChildByFieldName("condition")),
			Yes:  p.parseBody(node.ChildByFieldName("consequence")),
		}
		if alternative := node.ChildByFieldName("alternative"); alternative != nil {
			// The "else" clause wraps the statement
			if alternative.Type() == "else_clause" {
				if children := namedChildren(alternative); len(children) > 0 {
					s.NoOrNil = p.parseBody(children[0])
				}
			} else {
				s.NoOrNil = p.parseBody(alternative)
			}
		}
		return js_ast.Stmt{Range: r, Data: s}

	case "for_statement":
		s := &js_ast.SFor{Body: p.parseBody(node.ChildByFieldName("body"))}
		if init := node.ChildByFieldName("initializer"); init != nil && init.Type() != "empty_statement" {
			s.InitOrNil = p.parseStmt(init)
		}
		if test := node.ChildByFieldName("condition"); test != nil && test.Type() != "empty_statement" {
			if test.Type() == "expression_statement" {
				if children := namedChildren(test); len(children) > 0 {
					s.TestOrNil = p.parseExprOrSequence(children)
				}
			} else {
				s.TestOrNil = p.parseExpr(test)
			}
		}
		if update := node.ChildByFieldName("increment"); update != nil {
			s.UpdateOrNil = p.parseExpr(update)
		}
		return js_ast.Stmt{Range: r, Data: s}

	case "for_in_statement":
		return p.parseForIn(node, r)

	case "while_statement":
		return js_ast.Stmt{Range: r, Data: &js_ast.SWhile{
			Test: p.parseParenthesizedCondition(node.ChildByFieldName("condition")),
			Body: p.parseBody(node.ChildByFieldName("body")),
		}}

	case "do_statement":
		return js_ast.Stmt{Range: r, Data: &js_ast.SDoWhile{
			Body: p.parseBody(node.ChildByFieldName("body")),
			Test: p.parseParenthesizedCondition(node.ChildByFieldName("condition")),
		}}

	case "with_statement":
		return js_ast.Stmt{Range: r, Data: &js_ast.SWith{
			Value: p.parseParenthesizedCondition(node.ChildByFieldName("object")),
			Body:  p.parseBody(node.ChildByFieldName("body")),
		}}

	case "try_statement":
		s := &js_ast.STry{Block: js_ast.SBlock{Stmts: p.parseBlockStmts(node.ChildByFieldName("body"))}}
		if handler := node.ChildByFieldName("handler"); handler != nil {
			c := &js_ast.Catch{
				Range: p.rangeOf(handler),
				Block: js_ast.SBlock{Stmts: p.parseBlockStmts(handler.ChildByFieldName("body"))},
			}
			if param := handler.ChildByFieldName("parameter"); param != nil {
				c.BindingOrNil = p.parseBinding(param)
			}
			s.Catch = c
		}
		if finalizer := node.ChildByFieldName("finalizer"); finalizer != nil {
			s.Finally = &js_ast.Finally{
				Range: p.rangeOf(finalizer),
				Block: js_ast.SBlock{Stmts: p.parseBlockStmts(finalizer.ChildByFieldName("body"))},
			}
		}
		return js_ast.Stmt{Range: r, Data: s}

	case "switch_statement":
		s := &js_ast.SSwitch{Test: p.parseParenthesizedCondition(node.ChildByFieldName("value"))}
		if body := node.ChildByFieldName("body"); body != nil {
			for _, child := range namedChildren(body) {
				var c js_ast.Case
				value := child.ChildByFieldName("value")
				if child.Type() == "switch_case" && value != nil {
					c.ValueOrNil = p.parseExpr(value)
				}
				for _, stmt := range namedChildren(child) {
					if value != nil && stmt.StartByte() == value.StartByte() && stmt.EndByte() == value.EndByte() {
						continue
					}
					c.Body = p.appendStmt(c.Body, stmt)
				}
				s.Cases = append(s.Cases, c)
			}
		}
		return js_ast.Stmt{Range: r, Data: s}

	case "return_statement":
		s := &js_ast.SReturn{}
		if children := namedChildren(node); len(children) > 0 {
			s.ValueOrNil = p.parseExprOrSequence(children)
		}
		return js_ast.Stmt{Range: r, Data: s}

	case "throw_statement":
		return js_ast.Stmt{Range: r, Data: &js_ast.SThrow{Value: p.parseExprOrSequence(namedChildren(node))}}

	case "break_statement":
		s := &js_ast.SBreak{}
		if label := node.ChildByFieldName("label"); label != nil {
			name := p.text(label)
			s.Label = &name
		}
		return js_ast.Stmt{Range: r, Data: s}

	case "continue_statement":
		s := &js_ast.SContinue{}
		if label := node.ChildByFieldName("label"); label != nil {
			name := p.text(label)
			s.Label = &name
		}
		return js_ast.Stmt{Range: r, Data: s}

	case "labeled_statement":
		return js_ast.Stmt{Range: r, Data: &js_ast.SLabel{
			Name: p.text(node.ChildByFieldName("label")),
			Stmt: p.parseBody(node.ChildByFieldName("body")),
		}}

	// TypeScript declarations that only exist in the type system
	case "interface_declaration", "type_alias_declaration", "ambient_declaration", "index_signature":
		return js_ast.Stmt{Range: r, Data: &js_ast.STypeScript{}}

	case "enum_declaration":
		return js_ast.Stmt{Range: r, Data: p.parseEnum(node, false)}

	case "module", "internal_module":
		return p.parseNamespace(node, r, false)

	case "import_alias":
		// "import A = B.C" is an alias of a namespace member
		p.unsupported(node, "TypeScript import aliases")
		return js_ast.Stmt{}
	}

	p.unsupported(node, fmt.Sprintf("Statement %q", node.Type()))
	return js_ast.Stmt{}
}

func (p *parser) parseParenthesizedCondition(node *sitter.Node) js_ast.Expr {
	if node == nil {
		return js_ast.Expr{Data: &js_ast.EMissing{}}
	}
	if node.Type() == "parenthesized_expression" {
		return p.parseExprOrSequence(namedChildren(node))
	}
	return p.parseExpr(node)
}

func (p *parser) parseLocal(node *sitter.Node, isExport bool) *js_ast.SLocal {
	s := &js_ast.SLocal{Kind: js_ast.LocalVar, IsExport: isExport}
	if node.Type() == "lexical_declaration" {
		kind := node.ChildByFieldName("kind")
		if kind != nil && p.text(kind) == "const" {
			s.Kind = js_ast.LocalConst
		} else if hasToken(node, "const") {
			s.Kind = js_ast.LocalConst
		} else {
			s.Kind = js_ast.LocalLet
		}
	}

	for _, child := range namedChildren(node) {
		if child.Type() != "variable_declarator" {
			continue
		}
		decl := js_ast.Decl{Binding: p.parseBinding(child.ChildByFieldName("name"))}
		if value := child.ChildByFieldName("value"); value != nil {
			decl.ValueOrNil = p.parseExpr(value)
		}
		s.Decls = append(s.Decls, decl)
	}
	return s
}

func (p *parser) parseForIn(node *sitter.Node, r logger.Range) js_ast.Stmt {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	body := p.parseBody(node.ChildByFieldName("body"))

	// "for (const x of y)" declares "x" and "for (x of y)" assigns to it
	var init js_ast.Stmt
	if kind := node.ChildByFieldName("kind"); kind != nil {
		local := &js_ast.SLocal{Kind: js_ast.LocalVar}
		switch p.text(kind) {
		case "let":
			local.Kind = js_ast.LocalLet
		case "const":
			local.Kind = js_ast.LocalConst
		}
		decl := js_ast.Decl{Binding: p.parseBinding(left)}
		if value := node.ChildByFieldName("value"); value != nil {
			decl.ValueOrNil = p.parseExpr(value)
		}
		local.Decls = []js_ast.Decl{decl}
		init = js_ast.Stmt{Range: p.rangeOf(left), Data: local}
	} else if left != nil && (left.Type() == "lexical_declaration" || left.Type() == "variable_declaration") {
		init = js_ast.Stmt{Range: p.rangeOf(left), Data: p.parseLocal(left, false)}
	} else if left != nil {
		init = js_ast.Stmt{Range: p.rangeOf(left), Data: &js_ast.SExpr{Value: p.parseAssignTarget(left)}}
	}

	isOf := false
	if operator := node.ChildByFieldName("operator"); operator != nil {
		isOf = p.text(operator) == "of"
	} else {
		isOf = hasToken(node, "of")
	}

	if isOf {
		return js_ast.Stmt{Range: r, Data: &js_ast.SForOf{
			Init:    init,
			Value:   p.parseExpr(right),
			Body:    body,
			IsAwait: hasToken(node, "await"),
		}}
	}
	return js_ast.Stmt{Range: r, Data: &js_ast.SForIn{
		Init:  init,
		Value: p.parseExprOrSequence([]*sitter.Node{right}),
		Body:  body,
	}}
}

func (p *parser) parseEnum(node *sitter.Node, isExport bool) *js_ast.SEnum {
	name := node.ChildByFieldName("name")
	s := &js_ast.SEnum{
		Name:     js_ast.LocRef{Range: p.rangeOf(name), Name: p.text(name), Ref: js_ast.InvalidRef},
		IsExport: isExport,
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, member := range namedChildren(body) {
			value := js_ast.EnumValue{}
			nameNode := member
			if member.Type() == "enum_assignment" {
				nameNode = member.ChildByFieldName("name")
				value.ValueOrNil = p.parseExpr(member.ChildByFieldName("value"))
			}
			value.NameRange = p.rangeOf(nameNode)
			if nameNode.Type() == "string" {
				value.Name = p.stringValue(nameNode)
			} else {
				value.Name = p.text(nameNode)
			}
			s.Values = append(s.Values, value)
		}
	}
	return s
}

func (p *parser) parseNamespace(node *sitter.Node, r logger.Range, isExport bool) js_ast.Stmt {
	name := node.ChildByFieldName("name")
	if name == nil || name.Type() == "string" {
		// "declare module 'foo' {}" only exists in the type system
		return js_ast.Stmt{Range: r, Data: &js_ast.STypeScript{}}
	}
	return js_ast.Stmt{Range: r, Data: &js_ast.SNamespace{
		Name:     js_ast.LocRef{Range: p.rangeOf(name), Name: p.text(name), Ref: js_ast.InvalidRef},
		IsExport: isExport,
	}}
}

func (p *parser) parsePath(node *sitter.Node) (string, logger.Range) {
	return p.stringValue(node), p.rangeOf(node)
}

func (p *parser) locRef(node *sitter.Node) *js_ast.LocRef {
	return &js_ast.LocRef{Range: p.rangeOf(node), Name: p.moduleExportName(node), Ref: js_ast.InvalidRef}
}

// Import and export names may be string literals: "import { 'a b' as c }"
func (p *parser) moduleExportName(node *sitter.Node) string {
	if node.Type() == "string" {
		return p.stringValue(node)
	}
	return p.text(node)
}

func (p *parser) parseImport(node *sitter.Node, r logger.Range) js_ast.Stmt {
	// "import x = require('y')" is TypeScript's form of a CommonJS import
	for _, child := range namedChildren(node) {
		if child.Type() == "import_require_clause" {
			return p.parseImportRequire(child, r, false)
		}
	}

	source := node.ChildByFieldName("source")
	if source == nil {
		p.unsupported(node, "This import statement")
		return js_ast.Stmt{}
	}
	path, pathRange := p.parsePath(source)
	s := &js_ast.SImport{
		Path:       path,
		PathRange:  pathRange,
		IsTypeOnly: hasToken(node, "type") || hasToken(node, "typeof"),
	}

	for _, child := range namedChildren(node) {
		if child.Type() != "import_clause" {
			continue
		}
		for _, part := range namedChildren(child) {
			switch part.Type() {
			case "identifier":
				s.DefaultName = p.locRef(part)

			case "namespace_import":
				if names := namedChildren(part); len(names) > 0 {
					s.StarNameOrNil = p.locRef(names[len(names)-1])
				}

			case "named_imports":
				items := []js_ast.ClauseItem{}
				for _, specifier := range namedChildren(part) {
					if specifier.Type() != "import_specifier" {
						continue
					}
					name := specifier.ChildByFieldName("name")
					local := name
					if alias := specifier.ChildByFieldName("alias"); alias != nil {
						local = alias
					}
					items = append(items, js_ast.ClauseItem{
						Alias:      p.moduleExportName(name),
						AliasRange: p.rangeOf(name),
						Name:       *p.locRef(local),
						IsTypeOnly: hasToken(specifier, "type") || hasToken(specifier, "typeof"),
					})
				}
				s.Items = &items
			}
		}
	}
	return js_ast.Stmt{Range: r, Data: s}
}

// Converts "import x = require('y')" to "const x = require('y')"
func (p *parser) parseImportRequire(node *sitter.Node, r logger.Range, isExport bool) js_ast.Stmt {
	children := namedChildren(node)
	var name, source *sitter.Node
	for _, child := range children {
		switch child.Type() {
		case "identifier":
			name = child
		case "string":
			source = child
		}
	}
	if name == nil || source == nil {
		p.unsupported(node, "This import statement")
		return js_ast.Stmt{}
	}
	requireRange := logger.Range{Loc: logger.Loc{Start: int32(source.StartByte()) - int32(len("require("))}, Len: int32(len("require"))}
	call := js_ast.Expr{
		Range: logger.RangeBetween(requireRange.Loc, int32(source.EndByte())+1),
		Data: &js_ast.ECall{
			Target: js_ast.Expr{Range: requireRange, Data: &js_ast.EIdentifier{Name: "require", ReferenceID: js_ast.InvalidReferenceID}},
			Args:   []js_ast.Expr{{Range: p.rangeOf(source), Data: &js_ast.EString{Value: p.stringValue(source)}}},
		},
	}
	return js_ast.Stmt{Range: r, Data: &js_ast.SLocal{
		Kind:     js_ast.LocalConst,
		IsExport: isExport,
		Decls: []js_ast.Decl{{
			Binding:    js_ast.Binding{Range: p.rangeOf(name), Data: &js_ast.BIdentifier{Name: p.text(name), Ref: js_ast.InvalidRef}},
			ValueOrNil: call,
		}},
	}}
}

func (p *parser) parseExport(node *sitter.Node, r logger.Range) js_ast.Stmt {
	isTypeOnly := hasToken(node, "type")

	// "export default ..."
	if hasToken(node, "default") {
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			stmt := p.parseStmt(decl)
			return js_ast.Stmt{Range: r, Data: &js_ast.SExportDefault{Value: stmt}}
		}
		value := node.ChildByFieldName("value")
		if value == nil {
			p.unsupported(node, "This export statement")
			return js_ast.Stmt{}
		}

		// Named function and class expressions are declarations here
		switch value.Type() {
		case "function_expression", "function", "generator_function":
			return js_ast.Stmt{Range: r, Data: &js_ast.SExportDefault{Value: js_ast.Stmt{
				Range: p.rangeOf(value),
				Data:  &js_ast.SFunction{Fn: p.parseFn(value)},
			}}}
		case "class":
			return js_ast.Stmt{Range: r, Data: &js_ast.SExportDefault{Value: js_ast.Stmt{
				Range: p.rangeOf(value),
				Data:  &js_ast.SClass{Class: p.parseClass(value)},
			}}}
		}
		expr := p.parseExpr(value)
		return js_ast.Stmt{Range: r, Data: &js_ast.SExportDefault{Value: js_ast.Stmt{Range: expr.Range, Data: &js_ast.SExpr{Value: expr}}}}
	}

	// "export const x = 1"
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		switch decl.Type() {
		case "variable_declaration", "lexical_declaration":
			return js_ast.Stmt{Range: r, Data: p.parseLocal(decl, true)}
		case "function_declaration", "generator_function_declaration":
			return js_ast.Stmt{Range: r, Data: &js_ast.SFunction{Fn: p.parseFn(decl), IsExport: true}}
		case "class_declaration", "abstract_class_declaration":
			return js_ast.Stmt{Range: r, Data: &js_ast.SClass{Class: p.parseClass(decl), IsExport: true}}
		case "enum_declaration":
			return js_ast.Stmt{Range: r, Data: p.parseEnum(decl, true)}
		case "module", "internal_module":
			return p.parseNamespace(decl, r, true)
		case "import_alias":
			p.unsupported(decl, "TypeScript import aliases")
			return js_ast.Stmt{}
		}
		// Interfaces, type aliases, overloads and ambient declarations
		return js_ast.Stmt{Range: r, Data: &js_ast.STypeScript{}}
	}

	var source *sitter.Node
	var clause *sitter.Node
	var namespaceExport *sitter.Node
	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "export_clause":
			clause = child
		case "namespace_export":
			namespaceExport = child
		case "string":
			source = child
		case "import_require_clause":
			return p.parseImportRequire(child, r, true)
		}
	}
	if s := node.ChildByFieldName("source"); s != nil {
		source = s
	}

	// "export = x" and "export as namespace x" have no ESM equivalent
	if clause == nil && source == nil && namespaceExport == nil {
		if hasToken(node, "=") {
			p.unsupported(node, `"export =" syntax`)
			return js_ast.Stmt{}
		}
		return js_ast.Stmt{Range: r, Data: &js_ast.STypeScript{}}
	}

	// "export * from 'path'" and "export * as ns from 'path'"
	if clause == nil {
		path, pathRange := p.parsePath(source)
		s := &js_ast.SExportStar{Path: path, PathRange: pathRange}
		if namespaceExport != nil {
			if names := namedChildren(namespaceExport); len(names) > 0 {
				name := names[len(names)-1]
				s.AliasOrNil = &js_ast.ExportStarAlias{Range: p.rangeOf(name), Name: p.moduleExportName(name)}
			}
		}
		return js_ast.Stmt{Range: r, Data: s}
	}

	// "export { a, b as c } from 'path'"
	if source != nil {
		path, pathRange := p.parsePath(source)
		s := &js_ast.SExportFrom{Path: path, PathRange: pathRange}
		for _, specifier := range namedChildren(clause) {
			if specifier.Type() != "export_specifier" {
				continue
			}
			name := specifier.ChildByFieldName("name")
			alias := name
			if a := specifier.ChildByFieldName("alias"); a != nil {
				alias = a
			}
			s.Items = append(s.Items, js_ast.ExportFromItem{
				Name:       p.moduleExportName(name),
				Alias:      p.moduleExportName(alias),
				AliasRange: p.rangeOf(alias),
				IsTypeOnly: isTypeOnly || hasToken(specifier, "type"),
			})
		}
		return js_ast.Stmt{Range: r, Data: s}
	}

	// "export { a, b as c }"
	s := &js_ast.SExportClause{}
	for _, specifier := range namedChildren(clause) {
		if specifier.Type() != "export_specifier" {
			continue
		}
		name := specifier.ChildByFieldName("name")
		alias := name
		if a := specifier.ChildByFieldName("alias"); a != nil {
			alias = a
		}
		s.Items = append(s.Items, js_ast.ExportItem{
			Alias:      p.moduleExportName(alias),
			AliasRange: p.rangeOf(alias),
			Local: js_ast.Expr{Range: p.rangeOf(name), Data: &js_ast.EIdentifier{
				Name:        p.text(name),
				ReferenceID: js_ast.InvalidReferenceID,
			}},
			IsTypeOnly: isTypeOnly || hasToken(specifier, "type"),
		})
	}
	return js_ast.Stmt{Range: r, Data: s}
}
