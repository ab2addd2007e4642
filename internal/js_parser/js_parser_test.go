package js_parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_printer"
	"github.com/yuusheng/rolldown/internal/logger"
	"github.com/yuusheng/rolldown/internal/test"
)

func parseForTest(t *testing.T, contents string, loader config.Loader) (*js_ast.AST, string, error) {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelInfo)
	tree, err := Parse(context.Background(), log, test.SourceForTest(contents), loader)
	text := ""
	for _, msg := range log.Done() {
		text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
	}
	return tree, text, err
}

func expectPrintedCommon(t *testing.T, contents string, expected string, loader config.Loader) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		tree, text, err := parseForTest(t, contents, loader)
		test.AssertEqualWithDiff(t, text, "")
		require.NoError(t, err)
		js := js_printer.Print(*tree, js_printer.Options{}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, expected, config.LoaderJS)
}

func expectPrintedTS(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, expected, config.LoaderTS)
}

func expectParseError(t *testing.T, contents string, loader config.Loader, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		_, text, err := parseForTest(t, contents, loader)
		require.ErrorIs(t, err, ErrSyntax)
		assert.Contains(t, text, expected)
	})
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "let x = 1", "let x = 1;\n")
	expectPrinted(t, "var a, b = 2", "var a, b = 2;\n")
	expectPrinted(t, "a, b", "a, b;\n")
	expectPrinted(t, "if (a) b; else c", "if (a)\n  b;\nelse\n  c;\n")
	expectPrinted(t, "for (const a of b) {}", "for (const a of b) {\n}\n")
	expectPrinted(t, "for (var i = 0; i < n; i++) ;", "for (var i = 0; i < n; i++)\n  ;\n")
	expectPrinted(t, "for (k in o) {}", "for (k in o) {\n}\n")
	expectPrinted(t, "while (a) break", "while (a)\n  break;\n")
	expectPrinted(t, "try { a } catch (e) { b } finally { c }", "try {\n  a;\n} catch (e) {\n  b;\n} finally {\n  c;\n}\n")
	expectPrinted(t, "switch (a) { case 1: b; default: c }", "switch (a) {\n  case 1:\n    b;\n  default:\n    c;\n}\n")
	expectPrinted(t, "label: for (;;) continue label", "label:\n  for (;;)\n    continue label;\n")
}

func TestExpressions(t *testing.T) {
	expectPrinted(t, "a = b + c * d", "a = b + c * d;\n")
	expectPrinted(t, "(a + b) * c", "(a + b) * c;\n")
	expectPrinted(t, "x = 0x10 + 1_000 + 10n", "x = 16 + 1000 + 10n;\n")
	expectPrinted(t, "x = 0x10n", "x = 16n;\n")
	expectPrinted(t, `x = "A\n"`, `x = "A\n";`+"\n")
	expectPrinted(t, "tag`a${b}c`", "tag`a${b}c`;\n")
	expectPrinted(t, "a?.b?.(c)", "a?.b?.(c);\n")
	expectPrinted(t, "[a, , b] = c", "[a, , b] = c;\n")
	expectPrinted(t, "f = (a, b = 1) => a + b", "f = (a, b = 1) => a + b;\n")
	expectPrinted(t, "f = x => x", "f = (x) => x;\n")
	expectPrinted(t, "x = new Foo(1)", "x = new Foo(1);\n")
	expectPrinted(t, "x = import('./a')", "x = import(\"./a\");\n")
	expectPrinted(t, "x = import.meta.url", "x = import.meta.url;\n")
	expectPrinted(t, "x = a ? b : c", "x = a ? b : c;\n")
	expectPrinted(t, "x = typeof a", "x = typeof a;\n")
	expectPrinted(t, "x++", "x++;\n")
	expectPrinted(t, "x += 1", "x += 1;\n")
}

func TestPureComment(t *testing.T) {
	expectPrinted(t, "x = /*#__PURE__*/ foo()", "x = /* @__PURE__ */ foo();\n")
	expectPrinted(t, "x = /* @__PURE__ */ new Foo()", "x = /* @__PURE__ */ new Foo();\n")

	tree, _, err := parseForTest(t, "/* @__PURE__ */ foo()", config.LoaderJS)
	require.NoError(t, err)
	call := tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall)
	assert.True(t, call.CanBeUnwrappedIfUnused)

	tree, _, err = parseForTest(t, "/* @__PURE__ */ foo().bar()", config.LoaderJS)
	require.NoError(t, err)
	call = tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall)
	assert.True(t, call.CanBeUnwrappedIfUnused)
	inner := call.Target.Data.(*js_ast.EDot).Target.Data.(*js_ast.ECall)
	assert.False(t, inner.CanBeUnwrappedIfUnused)

	tree, _, err = parseForTest(t, "/* @__PURE__ */ foo(), bar()", config.LoaderJS)
	require.NoError(t, err)
	seq := tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ESequence)
	require.Len(t, seq.Exprs, 2)
	assert.True(t, seq.Exprs[0].Data.(*js_ast.ECall).CanBeUnwrappedIfUnused)
	assert.False(t, seq.Exprs[1].Data.(*js_ast.ECall).CanBeUnwrappedIfUnused)
}

func TestImportMeta(t *testing.T) {
	expectPrinted(t, "export const u = import.meta.url", "export const u = import.meta.url;\n")
	expectPrinted(t, "x = import.meta", "x = import.meta;\n")

	tree, _, err := parseForTest(t, "import.meta.url", config.LoaderJS)
	require.NoError(t, err)
	dot := tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.EDot)
	assert.Equal(t, "url", dot.Name)
	_, ok := dot.Target.Data.(*js_ast.EImportMeta)
	assert.True(t, ok)
	assert.Equal(t, logger.Range{Len: 11}, dot.Target.Range)
}

func TestBindings(t *testing.T) {
	expectPrinted(t, "const {a, b: [c = 1, ...d]} = e", "const { a, b: [c = 1, ...d] } = e;\n")
	expectPrinted(t, "function f(a, {b}, ...c) {}", "function f(a, { b }, ...c) {\n}\n")
}

func TestModuleSyntax(t *testing.T) {
	expectPrinted(t, `import a, { b as c, d } from "x"`, "import a, { b as c, d } from \"x\";\n")
	expectPrinted(t, `import * as ns from "x"`, "import * as ns from \"x\";\n")
	expectPrinted(t, `import "x"`, "import \"x\";\n")
	expectPrinted(t, `export * as ns from 'y'`, "export * as ns from \"y\";\n")
	expectPrinted(t, `export * from 'y'`, "export * from \"y\";\n")
	expectPrinted(t, `export { a as b } from 'y'`, "export { a as b } from \"y\";\n")
	expectPrinted(t, `export { a, b as c }`, "export { a, b as c };\n")
	expectPrinted(t, `export const a = 1`, "export const a = 1;\n")
	expectPrinted(t, `export default function () {}`, "export default function() {\n}\n")
	expectPrinted(t, `export default 1 + 2`, "export default 1 + 2;\n")
}

func TestDirectivesAndHashbang(t *testing.T) {
	expectPrinted(t, "'use strict'; a", "\"use strict\";\na;\n")

	tree, _, err := parseForTest(t, "#!/usr/bin/env node\na", config.LoaderJS)
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env node", tree.Hashbang)
	assert.Len(t, tree.Stmts, 1)
}

func TestClass(t *testing.T) {
	expectPrinted(t, "class A extends B { static x = 1; m() {} static { y } }",
		"class A extends B {\n  static x = 1;\n  m() {\n  }\n  static {\n    y;\n  }\n}\n")
}

func TestRanges(t *testing.T) {
	tree, _, err := parseForTest(t, `import a from "./a"; require("b")`, config.LoaderJS)
	require.NoError(t, err)

	s := tree.Stmts[0].Data.(*js_ast.SImport)
	assert.Equal(t, "./a", s.Path)
	assert.Equal(t, logger.Range{Loc: logger.Loc{Start: 14}, Len: 5}, s.PathRange)
	assert.Equal(t, logger.Range{Loc: logger.Loc{Start: 7}, Len: 1}, s.DefaultName.Range)

	call := tree.Stmts[1].Data.(*js_ast.SExpr).Value
	assert.Equal(t, logger.Range{Loc: logger.Loc{Start: 21}, Len: 12}, call.Range)
}

func TestTypeScript(t *testing.T) {
	expectPrintedTS(t, "let x: number = 1 as any", "let x = 1;\n")
	expectPrintedTS(t, "interface A {} type B = C; declare const d: number", "")
	expectPrintedTS(t, "enum E { A = 1, B }", "enum E { A = 1, B }\n")
	expectPrintedTS(t, `import x = require("y")`, "const x = require(\"y\");\n")
	expectPrintedTS(t, "function f(a?: string, b: number = 1): void {}", "function f(a, b = 1) {\n}\n")
	expectPrintedTS(t, "x = y!", "x = y;\n")

	tree, _, err := parseForTest(t, `import type { T } from "t"`, config.LoaderTS)
	require.NoError(t, err)
	assert.True(t, tree.Stmts[0].Data.(*js_ast.SImport).IsTypeOnly)
}

func TestJSX(t *testing.T) {
	expectPrinted(t, `x = <div className="a">{y}</div>`, "x = <div className=\"a\">{y}</div>;\n")
	expectPrinted(t, `x = <Foo.Bar {...p} disabled />`, "x = <Foo.Bar {...p} disabled />;\n")
	expectPrinted(t, "x = <>\n  text\n  more\n</>", "x = <>text more</>;\n")
}

func TestParseErrors(t *testing.T) {
	expectParseError(t, "let = ;", config.LoaderJS, "error: ")
	expectParseError(t, "class A { constructor(private x) {} }", config.LoaderTS,
		"TypeScript parameter properties is not supported")
	expectParseError(t, "class A { constructor(readonly x) {} }", config.LoaderTS,
		"TypeScript parameter properties is not supported")
	expectParseError(t, "@dec class A {}", config.LoaderTS, "Decorators is not supported")
	expectParseError(t, "class A { @dec m() {} }", config.LoaderTS, "Decorators is not supported")
}
