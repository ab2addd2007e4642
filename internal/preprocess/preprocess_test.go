package preprocess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_parser"
	"github.com/yuusheng/rolldown/internal/js_printer"
	"github.com/yuusheng/rolldown/internal/logger"
	"github.com/yuusheng/rolldown/internal/scanner"
	"github.com/yuusheng/rolldown/internal/test"
)

func noTreeShaking() *config.Options {
	options := config.DefaultOptions()
	options.TreeShaking = false
	return &options
}

func treeShaking() *config.Options {
	options := config.DefaultOptions()
	return &options
}

func buildForTest(t *testing.T, loader config.Loader, options *config.Options, contents string) (*js_ast.AST, error) {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelInfo)
	source := test.SourceForTest(contents)
	tree, err := js_parser.Parse(context.Background(), log, source, loader)
	require.NoError(t, err)
	tree, _, err = NewPreProcessor(nil).Build(log, &source, tree, loader, options)
	return tree, err
}

func expectBuilt(t *testing.T, loader config.Loader, options *config.Options, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		tree, err := buildForTest(t, loader, options, contents)
		require.NoError(t, err)
		js := js_printer.Print(*tree, js_printer.Options{MinifyWhitespace: true}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectBuiltTS(t *testing.T, contents string, expected string) {
	t.Helper()
	expectBuilt(t, config.LoaderTS, noTreeShaking(), contents, expected)
}

func expectTransformError(t *testing.T, loader config.Loader, contents string, text string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		_, err := buildForTest(t, loader, noTreeShaking(), contents)
		var transformErr *TransformError
		require.True(t, errors.As(err, &transformErr))
		require.NotEmpty(t, transformErr.Msgs)
		assert.Equal(t, text, transformErr.Msgs[0].Text)
	})
}

func TestLowerTypeScript(t *testing.T) {
	expectBuiltTS(t, "interface A {} type B = 1; let x: number = 1 as any", "let x=1;")
	expectBuiltTS(t, "let a = 1; export type { A } from 'a'; export { type B, a }", "let a=1;export{a};")
	expectBuiltTS(t, "import type { A } from 'a'", "")
}

func TestImportElision(t *testing.T) {
	expectBuiltTS(t, "import { a, b } from 'x'; import c from 'y'; import 'z'; a()",
		"import{a}from\"x\";import\"z\";a();")
	expectBuiltTS(t, "import * as ns from 'x'; let y: ns.T", "let y;")
	expectBuiltTS(t, "import { a } from 'x'; export { a }", "import{a}from\"x\";export{a};")

	// Plain JavaScript never elides imports
	expectBuilt(t, config.LoaderJSX, noTreeShaking(), "import a from 'a'", "import a from\"a\";")
}

func TestLowerEnum(t *testing.T) {
	expectBuiltTS(t, "enum E { A, B = 'b' }",
		"var E=/* @__PURE__ */ ((E)=>{E[E[\"A\"]=0]=\"A\";E[\"B\"]=\"b\";return E})(E||{});")
	expectBuiltTS(t, "export enum E { A = 1, B }",
		"export var E=/* @__PURE__ */ ((E)=>{E[E[\"A\"]=1]=\"A\";E[E[\"B\"]=2]=\"B\";return E})(E||{});")
	expectBuiltTS(t, "enum E { A = 1, B = A }",
		"var E=/* @__PURE__ */ ((E)=>{E[E[\"A\"]=1]=\"A\";E[E[\"B\"]=E.A]=\"B\";return E})(E||{});")

	expectTransformError(t, config.LoaderTS, "enum E { A = 'a', B }", "Enum member \"B\" must have an initializer")
}

func TestNamespaceIsUnsupported(t *testing.T) {
	expectTransformError(t, config.LoaderTS, "namespace N { export const a = 1 }", "TypeScript namespace \"N\" is not supported")
}

func TestLowerJSXClassic(t *testing.T) {
	expectBuilt(t, config.LoaderJSX, noTreeShaking(), "let x = <div className='a'>{y}</div>",
		"let x=React.createElement(\"div\",{className:\"a\"},y);")
	expectBuilt(t, config.LoaderJSX, noTreeShaking(), "let x = <Foo />",
		"let x=React.createElement(Foo,null);")

	options := noTreeShaking()
	options.JSX.Factory = []string{"h"}
	expectBuilt(t, config.LoaderJSX, options, "let x = <Foo {...p} />", "let x=h(Foo,{...p});")

	// The factory import is kept even though only the lowered code uses it
	expectBuilt(t, config.LoaderTSX, noTreeShaking(), "import React from 'react'; let x = <div />",
		"import React from\"react\";let x=React.createElement(\"div\",null);")
}

func TestLowerJSXAutomatic(t *testing.T) {
	options := noTreeShaking()
	options.JSX.Runtime = config.JSXAutomatic
	expectBuilt(t, config.LoaderJSX, options, "let x = <div key='k'>{y}</div>",
		"import{jsx as _jsx}from\"react/jsx-runtime\";let x=_jsx(\"div\",{children:y},\"k\");")
	expectBuilt(t, config.LoaderJSX, options, "let x = <div>{y}{z}</div>",
		"import{jsxs as _jsxs}from\"react/jsx-runtime\";let x=_jsxs(\"div\",{children:[y,z]});")

	// Existing names are never shadowed
	expectBuilt(t, config.LoaderJSX, options, "let _jsx = 1; let x = <a />",
		"import{jsx as _jsx2}from\"react/jsx-runtime\";let _jsx=1;let x=_jsx2(\"a\",{});")
}

func TestDefines(t *testing.T) {
	data, err := config.ParseDefine("process.env.NODE_ENV", "\"production\"")
	require.NoError(t, err)
	defines := config.ProcessDefines(map[string]config.DefineData{"process.env.NODE_ENV": data})

	options := noTreeShaking()
	options.Defines = &defines
	expectBuilt(t, config.LoaderJS, options, "if (process.env.NODE_ENV === 'production') a()",
		"if(\"production\"===\"production\")a();")
	expectBuilt(t, config.LoaderJS, options, "let process = {}; process.env.NODE_ENV",
		"let process={};process.env.NODE_ENV;")
	expectBuilt(t, config.LoaderJS, options, "process.env.NODE_ENV = 'x'",
		"process.env.NODE_ENV=\"x\";")

	shaking := treeShaking()
	shaking.Defines = &defines
	expectBuilt(t, config.LoaderJS, shaking, "if (process.env.NODE_ENV === 'production') a(); else b()", "a();")
}

func TestInject(t *testing.T) {
	options := noTreeShaking()
	options.Inject = []config.InjectImport{
		{Name: "Buffer", Path: "buffer", ImportedName: "Buffer"},
		{Name: "Object.assign", Path: "object-assign", ImportedName: "default"},
	}
	expectBuilt(t, config.LoaderJS, options, "Buffer.from('a')",
		"import{Buffer as _inject_Buffer}from\"buffer\";_inject_Buffer.from(\"a\");")
	expectBuilt(t, config.LoaderJS, options, "Object.assign({}, a)",
		"import _inject_Object_assign from\"object-assign\";_inject_Object_assign({},a);")
	expectBuilt(t, config.LoaderJS, options, "let Buffer = 1; Buffer", "let Buffer=1;Buffer;")
	expectBuilt(t, config.LoaderJS, options, "let a = 1", "let a=1;")
}

func TestDeadCodeElimination(t *testing.T) {
	expectBuilt(t, config.LoaderJS, treeShaking(), "if ('a' === 'b') { x() } else { y() }", "y();")
	expectBuilt(t, config.LoaderJS, treeShaking(), "if (false) { var a = 1 }", "var a;")
	expectBuilt(t, config.LoaderJS, treeShaking(), "while (0) { var b = f() }", "var b;")
	expectBuilt(t, config.LoaderJS, treeShaking(), "typeof 1 === 'number' ? a() : b()", "a();")
	expectBuilt(t, config.LoaderJS, treeShaking(), "let x = (a)", "let x=a;")
	expectBuilt(t, config.LoaderJS, treeShaking(), "let x = !(a === b)", "let x=a!==b;")
	expectBuilt(t, config.LoaderJS, treeShaking(), "a(); 1; ;", "a();")
	expectBuilt(t, config.LoaderJS, treeShaking(), "let x = null ?? a, y = 0 || b", "let x=a;let y=b;")
	expectBuilt(t, config.LoaderJS, treeShaking(), "function f() { return 1; g(); var v = 2; function h() {} }",
		"function f(){return 1;var v;function h(){}}")

	// Blocks with lexical declarations keep their scope
	expectBuilt(t, config.LoaderJS, treeShaking(), "{ let a = f() }", "{let a=f()}")

	// Parentheses end an optional chain
	expectBuilt(t, config.LoaderJS, treeShaking(), "x = (a?.b).c", "x=(a?.b).c;")
	expectBuilt(t, config.LoaderJS, treeShaking(), "x = (a?.b)()", "x=(a?.b)();")
	expectBuilt(t, config.LoaderJS, treeShaking(), "x = (a?.b.c)[d]", "x=(a?.b.c)[d];")
	expectBuilt(t, config.LoaderJS, treeShaking(), "x = ((a?.b)).c", "x=(a?.b).c;")
	expectBuilt(t, config.LoaderJS, treeShaking(), "x = (a?.b)", "x=a?.b;")
	expectBuilt(t, config.LoaderJS, treeShaking(), "x = (a.b).c", "x=a.b.c;")
}

func TestSplitDeclarators(t *testing.T) {
	expectBuilt(t, config.LoaderJS, noTreeShaking(), "var a = 1, b = 2; export let c, d",
		"var a=1;var b=2;export let c;export let d;")

	// Only top-level declarations are split
	expectBuilt(t, config.LoaderJS, noTreeShaking(), "function f() { let a, b }", "function f(){let a,b}")
}

func TestStmtInfosAfterSplit(t *testing.T) {
	log := logger.NewDeferLog(logger.LevelInfo)
	source := test.SourceForTest("var a = 1, b = 2")
	tree, err := js_parser.Parse(context.Background(), log, source, config.LoaderJS)
	require.NoError(t, err)
	tree, semantic, err := NewPreProcessor(nil).Build(log, &source, tree, config.LoaderJS, noTreeShaking())
	require.NoError(t, err)

	result := scanner.Scan(&source, tree, &semantic, noTreeShaking())
	require.Len(t, result.StmtInfos, 2)
	assert.Len(t, result.StmtInfos[0].DeclaredSymbols, 1)
	assert.Len(t, result.StmtInfos[1].DeclaredSymbols, 1)
	assert.True(t, semantic.Scopes.HasChildIDs)
}

func collectRanges(tree *js_ast.AST) []logger.Range {
	var ranges []logger.Range
	v := js_ast.Visitor{
		Stmt:    func(stmt *js_ast.Stmt) { ranges = append(ranges, stmt.Range) },
		Expr:    func(expr *js_ast.Expr) { ranges = append(ranges, expr.Range) },
		Binding: func(binding *js_ast.Binding) { ranges = append(ranges, binding.Range) },
	}
	v.VisitStmts(tree.Stmts)
	return ranges
}

func TestSpanUniqueness(t *testing.T) {
	contents := "enum E { A, B } let x = <div>{E.A}</div>; f()"
	tree, err := buildForTest(t, config.LoaderTSX, noTreeShaking(), contents)
	require.NoError(t, err)

	seen := make(map[logger.Range]bool)
	for _, r := range collectRanges(tree) {
		require.False(t, seen[r], "duplicate range %v", r)
		seen[r] = true

		// New ranges never overlap the source text
		if r.IsEmpty() {
			assert.Greater(t, r.Loc.Start, int32(len(contents)))
		}
	}
}

func TestSpanUniquenessSynthesizedRanges(t *testing.T) {
	source := test.SourceForTest("a; b")
	tree := &js_ast.AST{Stmts: []js_ast.Stmt{
		{Data: &js_ast.SExpr{Value: js_ast.Expr{Data: &js_ast.ENumber{Value: 1}}}},
		{Data: &js_ast.SExpr{Value: js_ast.Expr{Data: &js_ast.ENumber{Value: 2}}}},
	}}
	ensureSpanUniqueness(&source, tree)

	seen := make(map[logger.Range]bool)
	for _, r := range collectRanges(tree) {
		assert.True(t, r.IsEmpty())
		assert.Greater(t, r.Loc.Start, int32(len(source.Contents)))
		require.False(t, seen[r], "duplicate range %v", r)
		seen[r] = true
	}
	assert.Len(t, seen, 4)
}

func TestBuildIsIdempotent(t *testing.T) {
	log := logger.NewDeferLog(logger.LevelInfo)
	source := test.SourceForTest("var a = 1, b = (2); if (a) b = a; export const c = a")
	tree, err := js_parser.Parse(context.Background(), log, source, config.LoaderJS)
	require.NoError(t, err)

	p := NewPreProcessor(nil)
	tree, _, err = p.Build(log, &source, tree, config.LoaderJS, noTreeShaking())
	require.NoError(t, err)
	first := string(js_printer.Print(*tree, js_printer.Options{}).JS)
	firstRanges := collectRanges(tree)

	tree, _, err = p.Build(log, &source, tree, config.LoaderJS, noTreeShaking())
	require.NoError(t, err)
	assert.Equal(t, first, string(js_printer.Print(*tree, js_printer.Options{}).JS))
	assert.Equal(t, firstRanges, collectRanges(tree))
	assert.False(t, p.ASTChanged())
}

func TestSemanticErrorsAreWarnings(t *testing.T) {
	log := logger.NewDeferLog(logger.LevelInfo)
	source := test.SourceForTest("let a; let a")
	tree, err := js_parser.Parse(context.Background(), log, source, config.LoaderJS)
	require.NoError(t, err)
	_, _, err = NewPreProcessor(nil).Build(log, &source, tree, config.LoaderJS, nil)
	require.NoError(t, err)

	msgs := log.Done()
	require.Len(t, msgs, 1)
	assert.Equal(t, logger.Warning, msgs[0].Kind)
	assert.Equal(t, "The symbol \"a\" has already been declared", msgs[0].Text)
}
