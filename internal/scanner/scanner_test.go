package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuusheng/rolldown/internal/ast"
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_parser"
	"github.com/yuusheng/rolldown/internal/js_semantic"
	"github.com/yuusheng/rolldown/internal/logger"
	"github.com/yuusheng/rolldown/internal/test"
)

type scanTest struct {
	tree     *js_ast.AST
	semantic js_semantic.Semantic
	result   *ScanResult
}

func (st *scanTest) ref(t *testing.T, name string) js_ast.Ref {
	t.Helper()
	for i, symbol := range st.semantic.Symbols.Symbols {
		if symbol.OriginalName == name {
			return st.semantic.Symbols.RefForIndex(i)
		}
	}
	t.Fatalf("No symbol named %q", name)
	return js_ast.InvalidRef
}

func parseForTest(t *testing.T, contents string) (logger.Source, *js_ast.AST) {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelInfo)
	source := test.SourceForTest(contents)
	tree, err := js_parser.Parse(context.Background(), log, source, config.LoaderJS)
	require.NoError(t, err)
	return source, tree
}

func scanWithOptions(t *testing.T, contents string, options *config.Options) *scanTest {
	t.Helper()
	source, tree := parseForTest(t, contents)
	st := &scanTest{tree: tree, semantic: js_semantic.NewBuilder().Build(&source, tree)}
	st.result = Scan(&source, tree, &st.semantic, options)
	return st
}

func scanForTest(t *testing.T, contents string) *scanTest {
	t.Helper()
	return scanWithOptions(t, contents, nil)
}

func msgTexts(msgs []logger.Msg) []string {
	var texts []string
	for _, msg := range msgs {
		texts = append(texts, msg.Text)
	}
	return texts
}

func TestStmtInfos(t *testing.T) {
	st := scanForTest(t, "import a from 'a'; let b = a; { var c = b } function f() { let d = c; return d } f()")
	infos := st.result.StmtInfos
	require.Len(t, infos, 5)
	for i, info := range infos {
		assert.Equal(t, uint32(i), info.Index)
	}

	a, b, c, f := st.ref(t, "a"), st.ref(t, "b"), st.ref(t, "c"), st.ref(t, "f")
	assert.Equal(t, []js_ast.Ref{a}, infos[0].DeclaredSymbols)
	assert.Equal(t, []js_ast.Ref{b}, infos[1].DeclaredSymbols)
	assert.Equal(t, []js_ast.Ref{a}, infos[1].ReferencedSymbols)

	// "var" in a top-level block binds in the module scope
	assert.Equal(t, []js_ast.Ref{c}, infos[2].DeclaredSymbols)
	assert.Equal(t, []js_ast.Ref{b}, infos[2].ReferencedSymbols)

	// "d" is local to the function
	assert.Equal(t, []js_ast.Ref{f}, infos[3].DeclaredSymbols)
	assert.Equal(t, []js_ast.Ref{c}, infos[3].ReferencedSymbols)
	assert.Equal(t, []js_ast.Ref{f}, infos[4].ReferencedSymbols)

	assert.False(t, infos[0].HasSideEffect)
	assert.False(t, infos[1].HasSideEffect)
	assert.False(t, infos[3].HasSideEffect)
	assert.True(t, infos[4].HasSideEffect)
	assert.Equal(t, []uint32{0}, infos[0].ImportRecordIndices)
}

func TestReferencedSymbolsAreUnique(t *testing.T) {
	st := scanForTest(t, "let a = 1; a + a + a")
	assert.Equal(t, []js_ast.Ref{st.ref(t, "a")}, st.result.StmtInfos[1].ReferencedSymbols)
}

func TestRequireUnused(t *testing.T) {
	check := func(contents string, unused bool) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			st := scanForTest(t, contents)
			records := st.result.ImportRecords
			require.Len(t, records, 1)
			assert.Equal(t, ast.ImportRequire, records[0].Kind)
			assert.Equal(t, "x", records[0].Path)
			assert.Equal(t, unused, records[0].Flags.Has(ast.IsRequireUnused))
		})
	}

	check(`require("x")`, true)
	check(`((require("x")))`, true)
	check(`const y = require("x")`, false)
	check(`(require("x"), 1)`, true)
	check(`(1, require("x"))`, false)
	check(`1, require("x"), 2`, true)
	check(`f(require("x"))`, false)
	check(`x = (require("x"), 1)`, false)
	check(`a ? require("x") : b`, false)
}

func TestRequireUnusedUnspannedOperand(t *testing.T) {
	check := func(contents string, seq func(tree *js_ast.AST) *js_ast.ESequence, unused bool) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			source, tree := parseForTest(t, contents)
			exprs := seq(tree).Exprs
			exprs[len(exprs)-1].Range = logger.Range{}
			semantic := js_semantic.NewBuilder().Build(&source, tree)
			result := Scan(&source, tree, &semantic, nil)

			require.Len(t, result.ImportRecords, 1)
			assert.Equal(t, unused, result.ImportRecords[0].Flags.Has(ast.IsRequireUnused))
		})
	}

	check(`require("x"), 1`, func(tree *js_ast.AST) *js_ast.ESequence {
		return tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ESequence)
	}, true)
	check(`y = (require("x"), 1)`, func(tree *js_ast.AST) *js_ast.ESequence {
		assign := tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.EBinary)
		return assign.Right.Data.(*js_ast.EParenthesized).Value.Data.(*js_ast.ESequence)
	}, false)
}

func TestRequireNotRecorded(t *testing.T) {
	st := scanForTest(t, `function require() {} require("x")`)
	assert.Empty(t, st.result.ImportRecords)

	st = scanForTest(t, `require(x); require("a", "b"); require()`)
	assert.Empty(t, st.result.ImportRecords)
}

func TestImportsMap(t *testing.T) {
	st := scanForTest(t, `const a = require("a"); import("b")`)
	require.Len(t, st.result.ImportRecords, 2)

	call := st.tree.Stmts[0].Data.(*js_ast.SLocal).Decls[0].ValueOrNil
	assert.Equal(t, uint32(0), st.result.Imports[call.Range])

	dynamic := st.tree.Stmts[1].Data.(*js_ast.SExpr).Value
	assert.Equal(t, uint32(1), st.result.Imports[dynamic.Range])
	assert.Equal(t, ast.ImportDynamic, st.result.ImportRecords[1].Kind)
	assert.Equal(t, ast.ImportRecordFlags(0), st.result.ImportRecords[1].Flags)
	assert.Equal(t, []uint32{1}, st.result.StmtInfos[1].ImportRecordIndices)

	// Dynamic imports of non-literals are left to the runtime
	st = scanForTest(t, "import(x)")
	assert.Empty(t, st.result.ImportRecords)
}

func TestUnspannedImports(t *testing.T) {
	source, tree := parseForTest(t, `import("a"); require("b")`)
	tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.EImport).Expr.Range = logger.Range{}
	tree.Stmts[1].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall).Args[0].Range = logger.Range{}
	semantic := js_semantic.NewBuilder().Build(&source, tree)
	result := Scan(&source, tree, &semantic, nil)

	require.Len(t, result.ImportRecords, 2)
	assert.Equal(t, ast.IsUnspannedImport, result.ImportRecords[0].Flags)
	assert.Equal(t, ast.IsUnspannedImport, result.ImportRecords[1].Flags)
}

func TestCJSMarkers(t *testing.T) {
	st := scanForTest(t, "module.exports = {}")
	require.NotNil(t, st.result.CJSModuleIdent)
	assert.Equal(t, logger.Range{Loc: logger.Loc{Start: 0}, Len: 6}, *st.result.CJSModuleIdent)
	assert.Nil(t, st.result.CJSExportsIdent)

	st = scanForTest(t, "x; exports.a = 1; exports.b = 2")
	require.NotNil(t, st.result.CJSExportsIdent)
	assert.Equal(t, logger.Range{Loc: logger.Loc{Start: 3}, Len: 7}, *st.result.CJSExportsIdent)

	st = scanForTest(t, "module.exports.a = 1")
	require.NotNil(t, st.result.CJSModuleIdent)
	assert.Equal(t, logger.Range{Loc: logger.Loc{Start: 0}, Len: 6}, *st.result.CJSModuleIdent)

	// Local bindings shadow the globals
	st = scanForTest(t, "const module = {}; module.exports = {}")
	assert.Nil(t, st.result.CJSModuleIdent)
	st = scanForTest(t, "function f(exports) { exports.a = 1 }")
	assert.Nil(t, st.result.CJSExportsIdent)

	// Reading is not enough
	st = scanForTest(t, "x = module.exports")
	assert.Nil(t, st.result.CJSModuleIdent)
}

func TestMemberExprRefs(t *testing.T) {
	st := scanForTest(t, `import * as ns from "ns"; x = ns.a.b`)
	info := st.result.StmtInfos[1]
	ns := st.ref(t, "ns")
	require.Len(t, info.MemberExprRefs, 1)
	assert.Equal(t, MemberExprRef{
		Object: ns,
		Props:  []string{"a", "b"},
		Range:  logger.Range{Loc: logger.Loc{Start: 30}, Len: 6},
	}, info.MemberExprRefs[0])
	assert.Contains(t, info.ReferencedSymbols, ns)

	st = scanForTest(t, `const ns = {}; x = ns.a.b`)
	assert.Empty(t, st.result.StmtInfos[1].MemberExprRefs)
	assert.Equal(t, []js_ast.Ref{st.ref(t, "ns")}, st.result.StmtInfos[1].ReferencedSymbols)

	// Computed access ends the chain at the import itself
	st = scanForTest(t, `import { a } from "a"; a[b].c`)
	assert.Empty(t, st.result.StmtInfos[1].MemberExprRefs)
}

func TestTopLevelAwait(t *testing.T) {
	cjs := &config.Options{OutputFormat: config.FormatCommonJS}
	esm := &config.Options{OutputFormat: config.FormatESModule}

	st := scanWithOptions(t, "await x", cjs)
	assert.Equal(t, []string{"Top-level await is currently not supported with the 'cjs' output format"}, msgTexts(st.result.Errors))

	st = scanWithOptions(t, "await x", esm)
	assert.Empty(t, st.result.Errors)

	st = scanWithOptions(t, "for await (const a of b) {}", &config.Options{OutputFormat: config.FormatIIFE})
	assert.Equal(t, []string{"Top-level await is currently not supported with the 'iife' output format"}, msgTexts(st.result.Errors))

	// Blocks are still top-level but functions are not
	st = scanWithOptions(t, "{ await x }", cjs)
	assert.Len(t, st.result.Errors, 1)
	st = scanWithOptions(t, "async function f() { await x } x = async () => { for await (const a of b) {} }", cjs)
	assert.Empty(t, st.result.Errors)

	// The scan continues after the error
	st = scanWithOptions(t, "await x; require('y')", cjs)
	assert.Len(t, st.result.StmtInfos, 2)
	assert.Len(t, st.result.ImportRecords, 1)
}

func TestEval(t *testing.T) {
	st := scanForTest(t, "eval(x)")
	assert.True(t, st.result.HasEval)
	require.Len(t, st.result.Warnings, 1)
	assert.Equal(t, logger.MsgID_JS_DirectEval, st.result.Warnings[0].ID)
	assert.Equal(t, logger.Warning, st.result.Warnings[0].Kind)

	st = scanForTest(t, "function eval() {} eval(x)")
	assert.False(t, st.result.HasEval)
	assert.Empty(t, st.result.Warnings)
}

func TestConstAssign(t *testing.T) {
	st := scanForTest(t, "const a = 1; a = 2; a += 3")
	assert.Equal(t, []string{
		`Cannot assign to "a" because it is a constant`,
		`Cannot assign to "a" because it is a constant`,
	}, msgTexts(st.result.Errors))

	st = scanForTest(t, "import b from 'b'; b++")
	assert.Equal(t, []string{`Cannot assign to import "b"`}, msgTexts(st.result.Errors))

	st = scanForTest(t, "const c = 1; function f() { let c; c = 2 }")
	assert.Empty(t, st.result.Errors)
}

func TestSelfReferencedClasses(t *testing.T) {
	st := scanForTest(t, "class A { m() { return A } } class B {} B")
	assert.True(t, st.result.SelfReferencedClasses[st.ref(t, "A")])
	assert.False(t, st.result.SelfReferencedClasses[st.ref(t, "B")])

	// The outer class context is restored after the inner class
	st = scanForTest(t, "class A { m() { class B { n() { return A } } return A } }")
	assert.True(t, st.result.SelfReferencedClasses[st.ref(t, "A")])
	assert.False(t, st.result.SelfReferencedClasses[st.ref(t, "B")])

	st = scanForTest(t, "export default class C { static x = C }")
	assert.True(t, st.result.SelfReferencedClasses[st.ref(t, "C")])
}

func TestModuleDecls(t *testing.T) {
	st := scanForTest(t, `
		import d, { a as b } from "./a"
		import * as ns from "./ns"
		export { b as c }
		export const [e, { f }] = g
		export function h() {}
		export * from "./star"
		export * as star from "./star2"
		export { x as y } from "./x"
		export default 1
	`)
	result := st.result
	assert.True(t, result.HasESMSyntax)

	var paths []string
	for _, record := range result.ImportRecords {
		assert.Equal(t, ast.ImportStmt, record.Kind)
		paths = append(paths, record.Path)
	}
	assert.Equal(t, []string{"./a", "./ns", "./star", "./star2", "./x"}, paths)

	assert.Equal(t, "default", result.NamedImports[st.ref(t, "d")].ImportedName)
	assert.Equal(t, "a", result.NamedImports[st.ref(t, "b")].ImportedName)
	assert.Equal(t, "*", result.NamedImports[st.ref(t, "ns")].ImportedName)
	assert.Equal(t, uint32(1), result.NamedImports[st.ref(t, "ns")].RecordIndex)

	assert.Equal(t, st.ref(t, "b"), result.NamedExports["c"].Ref)
	assert.Equal(t, st.ref(t, "e"), result.NamedExports["e"].Ref)
	assert.Equal(t, st.ref(t, "f"), result.NamedExports["f"].Ref)
	assert.Equal(t, st.ref(t, "h"), result.NamedExports["h"].Ref)
	assert.Equal(t, js_ast.InvalidRef, result.NamedExports["default"].Ref)

	assert.Equal(t, []uint32{2}, result.StarExportRecords)
	assert.Equal(t, IndirectExport{ImportedName: "*", RecordIndex: 3, Range: result.IndirectExports["star"].Range}, result.IndirectExports["star"])
	assert.Equal(t, "x", result.IndirectExports["y"].ImportedName)

	st = scanForTest(t, "const a = require('a')")
	assert.False(t, st.result.HasESMSyntax)
}

func TestHashbang(t *testing.T) {
	st := scanForTest(t, "#!/usr/bin/env node\nx")
	require.NotNil(t, st.result.HashbangRange)
	assert.Equal(t, logger.Range{Loc: logger.Loc{Start: 0}, Len: 19}, *st.result.HashbangRange)

	st = scanForTest(t, "x")
	assert.Nil(t, st.result.HashbangRange)
}
