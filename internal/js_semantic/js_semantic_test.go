package js_semantic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_parser"
	"github.com/yuusheng/rolldown/internal/logger"
	"github.com/yuusheng/rolldown/internal/test"
)

func buildForTest(t *testing.T, contents string) (*js_ast.AST, Semantic) {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelInfo)
	source := test.SourceForTest(contents)
	tree, err := js_parser.Parse(context.Background(), log, source, config.LoaderJS)
	require.NoError(t, err)
	return tree, NewBuilder().Build(&source, tree)
}

func symbolNamed(t *testing.T, semantic Semantic, name string) (js_ast.Ref, *js_ast.Symbol) {
	t.Helper()
	for i := range semantic.Symbols.Symbols {
		if semantic.Symbols.Symbols[i].OriginalName == name {
			return semantic.Symbols.RefForIndex(i), &semantic.Symbols.Symbols[i]
		}
	}
	t.Fatalf("No symbol named %q", name)
	return js_ast.InvalidRef, nil
}

func errorTexts(semantic Semantic) []string {
	var texts []string
	for _, msg := range semantic.Errors {
		texts = append(texts, msg.Text)
	}
	return texts
}

func TestHoisting(t *testing.T) {
	_, semantic := buildForTest(t, "f(); { var a = 1 } function f() { return a }")

	_, a := symbolNamed(t, semantic, "a")
	assert.Equal(t, js_ast.RootScopeID, a.ScopeID)
	assert.Equal(t, js_ast.SymbolHoisted, a.Kind)

	ref, f := symbolNamed(t, semantic, "f")
	assert.Equal(t, js_ast.SymbolHoistedFunction, f.Kind)

	// The call appears before the declaration
	assert.Len(t, semantic.ResolvedReferences(ref), 1)
	assert.True(t, semantic.IsRead(ref))
	assert.Empty(t, semantic.Symbols.RootUnresolvedReferences)
}

func TestShadowing(t *testing.T) {
	tree, semantic := buildForTest(t, "let x = 1; function g(x) { return x } x")

	// The last statement reads the root "x"
	last := tree.Stmts[2].Data.(*js_ast.SExpr).Value.Data.(*js_ast.EIdentifier)
	ref, ok := semantic.ResolveToRootSymbol(last)
	require.True(t, ok)
	assert.Equal(t, "x", semantic.Symbols.Get(ref).OriginalName)

	// The "x" inside the function is the parameter
	fn := tree.Stmts[1].Data.(*js_ast.SFunction)
	ret := fn.Fn.Body.Stmts[0].Data.(*js_ast.SReturn).ValueOrNil.Data.(*js_ast.EIdentifier)
	_, ok = semantic.ResolveToRootSymbol(ret)
	assert.False(t, ok)
	assert.False(t, semantic.IsGlobalReference(ret))
	assert.Equal(t, fn.Fn.ScopeID, semantic.Symbols.Get(semantic.Symbols.ResolvedRef(ret.ReferenceID)).ScopeID)
}

func TestUnresolvedGlobals(t *testing.T) {
	tree, semantic := buildForTest(t, "console.log(window); require('x')")

	assert.True(t, semantic.HasUnresolvedReference("console"))
	assert.True(t, semantic.HasUnresolvedReference("window"))
	assert.True(t, semantic.HasUnresolvedReference("require"))
	assert.False(t, semantic.HasUnresolvedReference("log"))

	call := tree.Stmts[1].Data.(*js_ast.SExpr).Value.Data.(*js_ast.ECall)
	assert.True(t, semantic.IsGlobalReference(call.Target.Data.(*js_ast.EIdentifier)))

	// Identifiers created after the build are treated as globals
	synthesized := &js_ast.EIdentifier{Name: "require", ReferenceID: js_ast.InvalidReferenceID}
	assert.True(t, semantic.IsGlobalReference(synthesized))
}

func TestReassignment(t *testing.T) {
	_, semantic := buildForTest(t, "let a = 1, b = 2, c = 3; a = 2; b++; [c] = [4]")

	for _, name := range []string{"a", "b", "c"} {
		_, symbol := symbolNamed(t, semantic, name)
		assert.True(t, symbol.Flags.Has(js_ast.SymbolIsReassigned), name)
	}

	ref, _ := symbolNamed(t, semantic, "a")
	assert.False(t, semantic.IsRead(ref))
	ref, _ = symbolNamed(t, semantic, "b")
	assert.True(t, semantic.IsRead(ref))
}

func TestRedeclaration(t *testing.T) {
	_, semantic := buildForTest(t, "var a; var a; function a() {}")
	assert.Empty(t, semantic.Errors)
	_, a := symbolNamed(t, semantic, "a")
	assert.True(t, a.Flags.Has(js_ast.SymbolWasRedeclared))
	assert.Equal(t, js_ast.SymbolHoistedFunction, a.Kind)

	_, semantic = buildForTest(t, "let b; var b")
	assert.Equal(t, []string{`The symbol "b" has already been declared`}, errorTexts(semantic))

	_, semantic = buildForTest(t, "{ let c; { var c } }")
	assert.Equal(t, []string{`The symbol "c" has already been declared`}, errorTexts(semantic))

	_, semantic = buildForTest(t, "try {} catch (e) { var e }")
	assert.Empty(t, semantic.Errors)

	_, semantic = buildForTest(t, "import d from 'd'; const d = 1")
	require.Len(t, semantic.Errors, 1)
	assert.Equal(t, logger.MsgID_JS_SemanticError, semantic.Errors[0].ID)
}

func TestScopes(t *testing.T) {
	tree, semantic := buildForTest(t, "try { } catch (e) { e } x = () => { for (const i of y) {} }")

	s := tree.Stmts[0].Data.(*js_ast.STry)
	assert.Equal(t, s.Catch.ScopeID, s.Catch.Block.ScopeID)
	assert.Equal(t, js_ast.ScopeCatch, semantic.Scopes.Get(s.Catch.ScopeID).Kind)

	arrow := tree.Stmts[1].Data.(*js_ast.SExpr).Value.Data.(*js_ast.EBinary).Right.Data.(*js_ast.EArrow)
	scope := semantic.Scopes.Get(arrow.ScopeID)
	assert.Equal(t, js_ast.ScopeFunction, scope.Kind)
	assert.True(t, scope.Flags.Has(js_ast.ScopeIsArrow))
	assert.True(t, scope.Flags.Has(js_ast.ScopeIsStrict))

	forOf := arrow.Body.Stmts[0].Data.(*js_ast.SForOf)
	assert.Equal(t, []js_ast.ScopeID{forOf.ScopeID, arrow.ScopeID, js_ast.RootScopeID}, semantic.Scopes.Ancestors(forOf.ScopeID))
	assert.False(t, semantic.Scopes.HasChildIDs)
}

func TestChildIDs(t *testing.T) {
	log := logger.NewDeferLog(logger.LevelInfo)
	source := test.SourceForTest("function f() { { } } class C { static { } }")
	tree, err := js_parser.Parse(context.Background(), log, source, config.LoaderJS)
	require.NoError(t, err)

	semantic := NewBuilder().WithScopeChildIDs(true).Build(&source, tree)
	require.True(t, semantic.Scopes.HasChildIDs)

	fn := tree.Stmts[0].Data.(*js_ast.SFunction)
	class := tree.Stmts[1].Data.(*js_ast.SClass)
	root := semantic.Scopes.Get(js_ast.RootScopeID)
	assert.Equal(t, []js_ast.ScopeID{fn.Fn.ScopeID, class.Class.ScopeID}, root.Children)

	block := class.Class.Properties[0].ClassStaticBlock
	assert.Equal(t, js_ast.ScopeClassStaticBlock, semantic.Scopes.Get(block.ScopeID).Kind)
	assert.Equal(t, []js_ast.ScopeID{block.ScopeID}, semantic.Scopes.Get(class.Class.ScopeID).Children)
}

func TestNamedExpressions(t *testing.T) {
	tree, semantic := buildForTest(t, "x = function f() { f }; y = class C { m() { C } }")

	fn := tree.Stmts[0].Data.(*js_ast.SExpr).Value.Data.(*js_ast.EBinary).Right.Data.(*js_ast.EFunction)
	_, f := symbolNamed(t, semantic, "f")
	assert.Equal(t, js_ast.SymbolFunctionExpressionName, f.Kind)
	assert.Equal(t, fn.Fn.ScopeID, f.ScopeID)

	_, c := symbolNamed(t, semantic, "C")
	assert.NotEqual(t, js_ast.RootScopeID, c.ScopeID)
	assert.False(t, semantic.HasUnresolvedReference("C"))
	assert.False(t, semantic.HasUnresolvedReference("f"))
}

func TestStatsRebuild(t *testing.T) {
	log := logger.NewDeferLog(logger.LevelInfo)
	source := test.SourceForTest("let a = 1; function f(b) { return a + b }")
	tree, err := js_parser.Parse(context.Background(), log, source, config.LoaderJS)
	require.NoError(t, err)

	first := NewBuilder().Build(&source, tree)
	second := NewBuilder().WithStats(first.Stats).Build(&source, tree)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, uint32(3), first.Stats.Symbols)
	assert.Equal(t, uint32(2), first.Stats.Scopes)
	assert.Equal(t, uint32(2), first.Stats.References)
}
