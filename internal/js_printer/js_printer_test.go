package js_printer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_parser"
	"github.com/yuusheng/rolldown/internal/logger"
	"github.com/yuusheng/rolldown/internal/test"
)

func expectPrintedCommon(t *testing.T, name string, contents string, expected string, options Options) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog(logger.LevelInfo)
		tree, err := js_parser.Parse(context.Background(), log, test.SourceForTest(contents), config.LoaderJS)
		text := ""
		for _, msg := range log.Done() {
			text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, "")
		require.NoError(t, err)
		js := Print(*tree, options).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, contents, expected, Options{})
}

func expectPrintedMinify(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [minified]", contents, expected, Options{MinifyWhitespace: true})
}

func expectPrintedExpr(t *testing.T, expr js_ast.Expr, expected string) {
	t.Helper()
	tree := js_ast.AST{Stmts: []js_ast.Stmt{{Data: &js_ast.SExpr{Value: expr}}}}
	test.AssertEqualWithDiff(t, string(Print(tree, Options{}).JS), expected)
}

func TestNumber(t *testing.T) {
	expectPrintedExpr(t, js_ast.Expr{Data: &js_ast.ENumber{Value: 1.5}}, "1.5;\n")
	expectPrintedExpr(t, js_ast.Expr{Data: &js_ast.ENumber{Value: 1e21}}, "1e+21;\n")
	expectPrintedExpr(t, js_ast.Expr{Data: &js_ast.ENumber{Value: math.NaN()}}, "NaN;\n")
	expectPrintedExpr(t, js_ast.Expr{Data: &js_ast.ENumber{Value: math.Inf(-1)}}, "-Infinity;\n")

	// Negative numbers are wrapped when used as a member target
	neg := js_ast.Expr{Data: &js_ast.ENumber{Value: -1}}
	expectPrintedExpr(t, js_ast.Expr{Data: &js_ast.EDot{Target: neg, Name: "x"}}, "(-1).x;\n")
}

func TestSynthesizedNodes(t *testing.T) {
	expectPrintedExpr(t, js_ast.Expr{Data: &js_ast.EUndefined{}}, "void 0;\n")

	id := func(name string) js_ast.Expr {
		return js_ast.Expr{Data: &js_ast.EIdentifier{Name: name, ReferenceID: js_ast.InvalidReferenceID}}
	}
	expectPrintedExpr(t, js_ast.Assign(id("a"), js_ast.DotChainFromParts([]string{"process", "env", "NODE_ENV"})),
		"a = process.env.NODE_ENV;\n")
	expectPrintedExpr(t, js_ast.Not(id("a")), "!a;\n")
}

func TestPrecedence(t *testing.T) {
	expectPrinted(t, "a = (b, c)", "a = (b, c);\n")
	expectPrinted(t, "x = a ?? (b || c)", "x = a ?? (b || c);\n")
	expectPrinted(t, "x = (-a) ** 2", "x = (-a) ** 2;\n")
	expectPrinted(t, "x = a + +b", "x = a + +b;\n")
	expectPrinted(t, "x = - -a", "x = - -a;\n")
	expectPrinted(t, "(function() {})()", "(function() {\n})();\n")
	expectPrinted(t, "({} = a)", "({} = a);\n")
}

func TestSynthesizedPrecedence(t *testing.T) {
	id := func(name string) js_ast.Expr {
		return js_ast.Expr{Data: &js_ast.EIdentifier{Name: name, ReferenceID: js_ast.InvalidReferenceID}}
	}
	binary := func(op js_ast.OpCode, left js_ast.Expr, right js_ast.Expr) js_ast.Expr {
		return js_ast.Expr{Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
	}
	unary := func(op js_ast.OpCode, value js_ast.Expr) js_ast.Expr {
		return js_ast.Expr{Data: &js_ast.EUnary{Op: op, Value: value}}
	}

	expectPrintedExpr(t, binary(js_ast.BinOpNullishCoalescing, id("a"), binary(js_ast.BinOpLogicalOr, id("b"), id("c"))),
		"a ?? (b || c);\n")
	expectPrintedExpr(t, binary(js_ast.BinOpPow, unary(js_ast.UnOpNeg, id("a")), js_ast.Expr{Data: &js_ast.ENumber{Value: 2}}),
		"(-a) ** 2;\n")
	expectPrintedExpr(t, binary(js_ast.BinOpSub, id("a"), binary(js_ast.BinOpSub, id("b"), id("c"))), "a - (b - c);\n")
	expectPrintedExpr(t, binary(js_ast.BinOpAdd, id("a"), unary(js_ast.UnOpPos, id("b"))), "a + +b;\n")
	expectPrintedExpr(t, unary(js_ast.UnOpTypeof, id("a")), "typeof a;\n")

	chain := js_ast.Expr{Data: &js_ast.EDot{Target: id("a"), Name: "b", OptionalChain: true}}
	expectPrintedExpr(t, js_ast.Expr{Data: &js_ast.EDot{Target: chain, Name: "c"}}, "a?.b.c;\n")
	paren := js_ast.Expr{Data: &js_ast.EParenthesized{Value: chain}}
	expectPrintedExpr(t, js_ast.Expr{Data: &js_ast.ECall{Target: paren}}, "(a?.b)();\n")
}

func TestObjectsAndArrays(t *testing.T) {
	expectPrinted(t, "x = { a, b: 1, [c]: 2, ...d, 'e-f': 3 }", "x = { a, b: 1, [c]: 2, ...d, \"e-f\": 3 };\n")
	expectPrinted(t, "x = { get a() {}, async *b() {} }", "x = { get a() {\n}, async *b() {\n} };\n")
	expectPrinted(t, "x = [1, , 2, ]", "x = [1, , 2];\n")
}

func TestMinify(t *testing.T) {
	expectPrintedMinify(t, "let a = 1; if (a) { b() }", "let a=1;if(a){b()}")
	expectPrintedMinify(t, "x = a + +b", "x=a+ +b;")
	expectPrintedMinify(t, "import a from 'a'; import { b } from 'b'", "import a from\"a\";import{b}from\"b\";")
}
