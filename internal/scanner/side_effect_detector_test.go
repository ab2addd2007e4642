package scanner

import (
	"testing"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_semantic"
	"github.com/yuusheng/rolldown/internal/test"
)

// Only the last statement is checked so that earlier ones can declare names
func expectSideEffect(t *testing.T, contents string, expected bool) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		source, tree := parseForTest(t, contents)
		semantic := js_semantic.NewBuilder().Build(&source, tree)
		globals := config.ProcessDefines(nil)
		detector := NewSideEffectDetector(&semantic, &globals)
		test.AssertEqual(t, detector.HasSideEffect(tree.Stmts[len(tree.Stmts)-1]), expected)
	})
}

func TestSideEffectFreeStmts(t *testing.T) {
	expectSideEffect(t, "function f() { sideEffect() }", false)
	expectSideEffect(t, ";", false)
	expectSideEffect(t, "import 'a'", false)
	expectSideEffect(t, "export * from 'a'", false)
	expectSideEffect(t, "let a; export { a }", false)
	expectSideEffect(t, "const a = 1, b = 'x', c = null", false)
	expectSideEffect(t, "let a = () => {}, b = function() {}", false)
	expectSideEffect(t, "let a = 1; const b = a", false)
	expectSideEffect(t, "var a = [1, 'x', { b: 2 }]", false)
	expectSideEffect(t, "var a = /* @__PURE__ */ f(1)", false)
	expectSideEffect(t, "var a = /* @__PURE__ */ new Foo()", false)
	expectSideEffect(t, "var a = typeof x", false)
	expectSideEffect(t, "var a = void 0, b = !1", false)
	expectSideEffect(t, "var a = typeof x !== 'undefined' && x", false)
	expectSideEffect(t, "var a = typeof x === 'undefined' ? null : x", false)
	expectSideEffect(t, "var a = 1 === 2, b = 'a' == 'b'", false)
	expectSideEffect(t, "var a = (1, 2)", false)
	expectSideEffect(t, "var a = `x${1}`", false)
	expectSideEffect(t, "var a = Math.PI, b = Object, c = undefined", false)
	expectSideEffect(t, "var a = import.meta", false)
	expectSideEffect(t, "/* @__PURE__ */ foo()", false)
	expectSideEffect(t, "/* #__PURE__ */ new Foo(1)", false)
	expectSideEffect(t, "class A { static x = 1; y = f(); m() { g() } }", false)
	expectSideEffect(t, "class A extends Object {}", false)
	expectSideEffect(t, "export default function() { f() }", false)
	expectSideEffect(t, "export default 1", false)
	expectSideEffect(t, "try { var a = 1 } catch (e) { f() }", false)
	expectSideEffect(t, "export const a = 1", false)
	expectSideEffect(t, "var { a } = {}, [b = 1] = [2]", false)
}

func TestSideEffectStmts(t *testing.T) {
	expectSideEffect(t, "f()", true)
	expectSideEffect(t, "x", true)
	expectSideEffect(t, "x.y", true)
	expectSideEffect(t, "let a = {}; a.b", true)
	expectSideEffect(t, "Math.PI = 1", true)
	expectSideEffect(t, "var a = b", true)
	expectSideEffect(t, "var a = f()", true)
	expectSideEffect(t, "var a = /* @__PURE__ */ f(g())", true)
	expectSideEffect(t, "var a = [...b]", true)
	expectSideEffect(t, "var a = { ...b }", true)
	expectSideEffect(t, "var a = { [b]: 1 }", true)
	expectSideEffect(t, "var a = 1 + 2", true)
	expectSideEffect(t, "var a = x == 1", true)
	expectSideEffect(t, "var a = `${b}`", true)
	expectSideEffect(t, "var a = tag`x`", true)
	expectSideEffect(t, "var { [f()]: a } = {}", true)
	expectSideEffect(t, "var [a = f()] = []", true)
	expectSideEffect(t, "class A extends B {}", true)
	expectSideEffect(t, "class A { static x = f() }", true)
	expectSideEffect(t, "class A { static { f() } }", true)
	expectSideEffect(t, "class A { [f()]() {} }", true)
	expectSideEffect(t, "export default f()", true)
	expectSideEffect(t, "if (a) {}", true)
	expectSideEffect(t, "{ }", true)
	expectSideEffect(t, "for (;;) {}", true)
	expectSideEffect(t, "throw 1", true)
	expectSideEffect(t, "try {} finally { f() }", true)
	expectSideEffect(t, "var a = delete b.c", true)
}
