package js_printer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yuusheng/rolldown/internal/helpers"
	"github.com/yuusheng/rolldown/internal/js_ast"
)

var positiveInfinity = math.Inf(1)
var negativeInfinity = math.Inf(-1)

type printExprFlags uint8

const (
	forbidCall printExprFlags = 1 << iota
	forbidIn
)

type Options struct {
	Indent           int
	MinifyWhitespace bool
}

type PrintResult struct {
	JS []byte
}

type printer struct {
	options Options
	js      []byte

	// These are the positions where an expression would be ambiguous if it
	// started with a certain token
	stmtStart          int
	exportDefaultStart int
	arrowExprStart     int

	prevOp         js_ast.OpCode
	prevOpEnd      int
	prevRegExpEnd  int
	needsSemicolon bool
}

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

func (p *printer) printQuoted(text string) {
	p.js = append(p.js, helpers.QuoteString(text, '"', false)...)
}

func (p *printer) printIndent() {
	if p.options.MinifyWhitespace {
		return
	}
	for i := 0; i < p.options.Indent; i++ {
		p.print("  ")
	}
}

func (p *printer) printSpace() {
	if !p.options.MinifyWhitespace {
		p.print(" ")
	}
}

func (p *printer) printNewline() {
	if !p.options.MinifyWhitespace {
		p.print("\n")
	}
}

func (p *printer) printSpaceBeforeOperator(next js_ast.OpCode) {
	if p.prevOpEnd == len(p.js) {
		prev := p.prevOp

		// "+ + y" => "+ +y"
		// "+ ++ y" => "+ ++y"
		// "x + + y" => "x+ +y"
		// "x ++ + y" => "x+++y"
		// "x + ++ y" => "x+ ++y"
		// "-- >" => "-- >"
		// "< ! --" => "<! --"
		if ((prev == js_ast.BinOpAdd || prev == js_ast.UnOpPos) && (next == js_ast.BinOpAdd || next == js_ast.UnOpPos || next == js_ast.UnOpPreInc)) ||
			((prev == js_ast.BinOpSub || prev == js_ast.UnOpNeg) && (next == js_ast.BinOpSub || next == js_ast.UnOpNeg || next == js_ast.UnOpPreDec)) ||
			(prev == js_ast.UnOpPostDec && next == js_ast.BinOpGt) ||
			(prev == js_ast.UnOpNot && next == js_ast.UnOpPreDec && len(p.js) > 1 && p.js[len(p.js)-2] == '<') {
			p.print(" ")
		}
	}
}

func (p *printer) printSemicolonAfterStatement() {
	if !p.options.MinifyWhitespace {
		p.print(";\n")
	} else {
		p.needsSemicolon = true
	}
}

func (p *printer) printSemicolonIfNeeded() {
	if p.needsSemicolon {
		p.print(";")
		p.needsSemicolon = false
	}
}

func (p *printer) printSpaceBeforeIdentifier() {
	buffer := p.js
	n := len(buffer)
	if n > 0 && (js_ast.IsIdentifierContinue(rune(buffer[n-1])) || n == p.prevRegExpEnd) {
		p.print(" ")
	}
}

func (p *printer) printIdentifier(name string) {
	p.printSpaceBeforeIdentifier()
	p.print(name)
}

func (p *printer) printNumber(value float64, level js_ast.L) {
	if value != value {
		p.printSpaceBeforeIdentifier()
		p.print("NaN")
		return
	}

	if value == positiveInfinity || value == negativeInfinity {
		wrap := value == negativeInfinity && level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		if value == negativeInfinity {
			p.printSpaceBeforeOperator(js_ast.UnOpNeg)
			p.print("-")
		} else {
			p.printSpaceBeforeIdentifier()
		}
		p.print("Infinity")
		if wrap {
			p.print(")")
		}
		return
	}

	absValue := math.Abs(value)
	if !math.Signbit(value) {
		p.printSpaceBeforeIdentifier()
		p.print(js_ast.NumberToString(absValue))
	} else if level >= js_ast.LPrefix {
		// Expressions such as "(-1).toString" need to wrap negative numbers
		p.print("(-")
		p.print(js_ast.NumberToString(absValue))
		p.print(")")
	} else {
		p.printSpaceBeforeOperator(js_ast.UnOpNeg)
		p.print("-")
		p.print(js_ast.NumberToString(absValue))
	}
}

func (p *printer) printBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		p.printIdentifier(b.Name)

	case *js_ast.BArray:
		p.print("[")
		for i, item := range b.Items {
			if i != 0 {
				p.print(",")
				p.printSpace()
			}
			if b.HasSpread && i+1 == len(b.Items) {
				p.print("...")
			}
			p.printBinding(item.Binding)
			if item.DefaultValueOrNil.Data != nil {
				p.printSpace()
				p.print("=")
				p.printSpace()
				p.printExpr(item.DefaultValueOrNil, js_ast.LComma, 0)
			}

			// Make sure there's a comma after trailing missing items
			if _, ok := item.Binding.Data.(*js_ast.BMissing); ok && i == len(b.Items)-1 {
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.BObject:
		p.print("{")
		for i, property := range b.Properties {
			if i != 0 {
				p.print(",")
			}
			p.printSpace()

			if property.IsSpread {
				p.print("...")
				p.printBinding(property.Value)
				continue
			}

			if property.IsComputed {
				p.print("[")
				p.printExpr(property.Key, js_ast.LComma, 0)
				p.print("]:")
				p.printSpace()
				p.printBinding(property.Value)
			} else if str, ok := property.Key.Data.(*js_ast.EString); ok && isShorthandBinding(str.Value, property.Value) {
				p.printIdentifier(str.Value)
			} else {
				p.printPropertyKey(property.Key)
				p.print(":")
				p.printSpace()
				p.printBinding(property.Value)
			}

			if property.DefaultValueOrNil.Data != nil {
				p.printSpace()
				p.print("=")
				p.printSpace()
				p.printExpr(property.DefaultValueOrNil, js_ast.LComma, 0)
			}
		}
		if len(b.Properties) > 0 {
			p.printSpace()
		}
		p.print("}")

	default:
		panic(fmt.Sprintf("Unexpected binding of type %T", binding.Data))
	}
}

func isShorthandBinding(key string, value js_ast.Binding) bool {
	id, ok := value.Data.(*js_ast.BIdentifier)
	return ok && id.Name == key
}

func (p *printer) printFnArgs(args []js_ast.Arg, hasRestArg bool) {
	p.print("(")
	for i, arg := range args {
		if i != 0 {
			p.print(",")
			p.printSpace()
		}
		if hasRestArg && i+1 == len(args) {
			p.print("...")
		}
		p.printBinding(arg.Binding)

		if arg.DefaultOrNil.Data != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(arg.DefaultOrNil, js_ast.LComma, 0)
		}
	}
	p.print(")")
}

func (p *printer) printFn(fn js_ast.Fn) {
	p.printFnArgs(fn.Args, fn.HasRestArg)
	p.printSpace()
	p.printBlock(fn.Body.Stmts)
}

func (p *printer) printClass(class js_ast.Class) {
	if class.ExtendsOrNil.Data != nil {
		p.print(" extends")
		p.printSpace()
		p.printExpr(class.ExtendsOrNil, js_ast.LNew-1, 0)
	}
	p.printSpace()

	p.print("{")
	p.printNewline()
	p.options.Indent++

	for _, item := range class.Properties {
		p.printSemicolonIfNeeded()
		p.printIndent()

		if item.Kind == js_ast.PropertyClassStaticBlock {
			p.print("static")
			p.printSpace()
			p.printBlock(item.ClassStaticBlock.Stmts)
			p.printNewline()
			continue
		}

		p.printProperty(item)

		// Need semicolons after class fields
		if item.ValueOrNil.Data == nil {
			p.printSemicolonAfterStatement()
		} else {
			p.printNewline()
		}
	}

	p.needsSemicolon = false
	p.options.Indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printPropertyKey(key js_ast.Expr) {
	switch k := key.Data.(type) {
	case *js_ast.EString:
		if js_ast.IsIdentifier(k.Value) {
			p.printIdentifier(k.Value)
		} else {
			p.printQuoted(k.Value)
		}
	case *js_ast.EPrivateIdentifier:
		p.printIdentifier(k.Name)
	default:
		p.printExpr(key, js_ast.LLowest, 0)
	}
}

func (p *printer) printProperty(item js_ast.Property) {
	if item.Kind == js_ast.PropertySpread {
		p.print("...")
		p.printExpr(item.ValueOrNil, js_ast.LComma, 0)
		return
	}

	if item.Flags.Has(js_ast.PropertyIsStatic) {
		p.print("static ")
	}

	if fn, ok := item.ValueOrNil.Data.(*js_ast.EFunction); ok && item.Flags.Has(js_ast.PropertyIsMethod) {
		switch item.Kind {
		case js_ast.PropertyGet:
			p.printSpaceBeforeIdentifier()
			p.print("get ")
		case js_ast.PropertySet:
			p.printSpaceBeforeIdentifier()
			p.print("set ")
		}
		if fn.Fn.IsAsync {
			p.printSpaceBeforeIdentifier()
			p.print("async ")
		}
		if fn.Fn.IsGenerator {
			p.print("*")
		}
	}

	if item.Flags.Has(js_ast.PropertyIsComputed) {
		p.print("[")
		p.printExpr(item.Key, js_ast.LComma, 0)
		p.print("]")
	} else {
		// Print "{ a }" instead of "{ a: a }"
		if str, ok := item.Key.Data.(*js_ast.EString); ok && item.ValueOrNil.Data != nil {
			if id, ok := item.ValueOrNil.Data.(*js_ast.EIdentifier); ok && id.Name == str.Value {
				p.printIdentifier(id.Name)
				if item.InitializerOrNil.Data != nil {
					p.printSpace()
					p.print("=")
					p.printSpace()
					p.printExpr(item.InitializerOrNil, js_ast.LComma, 0)
				}
				return
			}
		}
		p.printPropertyKey(item.Key)
	}

	if fn, ok := item.ValueOrNil.Data.(*js_ast.EFunction); ok && item.Flags.Has(js_ast.PropertyIsMethod) {
		p.printFn(fn.Fn)
		return
	}

	if item.ValueOrNil.Data != nil {
		p.print(":")
		p.printSpace()
		p.printExpr(item.ValueOrNil, js_ast.LComma, 0)
	}

	if item.InitializerOrNil.Data != nil {
		p.printSpace()
		p.print("=")
		p.printSpace()
		p.printExpr(item.InitializerOrNil, js_ast.LComma, 0)
	}
}

func (p *printer) printJSXTag(tagOrNil js_ast.Expr) {
	switch e := tagOrNil.Data.(type) {
	case nil:
	case *js_ast.EString:
		p.print(e.Value)
	default:
		p.printExpr(tagOrNil, js_ast.LPostfix, 0)
	}
}

func (p *printer) printTemplate(e *js_ast.ETemplate) {
	p.print("`")
	p.print(e.HeadRaw)
	for _, part := range e.Parts {
		p.print("${")
		p.printExpr(part.Value, js_ast.LLowest, 0)
		p.print("}")
		p.print(part.TailRaw)
	}
	p.print("`")
}

func (p *printer) printExpr(expr js_ast.Expr, level js_ast.L, flags printExprFlags) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.EUndefined:
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("void 0")
		if wrap {
			p.print(")")
		}

	case *js_ast.ESuper:
		p.printIdentifier("super")

	case *js_ast.ENull:
		p.printIdentifier("null")

	case *js_ast.EThis:
		p.printIdentifier("this")

	case *js_ast.ENewTarget:
		p.printIdentifier("new.target")

	case *js_ast.EImportMeta:
		p.printIdentifier("import.meta")

	case *js_ast.EIdentifier:
		p.printIdentifier(e.Name)

	case *js_ast.EPrivateIdentifier:
		p.printIdentifier(e.Name)

	case *js_ast.EBoolean:
		if e.Value {
			p.printIdentifier("true")
		} else {
			p.printIdentifier("false")
		}

	case *js_ast.ENumber:
		p.printNumber(e.Value, level)

	case *js_ast.EBigInt:
		p.printIdentifier(e.Value)
		p.print("n")

	case *js_ast.EString:
		p.printQuoted(e.Value)

	case *js_ast.EJSXText:
		p.print(e.Value)

	case *js_ast.ERegExp:
		buffer := p.js
		n := len(buffer)

		// Avoid forming a single-line comment or "</script" sequence
		if n > 0 && buffer[n-1] == '/' {
			p.print(" ")
		}
		p.print(e.Value)

		// Need a space before the next identifier to avoid it turning into flags
		p.prevRegExpEnd = len(p.js)

	case *js_ast.ETemplate:
		if e.TagOrNil.Data != nil {
			p.printExpr(e.TagOrNil, js_ast.LPostfix, 0)
		}
		p.printTemplate(e)

	case *js_ast.EParenthesized:
		p.print("(")
		p.printExpr(e.Value, js_ast.LLowest, 0)
		p.print(")")

	case *js_ast.ETypeAssertion:
		p.printExpr(e.Value, level, flags)

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.LComma, 0)

	case *js_ast.ENew:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		if e.CanBeUnwrappedIfUnused {
			p.print("/* @__PURE__ */ ")
		}
		p.printSpaceBeforeIdentifier()
		p.print("new")
		p.printSpace()
		p.printExpr(e.Target, js_ast.LNew, forbidCall)
		p.printArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *js_ast.ECall:
		wrap := level >= js_ast.LNew || (flags&forbidCall) != 0
		if wrap {
			p.print("(")
		}
		if e.CanBeUnwrappedIfUnused {
			p.print("/* @__PURE__ */ ")
		}
		p.printExpr(e.Target, js_ast.LPostfix, 0)
		if e.OptionalChain {
			p.print("?.")
		}
		p.printArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *js_ast.EImport:
		wrap := level >= js_ast.LNew || (flags&forbidCall) != 0
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("import(")
		p.printExpr(e.Expr, js_ast.LComma, 0)
		if e.OptionsOrNil.Data != nil {
			p.print(",")
			p.printSpace()
			p.printExpr(e.OptionsOrNil, js_ast.LComma, 0)
		}
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.EDot:
		wrap := (flags & forbidCall) != 0 && e.OptionalChain
		if wrap {
			p.print("(")
		}

		// "1.toString" is a syntax error
		if _, ok := e.Target.Data.(*js_ast.ENumber); ok {
			p.print("(")
			p.printExpr(e.Target, js_ast.LLowest, 0)
			p.print(")")
		} else {
			p.printExpr(e.Target, js_ast.LPostfix, flags&forbidCall)
		}
		p.printDot(e.OptionalChain)
		p.print(e.Name)
		if wrap {
			p.print(")")
		}

	case *js_ast.EIndex:
		p.printExpr(e.Target, js_ast.LPostfix, flags&forbidCall)
		if _, ok := e.Index.Data.(*js_ast.EPrivateIdentifier); ok {
			p.printDot(e.OptionalChain)
			p.printExpr(e.Index, js_ast.LLowest, 0)
			break
		}
		if e.OptionalChain {
			p.print("?.")
		}
		p.print("[")
		p.printExpr(e.Index, js_ast.LLowest, 0)
		p.print("]")

	case *js_ast.EIf:
		wrap := level >= js_ast.LConditional
		if wrap {
			p.print("(")
			flags &= ^forbidIn
		}
		p.printExpr(e.Test, js_ast.LConditional, flags&forbidIn)
		p.printSpace()
		p.print("?")
		p.printSpace()
		p.printExpr(e.Yes, js_ast.LYield, 0)
		p.printSpace()
		p.print(":")
		p.printSpace()
		p.printExpr(e.No, js_ast.LYield, flags&forbidIn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		if e.IsAsync {
			p.printSpaceBeforeIdentifier()
			p.print("async")
			p.printSpace()
		}
		p.printFnArgs(e.Args, e.HasRestArg)
		p.printSpace()
		p.print("=>")
		p.printSpace()

		wasPrinted := false
		if len(e.Body.Stmts) == 1 && e.PreferExpr {
			if s, ok := e.Body.Stmts[0].Data.(*js_ast.SReturn); ok && s.ValueOrNil.Data != nil {
				p.arrowExprStart = len(p.js)
				p.printExpr(s.ValueOrNil, js_ast.LComma, flags&forbidIn)
				wasPrinted = true
			}
		}
		if !wasPrinted {
			p.printBlock(e.Body.Stmts)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EFunction:
		n := len(p.js)
		wrap := p.stmtStart == n || p.exportDefaultStart == n
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		if e.Fn.IsAsync {
			p.print("async ")
		}
		p.print("function")
		if e.Fn.IsGenerator {
			p.print("*")
			p.printSpace()
		}
		if e.Fn.Name != nil {
			p.printIdentifier(e.Fn.Name.Name)
		}
		p.printFn(e.Fn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EClass:
		n := len(p.js)
		wrap := p.stmtStart == n || p.exportDefaultStart == n
		if wrap {
			p.print("(")
		}
		p.printIdentifier("class")
		if e.Class.Name != nil {
			p.print(" ")
			p.print(e.Class.Name.Name)
		}
		p.printClass(e.Class)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArray:
		p.print("[")
		for i, item := range e.Items {
			if i != 0 {
				p.print(",")
				p.printSpace()
			}
			p.printExpr(item, js_ast.LComma, 0)

			// Make sure there's a comma after trailing missing items
			if _, ok := item.Data.(*js_ast.EMissing); ok && i == len(e.Items)-1 {
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.EObject:
		n := len(p.js)
		wrap := p.stmtStart == n || p.arrowExprStart == n
		if wrap {
			p.print("(")
		}
		p.print("{")
		for i, item := range e.Properties {
			if i != 0 {
				p.print(",")
			}
			p.printSpace()
			p.printProperty(item)
		}
		if len(e.Properties) > 0 {
			p.printSpace()
		}
		p.print("}")
		if wrap {
			p.print(")")
		}

	case *js_ast.EJSXElement:
		p.print("<")
		p.printJSXTag(e.TagOrNil)
		for _, property := range e.Properties {
			p.print(" ")
			if property.Kind == js_ast.PropertySpread {
				p.print("{...")
				p.printExpr(property.ValueOrNil, js_ast.LComma, 0)
				p.print("}")
				continue
			}
			p.print(property.Key.Data.(*js_ast.EString).Value)
			if b, ok := property.ValueOrNil.Data.(*js_ast.EBoolean); ok && b.Value {
				continue
			}
			p.print("=")
			if str, ok := property.ValueOrNil.Data.(*js_ast.EString); ok && !strings.ContainsAny(str.Value, "\"\n") {
				p.print(strconv.Quote(str.Value))
				continue
			}
			p.print("{")
			p.printExpr(property.ValueOrNil, js_ast.LComma, 0)
			p.print("}")
		}
		if len(e.Children) == 0 && e.TagOrNil.Data != nil {
			p.print(" />")
			break
		}
		p.print(">")
		for _, child := range e.Children {
			switch c := child.Data.(type) {
			case *js_ast.EJSXText, *js_ast.EJSXElement:
				p.printExpr(child, js_ast.LLowest, 0)
			case *js_ast.ESpread:
				p.print("{...")
				p.printExpr(c.Value, js_ast.LComma, 0)
				p.print("}")
			default:
				p.print("{")
				p.printExpr(child, js_ast.LComma, 0)
				p.print("}")
			}
		}
		p.print("</")
		p.printJSXTag(e.TagOrNil)
		p.print(">")

	case *js_ast.EAwait:
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("await")
		p.printSpace()
		p.printExpr(e.Value, js_ast.LPrefix-1, 0)
		if wrap {
			p.print(")")
		}

	case *js_ast.EYield:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("yield")
		if e.ValueOrNil.Data != nil {
			if e.IsStar {
				p.print("*")
			}
			p.printSpace()
			p.printExpr(e.ValueOrNil, js_ast.LYield, 0)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.ESequence:
		wrap := level >= js_ast.LComma
		if wrap {
			p.print("(")
		}
		for i, item := range e.Exprs {
			if i != 0 {
				p.print(",")
				p.printSpace()
			}
			p.printExpr(item, js_ast.LComma, flags&forbidIn)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EUnary:
		p.printUnary(e, level)

	case *js_ast.EBinary:
		p.printBinary(e, level, flags)

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}
}

// Prefix and postfix operators. Keyword operators such as "typeof" need a
// space before an identifier while symbols need one only between "+ +".
func (p *printer) printUnary(e *js_ast.EUnary, level js_ast.L) {
	entry := js_ast.OpTable[e.Op]
	wrap := level >= entry.Level
	if wrap {
		p.print("(")
	}
	if !e.Op.IsPrefix() {
		p.printExpr(e.Value, js_ast.LPostfix-1, 0)
	}
	p.printOperator(e.Op)
	if entry.IsKeyword {
		p.printSpace()
	}
	if e.Op.IsPrefix() {
		p.printExpr(e.Value, js_ast.LPrefix-1, 0)
	}
	if wrap {
		p.print(")")
	}
}

func (p *printer) printOperator(op js_ast.OpCode) {
	entry := js_ast.OpTable[op]
	if entry.IsKeyword {
		p.printSpaceBeforeIdentifier()
		p.print(entry.Text)
		return
	}
	p.printSpaceBeforeOperator(op)
	p.print(entry.Text)
	p.prevOp = op
	p.prevOpEnd = len(p.js)
}

// Operand levels for a binary operator. Associativity decides which side may
// hold the same operator without parentheses.
func binaryOperandLevels(e *js_ast.EBinary) (left js_ast.L, right js_ast.L) {
	level := js_ast.OpTable[e.Op].Level
	left, right = level-1, level-1
	if e.Op.IsRightAssociative() {
		left = level
	}
	if e.Op.IsLeftAssociative() {
		right = level
	}

	switch e.Op {
	case js_ast.BinOpNullishCoalescing:
		// "a || b ?? c" is a syntax error
		if isLogicalAndOr(e.Left) {
			left = js_ast.LPrefix
		}
		if isLogicalAndOr(e.Right) {
			right = js_ast.LPrefix
		}

	case js_ast.BinOpPow:
		// "-a ** b" is a syntax error. Undefined prints as "void 0" and
		// negative numbers print with a unary minus.
		switch l := e.Left.Data.(type) {
		case *js_ast.EUnary:
			if l.Op.UnaryAssignTarget() == js_ast.AssignTargetNone {
				left = js_ast.LCall
			}
		case *js_ast.EAwait, *js_ast.EUndefined, *js_ast.ENumber:
			left = js_ast.LCall
		}
	}
	return
}

func isLogicalAndOr(expr js_ast.Expr) bool {
	e, ok := expr.Data.(*js_ast.EBinary)
	return ok && (e.Op == js_ast.BinOpLogicalOr || e.Op == js_ast.BinOpLogicalAnd)
}

func (p *printer) printBinary(e *js_ast.EBinary, level js_ast.L, flags printExprFlags) {
	wrap := level >= js_ast.OpTable[e.Op].Level || (e.Op == js_ast.BinOpIn && (flags&forbidIn) != 0)

	// "{a} = b" at the start of a statement would be a block
	if n := len(p.js); p.stmtStart == n || p.arrowExprStart == n {
		if _, ok := e.Left.Data.(*js_ast.EObject); ok {
			wrap = true
		}
	}

	if wrap {
		p.print("(")
		flags &= ^forbidIn
	}

	leftLevel, rightLevel := binaryOperandLevels(e)
	p.printExpr(e.Left, leftLevel, flags&forbidIn)
	if e.Op != js_ast.BinOpComma {
		p.printSpace()
	}
	p.printOperator(e.Op)
	p.printSpace()
	p.printExpr(e.Right, rightLevel, flags&forbidIn)

	if wrap {
		p.print(")")
	}
}

// Prints the token between a target and its property
func (p *printer) printDot(optionalChain bool) {
	if optionalChain {
		p.print("?.")
	} else {
		p.print(".")
	}
}

func (p *printer) printArgs(args []js_ast.Expr) {
	p.print("(")
	for i, arg := range args {
		if i != 0 {
			p.print(",")
			p.printSpace()
		}
		p.printExpr(arg, js_ast.LComma, 0)
	}
	p.print(")")
}
