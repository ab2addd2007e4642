package js_ast

import (
	"math"
	"strconv"

	"github.com/yuusheng/rolldown/internal/logger"
)

func Assign(a Expr, b Expr) Expr {
	return Expr{Range: a.Range, Data: &EBinary{Op: BinOpAssign, Left: a, Right: b}}
}

func AssignStmt(a Expr, b Expr) Stmt {
	return Stmt{Range: a.Range, Data: &SExpr{Value: Assign(a, b)}}
}

// Returns the expression with any number of enclosing parentheses removed
func StripParens(expr Expr) Expr {
	for {
		paren, ok := expr.Data.(*EParenthesized)
		if !ok {
			return expr
		}
		expr = paren.Value
	}
}

// Wraps the provided expression in the "!" prefix operator. The expression
// will potentially be simplified to avoid generating unnecessary extra "!"
// operators. For example, calling this with "!!x" will return "!x" instead
// of returning "!!!x".
func Not(expr Expr) Expr {
	if result, ok := MaybeSimplifyNot(expr); ok {
		return result
	}
	return Expr{Range: expr.Range, Data: &EUnary{Op: UnOpNot, Value: expr}}
}

// The given "expr" argument should be the operand of a "!" prefix operator
// (i.e. the "x" in "!x"). This returns a simplified expression for the
// whole operator (i.e. the "!x") if it can be simplified, or false if not.
func MaybeSimplifyNot(expr Expr) (Expr, bool) {
	switch e := expr.Data.(type) {
	case *EParenthesized:
		return MaybeSimplifyNot(e.Value)

	case *ENull, *EUndefined:
		return Expr{Range: expr.Range, Data: &EBoolean{Value: true}}, true

	case *EBoolean:
		return Expr{Range: expr.Range, Data: &EBoolean{Value: !e.Value}}, true

	case *ENumber:
		return Expr{Range: expr.Range, Data: &EBoolean{Value: e.Value == 0 || math.IsNaN(e.Value)}}, true

	case *EBigInt:
		return Expr{Range: expr.Range, Data: &EBoolean{Value: e.Value == "0"}}, true

	case *EString:
		return Expr{Range: expr.Range, Data: &EBoolean{Value: len(e.Value) == 0}}, true

	case *EFunction, *EArrow, *ERegExp:
		return Expr{Range: expr.Range, Data: &EBoolean{Value: false}}, true

	case *EUnary:
		// "!!!a" => "!a"
		if e.Op == UnOpNot && KnownPrimitiveType(e.Value) == PrimitiveBoolean {
			return e.Value, true
		}

	case *EBinary:
		// Make sure that these transformations are all safe for special values.
		// For example, "!(a < b)" is not the same as "a >= b" if a and/or b are
		// NaN (or undefined, or null, or possibly other problem cases too).
		switch e.Op {
		case BinOpLooseEq:
			// "!(a == b)" => "a != b"
			e.Op = BinOpLooseNe
			return expr, true

		case BinOpLooseNe:
			// "!(a != b)" => "a == b"
			e.Op = BinOpLooseEq
			return expr, true

		case BinOpStrictEq:
			// "!(a === b)" => "a !== b"
			e.Op = BinOpStrictNe
			return expr, true

		case BinOpStrictNe:
			// "!(a !== b)" => "a === b"
			e.Op = BinOpStrictEq
			return expr, true
		}
	}

	return Expr{}, false
}

type PrimitiveType uint8

const (
	PrimitiveUnknown PrimitiveType = iota
	PrimitiveMixed
	PrimitiveNull
	PrimitiveUndefined
	PrimitiveBoolean
	PrimitiveNumber
	PrimitiveString
	PrimitiveBigInt
)

// This can be used when the returned type is either one or the other
func MergedKnownPrimitiveTypes(a Expr, b Expr) PrimitiveType {
	x := KnownPrimitiveType(a)
	y := KnownPrimitiveType(b)
	if x == PrimitiveUnknown || y == PrimitiveUnknown {
		return PrimitiveUnknown
	}
	if x == y {
		return x
	}
	return PrimitiveMixed // Definitely some kind of primitive
}

func KnownPrimitiveType(a Expr) PrimitiveType {
	switch e := a.Data.(type) {
	case *EParenthesized:
		return KnownPrimitiveType(e.Value)

	case *ENull:
		return PrimitiveNull

	case *EUndefined:
		return PrimitiveUndefined

	case *EBoolean:
		return PrimitiveBoolean

	case *ENumber:
		return PrimitiveNumber

	case *EString:
		return PrimitiveString

	case *EBigInt:
		return PrimitiveBigInt

	case *ETemplate:
		if e.TagOrNil.Data == nil {
			return PrimitiveString
		}

	case *EIf:
		return MergedKnownPrimitiveTypes(e.Yes, e.No)

	case *ESequence:
		return KnownPrimitiveType(e.Exprs[len(e.Exprs)-1])

	case *EUnary:
		switch e.Op {
		case UnOpVoid:
			return PrimitiveUndefined

		case UnOpTypeof:
			return PrimitiveString

		case UnOpNot, UnOpDelete:
			return PrimitiveBoolean

		case UnOpPos:
			return PrimitiveNumber // Cannot be bigint because that throws an exception

		case UnOpNeg, UnOpCpl:
			value := KnownPrimitiveType(e.Value)
			if value == PrimitiveBigInt {
				return PrimitiveBigInt
			}
			if value != PrimitiveUnknown && value != PrimitiveMixed {
				return PrimitiveNumber
			}
			return PrimitiveMixed // Can be number or bigint

		case UnOpPreDec, UnOpPreInc, UnOpPostDec, UnOpPostInc:
			return PrimitiveMixed // Can be number or bigint
		}

	case *EBinary:
		switch e.Op {
		case BinOpStrictEq, BinOpStrictNe, BinOpLooseEq, BinOpLooseNe,
			BinOpLt, BinOpGt, BinOpLe, BinOpGe,
			BinOpInstanceof, BinOpIn:
			return PrimitiveBoolean

		case BinOpLogicalOr, BinOpLogicalAnd:
			return MergedKnownPrimitiveTypes(e.Left, e.Right)

		case BinOpAdd:
			left := KnownPrimitiveType(e.Left)
			right := KnownPrimitiveType(e.Right)
			if left == PrimitiveString || right == PrimitiveString {
				return PrimitiveString
			}
			if left == PrimitiveBigInt && right == PrimitiveBigInt {
				return PrimitiveBigInt
			}
			if left != PrimitiveUnknown && left != PrimitiveMixed && left != PrimitiveBigInt &&
				right != PrimitiveUnknown && right != PrimitiveMixed && right != PrimitiveBigInt {
				return PrimitiveNumber
			}
			return PrimitiveMixed // Can be number or bigint or string (or an exception)

		case BinOpAssign:
			return KnownPrimitiveType(e.Right)
		}
	}

	return PrimitiveUnknown
}

func JoinWithComma(a Expr, b Expr) Expr {
	if a.Data == nil {
		return b
	}
	if b.Data == nil {
		return a
	}
	if seq, ok := a.Data.(*ESequence); ok {
		seq.Exprs = append(seq.Exprs, b)
		return a
	}
	return Expr{Range: a.Range, Data: &ESequence{Exprs: []Expr{a, b}}}
}

// Returns "equal, ok". If "ok" is false, then nothing is known about the two
// values. If "ok" is true, the equality or inequality of the two values is
// stored in "equal".
func CheckEqualityIfNoSideEffects(left E, right E) (bool, bool) {
	if r, ok := right.(*EParenthesized); ok {
		return CheckEqualityIfNoSideEffects(left, r.Value.Data)
	}

	switch l := left.(type) {
	case *EParenthesized:
		return CheckEqualityIfNoSideEffects(l.Value.Data, right)

	case *ENull:
		_, ok := right.(*ENull)
		return ok, ok

	case *EUndefined:
		_, ok := right.(*EUndefined)
		return ok, ok

	case *EBoolean:
		r, ok := right.(*EBoolean)
		return ok && l.Value == r.Value, ok

	case *ENumber:
		r, ok := right.(*ENumber)
		return ok && l.Value == r.Value, ok

	case *EBigInt:
		r, ok := right.(*EBigInt)
		return ok && l.Value == r.Value, ok

	case *EString:
		r, ok := right.(*EString)
		return ok && l.Value == r.Value, ok
	}

	return false, false
}

type SideEffects uint8

const (
	CouldHaveSideEffects SideEffects = iota
	NoSideEffects
)

func ToBooleanWithSideEffects(data E) (boolean bool, sideEffects SideEffects, ok bool) {
	switch e := data.(type) {
	case *EParenthesized:
		return ToBooleanWithSideEffects(e.Value.Data)

	case *ENull, *EUndefined:
		return false, NoSideEffects, true

	case *EBoolean:
		return e.Value, NoSideEffects, true

	case *ENumber:
		return e.Value != 0 && !math.IsNaN(e.Value), NoSideEffects, true

	case *EBigInt:
		return e.Value != "0", NoSideEffects, true

	case *EString:
		return len(e.Value) > 0, NoSideEffects, true

	case *EFunction, *EArrow, *ERegExp:
		return true, NoSideEffects, true

	case *EObject, *EArray, *EClass:
		return true, CouldHaveSideEffects, true

	case *EUnary:
		switch e.Op {
		case UnOpVoid:
			return false, CouldHaveSideEffects, true

		case UnOpTypeof:
			// Never an empty string
			if _, ok := e.Value.Data.(*EIdentifier); ok {
				// Expressions such as "typeof x" never have any side effects
				return true, NoSideEffects, true
			}
			return true, CouldHaveSideEffects, true

		case UnOpNot:
			if boolean, sideEffects, ok := ToBooleanWithSideEffects(e.Value.Data); ok {
				return !boolean, sideEffects, true
			}
		}

	case *EBinary:
		switch e.Op {
		case BinOpLogicalOr:
			// "anything || truthy" is truthy
			if boolean, _, ok := ToBooleanWithSideEffects(e.Right.Data); ok && boolean {
				return true, CouldHaveSideEffects, true
			}

		case BinOpLogicalAnd:
			// "anything && falsy" is falsy
			if boolean, _, ok := ToBooleanWithSideEffects(e.Right.Data); ok && !boolean {
				return false, CouldHaveSideEffects, true
			}
		}

	case *ESequence:
		// "anything, truthy/falsy" is truthy/falsy
		if boolean, _, ok := ToBooleanWithSideEffects(e.Exprs[len(e.Exprs)-1].Data); ok {
			return boolean, CouldHaveSideEffects, true
		}
	}

	return false, CouldHaveSideEffects, false
}

// Returns the result of the "typeof" operator for values whose type is known
// without evaluating anything
func TypeofWithoutSideEffects(data E) (string, bool) {
	switch e := data.(type) {
	case *EParenthesized:
		return TypeofWithoutSideEffects(e.Value.Data)
	case *ENull:
		return "object", true
	case *EUndefined:
		return "undefined", true
	case *EBoolean:
		return "boolean", true
	case *ENumber:
		return "number", true
	case *EBigInt:
		return "bigint", true
	case *EString:
		return "string", true
	case *EFunction, *EArrow:
		return "function", true
	case *EUnary:
		if e.Op == UnOpVoid {
			if _, ok := e.Value.Data.(*ENumber); ok {
				return "undefined", true
			}
		}
	}
	return "", false
}

func IsPrimitiveLiteral(data E) bool {
	switch e := data.(type) {
	case *EParenthesized:
		return IsPrimitiveLiteral(e.Value.Data)

	case *ENull, *EUndefined, *EString, *EBoolean, *ENumber, *EBigInt:
		return true
	}
	return false
}

// MemberChain flattens a chain of static property accesses such as "a.b.c"
// into the innermost object and the property names in source order. The
// chain is read from the outermost access inward, so the collected names are
// reversed before returning. Optional chains and computed accesses end the
// chain; "ok" is false unless the innermost object is an identifier.
func MemberChain(expr Expr) (root *EIdentifier, rootRange logger.Range, props []string, ok bool) {
	for {
		switch e := expr.Data.(type) {
		case *EDot:
			if e.OptionalChain {
				return nil, logger.Range{}, nil, false
			}
			props = append(props, e.Name)
			expr = e.Target
			continue

		case *EIdentifier:
			for i, j := 0, len(props)-1; i < j; i, j = i+1, j-1 {
				props[i], props[j] = props[j], props[i]
			}
			return e, expr.Range, props, true
		}
		return nil, logger.Range{}, nil, false
	}
}

// Builds "a.b.c" out of an identifier path. The nodes are synthesized and
// have empty ranges.
func DotChainFromParts(parts []string) Expr {
	value := Expr{Data: &EIdentifier{Name: parts[0], ReferenceID: InvalidReferenceID}}
	for _, part := range parts[1:] {
		value = Expr{Data: &EDot{Target: value, Name: part}}
	}
	return value
}

// This is the text that a number literal prints as
func NumberToString(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e21 {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}
