package js_ast

import (
	"github.com/yuusheng/rolldown/internal/logger"
)

// Every module (i.e. file) is parsed into a separate AST data structure.
// Unlike a parser that binds while parsing, the tree is produced unbound and
// the semantic builder fills in the "Ref" and "ReferenceID" fields afterward.
// Passes that mutate the tree must therefore rebuild semantic data before
// anything reads those fields again.
//
// Every node carries the byte range it was parsed from. Nodes synthesized by
// a transform have an empty range. Later passes key on ranges so the
// preprocessor makes them unique before scanning.

type L int

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode int

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) UnaryAssignTarget() AssignTarget {
	if op >= UnOpPreDec && op <= UnOpPostInc {
		return AssignTargetUpdate
	}
	return AssignTargetNone
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma && op != BinOpPow
}

func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

func (op OpCode) BinaryAssignTarget() AssignTarget {
	if op == BinOpAssign {
		return AssignTargetReplace
	}
	if op > BinOpAssign {
		return AssignTargetUpdate
	}
	return AssignTargetNone
}

type AssignTarget uint8

const (
	AssignTargetNone    AssignTarget = iota
	AssignTargetReplace              // "a = b"
	AssignTargetUpdate               // "a += b"
)

// If you add a new token, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign
)

type opTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []opTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"**", LExponentiation, false}, // Right-associative
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"**=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
	{"??=", LAssign, false},
	{"||=", LAssign, false},
	{"&&=", LAssign, false},
}

// Unary operators are looked up separately because "+" and "-" exist in both
// forms.
func BinaryOpCodeFromText(text string) (OpCode, bool) {
	for op := BinOpAdd; op <= BinOpLogicalAndAssign; op++ {
		if OpTable[op].Text == text {
			return op, true
		}
	}
	return 0, false
}

func PrefixOpCodeFromText(text string) (OpCode, bool) {
	for op := UnOpPos; op <= UnOpPreInc; op++ {
		if OpTable[op].Text == text {
			return op, true
		}
	}
	return 0, false
}

// A declared name. The semantic builder fills in "Ref".
type LocRef struct {
	Range logger.Range
	Name  string
	Ref   Ref
}

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyGet
	PropertySet
	PropertySpread
	PropertyClassStaticBlock
)

type PropertyFlags uint8

const (
	PropertyIsComputed PropertyFlags = 1 << iota
	PropertyIsMethod
	PropertyIsStatic
	PropertyWasShorthand
)

func (flags PropertyFlags) Has(flag PropertyFlags) bool {
	return (flags & flag) != 0
}

type ClassStaticBlock struct {
	Range   logger.Range
	Stmts   []Stmt
	ScopeID ScopeID
}

type Property struct {
	ClassStaticBlock *ClassStaticBlock

	Key Expr

	// This is omitted for class fields
	ValueOrNil Expr

	// This is used when parsing a pattern that uses default values:
	//
	//   [a = 1] = [];
	//   ({a = 1} = {});
	//
	// It's also used for class fields:
	//
	//   class Foo { a = 1 }
	//
	InitializerOrNil Expr

	Range logger.Range
	Kind  PropertyKind
	Flags PropertyFlags
}

type PropertyBinding struct {
	Key               Expr
	Value             Binding
	DefaultValueOrNil Expr
	IsComputed        bool
	IsSpread          bool
}

type Arg struct {
	Binding      Binding
	DefaultOrNil Expr
}

type FnBody struct {
	Range logger.Range
	Stmts []Stmt
}

// Function arguments and the function body share one scope
type Fn struct {
	Name    *LocRef
	Args    []Arg
	Body    FnBody
	ScopeID ScopeID

	IsAsync     bool
	IsGenerator bool
	HasRestArg  bool
}

type Class struct {
	Name         *LocRef
	ExtendsOrNil Expr
	Properties   []Property
	BodyRange    logger.Range
	ScopeID      ScopeID
}

type ArrayBinding struct {
	Binding           Binding
	DefaultValueOrNil Expr
}

type Binding struct {
	Range logger.Range
	Data  B
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type B interface{ isBinding() }

type BMissing struct{}

type BIdentifier struct {
	Name string
	Ref  Ref
}

type BArray struct {
	Items     []ArrayBinding
	HasSpread bool
}

type BObject struct {
	Properties []PropertyBinding
}

func (*BMissing) isBinding()    {}
func (*BIdentifier) isBinding() {}
func (*BArray) isBinding()      {}
func (*BObject) isBinding()     {}

type Expr struct {
	Range logger.Range
	Data  E
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type E interface{ isExpr() }

type EArray struct {
	Items []Expr
}

type EUnary struct {
	Op    OpCode
	Value Expr
}

type EBinary struct {
	Left  Expr
	Right Expr
	Op    OpCode
}

type EBoolean struct{ Value bool }

type ESuper struct{}

type ENull struct{}

type EUndefined struct{}

type EThis struct{}

type ENew struct {
	Target Expr
	Args   []Expr

	// True if there is a comment containing "@__PURE__" or "#__PURE__" preceding
	// this call expression. See this for more info:
	// https://github.com/javascript-compiler-hints/compiler-notations-spec/blob/main/pure-notation-spec.md
	CanBeUnwrappedIfUnused bool
}

type ENewTarget struct{}

type EImportMeta struct{}

type ECall struct {
	Target Expr
	Args   []Expr

	OptionalChain bool

	// See the comment on "ENew"
	CanBeUnwrappedIfUnused bool
}

type EDot struct {
	Target    Expr
	Name      string
	NameRange logger.Range

	OptionalChain bool

	// If true, this property access is known to be free of side-effects
	CanBeRemovedIfUnused bool
}

type EIndex struct {
	Target Expr
	Index  Expr

	OptionalChain bool
}

type EArrow struct {
	Args    []Arg
	Body    FnBody
	ScopeID ScopeID

	IsAsync    bool
	HasRestArg bool
	PreferExpr bool // Use shorthand if true and "Body" is a single return statement
}

type EFunction struct{ Fn Fn }

type EClass struct{ Class Class }

// The reference id is assigned by the semantic builder and points into the
// symbol table's reference list. Identifiers synthesized after the last build
// have "InvalidReferenceID".
type EIdentifier struct {
	Name        string
	ReferenceID ReferenceID
}

type EPrivateIdentifier struct {
	Name string
}

type EJSXElement struct {
	// This is nil for fragments
	TagOrNil   Expr
	Properties []Property
	Children   []Expr
}

type EJSXText struct {
	Value string
}

type EMissing struct{}

type ENumber struct{ Value float64 }

type EBigInt struct{ Value string }

type EObject struct {
	Properties []Property
}

type ESpread struct{ Value Expr }

type EString struct {
	Value string
}

type TemplatePart struct {
	Value      Expr
	TailRaw    string
	TailCooked string
}

type ETemplate struct {
	TagOrNil   Expr
	HeadRaw    string
	HeadCooked string
	Parts      []TemplatePart
}

type ERegExp struct{ Value string }

type EAwait struct {
	Value Expr
}

type EYield struct {
	ValueOrNil Expr
	IsStar     bool
}

type EIf struct {
	Test Expr
	Yes  Expr
	No   Expr
}

// An "import()" expression
type EImport struct {
	Expr         Expr
	OptionsOrNil Expr
}

// Parentheses are kept in the tree until dead-code elimination removes them.
// Ancestor-sensitive decisions look through them.
type EParenthesized struct {
	Value Expr
}

// Comma-separated expressions evaluated in order. Only the value of the last
// one survives.
type ESequence struct {
	Exprs []Expr
}

// TypeScript-only wrappers such as "x as T", "x satisfies T", "<T>x" and
// "x!". These are unwrapped when TypeScript syntax is lowered.
type ETypeAssertion struct {
	Value Expr
}

func (*EArray) isExpr()             {}
func (*EUnary) isExpr()             {}
func (*EBinary) isExpr()            {}
func (*EBoolean) isExpr()           {}
func (*ESuper) isExpr()             {}
func (*ENull) isExpr()              {}
func (*EUndefined) isExpr()         {}
func (*EThis) isExpr()              {}
func (*ENew) isExpr()               {}
func (*ENewTarget) isExpr()         {}
func (*EImportMeta) isExpr()        {}
func (*ECall) isExpr()              {}
func (*EDot) isExpr()               {}
func (*EIndex) isExpr()             {}
func (*EArrow) isExpr()             {}
func (*EFunction) isExpr()          {}
func (*EClass) isExpr()             {}
func (*EIdentifier) isExpr()        {}
func (*EPrivateIdentifier) isExpr() {}
func (*EJSXElement) isExpr()        {}
func (*EJSXText) isExpr()           {}
func (*EMissing) isExpr()           {}
func (*ENumber) isExpr()            {}
func (*EBigInt) isExpr()            {}
func (*EObject) isExpr()            {}
func (*ESpread) isExpr()            {}
func (*EString) isExpr()            {}
func (*ETemplate) isExpr()          {}
func (*ERegExp) isExpr()            {}
func (*EAwait) isExpr()             {}
func (*EYield) isExpr()             {}
func (*EIf) isExpr()                {}
func (*EImport) isExpr()            {}
func (*EParenthesized) isExpr()     {}
func (*ESequence) isExpr()          {}
func (*ETypeAssertion) isExpr()     {}

type Stmt struct {
	Range logger.Range
	Data  S
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type S interface{ isStmt() }

type SBlock struct {
	Stmts   []Stmt
	ScopeID ScopeID
}

type SEmpty struct{}

// This is a stand-in for a TypeScript type declaration
type STypeScript struct{}

type SDebugger struct{}

type SDirective struct {
	Value string
}

// "export { a, b as c }"
type SExportClause struct {
	Items []ExportItem
}

// "export { a, b as c } from 'path'"
type SExportFrom struct {
	Items     []ExportFromItem
	Path      string
	PathRange logger.Range
}

type SExportDefault struct {
	Value Stmt // May be a SExpr or SFunction or SClass
}

// "export * from 'path'"
// "export * as ns from 'path'"
type SExportStar struct {
	AliasOrNil *ExportStarAlias
	Path       string
	PathRange  logger.Range
}

type ExportStarAlias struct {
	Range logger.Range
	Name  string
}

type SExpr struct {
	Value Expr
}

type EnumValue struct {
	Name       string
	NameRange  logger.Range
	ValueOrNil Expr
}

type SEnum struct {
	Name     LocRef
	Values   []EnumValue
	IsExport bool
}

// TypeScript namespaces are parsed but not lowered
type SNamespace struct {
	Name     LocRef
	IsExport bool
}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

type SClass struct {
	Class    Class
	IsExport bool
}

type SLabel struct {
	Name string
	Stmt Stmt
}

type SIf struct {
	Test    Expr
	Yes     Stmt
	NoOrNil Stmt
}

type SFor struct {
	InitOrNil   Stmt // May be a SConst, SLet, SVar, or SExpr
	TestOrNil   Expr
	UpdateOrNil Expr
	Body        Stmt
	ScopeID     ScopeID
}

type SForIn struct {
	Init    Stmt // May be a SConst, SLet, SVar, or SExpr
	Value   Expr
	Body    Stmt
	ScopeID ScopeID
}

type SForOf struct {
	Init    Stmt // May be a SConst, SLet, SVar, or SExpr
	Value   Expr
	Body    Stmt
	ScopeID ScopeID
	IsAwait bool
}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type SWith struct {
	Value Expr
	Body  Stmt
}

type Catch struct {
	BindingOrNil Binding
	Block        SBlock
	Range        logger.Range

	// The catch parameter and the catch body share one scope
	ScopeID ScopeID
}

type Finally struct {
	Block SBlock
	Range logger.Range
}

type STry struct {
	Block   SBlock
	Catch   *Catch
	Finally *Finally
}

type Case struct {
	ValueOrNil Expr // If this is nil, this is "default" instead of "case"
	Body       []Stmt
}

type SSwitch struct {
	Test    Expr
	Cases   []Case
	ScopeID ScopeID
}

// This object represents all of these types of import statements:
//
//	import 'path'
//	import {item1, item2} from 'path'
//	import * as ns from 'path'
//	import defaultItem, {item1, item2} from 'path'
//	import defaultItem, * as ns from 'path'
//
// Many parts are optional and can be combined in different ways. The only
// restriction is that you cannot have both a clause and a star namespace.
type SImport struct {
	DefaultName   *LocRef
	Items         *[]ClauseItem
	StarNameOrNil *LocRef
	Path          string
	PathRange     logger.Range

	// "import type { T } from 'path'"
	IsTypeOnly bool
}

type SReturn struct {
	ValueOrNil Expr
}

type SThrow struct {
	Value Expr
}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
	LocalUsing
	LocalAwaitUsing
)

func (kind LocalKind) String() string {
	switch kind {
	case LocalLet:
		return "let"
	case LocalConst:
		return "const"
	case LocalUsing:
		return "using"
	case LocalAwaitUsing:
		return "await using"
	}
	return "var"
}

func (kind LocalKind) IsLexical() bool {
	return kind != LocalVar
}

type SLocal struct {
	Decls    []Decl
	Kind     LocalKind
	IsExport bool
}

type SBreak struct {
	Label *string
}

type SContinue struct {
	Label *string
}

func (*SBlock) isStmt()         {}
func (*SDebugger) isStmt()      {}
func (*SDirective) isStmt()     {}
func (*SEmpty) isStmt()         {}
func (*STypeScript) isStmt()    {}
func (*SExportClause) isStmt()  {}
func (*SExportFrom) isStmt()    {}
func (*SExportDefault) isStmt() {}
func (*SExportStar) isStmt()    {}
func (*SExpr) isStmt()          {}
func (*SEnum) isStmt()          {}
func (*SNamespace) isStmt()     {}
func (*SFunction) isStmt()      {}
func (*SClass) isStmt()         {}
func (*SLabel) isStmt()         {}
func (*SIf) isStmt()            {}
func (*SFor) isStmt()           {}
func (*SForIn) isStmt()         {}
func (*SForOf) isStmt()         {}
func (*SDoWhile) isStmt()       {}
func (*SWhile) isStmt()         {}
func (*SWith) isStmt()          {}
func (*STry) isStmt()           {}
func (*SSwitch) isStmt()        {}
func (*SImport) isStmt()        {}
func (*SReturn) isStmt()        {}
func (*SThrow) isStmt()         {}
func (*SLocal) isStmt()         {}
func (*SBreak) isStmt()         {}
func (*SContinue) isStmt()      {}

// An item in an import clause. "Alias" is the name exported by the other
// module and "Name" is the local binding.
type ClauseItem struct {
	Alias      string
	AliasRange logger.Range
	Name       LocRef
	IsTypeOnly bool
}

// An item in a local export clause. "Local" is always an EIdentifier so it is
// resolved like any other reference.
type ExportItem struct {
	Alias      string
	AliasRange logger.Range
	Local      Expr
	IsTypeOnly bool
}

// An item in a re-export clause. Nothing is bound locally.
type ExportFromItem struct {
	Name       string
	Alias      string
	AliasRange logger.Range
	IsTypeOnly bool
}

type Decl struct {
	Binding    Binding
	ValueOrNil Expr
}

func IsModuleDecl(data S) bool {
	switch s := data.(type) {
	case *SImport, *SExportClause, *SExportFrom, *SExportStar, *SExportDefault:
		return true
	case *SLocal:
		return s.IsExport
	case *SFunction:
		return s.IsExport
	case *SClass:
		return s.IsExport
	case *SEnum:
		return s.IsExport
	case *SNamespace:
		return s.IsExport
	}
	return false
}

type AST struct {
	// The text of the "#!" line, if any
	Hashbang      string
	HashbangRange logger.Range

	Directives []string
	Stmts      []Stmt
}
