package js_ast

import (
	"github.com/yuusheng/rolldown/internal/logger"
)

type SymbolKind uint8

const (
	// This has special merging behavior. You're allowed to re-declare these
	// symbols more than once in the same scope. These symbols are also hoisted
	// out of the scope they are declared in to the closest containing function
	// or module scope. These are the symbols with this kind:
	//
	// - Function arguments
	// - Function statements
	// - Variables declared using "var"
	//
	SymbolHoisted SymbolKind = iota
	SymbolHoistedFunction

	// A catch variable declared using a simple identifier
	SymbolCatchIdentifier

	// The name of a function expression, visible only inside the function
	SymbolFunctionExpressionName

	// Classes are lexically scoped. Their name is also visible inside the class
	// body, which is how self-references are detected.
	SymbolClass

	// TypeScript enums are lowered to a "var" plus an IIFE
	SymbolTSEnum

	// Imports are bound in the module scope and are read-only
	SymbolImport

	// Assigning to a "const" symbol will throw a TypeError at runtime
	SymbolConst

	// This annotates all other symbols that don't have special behavior.
	// For example, "let" declarations.
	SymbolOther
)

func (kind SymbolKind) String() string {
	switch kind {
	case SymbolHoisted:
		return "hoisted"
	case SymbolHoistedFunction:
		return "hoisted-function"
	case SymbolCatchIdentifier:
		return "catch-identifier"
	case SymbolFunctionExpressionName:
		return "function-expression-name"
	case SymbolClass:
		return "class"
	case SymbolTSEnum:
		return "ts-enum"
	case SymbolImport:
		return "import"
	case SymbolConst:
		return "const"
	default:
		return "other"
	}
}

func (kind SymbolKind) IsHoisted() bool {
	return kind == SymbolHoisted || kind == SymbolHoistedFunction
}

// Assigning to one of these symbols is a runtime error
func (kind SymbolKind) IsConstant() bool {
	return kind == SymbolConst || kind == SymbolImport
}

var InvalidRef Ref = Ref{^uint32(0), ^uint32(0)}

// Files are scanned in parallel for speed. Each symbol ID has two parts: an
// outer index that is the source index of the file and an inner index into
// that file's symbol table. This keeps refs from different files distinct
// without any coordination between goroutines.
type Ref struct {
	OuterIndex uint32
	InnerIndex uint32
}

func (ref Ref) IsValid() bool {
	return ref != InvalidRef
}

type ReferenceID uint32

const InvalidReferenceID ReferenceID = ^ReferenceID(0)

type ScopeID uint32

const InvalidScopeID ScopeID = ^ScopeID(0)

// The root of the scope tree is always the module scope
const RootScopeID ScopeID = 0

type SymbolFlags uint8

const (
	// The symbol is written to somewhere other than its declaration
	SymbolIsReassigned SymbolFlags = 1 << iota

	// The symbol was declared more than once (e.g. "var a; var a")
	SymbolWasRedeclared
)

func (flags SymbolFlags) Has(flag SymbolFlags) bool {
	return (flags & flag) != 0
}

type Symbol struct {
	// This is the name that came from the parser
	OriginalName string

	// The range of the first declaration
	Range logger.Range

	// The scope that owns the binding. A symbol is a root symbol iff this is
	// the module scope.
	ScopeID ScopeID

	Kind  SymbolKind
	Flags SymbolFlags
}

type ReferenceFlags uint8

const (
	ReferenceRead ReferenceFlags = 1 << iota
	ReferenceWrite
)

func (flags ReferenceFlags) Has(flag ReferenceFlags) bool {
	return (flags & flag) != 0
}

type Reference struct {
	Name  string
	Range logger.Range

	// The scope the reference occurs in
	ScopeID ScopeID

	// This is "InvalidRef" if the reference is unresolved (i.e. a global)
	Ref Ref

	Flags ReferenceFlags
}

type SymbolTable struct {
	SourceIndex uint32
	Symbols     []Symbol
	References  []Reference

	// For each symbol, every reference that resolved to it
	ResolvedReferences [][]ReferenceID

	// References that didn't resolve to any binding, grouped by name
	RootUnresolvedReferences map[string][]ReferenceID
}

func (t *SymbolTable) Get(ref Ref) *Symbol {
	return &t.Symbols[ref.InnerIndex]
}

func (t *SymbolTable) GetReference(id ReferenceID) *Reference {
	return &t.References[id]
}

func (t *SymbolTable) RefForIndex(index int) Ref {
	return Ref{OuterIndex: t.SourceIndex, InnerIndex: uint32(index)}
}

// Returns the symbol a reference resolved to, or "InvalidRef" for references
// that are unresolved or that were synthesized after the table was built.
func (t *SymbolTable) ResolvedRef(id ReferenceID) Ref {
	if id == InvalidReferenceID || int(id) >= len(t.References) {
		return InvalidRef
	}
	return t.References[id].Ref
}

type ScopeKind uint8

const (
	ScopeBlock ScopeKind = iota
	ScopeFor
	ScopeCatch
	ScopeSwitch
	ScopeClassBody

	// The scopes below stop hoisted variables from extending into parent scopes
	ScopeEntry // This is the module
	ScopeFunction
	ScopeClassStaticBlock
)

func (kind ScopeKind) String() string {
	switch kind {
	case ScopeBlock:
		return "block"
	case ScopeFor:
		return "for"
	case ScopeCatch:
		return "catch"
	case ScopeSwitch:
		return "switch"
	case ScopeClassBody:
		return "class-body"
	case ScopeEntry:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeClassStaticBlock:
		return "class-static-block"
	}
	return ""
}

func (kind ScopeKind) StopsHoisting() bool {
	return kind >= ScopeEntry
}

// Functions and class static blocks have their own "await" semantics
func (kind ScopeKind) IsFunctionLike() bool {
	return kind == ScopeFunction || kind == ScopeClassStaticBlock
}

type ScopeFlags uint8

const (
	ScopeIsArrow ScopeFlags = 1 << iota
	ScopeIsStrict
)

func (flags ScopeFlags) Has(flag ScopeFlags) bool {
	return (flags & flag) != 0
}

type Scope struct {
	Members  map[string]Ref
	Children []ScopeID
	Range    logger.Range
	Parent   ScopeID
	Kind     ScopeKind
	Flags    ScopeFlags
}

type ScopeTree struct {
	Scopes []Scope

	// Child scope ids are only filled in when requested because most passes
	// only ever walk upward
	HasChildIDs bool
}

func (t *ScopeTree) Get(id ScopeID) *Scope {
	return &t.Scopes[id]
}

// Returns "InvalidRef" if the name isn't bound in the scope or any ancestor
func (t *ScopeTree) FindBinding(id ScopeID, name string) Ref {
	for id != InvalidScopeID {
		scope := &t.Scopes[id]
		if ref, ok := scope.Members[name]; ok {
			return ref
		}
		id = scope.Parent
	}
	return InvalidRef
}

func (t *ScopeTree) Ancestors(id ScopeID) []ScopeID {
	var result []ScopeID
	for id != InvalidScopeID {
		result = append(result, id)
		id = t.Scopes[id].Parent
	}
	return result
}
