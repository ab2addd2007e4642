package scanner

import (
	"fmt"

	"github.com/yuusheng/rolldown/internal/ast"
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_semantic"
	"github.com/yuusheng/rolldown/internal/logger"
)

// StmtInfo describes one top-level statement. Statements are the unit of
// tree shaking: a statement is kept if it has side effects or if something
// that is kept uses a symbol it declares.
type StmtInfo struct {
	Index         uint32
	HasSideEffect bool

	// Root symbols bound and read by this statement, without duplicates and in
	// the order they were first seen
	DeclaredSymbols   []js_ast.Ref
	ReferencedSymbols []js_ast.Ref

	// Property chains read off an import, such as "ns.a.b" for "import * as ns"
	MemberExprRefs []MemberExprRef

	// Import records created by this statement
	ImportRecordIndices []uint32
}

type MemberExprRef struct {
	Object js_ast.Ref
	Props  []string
	Range  logger.Range
}

type NamedImport struct {
	// "default", "*" for a namespace import, or the name of the export
	ImportedName string
	RecordIndex  uint32
	Range        logger.Range
}

type LocalExport struct {
	// This is "InvalidRef" for an anonymous "export default" expression
	Ref   js_ast.Ref
	Range logger.Range
}

// An export that forwards a name from another module without binding it
// locally, as in "export { a as b } from 'path'" or "export * as ns from 'path'"
type IndirectExport struct {
	ImportedName string
	RecordIndex  uint32
	Range        logger.Range
}

type ScanResult struct {
	StmtInfos     []StmtInfo
	ImportRecords []ast.ImportRecord

	// Maps the range of each "import()" and "require()" expression to the
	// import record it created
	Imports map[logger.Range]uint32

	// Keyed by the local symbol of each import
	NamedImports map[js_ast.Ref]NamedImport

	NamedExports      map[string]LocalExport
	IndirectExports   map[string]IndirectExport
	StarExportRecords []uint32

	// Named classes whose body refers to the class itself
	SelfReferencedClasses map[js_ast.Ref]bool

	// Ranges of the first "module" in "module.exports = ..." and the first
	// "exports" in "exports.x = ...". These are nil if there is none.
	CJSModuleIdent  *logger.Range
	CJSExportsIdent *logger.Range

	HashbangRange *logger.Range

	HasEval      bool
	HasESMSyntax bool

	Errors   []logger.Msg
	Warnings []logger.Msg
}

// The tag of an ancestor on the visit path. Only the kinds that matter for
// ancestor-sensitive decisions are told apart.
type nodeKind uint8

const (
	nodeStmt nodeKind = iota
	nodeExprStmt
	nodeExpr
	nodeParenthesized
	nodeSequence
)

type visitNode struct {
	kind nodeKind

	// Only set for "nodeSequence"
	sequence *js_ast.ESequence
}

type classContext struct {
	ref        js_ast.Ref
	references map[js_ast.ReferenceID]bool
}

type stmtState struct {
	info       StmtInfo
	declared   map[js_ast.Ref]bool
	referenced map[js_ast.Ref]bool
}

type scanner struct {
	source   *logger.Source
	semantic *js_semantic.Semantic
	options  *config.Options
	globals  *config.ProcessedDefines
	result   *ScanResult

	visitPath  []visitNode
	scopeStack []js_ast.ScopeID

	current stmtState

	// The innermost named class declaration being visited, if any
	class *classContext
}

// Scan walks a module once and collects everything the module graph needs.
// The semantic data must have been built from the tree exactly as it is now.
// Problems are collected into the result instead of stopping the scan. A nil
// "options" skips the checks that depend on the output format.
func Scan(source *logger.Source, tree *js_ast.AST, semantic *js_semantic.Semantic, options *config.Options) *ScanResult {
	s := &scanner{
		source:   source,
		semantic: semantic,
		options:  options,
		result: &ScanResult{
			Imports:               make(map[logger.Range]uint32),
			NamedImports:          make(map[js_ast.Ref]NamedImport),
			NamedExports:          make(map[string]LocalExport),
			IndirectExports:       make(map[string]IndirectExport),
			SelfReferencedClasses: make(map[js_ast.Ref]bool),
		},
	}
	if options != nil && options.Defines != nil {
		s.globals = options.Defines
	} else {
		globals := config.ProcessDefines(nil)
		s.globals = &globals
	}

	s.visitProgram(tree)

	if len(s.visitPath) != 0 || len(s.scopeStack) != 0 {
		panic("Internal error")
	}
	return s.result
}

func (s *scanner) visitProgram(tree *js_ast.AST) {
	s.pushScope(js_ast.RootScopeID)
	for i := range tree.Stmts {
		stmt := &tree.Stmts[i]
		s.current = stmtState{
			info: StmtInfo{
				Index:         uint32(i),
				HasSideEffect: NewSideEffectDetector(s.semantic, s.globals).HasSideEffect(*stmt),
			},
			declared:   make(map[js_ast.Ref]bool),
			referenced: make(map[js_ast.Ref]bool),
		}
		s.visitStmt(stmt)
		s.result.StmtInfos = append(s.result.StmtInfos, s.current.info)
	}
	s.current = stmtState{}
	s.popScope()

	if tree.Hashbang != "" {
		r := tree.HashbangRange
		s.result.HashbangRange = &r
	}
}

func (s *scanner) pushScope(id js_ast.ScopeID) {
	s.scopeStack = append(s.scopeStack, id)
}

func (s *scanner) popScope() {
	s.scopeStack = s.scopeStack[:len(s.scopeStack)-1]
}

func (s *scanner) pushNode(kind nodeKind) {
	s.visitPath = append(s.visitPath, visitNode{kind: kind})
}

func (s *scanner) popNode() {
	s.visitPath = s.visitPath[:len(s.visitPath)-1]
}

// Top-level code is code that runs when the module is evaluated. Blocks
// don't change that but function bodies and class static blocks do.
func (s *scanner) isTopLevel() bool {
	for _, id := range s.scopeStack {
		if s.semantic.Scopes.Get(id).Kind.IsFunctionLike() {
			return false
		}
	}
	return true
}

func (s *scanner) isRootSymbol(ref js_ast.Ref) bool {
	return ref.IsValid() && int(ref.InnerIndex) < len(s.semantic.Symbols.Symbols) &&
		s.semantic.Symbols.Get(ref).ScopeID == js_ast.RootScopeID
}

func (s *scanner) addDeclaredSymbol(ref js_ast.Ref) {
	if !s.current.declared[ref] {
		s.current.declared[ref] = true
		s.current.info.DeclaredSymbols = append(s.current.info.DeclaredSymbols, ref)
	}
}

func (s *scanner) addReferencedSymbol(ref js_ast.Ref) {
	if !s.current.referenced[ref] {
		s.current.referenced[ref] = true
		s.current.info.ReferencedSymbols = append(s.current.info.ReferencedSymbols, ref)
	}
}

func (s *scanner) addMemberExprRef(object js_ast.Ref, props []string, r logger.Range) {
	s.addReferencedSymbol(object)
	s.current.info.MemberExprRefs = append(s.current.info.MemberExprRefs, MemberExprRef{
		Object: object,
		Props:  props,
		Range:  r,
	})
}

func (s *scanner) addImportRecord(path string, kind ast.ImportKind, r logger.Range, flags ast.ImportRecordFlags) uint32 {
	index := uint32(len(s.result.ImportRecords))
	s.result.ImportRecords = append(s.result.ImportRecords, ast.ImportRecord{
		Path:  path,
		Kind:  kind,
		Range: r,
		Flags: flags,
	})
	s.current.info.ImportRecordIndices = append(s.current.info.ImportRecordIndices, index)
	return index
}

func (s *scanner) addError(id logger.MsgID, r logger.Range, text string) {
	s.result.Errors = append(s.result.Errors, logger.Msg{
		ID:       id,
		Kind:     logger.Error,
		Text:     text,
		Location: logger.LocationOrNil(s.source, r),
	})
}

func (s *scanner) addWarning(id logger.MsgID, r logger.Range, text string) {
	s.result.Warnings = append(s.result.Warnings, logger.Msg{
		ID:       id,
		Kind:     logger.Warning,
		Text:     text,
		Location: logger.LocationOrNil(s.source, r),
	})
}

func (s *scanner) checkTopLevelAwait(r logger.Range) {
	if s.options == nil || s.options.OutputFormat.KeepES6ImportExportSyntax() || !s.isTopLevel() {
		return
	}
	s.addError(logger.MsgID_JS_TopLevelAwait, r, fmt.Sprintf(
		"Top-level await is currently not supported with the '%s' output format", s.options.OutputFormat))
}

// Assigning to a constant binding throws at runtime
func (s *scanner) checkConstAssign(id *js_ast.EIdentifier, r logger.Range) {
	ref := s.semantic.Symbols.ResolvedRef(id.ReferenceID)
	if !ref.IsValid() {
		return
	}
	switch s.semantic.Symbols.Get(ref).Kind {
	case js_ast.SymbolConst:
		s.addError(logger.MsgID_JS_AssignToConstant, r, fmt.Sprintf("Cannot assign to %q because it is a constant", id.Name))
	case js_ast.SymbolImport:
		s.addError(logger.MsgID_JS_AssignToConstant, r, fmt.Sprintf("Cannot assign to import %q", id.Name))
	}
}
