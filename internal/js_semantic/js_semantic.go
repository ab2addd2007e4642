package js_semantic

import (
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

// Counts from a previous build of the same module. Rebuilding after a
// transform uses them to size the tables up front.
type Stats struct {
	Nodes      uint32
	Scopes     uint32
	Symbols    uint32
	References uint32
}

// Semantic is the symbol table and scope tree of one module. It describes
// the tree as it was when it was built. Any pass that mutates the tree must
// rebuild it before reading it again.
type Semantic struct {
	Symbols js_ast.SymbolTable
	Scopes  js_ast.ScopeTree
	Stats   Stats

	// Redeclaration errors and similar problems found while binding
	Errors []logger.Msg
}

// ResolveToRootSymbol returns the symbol an identifier refers to if that
// symbol is declared in the module scope. Unresolved references and
// references to nested bindings return false.
func (s *Semantic) ResolveToRootSymbol(id *js_ast.EIdentifier) (js_ast.Ref, bool) {
	ref := s.Symbols.ResolvedRef(id.ReferenceID)
	if ref == js_ast.InvalidRef {
		return js_ast.InvalidRef, false
	}
	if s.Symbols.Get(ref).ScopeID != js_ast.RootScopeID {
		return js_ast.InvalidRef, false
	}
	return ref, true
}

// IsGlobalReference returns true if the identifier has no declaration
// anywhere in the module. Identifiers synthesized after the last build have
// no reference and count as global.
func (s *Semantic) IsGlobalReference(id *js_ast.EIdentifier) bool {
	return s.Symbols.ResolvedRef(id.ReferenceID) == js_ast.InvalidRef
}

// Returns true if the name is referenced somewhere without being declared
func (s *Semantic) HasUnresolvedReference(name string) bool {
	return len(s.Symbols.RootUnresolvedReferences[name]) > 0
}

// Returns the references that resolved to a symbol, in source order
func (s *Semantic) ResolvedReferences(ref js_ast.Ref) []js_ast.ReferenceID {
	if !ref.IsValid() || int(ref.InnerIndex) >= len(s.Symbols.ResolvedReferences) {
		return nil
	}
	return s.Symbols.ResolvedReferences[ref.InnerIndex]
}

// Returns true if any reference that resolved to the symbol reads it
func (s *Semantic) IsRead(ref js_ast.Ref) bool {
	for _, id := range s.ResolvedReferences(ref) {
		if s.Symbols.GetReference(id).Flags.Has(js_ast.ReferenceRead) {
			return true
		}
	}
	return false
}
