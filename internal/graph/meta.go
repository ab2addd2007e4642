package graph

import (
	"github.com/yuusheng/rolldown/internal/ast"
	"github.com/yuusheng/rolldown/internal/scanner"
)

type ExportsKind uint8

const (
	// The module has no import or export syntax and never touches "module" or
	// "exports". It can be treated as either kind.
	ExportsNone ExportsKind = iota

	// The module uses "import" or "export" statements
	ExportsESM

	// The module assigns to "module.exports" or "exports.x" and has no ESM
	// syntax
	ExportsCommonJS
)

func (kind ExportsKind) String() string {
	switch kind {
	case ExportsESM:
		return "esm"
	case ExportsCommonJS:
		return "cjs"
	}
	return "none"
}

// Summary facts derived from a scan result. The linker would recompute these
// many times otherwise, so they are computed once per module here.
type ModuleMeta struct {
	ExportsKind ExportsKind

	// True if any top-level statement has to be kept regardless of use. A
	// module without side effects can be dropped entirely when nothing it
	// exports is used.
	HasSideEffects bool

	// The distinct requested paths, in the order first requested
	Dependencies []string

	// Counts per import kind, indexed by "ast.ImportKind"
	ImportCounts [ast.ImportDynamic + 1]int
}

func computeMeta(result *scanner.ScanResult) ModuleMeta {
	var meta ModuleMeta

	switch {
	case result.HasESMSyntax:
		meta.ExportsKind = ExportsESM
	case result.CJSModuleIdent != nil || result.CJSExportsIdent != nil:
		meta.ExportsKind = ExportsCommonJS
	}

	for _, info := range result.StmtInfos {
		if info.HasSideEffect {
			meta.HasSideEffects = true
			break
		}
	}

	seen := make(map[string]bool)
	for _, record := range result.ImportRecords {
		meta.ImportCounts[record.Kind]++
		if !seen[record.Path] {
			seen[record.Path] = true
			meta.Dependencies = append(meta.Dependencies, record.Path)
		}
	}

	return meta
}
