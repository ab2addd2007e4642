package graph

import (
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/helpers"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_semantic"
	"github.com/yuusheng/rolldown/internal/logger"
	"github.com/yuusheng/rolldown/internal/scanner"
)

// Everything known about one module after the scan phase. A module that
// failed to parse or lower has no tree and no scan result, but still has the
// messages explaining why.
type Module struct {
	Source logger.Source
	Loader config.Loader

	AST      *js_ast.AST
	Semantic js_semantic.Semantic
	Scan     *scanner.ScanResult
	Meta     ModuleMeta

	// The messages reported for this module only, sorted
	Msgs []logger.Msg

	Stages []helpers.StageDuration
	Failed bool
}

func (m *Module) HasErrors() bool {
	for _, msg := range m.Msgs {
		if msg.Kind == logger.Error {
			return true
		}
	}
	return false
}
