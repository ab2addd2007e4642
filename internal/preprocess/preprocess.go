package preprocess

import (
	"fmt"
	"strings"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/helpers"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_semantic"
	"github.com/yuusheng/rolldown/internal/logger"
)

// TransformError is returned when lowering a module produced at least one
// error. The module can't be scanned after that.
type TransformError struct {
	Path string
	Msgs []logger.Msg
}

func (e *TransformError) Error() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("failed to transform %q", e.Path))
	for _, msg := range e.Msgs {
		sb.WriteString("\n  ")
		sb.WriteString(msg.Text)
	}
	return sb.String()
}

// PreProcessor normalizes one module's tree so the scanner can rely on its
// symbol data. It may be reused for several modules but not concurrently.
type PreProcessor struct {
	timer *helpers.Timer

	// Set once any stage mutated the tree
	astChanged bool

	// Set when the tree was mutated after the last semantic build
	stale bool

	stats js_semantic.Stats
}

func NewPreProcessor(timer *helpers.Timer) *PreProcessor {
	return &PreProcessor{timer: timer}
}

// Build runs every stage in order and returns the tree together with
// semantic data that describes it exactly. The tree is mutated in place.
func (p *PreProcessor) Build(
	log logger.Log,
	source *logger.Source,
	tree *js_ast.AST,
	loader config.Loader,
	options *config.Options,
) (*js_ast.AST, js_semantic.Semantic, error) {
	p.astChanged = false
	p.stale = false

	p.timer.Begin("Initial semantic build")
	semantic := js_semantic.NewBuilder().Build(source, tree)
	p.stats = semantic.Stats
	for _, msg := range semantic.Errors {
		msg.Kind = logger.Warning
		log.AddMsg(msg)
	}
	p.timer.End("Initial semantic build")

	if loader.NeedsLowering() {
		p.timer.Begin("Lower syntax")
		var jsx config.JSXOptions
		if options != nil {
			jsx = options.JSX
		} else {
			jsx = config.DefaultJSXOptions()
		}
		msgs := lowerSyntax(source, tree, &semantic, loader, jsx)
		p.timer.End("Lower syntax")

		var errors []logger.Msg
		for _, msg := range msgs {
			if msg.Kind == logger.Error {
				errors = append(errors, msg)
			} else {
				log.AddMsg(msg)
			}
		}
		if len(errors) > 0 {
			for _, msg := range errors {
				log.AddMsg(msg)
			}
			return nil, js_semantic.Semantic{}, &TransformError{Path: source.PrettyPath, Msgs: errors}
		}

		// Lowering invalidates every reference id, so the tables are rebuilt
		// right away for the stages below
		semantic = p.rebuild(source, tree)
		p.astChanged = true
	}

	if options != nil && options.Defines.HasUserDefines() {
		p.timer.Begin("Replace defines")
		if replaceDefines(source, tree, &semantic, options.Defines, log) {
			p.markChanged()
		}
		p.timer.End("Replace defines")
	}

	if options != nil && len(options.Inject) > 0 {
		p.timer.Begin("Inject globals")
		semantic = p.current(source, tree, semantic)
		if injectGlobals(tree, &semantic, options.Inject) {
			p.markChanged()
		}
		p.timer.End("Inject globals")
	}

	if options != nil && options.TreeShaking {
		p.timer.Begin("Eliminate dead code")
		if p.astChanged {
			semantic = p.rebuild(source, tree)
		}
		if eliminateDeadCode(tree, &semantic, options.Defines) {
			p.markChanged()
		}
		p.timer.End("Eliminate dead code")
	}

	p.timer.Begin("Scan tweaks")
	splitDeclarators(tree)
	p.timer.End("Scan tweaks")

	p.timer.Begin("Ensure span uniqueness")
	ensureSpanUniqueness(source, tree)
	p.timer.End("Ensure span uniqueness")

	p.timer.Begin("Final semantic build")
	semantic = js_semantic.NewBuilder().
		WithStats(p.stats).
		WithScopeChildIDs(true).
		Build(source, tree)
	p.timer.End("Final semantic build")

	return tree, semantic, nil
}

func (p *PreProcessor) markChanged() {
	p.astChanged = true
	p.stale = true
}

func (p *PreProcessor) rebuild(source *logger.Source, tree *js_ast.AST) js_semantic.Semantic {
	semantic := js_semantic.NewBuilder().WithStats(p.stats).Build(source, tree)
	p.stats = semantic.Stats
	p.stale = false
	return semantic
}

// Returns semantic data that matches the tree, rebuilding only if a stage
// mutated it since the last build
func (p *PreProcessor) current(source *logger.Source, tree *js_ast.AST, semantic js_semantic.Semantic) js_semantic.Semantic {
	if p.stale {
		return p.rebuild(source, tree)
	}
	return semantic
}

// Returns true if the tree was mutated by any stage of the last build
func (p *PreProcessor) ASTChanged() bool {
	return p.astChanged
}
