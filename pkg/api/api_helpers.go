package api

import (
	"sort"

	"github.com/yuusheng/rolldown/internal/graph"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/js_printer"
	"github.com/yuusheng/rolldown/internal/logger"
)

func convertLocationToPublic(loc *logger.MsgLocation) *Location {
	if loc == nil {
		return nil
	}
	return &Location{
		File:     loc.File,
		Line:     loc.Line,
		Column:   loc.Column,
		Length:   loc.Length,
		LineText: loc.LineText,
	}
}

func convertMessagesToPublic(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			filtered = append(filtered, Message{
				ID:       logger.MsgIDToString(msg.ID),
				Text:     msg.Text,
				Location: convertLocationToPublic(msg.Location),
			})
		}
	}
	return filtered
}

func convertSpan(r logger.Range) Span {
	return Span{Start: r.Loc.Start, Len: r.Len}
}

func convertSpanOrNil(r *logger.Range) *Span {
	if r == nil {
		return nil
	}
	span := convertSpan(*r)
	return &span
}

func convertModuleToPublic(module *graph.Module, emitCode bool) Module {
	result := Module{
		Path:     module.Source.PrettyPath,
		Loader:   module.Loader.String(),
		Failed:   module.Failed,
		Errors:   convertMessagesToPublic(logger.Error, module.Msgs),
		Warnings: convertMessagesToPublic(logger.Warning, module.Msgs),
	}

	scan := module.Scan
	if scan == nil {
		return result
	}

	symbols := &module.Semantic.Symbols
	name := func(ref js_ast.Ref) string {
		if ref == js_ast.InvalidRef {
			return ""
		}
		return symbols.Get(ref).OriginalName
	}
	names := func(refs []js_ast.Ref) []string {
		var result []string
		for _, ref := range refs {
			result = append(result, name(ref))
		}
		return result
	}

	result.ExportsKind = module.Meta.ExportsKind.String()
	result.HasSideEffects = module.Meta.HasSideEffects
	result.HasEval = scan.HasEval
	result.CJSModuleIdent = convertSpanOrNil(scan.CJSModuleIdent)
	result.CJSExportsIdent = convertSpanOrNil(scan.CJSExportsIdent)
	result.Hashbang = convertSpanOrNil(scan.HashbangRange)
	result.StarExports = scan.StarExportRecords

	for _, info := range scan.StmtInfos {
		stmt := Statement{
			Index:         info.Index,
			HasSideEffect: info.HasSideEffect,
			Declared:      names(info.DeclaredSymbols),
			Referenced:    names(info.ReferencedSymbols),
			ImportRecords: info.ImportRecordIndices,
		}
		for _, member := range info.MemberExprRefs {
			stmt.MemberAccess = append(stmt.MemberAccess, MemberAccess{
				Object: name(member.Object),
				Props:  member.Props,
				Span:   convertSpan(member.Range),
			})
		}
		result.Statements = append(result.Statements, stmt)
	}

	for _, record := range scan.ImportRecords {
		result.ImportRecords = append(result.ImportRecords, ImportRecord{
			Path:  record.Path,
			Kind:  record.Kind.String(),
			Span:  convertSpan(record.Range),
			Flags: record.Flags.Strings(),
		})
	}

	// Maps are sorted so the output is stable
	for ref, item := range scan.NamedImports {
		result.NamedImports = append(result.NamedImports, NamedImport{
			Local:    name(ref),
			Imported: item.ImportedName,
			Record:   item.RecordIndex,
		})
	}
	sort.Slice(result.NamedImports, func(i, j int) bool {
		a, b := result.NamedImports[i], result.NamedImports[j]
		if a.Record != b.Record {
			return a.Record < b.Record
		}
		return a.Local < b.Local
	})

	for exported, item := range scan.NamedExports {
		result.NamedExports = append(result.NamedExports, NamedExport{Exported: exported, Local: name(item.Ref)})
	}
	sort.Slice(result.NamedExports, func(i, j int) bool {
		return result.NamedExports[i].Exported < result.NamedExports[j].Exported
	})

	for exported, item := range scan.IndirectExports {
		result.IndirectExports = append(result.IndirectExports, IndirectExport{
			Exported: exported,
			Imported: item.ImportedName,
			Record:   item.RecordIndex,
		})
	}
	sort.Slice(result.IndirectExports, func(i, j int) bool {
		return result.IndirectExports[i].Exported < result.IndirectExports[j].Exported
	})

	for ref := range scan.SelfReferencedClasses {
		result.SelfReferencedClasses = append(result.SelfReferencedClasses, name(ref))
	}
	sort.Strings(result.SelfReferencedClasses)

	if emitCode && module.AST != nil {
		result.Code = string(js_printer.Print(*module.AST, js_printer.Options{}).JS)
	}

	return result
}
