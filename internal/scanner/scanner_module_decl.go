package scanner

import (
	"github.com/yuusheng/rolldown/internal/ast"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

// Fills in the import and export tables for one import or export statement.
// Identifiers inside the statement are visited separately afterward.
func (s *scanner) scanModuleDecl(stmt *js_ast.Stmt) {
	s.result.HasESMSyntax = true

	switch st := stmt.Data.(type) {
	case *js_ast.SImport:
		if st.IsTypeOnly {
			return
		}
		index := s.addModuleRequest(st.Path, st.PathRange)
		if st.DefaultName != nil {
			s.addNamedImport(st.DefaultName, "default", index)
		}
		if st.StarNameOrNil != nil {
			s.addNamedImport(st.StarNameOrNil, "*", index)
		}
		if st.Items != nil {
			for i := range *st.Items {
				item := &(*st.Items)[i]
				if !item.IsTypeOnly {
					s.addNamedImport(&item.Name, item.Alias, index)
				}
			}
		}

	case *js_ast.SExportFrom:
		index := s.addModuleRequest(st.Path, st.PathRange)
		for _, item := range st.Items {
			if !item.IsTypeOnly {
				s.result.IndirectExports[item.Alias] = IndirectExport{
					ImportedName: item.Name,
					RecordIndex:  index,
					Range:        item.AliasRange,
				}
			}
		}

	case *js_ast.SExportStar:
		index := s.addModuleRequest(st.Path, st.PathRange)
		if st.AliasOrNil != nil {
			s.result.IndirectExports[st.AliasOrNil.Name] = IndirectExport{
				ImportedName: "*",
				RecordIndex:  index,
				Range:        st.AliasOrNil.Range,
			}
		} else {
			s.result.StarExportRecords = append(s.result.StarExportRecords, index)
		}

	case *js_ast.SExportClause:
		for _, item := range st.Items {
			if item.IsTypeOnly {
				continue
			}
			if id, ok := item.Local.Data.(*js_ast.EIdentifier); ok {
				if ref, ok := s.semantic.ResolveToRootSymbol(id); ok {
					s.result.NamedExports[item.Alias] = LocalExport{Ref: ref, Range: item.AliasRange}
				}
			}
		}

	case *js_ast.SExportDefault:
		export := LocalExport{Ref: js_ast.InvalidRef, Range: stmt.Range}
		switch value := st.Value.Data.(type) {
		case *js_ast.SFunction:
			if value.Fn.Name != nil {
				export = LocalExport{Ref: value.Fn.Name.Ref, Range: value.Fn.Name.Range}
			}
		case *js_ast.SClass:
			if value.Class.Name != nil {
				export = LocalExport{Ref: value.Class.Name.Ref, Range: value.Class.Name.Range}
			}
		}
		s.result.NamedExports["default"] = export

	case *js_ast.SLocal:
		for _, decl := range st.Decls {
			s.exportBinding(decl.Binding)
		}

	case *js_ast.SFunction:
		s.exportName(st.Fn.Name)

	case *js_ast.SClass:
		s.exportName(st.Class.Name)

	case *js_ast.SEnum:
		s.exportName(&st.Name)

	case *js_ast.SNamespace:
		s.exportName(&st.Name)
	}
}

func (s *scanner) addModuleRequest(path string, r logger.Range) uint32 {
	var flags ast.ImportRecordFlags
	if r.IsEmpty() {
		flags |= ast.IsUnspannedImport
	}
	return s.addImportRecord(path, ast.ImportStmt, r, flags)
}

func (s *scanner) addNamedImport(name *js_ast.LocRef, importedName string, index uint32) {
	if !name.Ref.IsValid() {
		return
	}
	s.result.NamedImports[name.Ref] = NamedImport{
		ImportedName: importedName,
		RecordIndex:  index,
		Range:        name.Range,
	}
}

func (s *scanner) exportName(name *js_ast.LocRef) {
	if name != nil && name.Ref.IsValid() {
		s.result.NamedExports[name.Name] = LocalExport{Ref: name.Ref, Range: name.Range}
	}
}

func (s *scanner) exportBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BIdentifier:
		if b.Ref.IsValid() {
			s.result.NamedExports[b.Name] = LocalExport{Ref: b.Ref, Range: binding.Range}
		}

	case *js_ast.BArray:
		for _, item := range b.Items {
			s.exportBinding(item.Binding)
		}

	case *js_ast.BObject:
		for _, property := range b.Properties {
			s.exportBinding(property.Value)
		}
	}
}
