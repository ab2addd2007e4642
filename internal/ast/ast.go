package ast

// This file contains the module-level data structures produced by the
// scanner and consumed by the module graph. They don't depend on the shape
// of the syntax tree.

import (
	"github.com/yuusheng/rolldown/internal/logger"
)

type ImportKind uint8

const (
	// An ES6 import or re-export statement
	ImportStmt ImportKind = iota

	// A call to "require()"
	ImportRequire

	// An "import()" expression with a string argument
	ImportDynamic
)

func (kind ImportKind) String() string {
	switch kind {
	case ImportStmt:
		return "import-statement"
	case ImportRequire:
		return "require-call"
	case ImportDynamic:
		return "dynamic-import"
	default:
		panic("Internal error")
	}
}

type ImportRecordFlags uint8

const (
	// The request string was synthesized (for example by global injection) and
	// has no position in the source text.
	IsUnspannedImport ImportRecordFlags = 1 << iota

	// The value returned by "require()" is never read. For example:
	//
	//   require('x')
	//   require('x'), other()
	//
	// The module graph can treat such a call like a bare "import 'x'".
	IsRequireUnused
)

func (flags ImportRecordFlags) Has(flag ImportRecordFlags) bool {
	return (flags & flag) != 0
}

func (flags ImportRecordFlags) Strings() []string {
	var names []string
	if flags.Has(IsUnspannedImport) {
		names = append(names, "unspanned")
	}
	if flags.Has(IsRequireUnused) {
		names = append(names, "require-unused")
	}
	return names
}

type ImportRecord struct {
	// The module specifier exactly as written
	Path string

	// The range of the string literal holding the specifier, including quotes
	Range logger.Range

	Flags ImportRecordFlags
	Kind  ImportKind
}

// This stores a 32-bit index where the zero value is an invalid index. This is
// a better alternative to storing the index as a pointer since that has the
// same properties but takes up more space and costs an extra pointer traversal.
type Index32 struct {
	flippedBits uint32
}

func MakeIndex32(index uint32) Index32 {
	return Index32{flippedBits: ^index}
}

func (i Index32) IsValid() bool {
	return i.flippedBits != 0
}

func (i Index32) GetIndex() uint32 {
	return ^i.flippedBits
}
