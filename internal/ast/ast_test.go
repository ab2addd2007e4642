package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportRecordFlags(t *testing.T) {
	var flags ImportRecordFlags
	assert.False(t, flags.Has(IsUnspannedImport))
	assert.Empty(t, flags.Strings())

	flags |= IsRequireUnused
	assert.True(t, flags.Has(IsRequireUnused))
	assert.False(t, flags.Has(IsUnspannedImport))
	assert.Equal(t, []string{"require-unused"}, flags.Strings())

	flags |= IsUnspannedImport
	assert.Equal(t, []string{"unspanned", "require-unused"}, flags.Strings())
}

func TestIndex32(t *testing.T) {
	var zero Index32
	assert.False(t, zero.IsValid())

	index := MakeIndex32(0)
	assert.True(t, index.IsValid())
	assert.Equal(t, uint32(0), index.GetIndex())
	assert.Equal(t, uint32(42), MakeIndex32(42).GetIndex())
}

func TestImportKindString(t *testing.T) {
	assert.Equal(t, "import-statement", ImportStmt.String())
	assert.Equal(t, "require-call", ImportRequire.String())
	assert.Equal(t, "dynamic-import", ImportDynamic.String())
}
