package exitcode_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/yuusheng/rolldown/internal/exitcode"
)

func TestGet(t *testing.T) {
	base := exitcode.Set(errors.New(""), exitcode.IO)
	wrapped := fmt.Errorf("wrapping: %w", base)

	testCases := map[string]struct {
		error
		int
	}{
		"nil":     {nil, 0},
		"default": {errors.New(""), exitcode.ModuleErrors},
		"help":    {pflag.ErrHelp, exitcode.Usage},
		"set":     {exitcode.Set(errors.New(""), exitcode.Usage), exitcode.Usage},
		"wrapped": {wrapped, exitcode.IO},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.int, exitcode.Get(tc.error), "%v", tc.error)
		})
	}
}

func TestSet(t *testing.T) {
	t.Run("same-message", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, 2)
		assert.Equal(t, err.Error(), coder.Error())
	})
	t.Run("keep-chain", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, 3)
		assert.ErrorIs(t, coder, err)
	})
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, exitcode.Set(nil, 3))
	})
}
