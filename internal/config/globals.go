package config

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/yuusheng/rolldown/internal/js_ast"
)

var processedGlobalsMutex sync.Mutex
var processedGlobals *ProcessedDefines

// These are side-effect free to read. Calls are not assumed to be pure.
var KnownGlobals = [][]string{
	// These global identifiers should exist in all JavaScript environments
	{"Array"},
	{"Boolean"},
	{"Function"},
	{"Math"},
	{"Number"},
	{"Object"},
	{"RegExp"},
	{"String"},

	// Object: Static methods
	// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Object#Static_methods
	{"Object", "assign"},
	{"Object", "create"},
	{"Object", "defineProperties"},
	{"Object", "defineProperty"},
	{"Object", "entries"},
	{"Object", "freeze"},
	{"Object", "fromEntries"},
	{"Object", "getOwnPropertyDescriptor"},
	{"Object", "getOwnPropertyDescriptors"},
	{"Object", "getOwnPropertyNames"},
	{"Object", "getOwnPropertySymbols"},
	{"Object", "getPrototypeOf"},
	{"Object", "is"},
	{"Object", "isExtensible"},
	{"Object", "isFrozen"},
	{"Object", "isSealed"},
	{"Object", "keys"},
	{"Object", "preventExtensions"},
	{"Object", "seal"},
	{"Object", "setPrototypeOf"},
	{"Object", "values"},

	// Object: Instance methods
	// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Object#Instance_methods
	{"Object", "prototype", "__defineGetter__"},
	{"Object", "prototype", "__defineSetter__"},
	{"Object", "prototype", "__lookupGetter__"},
	{"Object", "prototype", "__lookupSetter__"},
	{"Object", "prototype", "hasOwnProperty"},
	{"Object", "prototype", "isPrototypeOf"},
	{"Object", "prototype", "propertyIsEnumerable"},
	{"Object", "prototype", "toLocaleString"},
	{"Object", "prototype", "toString"},
	{"Object", "prototype", "unwatch"},
	{"Object", "prototype", "valueOf"},
	{"Object", "prototype", "watch"},

	// Math: Static properties
	// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Math#Static_properties
	{"Math", "E"},
	{"Math", "LN10"},
	{"Math", "LN2"},
	{"Math", "LOG10E"},
	{"Math", "LOG2E"},
	{"Math", "PI"},
	{"Math", "SQRT1_2"},
	{"Math", "SQRT2"},

	// Math: Static methods
	// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Global_Objects/Math#Static_methods
	{"Math", "abs"},
	{"Math", "acos"},
	{"Math", "acosh"},
	{"Math", "asin"},
	{"Math", "asinh"},
	{"Math", "atan"},
	{"Math", "atan2"},
	{"Math", "atanh"},
	{"Math", "cbrt"},
	{"Math", "ceil"},
	{"Math", "clz32"},
	{"Math", "cos"},
	{"Math", "cosh"},
	{"Math", "exp"},
	{"Math", "expm1"},
	{"Math", "floor"},
	{"Math", "fround"},
	{"Math", "hypot"},
	{"Math", "imul"},
	{"Math", "log"},
	{"Math", "log10"},
	{"Math", "log1p"},
	{"Math", "log2"},
	{"Math", "max"},
	{"Math", "min"},
	{"Math", "pow"},
	{"Math", "random"},
	{"Math", "round"},
	{"Math", "sign"},
	{"Math", "sin"},
	{"Math", "sinh"},
	{"Math", "sqrt"},
	{"Math", "tan"},
	{"Math", "tanh"},
	{"Math", "trunc"},
}

// Each call returns a new node so replacements never share data
type DefineFunc func() js_ast.E

type DefineData struct {
	// This is nil for known globals that are only marked as side-effect free
	DefineFunc DefineFunc

	// True if reading this value is known to not have any side effects. This
	// is the case for all known globals.
	CanBeRemovedIfUnused bool

	// True if a call to this value is known to not have any side effects. For
	// example, a bare call to "Object()" can be removed because it does not
	// have any observable side effects.
	CallCanBeUnwrappedIfUnused bool
}

func mergeDefineData(old DefineData, new DefineData) DefineData {
	if old.CanBeRemovedIfUnused {
		new.CanBeRemovedIfUnused = true
	}
	if old.CallCanBeUnwrappedIfUnused {
		new.CallCanBeUnwrappedIfUnused = true
	}
	return new
}

type DotDefine struct {
	Parts []string
	Data  DefineData
}

type ProcessedDefines struct {
	IdentifierDefines map[string]DefineData

	// Keyed by the last part of the chain, which is the cheapest thing to
	// check first when visiting a property access
	DotDefines map[string][]DotDefine

	userDefineCount int
}

// Returns the define for an unresolved identifier chain such as
// "process.env.NODE_ENV", if any
func (defines *ProcessedDefines) Find(parts []string) (DefineData, bool) {
	if defines == nil || len(parts) == 0 {
		return DefineData{}, false
	}
	if len(parts) == 1 {
		data, ok := defines.IdentifierDefines[parts[0]]
		return data, ok
	}
	for _, define := range defines.DotDefines[parts[len(parts)-1]] {
		if slices.Equal(define.Parts, parts) {
			return define.Data, true
		}
	}
	return DefineData{}, false
}

// Returns true if the user configured any defines. The built-in ones only
// fold "undefined", "NaN" and "Infinity".
func (defines *ProcessedDefines) HasUserDefines() bool {
	return defines != nil && defines.userDefineCount > 0
}

// ParseDefine converts a user-specified define such as "process.env.NODE_ENV"
// = "\"production\"" into define data. The value must be either a JSON
// literal (string, number, boolean or null) or an identifier chain.
func ParseDefine(key string, value string) (DefineData, error) {
	if !js_ast.IsDotChain(key) {
		return DefineData{}, fmt.Errorf("invalid define key %q", key)
	}

	// Identifier chains become property accesses
	if js_ast.IsDotChain(value) {
		parts := strings.Split(value, ".")
		switch value {
		case "undefined":
			return DefineData{DefineFunc: func() js_ast.E { return &js_ast.EUndefined{} }}, nil
		case "true", "false":
			flag := value == "true"
			return DefineData{DefineFunc: func() js_ast.E { return &js_ast.EBoolean{Value: flag} }}, nil
		case "null":
			return DefineData{DefineFunc: func() js_ast.E { return &js_ast.ENull{} }}, nil
		}
		return DefineData{DefineFunc: func() js_ast.E { return js_ast.DotChainFromParts(parts).Data }}, nil
	}

	var literal interface{}
	if err := json.Unmarshal([]byte(value), &literal); err != nil {
		return DefineData{}, fmt.Errorf("invalid define value %q for %q (must be a JSON literal or an identifier): %w", value, key, err)
	}

	switch v := literal.(type) {
	case string:
		return DefineData{DefineFunc: func() js_ast.E { return &js_ast.EString{Value: v} }}, nil
	case float64:
		return DefineData{DefineFunc: func() js_ast.E { return &js_ast.ENumber{Value: v} }}, nil
	case bool:
		return DefineData{DefineFunc: func() js_ast.E { return &js_ast.EBoolean{Value: v} }}, nil
	case nil:
		return DefineData{DefineFunc: func() js_ast.E { return &js_ast.ENull{} }}, nil
	}
	return DefineData{}, fmt.Errorf("invalid define value %q for %q (objects and arrays are not supported)", value, key)
}

// This transformation is expensive, so we only want to do it once. Make sure
// to only call ProcessDefines() once per compilation. Unfortunately Golang
// doesn't have an efficient way to copy a map and the overhead of copying
// all of the properties into a new map once for every new module noticeably
// slows down scanning.
func ProcessDefines(userDefines map[string]DefineData) ProcessedDefines {
	// Optimization: reuse known globals if there are no user-specified defines
	hasUserDefines := len(userDefines) != 0
	if !hasUserDefines {
		processedGlobalsMutex.Lock()
		if processedGlobals != nil {
			defer processedGlobalsMutex.Unlock()
			return *processedGlobals
		}
		processedGlobalsMutex.Unlock()
	}

	result := ProcessedDefines{
		IdentifierDefines: make(map[string]DefineData),
		DotDefines:        make(map[string][]DotDefine),
		userDefineCount:   len(userDefines),
	}

	// Mark these property accesses as free of side effects. That means they can
	// be removed if their result is unused. We can't just remove all unused
	// property accesses since property accesses can have side effects. For
	// example, the property access "a.b.c" has the side effect of throwing an
	// exception if "a.b" is undefined.
	for _, parts := range KnownGlobals {
		tail := parts[len(parts)-1]
		if len(parts) == 1 {
			result.IdentifierDefines[tail] = DefineData{CanBeRemovedIfUnused: true}
		} else {
			result.DotDefines[tail] = append(result.DotDefines[tail], DotDefine{Parts: parts, Data: DefineData{CanBeRemovedIfUnused: true}})
		}
	}

	// Swap in certain literal values because those can be constant folded
	result.IdentifierDefines["undefined"] = DefineData{
		DefineFunc:           func() js_ast.E { return &js_ast.EUndefined{} },
		CanBeRemovedIfUnused: true,
	}
	result.IdentifierDefines["NaN"] = DefineData{
		DefineFunc:           func() js_ast.E { return &js_ast.ENumber{Value: math.NaN()} },
		CanBeRemovedIfUnused: true,
	}
	result.IdentifierDefines["Infinity"] = DefineData{
		DefineFunc:           func() js_ast.E { return &js_ast.ENumber{Value: math.Inf(1)} },
		CanBeRemovedIfUnused: true,
	}

	// Then copy the user-specified defines in afterwards, which will overwrite
	// any known globals above.
	for key, data := range userDefines {
		parts := strings.Split(key, ".")

		// Identifier defines are special-cased
		if len(parts) == 1 {
			result.IdentifierDefines[key] = mergeDefineData(result.IdentifierDefines[key], data)
			continue
		}

		tail := parts[len(parts)-1]
		dotDefines := result.DotDefines[tail]
		found := false

		// Try to merge with existing dot defines first
		for i, define := range dotDefines {
			if slices.Equal(parts, define.Parts) {
				define := &dotDefines[i]
				define.Data = mergeDefineData(define.Data, data)
				found = true
				break
			}
		}

		if !found {
			dotDefines = append(dotDefines, DotDefine{Parts: parts, Data: data})
		}
		result.DotDefines[tail] = dotDefines
	}

	// Potentially cache the result for next time
	if !hasUserDefines {
		processedGlobalsMutex.Lock()
		defer processedGlobalsMutex.Unlock()
		if processedGlobals == nil {
			processedGlobals = &result
		}
	}
	return result
}
