package logger

// Most non-error log messages are given a message ID that can be used to set
// the log level for that message. Errors do not get a message ID because you
// cannot turn errors into non-errors (otherwise the build would incorrectly
// succeed). Verbose and internal debugging output uses "MsgID_None".
type MsgID = uint8

const (
	MsgID_None MsgID = iota

	// JavaScript
	MsgID_JS_AssignToConstant
	MsgID_JS_DirectEval
	MsgID_JS_SemanticError
	MsgID_JS_TopLevelAwait

	// Transform
	MsgID_Transform_UnsupportedSyntax
	MsgID_Transform_DefineReplacement

	MsgID_END // Keep this at the end (used only for tests)
)

func StringToMsgIDs(str string, logLevel LogLevel, overrides map[MsgID]LogLevel) {
	switch str {
	case "assign-to-constant":
		overrides[MsgID_JS_AssignToConstant] = logLevel
	case "direct-eval":
		overrides[MsgID_JS_DirectEval] = logLevel
	case "semantic-error":
		overrides[MsgID_JS_SemanticError] = logLevel
	case "top-level-await":
		overrides[MsgID_JS_TopLevelAwait] = logLevel
	case "unsupported-syntax":
		overrides[MsgID_Transform_UnsupportedSyntax] = logLevel
	case "define-replacement":
		overrides[MsgID_Transform_DefineReplacement] = logLevel
	}
}

func MsgIDToString(id MsgID) string {
	switch id {
	case MsgID_JS_AssignToConstant:
		return "assign-to-constant"
	case MsgID_JS_DirectEval:
		return "direct-eval"
	case MsgID_JS_SemanticError:
		return "semantic-error"
	case MsgID_JS_TopLevelAwait:
		return "top-level-await"
	case MsgID_Transform_UnsupportedSyntax:
		return "unsupported-syntax"
	case MsgID_Transform_DefineReplacement:
		return "define-replacement"
	}
	return ""
}
