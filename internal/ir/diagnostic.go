package ir

import "encoding/json"

// Severity is the closed set of diagnostic levels (§6.4).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic codes, one per §7 taxonomy entry plus the specific IR-invariant
// violations §4.5 walks for. Codes are stable across versions (§6.4).
const (
	CodeParseError          = "PARSE_ERROR"
	CodeAstValidation       = "AST_VALIDATION"
	CodeUnsupportedConstruct = "UNSUPPORTED_CONSTRUCT"
	CodeIrValidation        = "IR_VALIDATION"
	CodeEmitError           = "EMIT_ERROR"
	CodeMemoryLimit         = "MEMORY_LIMIT"

	// IR_VALIDATION sub-codes, carried in Diagnostic.Message for precision
	// while Code stays the stable, version-independent identifier.
	CodeDanglingRef        = "IR_VALIDATION"
	CodePatternMisplaced   = "IR_VALIDATION"
	CodeYieldOutsideGen    = "IR_VALIDATION"
	CodeAwaitOutsideAsync  = "IR_VALIDATION"
	CodeLoopControlMisuse  = "IR_VALIDATION"
	CodeSuperMisuse        = "IR_VALIDATION"
	CodeOpenOptionalChain  = "IR_VALIDATION"
	CodeUntaggedLiteral    = "IR_VALIDATION"
)

// Diagnostic is a structured compiler message (§6.4). Loc is nil when no
// source position applies (e.g. a MemoryLimit abort).
type Diagnostic struct {
	Severity Severity  `json:"severity"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Loc      *Location `json:"loc,omitempty"`
	NodeID   string    `json:"nodeId,omitempty"`
}

// CLIError is the concrete error type behind every Diagnostic.Code: a
// uniform payload usable both as a Go error (%s via Error()) and as JSON
// output, mirrored from the teacher's internal/core/errorfmt.go.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e CLIError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e CLIError) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Wrap pairs a stable code with an underlying cause, matching the teacher's
// Wrap() helper in internal/core/errorfmt.go.
func Wrap(code, msg string, inner error) error {
	if inner == nil {
		return CLIError{Code: code, Message: msg}
	}
	return CLIError{Code: code, Message: msg, Detail: inner.Error()}
}

// ToDiagnostic renders a CLIError as a Diagnostic at the given severity and
// location, the bridge between stage-local errors and the pipeline's
// ordered diagnostics list.
func ToDiagnostic(sev Severity, err error, loc *Location, nodeID string) Diagnostic {
	if ce, ok := err.(CLIError); ok {
		return Diagnostic{Severity: sev, Code: ce.Code, Message: ce.Error(), Loc: loc, NodeID: nodeID}
	}
	return Diagnostic{Severity: sev, Code: CodeEmitError, Message: err.Error(), Loc: loc, NodeID: nodeID}
}
