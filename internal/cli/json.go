package cli

import (
	"encoding/json"
	"io"
	"os"
)

var (
	jsonOutput bool
	// envelopeOut receives --json envelopes.
	envelopeOut io.Writer = os.Stdout
)

// Response is the envelope every --json invocation prints as its last line.
type Response struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo describes a failed invocation. Code is one of the Err* constants.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

func isJSONOutput() bool { return jsonOutput }

// writeEnvelope prints resp on a single line, so a session transcript can
// precede it on the same stream.
func writeEnvelope(resp Response) {
	_ = json.NewEncoder(envelopeOut).Encode(resp)
}

func outputSuccess(data interface{}) {
	writeEnvelope(Response{OK: true, Data: data})
}

func outputError(code, message string, details interface{}, suggestion string) {
	writeEnvelope(Response{Error: &ErrorInfo{
		Code:       code,
		Message:    message,
		Details:    details,
		Suggestion: suggestion,
	}})
}
