package flow

import "fmt"

// DiagnosticKind classifies a tolerated inconsistency in the input data.
type DiagnosticKind string

const (
	// DiagLengthMismatch means parallel carrier/share/unit lists differ in
	// length. The flows were truncated to the shortest list.
	DiagLengthMismatch DiagnosticKind = "length_mismatch"

	// DiagMainCarrierFallback means the designated main carrier is not one
	// of the listed carriers. The first listed carrier was used instead.
	DiagMainCarrierFallback DiagnosticKind = "main_carrier_fallback"
)

// Diagnostic is a warning produced while turning table rows into a graph.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Subject string         `json:"subject"` // Technology the warning is about
	Message string         `json:"message"`
}

// String formats the diagnostic for log output.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Subject, d.Message)
}
