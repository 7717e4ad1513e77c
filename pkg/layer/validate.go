package layer

import "fmt"

// ValidationSeverity indicates whether a validation finding breaks a tree
// invariant or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // breaks an invariant
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   string             // which layer has the problem (empty if tree-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] layer %s: %s", e.Severity, e.NodeID, e.Message)
}

// Validate checks the structural invariants of a layer tree: every node is
// non-nil, has a non-empty id, and no id occurs twice at any depth. It also
// reports advisory warnings for out-of-range geometry. Validate is
// read-only.
func Validate(layers []*Node) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateStructure(layers, "")...)
	errs = append(errs, validateIDs(layers)...)
	errs = append(errs, validateGeometry(layers)...)
	return errs
}

// HasErrors reports whether errs contains an error-severity finding.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateStructure reports nil entries and nodes without an id.
// Walk skips nil entries, so this one recurses by hand.
func validateStructure(layers []*Node, parent string) []ValidationError {
	var errs []ValidationError
	for i, n := range layers {
		if n == nil {
			msg := fmt.Sprintf("root %d is nil", i)
			if parent != "" {
				msg = fmt.Sprintf("child %d is nil", i)
			}
			errs = append(errs, ValidationError{
				NodeID:   parent,
				Message:  msg,
				Severity: SeverityError,
			})
			continue
		}
		if n.ID == "" {
			errs = append(errs, ValidationError{
				NodeID:   parent,
				Message:  fmt.Sprintf("%s layer %q has an empty id", n.Kind(), n.Name),
				Severity: SeverityError,
			})
		}
		errs = append(errs, validateStructure(n.Children(), n.ID)...)
	}
	return errs
}

// validateIDs reports ids shared by more than one node.
func validateIDs(layers []*Node) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	Walk(layers, func(n *Node, _ int) bool {
		if n.ID == "" {
			return true
		}
		seen[n.ID]++
		if seen[n.ID] == 2 {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  "duplicate id",
				Severity: SeverityError,
			})
		}
		return true
	})
	return errs
}

// validateGeometry warns about values a renderer would clamp or ignore.
func validateGeometry(layers []*Node) []ValidationError {
	var errs []ValidationError
	Walk(layers, func(n *Node, _ int) bool {
		if n.Size.W < 0 || n.Size.H < 0 {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("negative size %s", n.Size),
				Severity: SeverityWarning,
			})
		}
		if n.Opacity != nil && (*n.Opacity < 0 || *n.Opacity > 1) {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("opacity %g outside [0, 1]", *n.Opacity),
				Severity: SeverityWarning,
			})
		}
		return true
	})
	return errs
}
