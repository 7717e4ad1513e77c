package layer

import (
	"strings"
	"testing"
)

// hasFinding returns true if errs contains a finding of severity whose
// message contains substr.
func hasFinding(errs []ValidationError, sev ValidationSeverity, substr string) bool {
	for _, e := range errs {
		if e.Severity == sev && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func validTree() []*Node {
	return []*Node{
		{ID: "bg", Size: Size{320, 480}},
		{ID: "g1", Size: Size{100, 100}, Data: GroupData{Children: []*Node{
			{ID: "t1", Opacity: Ptr(1.0), Data: TextData{Text: "hi"}},
		}}},
	}
}

func TestValidateValidTree(t *testing.T) {
	if errs := Validate(validTree()); len(errs) != 0 {
		t.Errorf("expected no findings, got %v", errs)
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	layers := validTree()
	layers = append(layers, &Node{ID: "t1"})

	errs := Validate(layers)
	if !hasFinding(errs, SeverityError, "duplicate id") {
		t.Fatalf("expected duplicate id error, got %v", errs)
	}
	if !HasErrors(errs) {
		t.Error("HasErrors should be true")
	}
	if errs[0].NodeID != "t1" {
		t.Errorf("finding on %q, want t1", errs[0].NodeID)
	}
}

func TestValidateStructure(t *testing.T) {
	layers := []*Node{
		nil,
		{Name: "anonymous"},
		{ID: "g", Data: GroupData{Children: []*Node{nil}}},
	}
	errs := Validate(layers)
	for _, want := range []string{"root 0 is nil", "empty id", "child 0 is nil"} {
		if !hasFinding(errs, SeverityError, want) {
			t.Errorf("missing %q in %v", want, errs)
		}
	}
}

func TestValidateGeometryWarnings(t *testing.T) {
	layers := []*Node{
		{ID: "a", Size: Size{-1, 10}},
		{ID: "b", Opacity: Ptr(1.5)},
	}
	errs := Validate(layers)
	if HasErrors(errs) {
		t.Errorf("geometry findings must be warnings: %v", errs)
	}
	if !hasFinding(errs, SeverityWarning, "negative size") {
		t.Errorf("missing size warning: %v", errs)
	}
	if !hasFinding(errs, SeverityWarning, "opacity 1.5") {
		t.Errorf("missing opacity warning: %v", errs)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{NodeID: "x", Message: "duplicate id", Severity: SeverityError}
	if e.Error() != "[error] layer x: duplicate id" {
		t.Errorf("Error() = %q", e.Error())
	}
	e = ValidationError{Message: "m", Severity: SeverityWarning}
	if e.Error() != "[warning] m" {
		t.Errorf("Error() = %q", e.Error())
	}
}
