package main

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/chazu/strata/pkg/engine"
	"github.com/chazu/strata/pkg/layer"
	"github.com/rs/zerolog"
)

// newTestApp returns an App that mints ids n1, n2, ...
func newTestApp() *App {
	newID := layer.Sequence("n")
	return &App{
		engine: engine.NewEngine(engine.WithIDFunc(newID)),
		newID:  newID,
		log:    zerolog.Nop(),
	}
}

// outline renders ids as "A g1[B C]".
func outline(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	layers, err := layer.DecodeTree(raw)
	if err != nil {
		t.Fatalf("decoding result document: %v", err)
	}
	return outlineOf(layers)
}

func outlineOf(layers []*layer.Node) string {
	parts := make([]string, 0, len(layers))
	for _, n := range layers {
		s := n.ID
		if n.IsGroup() {
			s += "[" + outlineOf(n.Children()) + "]"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func frameByID(frames []FrameData, id string) (FrameData, bool) {
	for _, f := range frames {
		if f.ID == id {
			return f, true
		}
	}
	return FrameData{}, false
}

// TestE2ECardExample exercises the full pipeline: script -> engine ->
// layer tree -> bounds. This is the path the frontend binding takes.
func TestE2ECardExample(t *testing.T) {
	app := newTestApp()

	source, err := os.ReadFile("examples/card.strata")
	if err != nil {
		t.Fatalf("failed to read card.strata: %v", err)
	}

	result := app.Evaluate("", string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	if got, want := outline(t, result.Layers), "bg shade content[n1[avatar] title subtitle badge]"; got != want {
		t.Fatalf("document = %s, want %s", got, want)
	}
	if len(result.Frames) != 8 {
		t.Fatalf("expected 8 frames, got %d", len(result.Frames))
	}

	tests := []struct {
		id       string
		min, max [2]float64
		depth    int
	}{
		{"bg", [2]float64{0, 0}, [2]float64{320, 200}, 0},
		{"content", [2]float64{0, 0}, [2]float64{320, 200}, 0},
		{"n1", [2]float64{20, 60}, [2]float64{100, 140}, 1},
		// Wrapping leaves the avatar where it was.
		{"avatar", [2]float64{20, 60}, [2]float64{100, 140}, 2},
		{"title", [2]float64{110, 65}, [2]float64{290, 95}, 1},
		{"badge", [2]float64{288, 8}, [2]float64{312, 32}, 1},
	}
	for _, tt := range tests {
		f, ok := frameByID(result.Frames, tt.id)
		if !ok {
			t.Errorf("no frame for %q", tt.id)
			continue
		}
		if f.Min != tt.min || f.Max != tt.max || f.Depth != tt.depth {
			t.Errorf("frame %s = %v..%v depth %d, want %v..%v depth %d",
				tt.id, f.Min, f.Max, f.Depth, tt.min, tt.max, tt.depth)
		}
	}

	layers, _ := layer.DecodeTree(result.Layers)
	if bg := layers[0]; bg.Opacity == nil || *bg.Opacity != 0.95 {
		t.Errorf("background opacity = %v, want 0.95", bg.Opacity)
	}
	if g := layers[2].Children()[0]; g.Name != "Avatar" {
		t.Errorf("wrapper name = %q, want the wrapped layer's name", g.Name)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("", "")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if string(result.Layers) != "[]" {
		t.Errorf("expected empty document, got %s", result.Layers)
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	doc := `[{"id": "a", "type": "basic"}]`
	result := app.Evaluate(doc, `(add-layer (layer :id "b"`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	// The base document comes back untouched.
	if got := outline(t, result.Layers); got != "a" {
		t.Errorf("document on error = %s, want a", got)
	}
	if len(result.Frames) != 0 {
		t.Errorf("expected no frames on error, got %d", len(result.Frames))
	}
}

// TestE2ESingleLayer ensures a minimal script yields one layer.
func TestE2ESingleLayer(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("", `(add-layer (layer :type :text :id "t" :text "hi" :size (size 40 10)))`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(result.Frames))
	}
	if result.Frames[0].ID != "t" {
		t.Errorf("expected frame id 't', got %q", result.Frames[0].ID)
	}
}
