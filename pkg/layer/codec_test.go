package layer

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeJSONFlattensPayload(t *testing.T) {
	n := &Node{
		ID:       "t1",
		Name:     "Title",
		Position: Vec2{10, 20},
		Size:     Size{200, 40},
		Opacity:  Ptr(0.5),
		Data:     TextData{Text: "Hello", FontSize: 18},
	}
	raw, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}
	if m["type"] != "text" || m["text"] != "Hello" || m["fontSize"] != 18.0 {
		t.Errorf("unexpected wire form: %s", raw)
	}
	if _, ok := m["children"]; ok {
		t.Errorf("leaf must not carry children: %s", raw)
	}
	if _, ok := m["rotation"]; ok {
		t.Errorf("unset rotation must be omitted: %s", raw)
	}
}

func TestGroupJSONAlwaysHasChildren(t *testing.T) {
	g := &Node{ID: "g", Name: "Empty", Data: GroupData{}}
	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"children":[]`) {
		t.Errorf("empty group must encode children as []: %s", raw)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	src := `[
	  {"id":"bg","name":"Background","type":"basic","position":{"x":0,"y":0},"size":{"w":320,"h":480},"backgroundColor":"#222"},
	  {"id":"g1","name":"Card","type":"group","position":{"x":160,"y":240},"size":{"w":300,"h":200},
	   "rotation":15,"_displayType":"image","children":[
	     {"id":"img","name":"Photo","type":"image","position":{"x":150,"y":100},"size":{"w":300,"h":200},"src":"assets/photo.png","fit":"cover"},
	     {"id":"grad","name":"Shade","type":"gradient","position":{"x":150,"y":100},"size":{"w":300,"h":200},
	      "colors":[{"color":"#0000","location":0},{"color":"#000f","location":1}],"startPoint":{"x":0.5,"y":0},"endPoint":{"x":0.5,"y":1}}
	  ]},
	  {"id":"star","name":"Star","type":"shape","position":{"x":20,"y":20},"size":{"w":16,"h":16},"path":"M0 0 L16 16","fillColor":"#ff0","geometryFlipped":true}
	]`

	layers, err := DecodeTree([]byte(src))
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if len(layers) != 3 || Count(layers) != 5 {
		t.Fatalf("roots = %d, count = %d", len(layers), Count(layers))
	}

	g := layers[1]
	gd, ok := g.Data.(GroupData)
	if !ok {
		t.Fatalf("g1 data = %T", g.Data)
	}
	if gd.DisplayKind == nil || *gd.DisplayKind != KindImage {
		t.Errorf("display kind = %v", gd.DisplayKind)
	}
	if g.Rotation == nil || *g.Rotation != 15 {
		t.Errorf("rotation = %v", g.Rotation)
	}
	img := gd.Children[0].Data.(ImageData)
	if img.Src != "assets/photo.png" || img.Fit != FitCover {
		t.Errorf("image = %+v", img)
	}
	grad := gd.Children[1].Data.(GradientData)
	if len(grad.Stops) != 2 || grad.EndPoint != (Vec2{0.5, 1}) {
		t.Errorf("gradient = %+v", grad)
	}
	if f := layers[2].GeometryFlipped; f == nil || !*f {
		t.Errorf("flipped = %v", f)
	}

	out, err := EncodeTree(layers, false)
	if err != nil {
		t.Fatalf("EncodeTree: %v", err)
	}
	again, err := DecodeTree(out)
	if err != nil {
		t.Fatalf("DecodeTree(EncodeTree): %v", err)
	}
	out2, err := EncodeTree(again, false)
	if err != nil {
		t.Fatalf("EncodeTree: %v", err)
	}
	if string(out) != string(out2) {
		t.Errorf("encoding is not stable:\n%s\n%s", out, out2)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown type", `[{"id":"a","type":"emitter"}]`},
		{"leaf with children", `[{"id":"a","type":"text","children":[{"id":"b"}]}]`},
		{"null root", `[null]`},
		{"null child", `[{"id":"g","type":"group","children":[null]}]`},
		{"not an array", `{"id":"a"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTree([]byte(tt.src)); err == nil {
				t.Errorf("expected error for %s", tt.src)
			}
		})
	}
}

func TestDecodeMissingTypeIsBasic(t *testing.T) {
	layers, err := DecodeTree([]byte(`[{"id":"a","name":"A"}]`))
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if layers[0].Kind() != KindBasic {
		t.Errorf("kind = %s, want basic", layers[0].Kind())
	}
}
