package layer

import "testing"

func TestKindStrings(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBasic, "basic"},
		{KindText, "text"},
		{KindImage, "image"},
		{KindShape, "shape"},
		{KindGradient, "gradient"},
		{KindGroup, "group"},
		{Kind(42), "Kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
		if tt.kind > KindGroup {
			continue
		}
		k, ok := ParseKind(tt.want)
		if !ok || k != tt.kind {
			t.Errorf("ParseKind(%q) = %v, %v", tt.want, k, ok)
		}
	}
	if _, ok := ParseKind("emitter"); ok {
		t.Error("ParseKind should reject unknown tags")
	}
}

func TestDataInterface(t *testing.T) {
	// Verify all concrete types implement Data at compile time.
	var _ Data = BasicData{}
	var _ Data = TextData{}
	var _ Data = ImageData{}
	var _ Data = ShapeData{}
	var _ Data = GradientData{}
	var _ Data = GroupData{}
}

func TestNodeKindFollowsData(t *testing.T) {
	n := &Node{ID: "a"}
	if n.Kind() != KindBasic {
		t.Errorf("node without data: kind = %s, want basic", n.Kind())
	}
	if n.Children() != nil {
		t.Error("non-group node should have no children")
	}

	n = &Node{ID: "t", Data: TextData{Text: "hi"}}
	if n.Kind() != KindText || n.IsGroup() {
		t.Errorf("text node: kind = %s, group = %v", n.Kind(), n.IsGroup())
	}

	child := &Node{ID: "c"}
	g := &Node{ID: "g", Data: GroupData{Children: []*Node{child}}}
	if !g.IsGroup() || g.Kind() != KindGroup {
		t.Fatalf("group node: kind = %s", g.Kind())
	}
	if len(g.Children()) != 1 || g.Children()[0] != child {
		t.Errorf("children = %v", g.Children())
	}
}

func TestWithChildren(t *testing.T) {
	a, b := &Node{ID: "a"}, &Node{ID: "b"}
	g := &Node{ID: "g", Name: "group", Data: GroupData{Children: []*Node{a}}}

	g2 := g.WithChildren([]*Node{a, b})
	if g2 == g {
		t.Fatal("WithChildren must return a new node")
	}
	if len(g.Children()) != 1 {
		t.Errorf("original children changed: %d", len(g.Children()))
	}
	if len(g2.Children()) != 2 || g2.Name != "group" || g2.ID != "g" {
		t.Errorf("unexpected copy: %v children=%d", g2, len(g2.Children()))
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("WithChildren on a leaf should panic")
		}
	}()
	a.WithChildren(nil)
}

func TestCopyIsDeep(t *testing.T) {
	leaf := &Node{
		ID:          "leaf",
		AnchorPoint: Ptr(Vec2{0.2, 0.8}),
		Rotation:    Ptr(30.0),
		Data: GradientData{
			Stops: []GradientStop{{Color: "#fff", Location: 0}, {Color: "#000", Location: 1}},
		},
	}
	g := &Node{ID: "g", Data: GroupData{Children: []*Node{leaf}, DisplayKind: Ptr(KindText)}}

	c := g.Copy()
	if c == g || c.Children()[0] == leaf {
		t.Fatal("Copy must allocate new nodes")
	}
	cl := c.Children()[0]
	if cl.ID != "leaf" || *cl.Rotation != 30 {
		t.Errorf("copy lost fields: %v", cl)
	}

	// Writing through the copy must not reach the original.
	cl.AnchorPoint.X = 0.9
	*cl.Rotation = 0
	cl.Data.(GradientData).Stops[0].Color = "#f00"
	*c.Data.(GroupData).DisplayKind = KindImage

	if leaf.AnchorPoint.X != 0.2 || *leaf.Rotation != 30 {
		t.Errorf("original transform changed: %v %v", *leaf.AnchorPoint, *leaf.Rotation)
	}
	if leaf.Data.(GradientData).Stops[0].Color != "#fff" {
		t.Error("original gradient stops changed")
	}
	if *g.Data.(GroupData).DisplayKind != KindText {
		t.Error("original display kind changed")
	}
}

func TestVec2(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 5}
	if a.Add(b) != (Vec2{4, 7}) {
		t.Errorf("Add = %v", a.Add(b))
	}
	if b.Sub(a) != (Vec2{2, 3}) {
		t.Errorf("Sub = %v", b.Sub(a))
	}
	if a.Scale(2) != (Vec2{2, 4}) {
		t.Errorf("Scale = %v", a.Scale(2))
	}
	if !CenterAnchor.Near(Vec2{0.5000001, 0.4999999}, 1e-6) {
		t.Error("Near should accept values within eps")
	}
	if CenterAnchor.Near(Vec2{0.51, 0.5}, 1e-6) {
		t.Error("Near should reject values beyond eps")
	}
	if (Size{100, 40}).Center() != (Vec2{50, 20}) {
		t.Errorf("Center = %v", Size{100, 40}.Center())
	}
	if a.String() != "(1, 2)" {
		t.Errorf("String = %q", a.String())
	}
}

func TestWalkPreOrder(t *testing.T) {
	layers := []*Node{
		{ID: "a"},
		{ID: "g1", Data: GroupData{Children: []*Node{
			{ID: "b"},
			{ID: "g2", Data: GroupData{Children: []*Node{{ID: "c"}}}},
			{ID: "d"},
		}}},
		{ID: "e"},
	}

	want := []string{"a", "g1", "b", "g2", "c", "d", "e"}
	got := IDs(layers)
	if len(got) != len(want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs = %v, want %v", got, want)
		}
	}
	if Count(layers) != 7 {
		t.Errorf("Count = %d, want 7", Count(layers))
	}

	depths := map[string]int{}
	completed := Walk(layers, func(n *Node, depth int) bool {
		depths[n.ID] = depth
		return n.ID != "c"
	})
	if completed {
		t.Error("Walk should report an early stop")
	}
	if depths["c"] != 2 || depths["g1"] != 0 || depths["b"] != 1 {
		t.Errorf("depths = %v", depths)
	}
	if _, ok := depths["d"]; ok {
		t.Error("Walk visited nodes after stopping")
	}
}
