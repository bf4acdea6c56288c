package grimoire

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"grimoires/internal/domain"
)

// sample tree:
//
//	a (folder)
//	  a1 (file)
//	  a2 (folder)
//	    a21 (file)
//	b (file)
func sampleTree() []*Node {
	return []*Node{
		{ID: "a", Type: NodeTypeFolder, Name: "A", Children: []*Node{
			{ID: "a1", Type: NodeTypeFile, Name: "A1", FileType: "note"},
			{ID: "a2", Type: NodeTypeFolder, Name: "A2", Children: []*Node{
				{ID: "a21", Type: NodeTypeFile, Name: "A21", FileType: "note"},
			}},
		}},
		{ID: "b", Type: NodeTypeFile, Name: "B", FileType: "note"},
	}
}

func ids(nodes []*Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, string(n.ID))
	}
	return strings.Join(parts, ",")
}

func TestFind(t *testing.T) {
	tree := sampleTree()

	tests := []struct {
		id         NodeID
		wantFound  bool
		wantIndex  int
		wantParent NodeID
	}{
		{"a", true, 0, ""},
		{"b", true, 1, ""},
		{"a2", true, 1, "a"},
		{"a21", true, 0, "a2"},
		{"missing", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			loc, ok := Find(tree, tt.id)
			if ok != tt.wantFound {
				t.Fatalf("Find(%s) found = %v, want %v", tt.id, ok, tt.wantFound)
			}
			if !ok {
				return
			}
			if loc.Index != tt.wantIndex {
				t.Errorf("Find(%s) index = %d, want %d", tt.id, loc.Index, tt.wantIndex)
			}
			var parent NodeID
			if loc.Parent != nil {
				parent = loc.Parent.ID
			}
			if parent != tt.wantParent {
				t.Errorf("Find(%s) parent = %q, want %q", tt.id, parent, tt.wantParent)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	tree := sampleTree()
	clone := Clone(tree)
	clone[0].Children[0].Name = "changed"
	clone[0].Children = append(clone[0].Children, &Node{ID: "x", Type: NodeTypeFile, Name: "X"})

	if tree[0].Children[0].Name != "A1" {
		t.Errorf("original mutated through clone: %q", tree[0].Children[0].Name)
	}
	if len(tree[0].Children) != 2 {
		t.Errorf("original children len = %d, want 2", len(tree[0].Children))
	}
}

func TestInsert(t *testing.T) {
	parent := NodeID("a")
	fileParent := NodeID("b")
	missing := NodeID("nope")
	node := &Node{ID: "n", Type: NodeTypeFile, Name: "N", FileType: "note"}

	tests := []struct {
		name     string
		parentID *NodeID
		index    int
		wantRoot string
		wantA    string
		wantErr  error
	}{
		{"root start", nil, 0, "n,a,b", "a1,a2", nil},
		{"root end clamped", nil, 99, "a,b,n", "a1,a2", nil},
		{"negative clamped", nil, -5, "n,a,b", "a1,a2", nil},
		{"into folder middle", &parent, 1, "a,b", "a1,n,a2", nil},
		{"into file", &fileParent, 0, "", "", domain.ErrValidation},
		{"missing parent", &missing, 0, "", "", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := sampleTree()
			got, err := Insert(tree, tt.parentID, tt.index, node)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Insert() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
			if ids(got) != tt.wantRoot {
				t.Errorf("root = %s, want %s", ids(got), tt.wantRoot)
			}
			if ids(got[indexOf(got, "a")].Children) != tt.wantA {
				t.Errorf("a children = %s, want %s", ids(got[indexOf(got, "a")].Children), tt.wantA)
			}
			if ids(tree) != "a,b" || ids(tree[0].Children) != "a1,a2" {
				t.Errorf("input tree was mutated")
			}
		})
	}
}

func indexOf(nodes []*Node, id NodeID) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func TestRemove(t *testing.T) {
	tree := sampleTree()

	got, removed, err := Remove(tree, "a2")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed.ID != "a2" || len(removed.Children) != 1 {
		t.Errorf("removed = %+v, want a2 with its child", removed)
	}
	if ids(got[0].Children) != "a1" {
		t.Errorf("a children = %s, want a1", ids(got[0].Children))
	}
	if Count(tree) != 5 {
		t.Errorf("input tree was mutated, count = %d", Count(tree))
	}

	if _, _, err := Remove(tree, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Remove(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMove(t *testing.T) {
	a := NodeID("a")
	a2 := NodeID("a2")
	a21 := NodeID("a21")
	b := NodeID("b")

	tests := []struct {
		name      string
		id        NodeID
		toIndex   int
		newParent *NodeID
		check     func(t *testing.T, got []*Node)
		wantErr   error
	}{
		{
			name: "file to root front", id: "a1", toIndex: 0,
			check: func(t *testing.T, got []*Node) {
				if ids(got) != "a1,a,b" {
					t.Errorf("root = %s", ids(got))
				}
				if ids(got[1].Children) != "a2" {
					t.Errorf("a children = %s", ids(got[1].Children))
				}
			},
		},
		{
			name: "reorder within same parent uses post-removal index", id: "a1", toIndex: 1, newParent: &a,
			check: func(t *testing.T, got []*Node) {
				if ids(got[0].Children) != "a2,a1" {
					t.Errorf("a children = %s", ids(got[0].Children))
				}
			},
		},
		{
			name: "root file into nested folder", id: "b", toIndex: 5, newParent: &a2,
			check: func(t *testing.T, got []*Node) {
				if ids(got) != "a" {
					t.Errorf("root = %s", ids(got))
				}
				if ids(got[0].Children[1].Children) != "a21,b" {
					t.Errorf("a2 children = %s", ids(got[0].Children[1].Children))
				}
			},
		},
		{name: "into itself", id: "a", newParent: &a, wantErr: domain.ErrValidation},
		{name: "into descendant", id: "a", newParent: &a21, wantErr: domain.ErrValidation},
		{name: "into nested descendant folder", id: "a", newParent: &a2, wantErr: domain.ErrValidation},
		{name: "under a file", id: "a1", newParent: &b, wantErr: domain.ErrValidation},
		{name: "unknown node", id: "zz", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := sampleTree()
			got, err := Move(tree, tt.id, tt.toIndex, tt.newParent)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Move() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Move() error = %v", err)
			}
			if Count(got) != 5 {
				t.Errorf("Count() = %d after move, want 5", Count(got))
			}
			tt.check(t, got)
		})
	}
}

func TestRename(t *testing.T) {
	got, err := Rename(sampleTree(), "a21", "Renamed")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	loc, _ := Find(got, "a21")
	if loc.Node.Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", loc.Node.Name)
	}
	if _, err := Rename(sampleTree(), "zz", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Rename(missing) error = %v, want ErrNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	limits := TreeLimits{MaxDepth: 3, MaxNodes: 10, MaxNameLength: 10}

	deep := []*Node{{ID: "1", Type: NodeTypeFolder, Name: "1", Children: []*Node{
		{ID: "2", Type: NodeTypeFolder, Name: "2", Children: []*Node{
			{ID: "3", Type: NodeTypeFolder, Name: "3", Children: []*Node{
				{ID: "4", Type: NodeTypeFile, Name: "4"},
			}},
		}},
	}}}

	many := make([]*Node, 11)
	for i := range many {
		many[i] = &Node{ID: NodeID(rune('a' + i)), Type: NodeTypeFile, Name: "f"}
	}

	tests := []struct {
		name    string
		nodes   []*Node
		limits  TreeLimits
		wantErr bool
	}{
		{"valid sample", sampleTree(), limits, false},
		{"empty tree", nil, limits, false},
		{"too deep", deep, limits, true},
		{"too many", many, limits, true},
		{"missing id", []*Node{{Type: NodeTypeFile, Name: "x"}}, limits, true},
		{"bad type", []*Node{{ID: "1", Type: "doc", Name: "x"}}, limits, true},
		{"blank name", []*Node{{ID: "1", Type: NodeTypeFile, Name: "   "}}, limits, true},
		{"long name", []*Node{{ID: "1", Type: NodeTypeFile, Name: "abcdefghijk"}}, limits, true},
		{"file with children", []*Node{{ID: "1", Type: NodeTypeFile, Name: "x", Children: []*Node{
			{ID: "2", Type: NodeTypeFile, Name: "y"},
		}}}, limits, true},
		{"duplicate ids", []*Node{
			{ID: "1", Type: NodeTypeFile, Name: "x"},
			{ID: "1", Type: NodeTypeFile, Name: "y"},
		}, limits, true},
		{"file type required", []*Node{{ID: "1", Type: NodeTypeFile, Name: "x"}}, TreeLimits{RequireFileTyp: true}, true},
		{"null root node", []*Node{nil}, limits, true},
		{"null child node", []*Node{{ID: "1", Type: NodeTypeFolder, Name: "x", Children: []*Node{nil}}}, limits, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.nodes, tt.limits)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	nodes := []*Node{
		{ID: "1", Type: NodeTypeFolder, Name: "  Café  "},
		{ID: "2", Type: NodeTypeFile, Name: "x", FileType: " note "},
	}
	Normalize(nodes)

	if nodes[0].Name != "Café" {
		t.Errorf("Name = %q, want NFC trimmed", nodes[0].Name)
	}
	if nodes[0].Children == nil {
		t.Errorf("folder children should be non-nil after Normalize")
	}
	if nodes[1].FileType != "note" {
		t.Errorf("FileType = %q, want note", nodes[1].FileType)
	}
}

func TestValidStructureType(t *testing.T) {
	tests := map[string]bool{
		"files":      true,
		"characters": true,
		"map_2":      true,
		"":           false,
		"Files":      false,
		"a b":        false,
		"../etc":     false,
	}
	for in, want := range tests {
		if got := ValidStructureType(in); got != want {
			t.Errorf("ValidStructureType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNodeJSON(t *testing.T) {
	input := `[{"id":1718000000000,"type":"folder","name":"Root"},{"id":"f1","type":"file","name":"Doc","fileType":"note"}]`

	var nodes []*Node
	if err := json.Unmarshal([]byte(input), &nodes); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if nodes[0].ID != "1718000000000" {
		t.Errorf("numeric id = %q, want literal digits", nodes[0].ID)
	}

	out, err := json.Marshal(nodes)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `[{"id":"1718000000000","type":"folder","name":"Root","children":[]},{"id":"f1","type":"file","name":"Doc","fileType":"note"}]`
	if string(out) != want {
		t.Errorf("Marshal() = %s\nwant %s", out, want)
	}

	var bad []*Node
	if err := json.Unmarshal([]byte(`[{"id":{"x":1},"type":"file","name":"n"}]`), &bad); err == nil {
		t.Errorf("Unmarshal() with object id should fail")
	}
}

func TestNullNodesFromJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"root", `[null]`},
		{"nested", `[{"id":"1","type":"folder","name":"Profils","children":[null]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nodes []*Node
			if err := json.Unmarshal([]byte(tt.body), &nodes); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			Normalize(nodes)
			if err := Validate(nodes, TreeLimits{}); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
			if _, ok := Find(nodes, "missing"); ok {
				t.Error("Find() matched a missing id")
			}
			if got := Clone(nodes); len(got) != len(nodes) {
				t.Errorf("Clone() len = %d, want %d", len(got), len(nodes))
			}
		})
	}
}
