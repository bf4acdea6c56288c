package grimoire

import (
	"fmt"
	"regexp"
	"strings"

	"grimoires/internal/domain"

	"golang.org/x/text/unicode/norm"
)

// Location describes where a node sits in a tree
type Location struct {
	Node   *Node
	Index  int   // position inside the parent's children (or the root list)
	Parent *Node // nil = root level
}

// TreeLimits bounds the shape of a structure tree
type TreeLimits struct {
	MaxDepth       int
	MaxNodes       int
	MaxNameLength  int
	RequireFileTyp bool // files must carry a fileType (creation dialog rule)
}

var structureTypePattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidStructureType reports whether t is an acceptable structure type key
func ValidStructureType(t string) bool {
	return structureTypePattern.MatchString(t)
}

// Find searches the tree depth-first for the node with the given ID.
func Find(nodes []*Node, id NodeID) (Location, bool) {
	return find(nodes, nil, id)
}

func find(nodes []*Node, parent *Node, id NodeID) (Location, bool) {
	for i, n := range nodes {
		if n == nil {
			continue
		}
		if n.ID == id {
			return Location{Node: n, Index: i, Parent: parent}, true
		}
		if len(n.Children) > 0 {
			if loc, ok := find(n.Children, n, id); ok {
				return loc, true
			}
		}
	}
	return Location{}, false
}

// Clone returns a deep copy of the tree.
func Clone(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		if n == nil {
			continue
		}
		c := *n
		c.Children = Clone(n.Children)
		out[i] = &c
	}
	return out
}

// Walk visits every node depth-first. Returning false from fn stops the walk.
// Nil entries are passed to fn but have no children to descend into.
func Walk(nodes []*Node, fn func(n *Node, depth int) bool) {
	walk(nodes, 1, fn)
}

func walk(nodes []*Node, depth int, fn func(n *Node, depth int) bool) bool {
	for _, n := range nodes {
		if !fn(n, depth) {
			return false
		}
		if n != nil && !walk(n.Children, depth+1, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the tree
func Count(nodes []*Node) int {
	total := 0
	Walk(nodes, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// Normalize trims names, applies NFC normalisation and gives every folder a
// non-nil children slice. It mutates the tree in place.
func Normalize(nodes []*Node) {
	Walk(nodes, func(n *Node, _ int) bool {
		if n == nil {
			return true
		}
		n.Name = norm.NFC.String(strings.TrimSpace(n.Name))
		n.FileType = strings.TrimSpace(n.FileType)
		if n.Type == NodeTypeFolder && n.Children == nil {
			n.Children = []*Node{}
		}
		return true
	})
}

// Validate runs the shape checks of a structure tree. Errors wrap
// domain.ErrValidation.
func Validate(nodes []*Node, limits TreeLimits) error {
	seen := make(map[NodeID]struct{})
	count := 0
	var err error

	Walk(nodes, func(n *Node, depth int) bool {
		count++
		switch {
		case n == nil:
			err = fmt.Errorf("%w: structure contains a null node", domain.ErrValidation)
		case limits.MaxNodes > 0 && count > limits.MaxNodes:
			err = fmt.Errorf("%w: structure exceeds %d nodes", domain.ErrValidation, limits.MaxNodes)
		case limits.MaxDepth > 0 && depth > limits.MaxDepth:
			err = fmt.Errorf("%w: structure nesting exceeds %d levels", domain.ErrValidation, limits.MaxDepth)
		case n.ID == "":
			err = fmt.Errorf("%w: node id is required", domain.ErrValidation)
		case !n.Type.Valid():
			err = fmt.Errorf("%w: node %s has invalid type %q", domain.ErrValidation, n.ID, n.Type)
		case strings.TrimSpace(n.Name) == "":
			err = fmt.Errorf("%w: node %s has an empty name", domain.ErrValidation, n.ID)
		case limits.MaxNameLength > 0 && len([]rune(n.Name)) > limits.MaxNameLength:
			err = fmt.Errorf("%w: node %s name exceeds %d characters", domain.ErrValidation, n.ID, limits.MaxNameLength)
		case n.Type == NodeTypeFile && len(n.Children) > 0:
			err = fmt.Errorf("%w: file node %s cannot have children", domain.ErrValidation, n.ID)
		case limits.RequireFileTyp && n.Type == NodeTypeFile && strings.TrimSpace(n.FileType) == "":
			err = fmt.Errorf("%w: file node %s requires a file type", domain.ErrValidation, n.ID)
		}
		if err != nil {
			return false
		}

		if _, dup := seen[n.ID]; dup {
			err = fmt.Errorf("%w: duplicate node id %s", domain.ErrValidation, n.ID)
			return false
		}
		seen[n.ID] = struct{}{}
		return true
	})

	return err
}

// Insert returns a copy of the tree with node inserted at index under
// parentID (nil = root). The index is clamped to the valid range.
func Insert(nodes []*Node, parentID *NodeID, index int, node *Node) ([]*Node, error) {
	out := Clone(nodes)
	inserted := Clone([]*Node{node})[0]

	if parentID == nil {
		return spliceIn(out, index, inserted), nil
	}

	loc, ok := Find(out, *parentID)
	if !ok {
		return nil, fmt.Errorf("parent node %s: %w", *parentID, domain.ErrNotFound)
	}
	if !loc.Node.IsFolder() {
		return nil, fmt.Errorf("%w: parent node %s is not a folder", domain.ErrValidation, *parentID)
	}
	loc.Node.Children = spliceIn(loc.Node.Children, index, inserted)
	return out, nil
}

// Append inserts node at the end of parentID's children (or of the root).
func Append(nodes []*Node, parentID *NodeID, node *Node) ([]*Node, error) {
	return Insert(nodes, parentID, int(^uint(0)>>1), node)
}

// Remove returns a copy of the tree without the node and the removed node.
func Remove(nodes []*Node, id NodeID) ([]*Node, *Node, error) {
	out := Clone(nodes)
	loc, ok := Find(out, id)
	if !ok {
		return nil, nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}

	if loc.Parent == nil {
		out = spliceOut(out, loc.Index)
	} else {
		loc.Parent.Children = spliceOut(loc.Parent.Children, loc.Index)
	}
	return out, loc.Node, nil
}

// Move detaches the node and re-inserts it at toIndex under newParentID
// (nil = root). toIndex is interpreted after the node has been detached.
func Move(nodes []*Node, id NodeID, toIndex int, newParentID *NodeID) ([]*Node, error) {
	if newParentID != nil {
		if *newParentID == id {
			return nil, fmt.Errorf("%w: cannot move node %s into itself", domain.ErrValidation, id)
		}
		loc, ok := Find(nodes, id)
		if !ok {
			return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
		}
		if _, inside := Find(loc.Node.Children, *newParentID); inside {
			return nil, fmt.Errorf("%w: cannot move node %s into its own descendant", domain.ErrValidation, id)
		}
	}

	remaining, moved, err := Remove(nodes, id)
	if err != nil {
		return nil, err
	}
	return Insert(remaining, newParentID, toIndex, moved)
}

// Rename returns a copy of the tree with the node renamed.
func Rename(nodes []*Node, id NodeID, name string) ([]*Node, error) {
	out := Clone(nodes)
	loc, ok := Find(out, id)
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, domain.ErrNotFound)
	}
	loc.Node.Name = name
	return out, nil
}

func spliceIn(list []*Node, index int, n *Node) []*Node {
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	list = append(list, nil)
	copy(list[index+1:], list[index:])
	list[index] = n
	return list
}

func spliceOut(list []*Node, index int) []*Node {
	out := make([]*Node, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...)
}
