package grimoire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NodeType distinguishes folders from leaf files in a structure tree
type NodeType string

const (
	NodeTypeFolder NodeType = "folder"
	NodeTypeFile   NodeType = "file"
)

// Valid reports whether t is a known node type
func (t NodeType) Valid() bool {
	return t == NodeTypeFolder || t == NodeTypeFile
}

// NodeID identifies a node inside a structure. Older clients generated
// numeric IDs (millisecond timestamps), so both JSON numbers and JSON
// strings are accepted; IDs are always written back as strings.
type NodeID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NodeID(s)
		return nil
	}

	// Numeric ID: keep the literal digits, no float round-trip
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("node id must be a string or a number: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		if _, ferr := strconv.ParseFloat(n.String(), 64); ferr != nil {
			return fmt.Errorf("invalid numeric node id %q", n.String())
		}
	}
	*id = NodeID(n.String())
	return nil
}

// Node is one entry of a structure tree. Only folders hold children; the
// order of Children is the display and drag order.
type Node struct {
	ID       NodeID   `json:"id"`
	Type     NodeType `json:"type"`
	Name     string   `json:"name"`
	FileType string   `json:"fileType,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// IsFolder reports whether the node is a folder
func (n *Node) IsFolder() bool {
	return n.Type == NodeTypeFolder
}

// MarshalJSON always writes a children array for folders (possibly empty)
// and never writes one for files.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.Type == NodeTypeFolder {
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		return json.Marshal(struct {
			ID       NodeID   `json:"id"`
			Type     NodeType `json:"type"`
			Name     string   `json:"name"`
			FileType string   `json:"fileType,omitempty"`
			Children []*Node  `json:"children"`
		}{n.ID, n.Type, n.Name, n.FileType, children})
	}

	return json.Marshal(struct {
		ID       NodeID   `json:"id"`
		Type     NodeType `json:"type"`
		Name     string   `json:"name"`
		FileType string   `json:"fileType,omitempty"`
	}{n.ID, n.Type, n.Name, n.FileType})
}
