// Package tree holds parsed file trees as a flat arena of nodes addressed by NodeID.
package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/skel/internal/types"
)

// Kind distinguishes files from folders. Only folders own children.
type Kind uint8

const (
	// KindFile is a leaf entry.
	KindFile Kind = iota + 1
	// KindFolder is an entry that may own children.
	KindFolder
)

// String returns the wire name of the kind.
func (kind Kind) String() string {
	switch kind {
	case KindFile:
		return types.NodeTypeFile
	case KindFolder:
		return types.NodeTypeFolder
	default:
		return "unknown"
	}
}

// NodeID indexes a node inside its Tree.
type NodeID int

// InvalidNodeID never refers to a node.
const InvalidNodeID NodeID = -1

const rootNodeID NodeID = 0

var (
	// ErrUnknownNode is returned for identifiers outside the tree.
	ErrUnknownNode = errors.New("unknown node")
	// ErrNotFolder is returned when a child is attached to a file.
	ErrNotFolder = errors.New("node is not a folder")
	// ErrLevelOrder is returned when a child would not be deeper than its parent.
	ErrLevelOrder = errors.New("child level must exceed parent level")
)

const (
	errorUnknownNodeFormat = "node %d: %w"
	errorAttachFormat      = "attach %q under %q: %w"
	pathSeparator          = "/"
)

// Node is a single file or folder entry.
type Node struct {
	Name     string
	Level    int
	Expanded bool
	Content  string

	kind     Kind
	parent   NodeID
	children []NodeID
}

// Kind reports whether the node is a file or a folder.
func (node *Node) Kind() Kind {
	return node.kind
}

// IsFolder reports whether the node can own children.
func (node *Node) IsFolder() bool {
	return node.kind == KindFolder
}

// Tree owns every node reachable from its root.
type Tree struct {
	nodes []Node
}

// New creates a tree holding a single root node.
func New(rootName string, rootKind Kind, rootLevel int) *Tree {
	return &Tree{
		nodes: []Node{{
			Name:     rootName,
			Level:    rootLevel,
			Expanded: true,
			kind:     rootKind,
			parent:   InvalidNodeID,
		}},
	}
}

// Root returns the identifier of the root node.
func (t *Tree) Root() NodeID {
	return rootNodeID
}

// Len returns the number of nodes in the tree, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node for id or nil when id is unknown.
func (t *Tree) Node(id NodeID) *Node {
	if !t.contains(id) {
		return nil
	}
	return &t.nodes[id]
}

// Children returns the ordered children of id. Files and unknown ids have none.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.contains(id) {
		return nil
	}
	children := t.nodes[id].children
	copied := make([]NodeID, len(children))
	copy(copied, children)
	return copied
}

// Parent returns the parent of id; the root has none.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	if !t.contains(id) || t.nodes[id].parent == InvalidNodeID {
		return InvalidNodeID, false
	}
	return t.nodes[id].parent, true
}

// AddChild appends a new node as the last child of parent.
func (t *Tree) AddChild(parent NodeID, name string, kind Kind, level int) (NodeID, error) {
	if !t.contains(parent) {
		return InvalidNodeID, fmt.Errorf(errorUnknownNodeFormat, parent, ErrUnknownNode)
	}
	parentNode := &t.nodes[parent]
	if !parentNode.IsFolder() {
		return InvalidNodeID, fmt.Errorf(errorAttachFormat, name, parentNode.Name, ErrNotFolder)
	}
	if level <= parentNode.Level {
		return InvalidNodeID, fmt.Errorf(errorAttachFormat, name, parentNode.Name, ErrLevelOrder)
	}
	childID := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Name:     name,
		Level:    level,
		Expanded: true,
		kind:     kind,
		parent:   parent,
	})
	t.nodes[parent].children = append(t.nodes[parent].children, childID)
	return childID, nil
}

// Rename overwrites the name of id in place. Sibling names are not checked for uniqueness.
func (t *Tree) Rename(id NodeID, name string) (*Node, error) {
	if !t.contains(id) {
		return nil, fmt.Errorf(errorUnknownNodeFormat, id, ErrUnknownNode)
	}
	t.nodes[id].Name = name
	return &t.nodes[id], nil
}

// ToggleExpanded flips the expanded flag of id and returns the new value.
func (t *Tree) ToggleExpanded(id NodeID) (bool, error) {
	if !t.contains(id) {
		return false, fmt.Errorf(errorUnknownNodeFormat, id, ErrUnknownNode)
	}
	t.nodes[id].Expanded = !t.nodes[id].Expanded
	return t.nodes[id].Expanded, nil
}

// Path joins the names from the root down to id with forward slashes.
func (t *Tree) Path(id NodeID) string {
	if !t.contains(id) {
		return ""
	}
	var segments []string
	for current := id; current != InvalidNodeID; current = t.nodes[current].parent {
		segments = append(segments, t.nodes[current].Name)
	}
	for left, right := 0, len(segments)-1; left < right; left, right = left+1, right-1 {
		segments[left], segments[right] = segments[right], segments[left]
	}
	return strings.Join(segments, pathSeparator)
}

// Subtree copies the nodes reachable from id into a new tree rooted at that node.
// Identifiers are reassigned in depth-first document order.
func (t *Tree) Subtree(id NodeID) *Tree {
	if !t.contains(id) {
		return nil
	}
	source := t.nodes[id]
	copied := &Tree{nodes: make([]Node, 0, len(t.nodes))}
	copied.nodes = append(copied.nodes, Node{
		Name:     source.Name,
		Level:    source.Level,
		Expanded: source.Expanded,
		Content:  source.Content,
		kind:     source.kind,
		parent:   InvalidNodeID,
	})
	t.copyChildren(copied, id, rootNodeID)
	return copied
}

func (t *Tree) copyChildren(destination *Tree, sourceParent NodeID, destinationParent NodeID) {
	for _, sourceChild := range t.nodes[sourceParent].children {
		child := t.nodes[sourceChild]
		childID := NodeID(len(destination.nodes))
		destination.nodes = append(destination.nodes, Node{
			Name:     child.Name,
			Level:    child.Level,
			Expanded: child.Expanded,
			Content:  child.Content,
			kind:     child.kind,
			parent:   destinationParent,
		})
		destination.nodes[destinationParent].children = append(destination.nodes[destinationParent].children, childID)
		t.copyChildren(destination, sourceChild, childID)
	}
}

func (t *Tree) contains(id NodeID) bool {
	return t != nil && id >= 0 && int(id) < len(t.nodes)
}
