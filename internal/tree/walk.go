package tree

import (
	"errors"

	"github.com/temirov/skel/internal/types"
)

// SkipChildren may be returned by a WalkFunc to skip the descendants of a folder.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every visited node with its slash-joined path from the root.
type WalkFunc func(id NodeID, node *Node, path string) error

// Walk visits id and its descendants depth-first in document order.
func Walk(t *Tree, id NodeID, visit WalkFunc) error {
	node := t.Node(id)
	if node == nil {
		return nil
	}
	return walkNode(t, id, node.Name, visit)
}

func walkNode(t *Tree, id NodeID, path string, visit WalkFunc) error {
	node := &t.nodes[id]
	if visitError := visit(id, node, path); visitError != nil {
		if errors.Is(visitError, SkipChildren) {
			return nil
		}
		return visitError
	}
	for _, childID := range node.children {
		childPath := path + pathSeparator + t.nodes[childID].Name
		if walkError := walkNode(t, childID, childPath, visit); walkError != nil {
			return walkError
		}
	}
	return nil
}

// VisibleNode is a row of the interactive preview.
type VisibleNode struct {
	ID    NodeID
	Depth int
}

// Visible lists the nodes whose ancestors are all expanded, in document order.
// Depth is the distance from the root, not the parsed Level.
func Visible(t *Tree) []VisibleNode {
	var rows []VisibleNode
	var collect func(id NodeID, depth int)
	collect = func(id NodeID, depth int) {
		rows = append(rows, VisibleNode{ID: id, Depth: depth})
		node := &t.nodes[id]
		if !node.Expanded {
			return
		}
		for _, childID := range node.children {
			collect(childID, depth+1)
		}
	}
	if t.Len() > 0 {
		collect(t.Root(), 0)
	}
	return rows
}

// Snapshot converts the tree into the nested view used by renderers.
// Folders carry their own file and folder totals.
func Snapshot(t *Tree) *types.TreeOutputNode {
	if t.Len() == 0 {
		return nil
	}
	return snapshotNode(t, t.Root(), t.nodes[t.Root()].Name)
}

func snapshotNode(t *Tree, id NodeID, path string) *types.TreeOutputNode {
	node := &t.nodes[id]
	outputNode := &types.TreeOutputNode{
		Path:     path,
		Name:     node.Name,
		Type:     node.kind.String(),
		Level:    node.Level,
		Expanded: node.Expanded,
		Content:  node.Content,
	}
	if !node.IsFolder() {
		return outputNode
	}
	outputNode.Children = make([]*types.TreeOutputNode, 0, len(node.children))
	for _, childID := range node.children {
		childPath := path + pathSeparator + t.nodes[childID].Name
		outputNode.Children = append(outputNode.Children, snapshotNode(t, childID, childPath))
	}
	counts := Count(t, id)
	outputNode.TotalFiles = counts.Files
	outputNode.TotalFolders = counts.Folders
	return outputNode
}
