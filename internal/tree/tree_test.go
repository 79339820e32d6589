package tree_test

import (
	"errors"
	"testing"

	"github.com/temirov/skel/internal/tree"
)

// buildAppTree returns app{package.json, src{index.ts}} and the ids of src and index.ts.
func buildAppTree(t *testing.T) (*tree.Tree, tree.NodeID, tree.NodeID) {
	t.Helper()
	appTree := tree.New("app", tree.KindFolder, 0)
	if _, err := appTree.AddChild(appTree.Root(), "package.json", tree.KindFile, 1); err != nil {
		t.Fatalf("add package.json: %v", err)
	}
	sourceID, err := appTree.AddChild(appTree.Root(), "src", tree.KindFolder, 1)
	if err != nil {
		t.Fatalf("add src: %v", err)
	}
	indexID, err := appTree.AddChild(sourceID, "index.ts", tree.KindFile, 2)
	if err != nil {
		t.Fatalf("add index.ts: %v", err)
	}
	return appTree, sourceID, indexID
}

func TestAddChildRejectsInvalidParents(t *testing.T) {
	appTree, _, indexID := buildAppTree(t)

	testCases := []struct {
		name          string
		parent        tree.NodeID
		level         int
		expectedError error
	}{
		{name: "file_parent", parent: indexID, level: 3, expectedError: tree.ErrNotFolder},
		{name: "unknown_parent", parent: tree.NodeID(99), level: 1, expectedError: tree.ErrUnknownNode},
		{name: "negative_parent", parent: tree.InvalidNodeID, level: 1, expectedError: tree.ErrUnknownNode},
		{name: "same_level_as_parent", parent: appTree.Root(), level: 0, expectedError: tree.ErrLevelOrder},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, addError := appTree.AddChild(testCase.parent, "child", tree.KindFile, testCase.level)
			if !errors.Is(addError, testCase.expectedError) {
				t.Fatalf("expected %v, got %v", testCase.expectedError, addError)
			}
		})
	}
	if appTree.Len() != 4 {
		t.Fatalf("failed additions must not grow the tree, got %d nodes", appTree.Len())
	}
}

func TestCount(t *testing.T) {
	appTree, sourceID, indexID := buildAppTree(t)

	testCases := []struct {
		name     string
		node     tree.NodeID
		expected tree.Counts
	}{
		{name: "root", node: appTree.Root(), expected: tree.Counts{Files: 2, Folders: 2}},
		{name: "subfolder", node: sourceID, expected: tree.Counts{Files: 1, Folders: 1}},
		{name: "file", node: indexID, expected: tree.Counts{Files: 1}},
		{name: "unknown", node: tree.NodeID(42), expected: tree.Counts{}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := tree.Count(appTree, testCase.node)
			if actual != testCase.expected {
				t.Fatalf("expected %+v, got %+v", testCase.expected, actual)
			}
		})
	}

	emptyFolder := tree.New("empty", tree.KindFolder, 0)
	if counts := tree.Count(emptyFolder, emptyFolder.Root()); counts != (tree.Counts{Folders: 1}) {
		t.Fatalf("empty folder should count as one folder, got %+v", counts)
	}
}

func TestRenameInPlace(t *testing.T) {
	appTree, sourceID, indexID := buildAppTree(t)

	renamed, renameError := appTree.Rename(indexID, "main.ts")
	if renameError != nil {
		t.Fatalf("rename: %v", renameError)
	}
	if renamed != appTree.Node(indexID) {
		t.Fatalf("rename must return the live node")
	}
	if appTree.Path(indexID) != "app/src/main.ts" {
		t.Fatalf("unexpected path after rename: %s", appTree.Path(indexID))
	}

	siblingID, _ := appTree.AddChild(sourceID, "util.ts", tree.KindFile, 2)
	if _, renameError = appTree.Rename(siblingID, "main.ts"); renameError != nil {
		t.Fatalf("duplicate sibling names must be accepted: %v", renameError)
	}

	if _, renameError = appTree.Rename(tree.NodeID(100), "x"); !errors.Is(renameError, tree.ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", renameError)
	}
}

func TestSubtreeCopiesReachableNodes(t *testing.T) {
	appTree, sourceID, _ := buildAppTree(t)

	copied := appTree.Subtree(sourceID)
	if copied.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", copied.Len())
	}
	if copied.Path(copied.Children(copied.Root())[0]) != "src/index.ts" {
		t.Fatalf("unexpected subtree path")
	}
	if _, hasParent := copied.Parent(copied.Root()); hasParent {
		t.Fatalf("subtree root must not have a parent")
	}

	copied.Node(copied.Root()).Name = "lib"
	if appTree.Node(sourceID).Name != "src" {
		t.Fatalf("subtree must not share nodes with its source")
	}
	if appTree.Subtree(tree.NodeID(7)) != nil {
		t.Fatalf("expected nil for unknown node")
	}
}

func TestVisibleHonoursExpandedFlag(t *testing.T) {
	appTree, sourceID, _ := buildAppTree(t)
	if rows := tree.Visible(appTree); len(rows) != 4 {
		t.Fatalf("expected all 4 rows visible, got %d", len(rows))
	}

	expanded, toggleError := appTree.ToggleExpanded(sourceID)
	if toggleError != nil || expanded {
		t.Fatalf("expected collapsed folder, got expanded=%t err=%v", expanded, toggleError)
	}
	rows := tree.Visible(appTree)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows with src collapsed, got %d", len(rows))
	}
	if rows[2].ID != sourceID || rows[2].Depth != 1 {
		t.Fatalf("unexpected last row: %+v", rows[2])
	}
}

func TestWalkSkipChildren(t *testing.T) {
	appTree, sourceID, _ := buildAppTree(t)
	var visited []string
	walkError := tree.Walk(appTree, appTree.Root(), func(id tree.NodeID, node *tree.Node, path string) error {
		visited = append(visited, path)
		if id == sourceID {
			return tree.SkipChildren
		}
		return nil
	})
	if walkError != nil {
		t.Fatalf("walk: %v", walkError)
	}
	expected := []string{"app", "app/package.json", "app/src"}
	if len(visited) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, visited)
	}
	for index := range expected {
		if visited[index] != expected[index] {
			t.Fatalf("expected %v, got %v", expected, visited)
		}
	}
}

func TestSnapshot(t *testing.T) {
	appTree, _, _ := buildAppTree(t)
	snapshot := tree.Snapshot(appTree)
	if snapshot.Type != "folder" || snapshot.TotalFiles != 2 || snapshot.TotalFolders != 2 {
		t.Fatalf("unexpected root snapshot: %+v", snapshot)
	}
	if len(snapshot.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(snapshot.Children))
	}
	packageNode := snapshot.Children[0]
	if packageNode.Path != "app/package.json" || packageNode.Type != "file" || packageNode.Children != nil {
		t.Fatalf("unexpected file snapshot: %+v", packageNode)
	}
	if snapshot.Children[1].Children[0].Path != "app/src/index.ts" {
		t.Fatalf("unexpected nested path: %s", snapshot.Children[1].Children[0].Path)
	}
}
