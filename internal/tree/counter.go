package tree

// Counts holds the number of files and folders in a subtree.
type Counts struct {
	Files   int `json:"files"`
	Folders int `json:"folders"`
}

// Total returns files plus folders.
func (counts Counts) Total() int {
	return counts.Files + counts.Folders
}

// Count classifies id and every descendant as a file or a folder.
// A folder without children still counts as one folder.
func Count(t *Tree, id NodeID) Counts {
	node := t.Node(id)
	if node == nil {
		return Counts{}
	}
	var counts Counts
	if node.IsFolder() {
		counts.Folders = 1
	} else {
		counts.Files = 1
	}
	for _, childID := range node.children {
		childCounts := Count(t, childID)
		counts.Files += childCounts.Files
		counts.Folders += childCounts.Folders
	}
	return counts
}
