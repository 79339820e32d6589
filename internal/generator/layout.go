package generator

import (
	"path"
	"strings"

	"github.com/temirov/skel/internal/tree"
)

// layout captures what the tree shape says about the project beyond the stack choices.
type layout struct {
	RootName string
	Next     bool
	Express  bool
	React    bool
	// Commands lists the cmd/<name> directories of a Go project.
	Commands []string
}

// Framework names the detected application framework, empty for plain projects.
func (projectLayout layout) Framework() string {
	switch {
	case projectLayout.Next:
		return "nextjs"
	case projectLayout.Express:
		return "express"
	case projectLayout.React:
		return "react"
	default:
		return ""
	}
}

func detectLayout(t *tree.Tree) layout {
	rootName := t.Node(t.Root()).Name
	detected := layout{RootName: rootName}
	_ = tree.Walk(t, t.Root(), func(id tree.NodeID, node *tree.Node, fullPath string) error {
		if id == t.Root() {
			return nil
		}
		relativePath := strings.TrimPrefix(fullPath, rootName+"/")
		segments := strings.Split(relativePath, "/")
		lowerName := strings.ToLower(node.Name)

		if node.IsFolder() {
			if len(segments) == 2 && segments[0] == "cmd" {
				detected.Commands = append(detected.Commands, node.Name)
			}
			if lowerName == "routes" {
				detected.Express = true
			}
			return nil
		}

		switch path.Ext(lowerName) {
		case ".tsx", ".jsx":
			detected.React = true
		}
		if lowerName == "server.ts" || lowerName == "app.ts" {
			detected.Express = true
		}
		if strings.HasPrefix(lowerName, "next.config.") {
			detected.Next = true
		}
		parentName := ""
		if len(segments) > 1 {
			parentName = segments[len(segments)-2]
		}
		if (parentName == "app" || contains(segments, "pages")) && (lowerName == "page.tsx" || lowerName == "layout.tsx" || lowerName == "_app.tsx") {
			detected.Next = true
		}
		return nil
	})
	if detected.Next {
		detected.Express = false
	}
	return detected
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
