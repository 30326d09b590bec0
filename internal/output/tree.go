package output

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// descColumn is the column descriptions are aligned to.
const descColumn = 36

type fileTree struct {
	desc     string
	children map[string]*fileTree
}

func (n *fileTree) isDir() bool { return n.children != nil }

// RenderFileTree renders the paths in files below a root directory line,
// with each description aligned to a fixed column. Directories come before
// files, each group in natural order ("v2" before "v10").
func RenderFileTree(rootName string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	root := &fileTree{children: map[string]*fileTree{}}
	for p, desc := range files {
		node := root
		dir, file := path.Split(path.Clean(filepath.ToSlash(p)))
		for _, seg := range strings.Split(strings.Trim(dir, "/"), "/") {
			if seg == "" {
				continue
			}
			next, ok := node.children[seg]
			if !ok {
				next = &fileTree{children: map[string]*fileTree{}}
				node.children[seg] = next
			}
			node = next
		}
		node.children[file] = &fileTree{desc: desc}
	}

	var sb strings.Builder
	sb.WriteString(GetStyles().Bold.Render(rootName+"/") + "\n")
	root.render(&sb, "")
	return sb.String()
}

func (n *fileTree) render(sb *strings.Builder, indent string) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := n.children[names[i]], n.children[names[j]]
		if a.isDir() != b.isDir() {
			return a.isDir()
		}
		return natural.Less(names[i], names[j])
	})

	muted := GetStyles().Muted
	for i, name := range names {
		child := n.children[name]
		branch, next := "├── ", "│   "
		if i == len(names)-1 {
			branch, next = "└── ", "    "
		}
		if child.isDir() {
			name += "/"
		}

		line := indent + branch + name
		if child.desc != "" {
			gap := max(descColumn-len([]rune(line)), 2)
			line += strings.Repeat(" ", gap) + muted.Render(child.desc)
		}
		sb.WriteString(line + "\n")

		if child.isDir() {
			child.render(sb, indent+next)
		}
	}
}
