package summary

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bethropolis/code-prompt/internal/walker"
)

// Analysis holds extension statistics over a selection.
type Analysis struct {
	Total  int                 // files seen
	Counts map[string]int      // lower-case extension -> files
	Dirs   map[string][]string // lower-case extension -> sorted directories
}

// Analyze counts extensions of the selected files. Files without an
// extension are counted in Total only.
func Analyze(files []walker.EligibleFile) Analysis {
	a := Analysis{
		Total:  len(files),
		Counts: make(map[string]int),
		Dirs:   make(map[string][]string),
	}
	dirSets := make(map[string]map[string]struct{})
	for _, f := range files {
		ext := strings.ToLower(path.Ext(f.DisplayPath))
		if ext == "" {
			continue
		}
		a.Counts[ext]++
		if dirSets[ext] == nil {
			dirSets[ext] = make(map[string]struct{})
		}
		dirSets[ext][path.Dir(f.DisplayPath)] = struct{}{}
	}
	for ext, set := range dirSets {
		dirs := make([]string, 0, len(set))
		for d := range set {
			dirs = append(dirs, d)
		}
		sort.Strings(dirs)
		a.Dirs[ext] = dirs
	}
	return a
}

// Extensions returns the counted extensions in sorted order.
func (a Analysis) Extensions() []string {
	exts := make([]string, 0, len(a.Counts))
	for ext := range a.Counts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// FormatFlat lists one "ext: N file(s)" line per extension.
func (a Analysis) FormatFlat() string {
	if a.Total == 0 {
		return "No files found"
	}
	lines := make([]string, 0, len(a.Counts))
	for _, ext := range a.Extensions() {
		n := a.Counts[ext]
		plural := ""
		if n > 1 {
			plural = "s"
		}
		lines = append(lines, fmt.Sprintf("%s: %d file%s", ext, n, plural))
	}
	return strings.Join(lines, "\n")
}

type treeNode map[string]treeNode

// FormatTree draws the directories containing each extension as a tree with
// the extensions as leaves.
func (a Analysis) FormatTree() string {
	if a.Total == 0 {
		return "No files found"
	}
	root := treeNode{}
	for _, ext := range a.Extensions() {
		for _, dir := range a.Dirs[ext] {
			node := root
			for _, part := range splitDir(dir) {
				next, ok := node[part]
				if !ok {
					next = treeNode{}
					node[part] = next
				}
				node = next
			}
			node[ext] = treeNode{}
		}
	}

	var lines []string
	drawTree(root, "", &lines)
	return strings.Join(lines, "\n")
}

func splitDir(dir string) []string {
	if dir == "." || dir == "" {
		return []string{"."}
	}
	var parts []string
	if strings.HasPrefix(dir, "/") {
		parts = append(parts, "/")
	}
	for _, p := range strings.Split(strings.Trim(dir, "/"), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func drawTree(node treeNode, prefix string, lines *[]string) {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		last := i == len(keys)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		*lines = append(*lines, prefix+branch+k)
		drawTree(node[k], prefix+indent, lines)
	}
}

// ExtensionList returns the extensions comma-separated, ready for --filter
// style reuse.
func (a Analysis) ExtensionList() string {
	return strings.Join(a.Extensions(), ",")
}
