package filetree

import "fmt"

// TreeItem is one node of the display projection. It carries a label (the
// final path component) and the location of the item it mirrors, never the
// path itself.
type TreeItem struct {
	Label    string     `json:"label"`
	Dir      bool       `json:"dir,omitempty"`
	Loc      Location   `json:"-"`
	Children []TreeItem `json:"children,omitempty"`
}

// BuildProjection mirrors d 1:1 in structure and order.
func BuildProjection(d *Dir) []TreeItem {
	return projectChildren(d, nil)
}

func projectChildren(d *Dir, prefix Location) []TreeItem {
	items := make([]TreeItem, 0, len(d.children))
	for i, ch := range d.children {
		items = append(items, projectItem(ch, prefix.Child(i)))
	}
	return items
}

func projectItem(it Item, loc Location) TreeItem {
	switch n := it.(type) {
	case *Dir:
		return TreeItem{Label: n.Name(), Dir: true, Loc: loc, Children: projectChildren(n, loc)}
	case *File:
		return TreeItem{Label: n.Name(), Loc: loc}
	default:
		panic(fmt.Sprintf("filetree: unexpected item %T", it))
	}
}

// projectFiltered keeps only items on an ancestor chain of a target (keep)
// and whole subtrees of target directories (whole).
func projectFiltered(d *Dir, prefix Location, keep, whole map[string]bool) []TreeItem {
	var items []TreeItem
	for i, ch := range d.children {
		loc := prefix.Child(i)
		p := ch.Path()
		switch {
		case whole[p]:
			items = append(items, projectItem(ch, loc))
		case keep[p]:
			ti := TreeItem{Label: ch.Name(), Loc: loc}
			if sub, ok := ch.(*Dir); ok {
				ti.Dir = true
				ti.Children = projectFiltered(sub, loc, keep, whole)
			}
			items = append(items, ti)
		}
	}
	return items
}

// CountItems returns the number of nodes in a projection.
func CountItems(items []TreeItem) int {
	n := len(items)
	for _, it := range items {
		n += CountItems(it.Children)
	}
	return n
}
