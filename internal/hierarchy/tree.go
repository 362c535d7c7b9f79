// Package hierarchy builds the two-level category tree under each top-level
// category and synthesizes one listing page per tree node.
package hierarchy

import (
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/util/sets"
)

// Tree maps level-1 labels to their level-2 labels for one top category.
// Both levels iterate in order of first appearance.
type Tree struct {
	Top    string
	level1 sets.Ordered[string]
	level2 map[string]*sets.Ordered[string]
}

// BuildTree collects the labels of every document whose first category is
// exactly top (case-sensitive, raw label). An empty level-1 label drops the
// document from the tree; an empty level-2 label leaves only its level-1 node.
func BuildTree(docs []*content.Document, top string) *Tree {
	t := &Tree{Top: top, level2: make(map[string]*sets.Ordered[string])}
	for _, doc := range docs {
		cats := doc.Categories()
		if len(cats) < 2 || cats[0] != top || cats[1] == "" {
			continue
		}
		l1 := cats[1]
		if t.level1.Add(l1) {
			t.level2[l1] = sets.NewOrdered[string]()
		}
		if len(cats) >= 3 && cats[2] != "" {
			t.level2[l1].Add(cats[2])
		}
	}
	return t
}

// Level1 returns the level-1 labels.
func (t *Tree) Level1() []string { return t.level1.Values() }

// Level2 returns the level-2 labels under l1.
func (t *Tree) Level2(l1 string) []string { return t.level2[l1].Values() }

// Len is the number of level-1 nodes.
func (t *Tree) Len() int { return t.level1.Len() }
