package editor

import (
	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/gamebase/engine/core"
)

const RootID = 0

// TreeNode is one entry of the design tree.
type TreeNode struct {
	ID       int
	ParentID int
	Label    string
	Children []int
	Opened   bool
	Visible  bool
	// HasToggle is set once the node gets its first child.
	HasToggle bool
}

// TreeView keeps the navigable tree of design nodes. Nodes start closed;
// a node is visible only while every ancestor is open and visible.
type TreeView struct {
	nodes map[int]*TreeNode
	ids   *core.Identifiers
}

func NewTreeView() *TreeView {
	return NewTreeViewWithIDs(core.NewIdentifiers(RootID + 1))
}

// NewTreeViewWithIDs creates a tree that draws node ids from ids, so trees
// rebuilt from one allocator never hand out an id twice.
func NewTreeViewWithIDs(ids *core.Identifiers) *TreeView {
	t := &TreeView{ids: ids}
	t.Clear()
	return t
}

// Clear removes every node but the root. Ids keep growing across clears.
func (t *TreeView) Clear() {
	if t.ids == nil {
		t.ids = core.NewIdentifiers(RootID + 1)
	} else {
		for id := range t.nodes {
			if id != RootID {
				_ = t.ids.Release(id)
			}
		}
	}
	t.nodes = map[int]*TreeNode{
		RootID: {ID: RootID, ParentID: -1, Opened: true, Visible: true},
	}
}

// AddObject appends a new node labelled label under parentID.
func (t *TreeView) AddObject(parentID int, label string) (int, error) {
	parent, ok := t.nodes[parentID]
	if !ok {
		return 0, errors.Newf("can't add %q, no parent node #%d", label, parentID)
	}
	id := t.ids.Acquire(label)
	node := &TreeNode{ID: id, ParentID: parentID, Label: label}
	if parentID != RootID && len(parent.Children) == 0 {
		parent.HasToggle = true
	}
	node.Visible = parentID == RootID || (parent.Visible && parent.Opened)
	parent.Children = append(parent.Children, id)
	t.nodes[id] = node
	return id, nil
}

func (t *TreeView) Node(id int) (*TreeNode, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

func (t *TreeView) Children(id int) []int {
	if n, ok := t.nodes[id]; ok {
		return n.Children
	}
	return nil
}

// Len returns the number of nodes without the root.
func (t *TreeView) Len() int {
	return len(t.nodes) - 1
}

// NextID returns the id the next AddObject call will assign.
func (t *TreeView) NextID() int {
	return t.ids.Next()
}

func (t *TreeView) SetOpened(id int, opened bool) error {
	node, ok := t.nodes[id]
	if !ok {
		return errors.Newf("no node #%d", id)
	}
	node.Opened = opened
	t.setVisibleChildren(id, opened && node.Visible)
	return nil
}

func (t *TreeView) setVisible(id int, visible bool) {
	node := t.nodes[id]
	node.Visible = visible
	if node.Opened {
		t.setVisibleChildren(id, visible)
	}
}

func (t *TreeView) setVisibleChildren(id int, visible bool) {
	for _, child := range t.nodes[id].Children {
		t.setVisible(child, visible)
	}
}

// RemoveSubtree deletes id and everything below it.
func (t *TreeView) RemoveSubtree(id int) error {
	if id <= RootID {
		return errors.Newf("can't remove subtree, invalid node id: %d", id)
	}
	node, ok := t.nodes[id]
	if !ok {
		return errors.Newf("can't remove subtree, no node #%d", id)
	}
	parent := t.nodes[node.ParentID]
	idx := -1
	for i, child := range parent.Children {
		if child == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.Newf("tree is broken, node #%d is not a child of its parent node #%d", id, node.ParentID)
	}
	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	if len(parent.Children) == 0 {
		parent.HasToggle = false
	}
	t.removeNode(id)
	return nil
}

// RemoveChildren deletes everything below id and keeps id itself.
func (t *TreeView) RemoveChildren(id int) error {
	node, ok := t.nodes[id]
	if !ok {
		return errors.Newf("no node #%d", id)
	}
	for _, child := range node.Children {
		t.removeNode(child)
	}
	node.Children = nil
	node.HasToggle = false
	return nil
}

func (t *TreeView) removeNode(id int) {
	for _, child := range t.nodes[id].Children {
		t.removeNode(child)
	}
	delete(t.nodes, id)
	_ = t.ids.Release(id)
}

// Walk visits nodes depth-first in insertion order, root excluded.
// Returning false from fn skips the node's subtree.
func (t *TreeView) Walk(fn func(node *TreeNode, depth int) bool) {
	t.walk(RootID, 0, fn)
}

func (t *TreeView) walk(id, depth int, fn func(*TreeNode, int) bool) {
	for _, child := range t.nodes[id].Children {
		if fn(t.nodes[child], depth) {
			t.walk(child, depth+1, fn)
		}
	}
}
