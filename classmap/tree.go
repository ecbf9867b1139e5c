package classmap

import "gonum.org/v1/gonum/spatial/kdtree"

// node is a medoid embedded on the 3-D sphere, tagged with its dense class id.
type node struct {
	pos   [3]float64
	class int
}

// Compare satisfies kdtree.Comparable.
func (n node) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return n.pos[d] - c.(node).pos[d]
}

// Dims satisfies kdtree.Comparable.
func (node) Dims() int { return 3 }

// Distance returns the squared chord length. Chord length is monotonic in
// great-circle distance, so the nearest node is the nearest medoid.
func (n node) Distance(c kdtree.Comparable) float64 {
	q := c.(node)
	var sum float64
	for i := range n.pos {
		d := n.pos[i] - q.pos[i]
		sum += d * d
	}
	return sum
}

// nodes satisfies kdtree.Interface.
type nodes []node

func (s nodes) Index(i int) kdtree.Comparable { return s[i] }
func (s nodes) Len() int                      { return len(s) }
func (s nodes) Pivot(d kdtree.Dim) int        { return plane{Dim: d, nodes: s}.Pivot() }
func (s nodes) Slice(start, end int) kdtree.Interface {
	return s[start:end]
}

// plane sorts nodes along one dimension while the tree is built.
type plane struct {
	kdtree.Dim
	nodes
}

func (p plane) Less(i, j int) bool { return p.nodes[i].pos[p.Dim] < p.nodes[j].pos[p.Dim] }
func (p plane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.nodes = p.nodes[start:end]
	return p
}
func (p plane) Swap(i, j int) { p.nodes[i], p.nodes[j] = p.nodes[j], p.nodes[i] }
