package geometry

import (
	"sort"

	"pathtracer/pkg/core"
)

// LinearNode is a BVH node in the flattened array. Child and triangle
// references are indices rather than pointers; -1 means absent. Because the
// root lives at index 0 and children are always appended after their parent,
// traversal treats any child index <= 0 as absent.
type LinearNode struct {
	Bounds      core.AABB
	Left        int32 // Index of the left child, -1 if absent
	Right       int32 // Index of the right child, -1 if absent
	VertexIndex int32 // Triangle index for leaves, -1 for interior nodes
}

// BVH is a bounding volume hierarchy flattened into a contiguous array in
// breadth-first order. It is built once after scene construction and is
// read-only during rendering.
type BVH struct {
	nodes []LinearNode
}

// IsLeaf reports whether the node references a triangle
func (n *LinearNode) IsLeaf() bool {
	return n.VertexIndex >= 0
}

// Nodes exposes the flattened node array
func (b *BVH) Nodes() []LinearNode {
	return b.nodes
}

type leafRecord struct {
	index    int32
	bounds   core.AABB
	centroid core.Vec3
}

// buildRange is a pending interior node together with the half-open record
// range it must cover
type buildRange struct {
	node  int32
	start int
	end   int
}

// NewBVH builds the hierarchy over the given triangles. Interior ranges
// split on the longest axis of their bounds at the median record; ranges of
// one or two records attach their records as leaf children. The tree is
// emitted directly in breadth-first order, so every child index exceeds its
// parent's.
func NewBVH(triangles []Triangle) *BVH {
	if len(triangles) == 0 {
		return &BVH{}
	}

	records := make([]leafRecord, len(triangles))
	sceneBounds := triangles[0].Bounds()
	for i := range triangles {
		bounds := triangles[i].Bounds()
		records[i] = leafRecord{
			index:    int32(i),
			bounds:   bounds,
			centroid: bounds.Center(),
		}
		sceneBounds = sceneBounds.Union(bounds)
	}

	nodes := make([]LinearNode, 1, 2*len(triangles))
	nodes[0] = LinearNode{Bounds: sceneBounds, Left: -1, Right: -1, VertexIndex: -1}

	queue := []buildRange{{node: 0, start: 0, end: len(records)}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.end-cur.start <= 2 {
			left := records[cur.start]
			nodes = append(nodes, LinearNode{Bounds: left.bounds, Left: -1, Right: -1, VertexIndex: left.index})
			nodes[cur.node].Left = int32(len(nodes) - 1)

			if cur.end-cur.start == 2 {
				right := records[cur.start+1]
				nodes = append(nodes, LinearNode{Bounds: right.bounds, Left: -1, Right: -1, VertexIndex: right.index})
				nodes[cur.node].Right = int32(len(nodes) - 1)
			}
			continue
		}

		axis := nodes[cur.node].Bounds.LongestAxis()
		span := records[cur.start:cur.end]
		sort.Slice(span, func(i, j int) bool {
			return span[i].centroid.Axis(axis) < span[j].centroid.Axis(axis)
		})

		mid := (cur.start + cur.end + 1) / 2
		leftBounds := rangeBounds(triangles, records[cur.start:mid])
		rightBounds := rangeBounds(triangles, records[mid:cur.end])

		nodes = append(nodes, LinearNode{Bounds: leftBounds, Left: -1, Right: -1, VertexIndex: -1})
		leftIndex := int32(len(nodes) - 1)
		nodes = append(nodes, LinearNode{Bounds: rightBounds, Left: -1, Right: -1, VertexIndex: -1})
		rightIndex := int32(len(nodes) - 1)

		nodes[cur.node].Left = leftIndex
		nodes[cur.node].Right = rightIndex
		queue = append(queue,
			buildRange{node: leftIndex, start: cur.start, end: mid},
			buildRange{node: rightIndex, start: mid, end: cur.end},
		)
	}

	return &BVH{nodes: nodes}
}

// rangeBounds recomputes the bounds of a record range from the underlying
// vertex positions
func rangeBounds(triangles []Triangle, records []leafRecord) core.AABB {
	tri := &triangles[records[0].index]
	bounds := core.NewAABBFromPoints(tri.V0, tri.V1, tri.V2)
	for _, rec := range records[1:] {
		tri = &triangles[rec.index]
		bounds.Min = bounds.Min.Min(tri.V0).Min(tri.V1).Min(tri.V2)
		bounds.Max = bounds.Max.Max(tri.V0).Max(tri.V1).Max(tri.V2)
	}
	return bounds
}

// Hit collects the indices of triangles whose leaf bounds the ray
// intersects, appending into candidates (which is reset first, so callers
// can reuse one scratch slice across queries). Traversal uses a fixed
// 32-entry stack, enough for the balanced construction above. Candidates
// come back in no particular order; the caller selects its own closest hit.
func (b *BVH) Hit(r core.Ray, candidates []int32) []int32 {
	candidates = candidates[:0]
	if len(b.nodes) == 0 {
		return candidates
	}

	var stack [32]int32
	stack[0] = 0 // root
	top := 1
	for top > 0 {
		top--
		node := &b.nodes[stack[top]]
		if !node.Bounds.Hit(r) {
			continue
		}
		if node.IsLeaf() {
			candidates = append(candidates, node.VertexIndex)
			continue
		}
		if node.Left > 0 {
			stack[top] = node.Left
			top++
		}
		if node.Right > 0 {
			stack[top] = node.Right
			top++
		}
	}
	return candidates
}
