package collision

// StopCriterion bounds spatial subdivision. MaxDepth caps BVH and octree
// depth; MinTris stops BVH splitting once a leaf holds that few triangles.
// The zero value of either field selects the package default, so criteria
// stay usable as map keys.
type StopCriterion struct {
	MaxDepth int
	MinTris  int
}

const (
	defaultMaxDepth = 10
	defaultMinTris  = 16
)

// DefaultStopCriterion is what mesh loading uses when callers pass the zero
// criterion.
func DefaultStopCriterion() StopCriterion {
	return StopCriterion{MaxDepth: defaultMaxDepth, MinTris: defaultMinTris}
}

// normalized fills in defaults for zero fields without changing the value
// used as a registry key.
func (c StopCriterion) normalized() StopCriterion {
	if c.MaxDepth <= 0 {
		c.MaxDepth = defaultMaxDepth
	}
	if c.MinTris <= 0 {
		c.MinTris = defaultMinTris
	}
	return c
}
