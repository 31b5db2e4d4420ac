package id3

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// NoFeature marks a node that does not split.
	NoFeature = -1
	// NoChild marks an absent child index.
	NoChild = -1
)

//Node is a node of a tree. Nodes are stored in the Tree arena and refer to
//their children by index; Left and Right are NoChild for leaves.
type Node struct {
	ID         int
	Feature    int
	Threshold  float64
	NInstances int
	Score      float64
	// Counts holds per-class training counts (classification).
	Counts []int
	// Value is the mean training target (regression).
	Value       float64
	Left, Right int
	// MissingRight sends missing readings of Feature to the right child.
	MissingRight bool
}

//IsLeaf returns whether the node has no children.
func (node Node) IsLeaf() bool {
	return node.Left == NoChild && node.Right == NoChild
}

//newNode creates a leaf holding the statistics of side.
func newNode(id int, side Side, score float64) Node {
	return Node{
		ID:         id,
		Feature:    NoFeature,
		Threshold:  math.NaN(),
		NInstances: side.N,
		Score:      score,
		Counts:     side.Counts,
		Value:      side.Mean(),
		Left:       NoChild,
		Right:      NoChild,
	}
}

//Tree is a fitted decision tree. Nodes[i].ID == i and Nodes[0] is the root.
type Tree struct {
	Nodes     []Node
	Config    TreeConfig
	NClasses  int
	NFeatures int
	Densities []Density
}

//Root returns the root node.
func (tree *Tree) Root() *Node {
	return &tree.Nodes[0]
}

//NumLeaves counts the leaves of the tree.
func (tree *Tree) NumLeaves() int {
	n := 0
	for _, node := range tree.Nodes {
		if node.IsLeaf() {
			n++
		}
	}
	return n
}

//Depth returns the length of the longest root-to-leaf path.
func (tree *Tree) Depth() int {
	depth := make([]int, len(tree.Nodes))
	maxDepth := 0
	for _, node := range tree.Nodes {
		if node.IsLeaf() {
			continue
		}
		for _, child := range []int{node.Left, node.Right} {
			depth[child] = depth[node.ID] + 1
			if depth[child] > maxDepth {
				maxDepth = depth[child]
			}
		}
	}
	return maxDepth
}

// frontierItem is a node waiting for expansion together with the split its
// parent used, so that the same split is never applied twice in a row.
type frontierItem struct {
	node      int
	feature   int
	threshold float64
}

//Grow induces a tree from ds and labels. Nodes are expanded breadth first
//until the node budget is spent, the frontier is empty or ctx is done.
func Grow(ctx context.Context, ds Dataset, labels []float64, cfg TreeConfig) (*Tree, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	if err := validateLabels(labels, ds.NInstances, cfg); err != nil {
		return nil, err
	}

	belongsTo, err := allocate[int](ds.NInstances, ds.NInstances, "membership slots")
	if err != nil {
		return nil, err
	}
	capacity := cfg.MaxNodes
	if capacity > 2*ds.NInstances {
		capacity = 2 * ds.NInstances
	}
	nodes, err := allocate[Node](0, capacity, "tree nodes")
	if err != nil {
		return nil, err
	}

	densities := ComputeDensities(ds, cfg.NaNValue)
	tree := &Tree{
		Nodes:     nodes,
		Config:    cfg,
		NClasses:  cfg.NClasses,
		NFeatures: ds.NFeatures,
		Densities: densities,
	}

	rootSide := newSide(cfg.NClasses)
	for _, y := range labels {
		rootSide.add(y)
	}
	tree.Nodes = append(tree.Nodes, newNode(0, rootSide, 0))

	sp := newSplitter(ds, labels, densities, cfg)
	queue := []frontierItem{{node: 0, feature: NoFeature, threshold: math.NaN()}}
	logger := zap.L()

	for len(tree.Nodes)+2 <= cfg.MaxNodes && len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "growing tree at %d nodes", len(tree.Nodes))
		}
		item := queue[0]
		queue = queue[1:]

		instances := membersOf(belongsTo, item.node)
		best := sp.bestSplit(instances)
		if best.Feature == NoFeature {
			continue
		}
		if best.Feature == item.feature && best.Threshold == item.threshold {
			continue
		}
		left, right, missing := best.Partition.Left, best.Partition.Right, best.Partition.Missing
		if left.N == 0 || right.N == 0 {
			continue
		}
		missingRight := right.N > left.N
		if missingRight {
			right = right.merge(missing)
		} else {
			left = left.merge(missing)
		}

		leftID := len(tree.Nodes)
		rightID := leftID + 1
		parent := &tree.Nodes[item.node]
		parent.Feature = best.Feature
		parent.Threshold = best.Threshold
		parent.Score = best.Cost
		parent.Left = leftID
		parent.Right = rightID
		parent.MissingRight = missingRight

		for _, i := range instances {
			if goesRight(readValue(ds.At(i, best.Feature), cfg.NaNValue), best.Threshold, missingRight) {
				belongsTo[i] = rightID
			} else {
				belongsTo[i] = leftID
			}
		}
		tree.Nodes = append(tree.Nodes,
			newNode(leftID, left, CostOfEmptiness),
			newNode(rightID, right, CostOfEmptiness))

		logger.Debug("node split",
			zap.Int("node", item.node),
			zap.Int("feature", best.Feature),
			zap.Float64("threshold", best.Threshold),
			zap.Float64("cost", best.Cost),
			zap.Int("instances", len(instances)),
			zap.Int("left", left.N),
			zap.Int("right", right.N))

		if best.Cost > cfg.MinThreshold {
			queue = append(queue,
				frontierItem{node: leftID, feature: best.Feature, threshold: best.Threshold},
				frontierItem{node: rightID, feature: best.Feature, threshold: best.Threshold})
		}
	}

	logger.Debug("tree grown",
		zap.Stringer("task", cfg.Task),
		zap.Int("nodes", len(tree.Nodes)),
		zap.Int("leaves", tree.NumLeaves()),
		zap.Int("depth", tree.Depth()),
		zap.Int("frontier", len(queue)))
	return tree, nil
}

//membersOf lists the instances currently owned by node.
func membersOf(belongsTo []int, node int) []int {
	instances := make([]int, 0)
	for i, owner := range belongsTo {
		if owner == node {
			instances = append(instances, i)
		}
	}
	return instances
}

//goesRight applies the split rule: readings at or above the threshold go
//right, missing readings follow the node's missing direction.
func goesRight(x optionalValue, threshold float64, missingRight bool) bool {
	if !x.valid {
		return missingRight
	}
	return x.value >= threshold
}
