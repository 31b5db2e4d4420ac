package id3

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//leafFor walks instance i of ds from the root to a leaf.
func (tree *Tree) leafFor(ds Dataset, i int) *Node {
	node := &tree.Nodes[0]
	for !node.IsLeaf() {
		if node.Left == NoChild || node.Right == NoChild {
			panic(errors.Errorf("malformed tree: node %d has a single child", node.ID))
		}
		x := readValue(ds.At(i, node.Feature), tree.Config.NaNValue)
		if goesRight(x, node.Threshold, node.MissingRight) {
			node = &tree.Nodes[node.Right]
		} else {
			node = &tree.Nodes[node.Left]
		}
	}
	return node
}

func (tree *Tree) checkInput(ds Dataset) error {
	if len(tree.Nodes) == 0 {
		return preconditionf("tree has no nodes")
	}
	if err := ds.validate(); err != nil {
		return err
	}
	if ds.NFeatures != tree.NFeatures {
		return preconditionf("tree was grown on %d features, got %d", tree.NFeatures, ds.NFeatures)
	}
	return nil
}

//Apply returns the id of the leaf reached by every instance.
func (tree *Tree) Apply(ds Dataset) ([]int, error) {
	if err := tree.checkInput(ds); err != nil {
		return nil, err
	}
	leaves := make([]int, ds.NInstances)
	for k := range leaves {
		leaves[k] = tree.leafFor(ds, k).ID
	}
	return leaves, nil
}

//Classify returns, for every instance, the class frequencies of the leaf it
//reaches. The result is row-major NInstances x NClasses.
func (tree *Tree) Classify(ds Dataset) ([]float64, error) {
	if tree.Config.Task != ClassificationTask {
		return nil, preconditionf("cannot classify with a %s tree", tree.Config.Task)
	}
	if err := tree.checkInput(ds); err != nil {
		return nil, err
	}
	nClasses := tree.NClasses
	predictions := make([]float64, ds.NInstances*nClasses)
	for k := 0; k < ds.NInstances; k++ {
		leaf := tree.leafFor(ds, k)
		for c := 0; c < nClasses; c++ {
			predictions[k*nClasses+c] = float64(leaf.Counts[c]) / float64(leaf.NInstances)
		}
	}
	return predictions, nil
}

//Regress returns the mean training target of the leaf reached by every instance.
func (tree *Tree) Regress(ds Dataset) ([]float64, error) {
	if tree.Config.Task != RegressionTask {
		return nil, preconditionf("cannot regress with a %s tree", tree.Config.Task)
	}
	if err := tree.checkInput(ds); err != nil {
		return nil, err
	}
	predictions := make([]float64, ds.NInstances)
	for k := range predictions {
		predictions[k] = tree.leafFor(ds, k).Value
	}
	return predictions, nil
}

//PredictDense infers predictions for the rows of features: class
//frequencies (h x NClasses) for classification, values (h x 1) for regression.
func (tree *Tree) PredictDense(features *mat.Dense) (*mat.Dense, error) {
	ds := NewDatasetFromDense(features)
	switch tree.Config.Task {
	case ClassificationTask:
		predictions, err := tree.Classify(ds)
		if err != nil {
			return nil, err
		}
		return mat.NewDense(ds.NInstances, tree.NClasses, predictions), nil
	default:
		predictions, err := tree.Regress(ds)
		if err != nil {
			return nil, err
		}
		return mat.NewDense(ds.NInstances, 1, predictions), nil
	}
}
