package id3

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"
)

//GraphDescription returns the description of a node for tree rendering as a graph.
func (tree *Tree) GraphDescription(id int) string {
	node := tree.Nodes[id]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("#", node.NInstances))
	sb.WriteString(fmt.Sprintln("id: ", node.ID))
	if tree.Config.Task == ClassificationTask {
		sb.WriteString(fmt.Sprintln("counts: ", node.Counts))
	} else {
		sb.WriteString(fmt.Sprintf("value: %6.5f\n", node.Value))
	}
	if node.IsLeaf() {
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("cost: %6.5f\n", node.Score))
	kind := ""
	if tree.Densities != nil && tree.Densities[node.Feature].IsCategorical {
		kind = " (integral)"
	}
	sb.WriteString(fmt.Sprintf("f_%d%s >= %6.5f", node.Feature, kind, node.Threshold))
	return sb.String()
}

func recurrentDraw(g *cgraph.Graph, tree *Tree, id int, parentNode *cgraph.Node) error {
	currentNode, err := g.CreateNode(fmt.Sprint(tree.Nodes[id].ID))
	if err != nil {
		return err
	}

	if parentNode != nil {
		if _, err := g.CreateEdge("", parentNode, currentNode); err != nil {
			return err
		}
	}

	currentNode.Set("label", tree.GraphDescription(id))
	if tree.Nodes[id].IsLeaf() {
		currentNode.Set("shape", "box")
		return nil
	}
	if err := recurrentDraw(g, tree, tree.Nodes[id].Left, currentNode); err != nil {
		return err
	}
	return recurrentDraw(g, tree, tree.Nodes[id].Right, currentNode)
}

//DrawGraph builds a graphviz graph of the tree. Right edges lead to readings
//at or above the threshold.
func (tree *Tree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, err
	}
	if err := recurrentDraw(graph, tree, 0, nil); err != nil {
		return nil, nil, err
	}
	return graphViz, graph, nil
}

//RenderTree draws the tree into filename as png, svg or jpg.
func (tree *Tree) RenderTree(filename, figureType string) error {
	graphvizType, ok := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[figureType]
	if !ok {
		return preconditionf("unsupported figure type %q", figureType)
	}

	graphViz, graph, err := tree.DrawGraph()
	if err != nil {
		return errors.Wrap(err, "drawing tree")
	}
	defer func() {
		_ = graph.Close()
		_ = graphViz.Close()
	}()
	return errors.Wrapf(graphViz.RenderFilename(graph, graphvizType, filename), "rendering %s", filename)
}
