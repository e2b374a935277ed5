package engine

import "fmt"

// Layer is one stack slice: the i-th member of every category, or padding.
type Layer struct {
	LayerIndex     int               `json:"layerIndex"`
	Label          string            `json:"label"`
	CategoryValues map[string]int    `json:"categoryValues"`
	CategoryColors map[string]string `json:"categoryColors"`
}

// BuildLayers returns exactly groups.MaxSize() layers; layers[i].LayerIndex == i.
func BuildLayers(groups *Groups) []Layer {
	return buildLayers(groups, AssignHues(groups.Categories()))
}

func buildLayers(groups *Groups, hues map[string]float64) []Layer {
	depth := groups.MaxSize()
	layers := make([]Layer, 0, depth)
	for i := 0; i < depth; i++ {
		layer := Layer{
			LayerIndex:     i,
			Label:          UnitLabel(i),
			CategoryValues: make(map[string]int, groups.Len()),
			CategoryColors: make(map[string]string, groups.Len()),
		}
		for _, c := range groups.order {
			if i < len(groups.members[c]) {
				layer.CategoryValues[c] = 1
			} else {
				layer.CategoryValues[c] = 0
			}
			layer.CategoryColors[c] = LayerColor(hues[c], i)
		}
		layers = append(layers, layer)
	}
	return layers
}

// Values lists the layer's presence flags in the given category order.
func (l Layer) Values(categories []string) []int {
	out := make([]int, len(categories))
	for i, c := range categories {
		out[i] = l.CategoryValues[c]
	}
	return out
}

func UnitLabel(layer int) string {
	return fmt.Sprintf("Unit %d", layer+1)
}
