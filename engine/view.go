package engine

import "github.com/pivolan/equipment_analyzer/domain/models"

// View is everything a renderer needs for one dataset. Labels, layers, hues and
// the resolver all come from one grouping pass.
type View struct {
	Labels  []string           `json:"labels"`
	Layers  []Layer            `json:"layers"`
	Hues    map[string]float64 `json:"hues"`
	Summary models.Summary     `json:"summary"`

	resolver Resolver
}

// NewView groups records once and derives the chart structures from that result.
// A non-nil external summary is used as-is instead of Summarize(records).
func NewView(records []models.Record, external *models.Summary) *View {
	groups := GroupByCategory(records)
	labels := groups.Categories()
	hues := AssignHues(labels)

	v := &View{
		Labels:   labels,
		Layers:   buildLayers(groups, hues),
		Hues:     hues,
		resolver: NewResolver(groups),
	}
	if external != nil {
		v.Summary = *external
	} else {
		v.Summary = Summarize(records)
	}
	return v
}

func (v *View) Resolve(category string, layer int) (models.Record, bool) {
	return v.resolver.Resolve(category, layer)
}

func (v *View) TooltipLabel(category string, layer int) string {
	return v.resolver.TooltipLabel(category, layer)
}

// Empty reports whether there is nothing to draw.
func (v *View) Empty() bool {
	return len(v.Labels) == 0
}
