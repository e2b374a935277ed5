package engine

import "github.com/pivolan/equipment_analyzer/domain/models"

// NameKeys identify a unit in tooltips, first present wins.
var NameKeys = []string{"Name", "Equipment Name", "ID", "id"}

// Resolver maps a (category, layer) cell back to its source record.
// It reads the same Groups the layers were built from.
type Resolver struct {
	groups *Groups
}

func NewResolver(groups *Groups) Resolver {
	return Resolver{groups: groups}
}

// Resolve returns groups[category][layer], or false for padding and unknown cells.
func (r Resolver) Resolve(category string, layer int) (models.Record, bool) {
	if r.groups == nil || layer < 0 {
		return models.Record{}, false
	}
	members := r.groups.Members(category)
	if layer >= len(members) {
		return models.Record{}, false
	}
	return members[layer], true
}

// TooltipLabel renders "<name>: <category>" for a filled cell and "" for padding.
func (r Resolver) TooltipLabel(category string, layer int) string {
	rec, ok := r.Resolve(category, layer)
	if !ok {
		return ""
	}
	name := UnitLabel(layer)
	for _, key := range NameKeys {
		if s, ok := presentString(rec, key); ok {
			name = s
			break
		}
	}
	return name + ": " + category
}
