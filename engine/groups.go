package engine

import "github.com/pivolan/equipment_analyzer/domain/models"

// Groups is an insertion-ordered map from category to its records.
// Categories appear in first-seen order; members keep input order.
type Groups struct {
	order   []string
	members map[string][]models.Record
}

// GroupByCategory partitions records by ResolveCategory in a single pass.
func GroupByCategory(records []models.Record) *Groups {
	g := &Groups{members: make(map[string][]models.Record)}
	for _, r := range records {
		g.add(ResolveCategory(r), r)
	}
	return g
}

func (g *Groups) add(category string, r models.Record) {
	if _, exists := g.members[category]; !exists {
		g.order = append(g.order, category)
	}
	g.members[category] = append(g.members[category], r)
}

// Categories returns category labels in first-seen order.
func (g *Groups) Categories() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Groups) Members(category string) []models.Record {
	return g.members[category]
}

// Len is the number of distinct categories.
func (g *Groups) Len() int {
	return len(g.order)
}

// MaxSize is the size of the largest group, 0 when there are no groups.
func (g *Groups) MaxSize() int {
	max := 0
	for _, c := range g.order {
		if n := len(g.members[c]); n > max {
			max = n
		}
	}
	return max
}

// Total is the number of grouped records.
func (g *Groups) Total() int {
	total := 0
	for _, c := range g.order {
		total += len(g.members[c])
	}
	return total
}
