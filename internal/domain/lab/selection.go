package lab

import (
	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// Selection is the resolved set of tests an order is built from
type Selection struct {
	Panels []catalog.Panel
	Tests  []catalog.TestDefinition
}

// Union returns the deduplicated tests of the selection: individually selected
// tests first, then panel members, each test once in first-seen order.
func (s Selection) Union() []catalog.TestDefinition {
	seen := make(map[uuid.UUID]struct{})
	out := make([]catalog.TestDefinition, 0, len(s.Tests))
	add := func(t catalog.TestDefinition) {
		if _, ok := seen[t.ID]; ok {
			return
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	for _, t := range s.Tests {
		add(t)
	}
	for _, p := range s.Panels {
		for _, t := range p.Tests {
			add(t)
		}
	}
	return out
}

// Total prices the selection. A flat-priced panel is charged once and covers its
// members, so a test such a panel contains is not charged again. Panels without a
// flat price are charged as the sum of their members. Unpriced tests contribute nothing.
func (s Selection) Total() decimal.Decimal {
	total := decimal.Zero
	charged := make(map[uuid.UUID]struct{})
	for _, p := range s.Panels {
		if !p.HasFlatPrice() {
			continue
		}
		total = total.Add(p.Price.Decimal)
		for _, id := range p.TestIDs() {
			charged[id] = struct{}{}
		}
	}

	charge := func(t catalog.TestDefinition) {
		if _, ok := charged[t.ID]; ok {
			return
		}
		charged[t.ID] = struct{}{}
		if t.Price.Valid {
			total = total.Add(t.Price.Decimal)
		}
	}
	for _, t := range s.Tests {
		charge(t)
	}
	for _, p := range s.Panels {
		if p.HasFlatPrice() {
			continue
		}
		for _, t := range p.Tests {
			charge(t)
		}
	}
	return total
}
