package report

import (
	"github.com/imkarma/pland/internal/store"
)

// GanttItem is the flattened per-task record the timeline renderer
// consumes. Group is the owner lane, defaulting to "Unassigned".
type GanttItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Group   string `json:"group"`
}

// GanttData returns one timeline item per task of the plan, in plan order.
// Fails with store.ErrPlanNotFound for unknown ids rather than returning an
// empty list.
func (g *Generator) GanttData(planID string) ([]GanttItem, error) {
	plan, err := g.store.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	return GanttItems(plan), nil
}

// GanttItems flattens an already loaded plan.
func GanttItems(plan *store.Plan) []GanttItem {
	items := make([]GanttItem, 0, len(plan.Tasks))
	for _, t := range plan.Tasks {
		items = append(items, GanttItem{
			ID:      t.ID,
			Content: t.Title,
			Start:   t.StartDate,
			End:     t.EndDate,
			Group:   t.OwnerOrUnassigned(),
		})
	}
	return items
}
