package transform

import "github.com/bobmcallan/tradejournal/internal/models"

// GoalFromRow converts a goals row into a Goal.
func GoalFromRow(row models.Row) (models.Goal, error) {
	r := newReader(models.TableGoals, row)
	g := models.Goal{
		ID:          r.id(),
		Type:        models.GoalType(r.str(ColType)),
		Target:      r.num(ColTarget),
		Current:     r.numOr(ColCurrent, 0),
		Deadline:    r.str(ColDeadline),
		Description: r.str(ColDescription),
		IsActive:    r.boolOr(ColIsActive, true),
		Priority:    models.GoalPriority(r.strOr(ColPriority, string(models.PriorityMedium))),
		Category:    models.GoalCategory(r.str(ColCategory)),
		CreatedAt:   r.time(ColCreatedAt),
	}
	if err := r.result(); err != nil {
		return models.Goal{}, err
	}
	return g, nil
}

// GoalToRow converts a Goal into an insertable row.
func GoalToRow(g models.Goal) models.Row {
	return models.Row{
		ColType:        string(g.Type),
		ColTarget:      g.Target,
		ColCurrent:     g.Current,
		ColDeadline:    g.Deadline,
		ColDescription: g.Description,
		ColIsActive:    g.IsActive,
		ColPriority:    string(g.Priority),
		ColCategory:    string(g.Category),
	}
}

// GoalPatchToRow converts the present fields of a GoalPatch into a partial
// row.
func GoalPatchToRow(p models.GoalPatch) models.Row {
	row := models.Row{}
	if p.Type != nil {
		row[ColType] = string(*p.Type)
	}
	if p.Target != nil {
		row[ColTarget] = *p.Target
	}
	if p.Current != nil {
		row[ColCurrent] = *p.Current
	}
	if p.Deadline != nil {
		row[ColDeadline] = *p.Deadline
	}
	if p.Description != nil {
		row[ColDescription] = *p.Description
	}
	if p.IsActive != nil {
		row[ColIsActive] = *p.IsActive
	}
	if p.Priority != nil {
		row[ColPriority] = string(*p.Priority)
	}
	if p.Category != nil {
		row[ColCategory] = string(*p.Category)
	}
	return row
}
