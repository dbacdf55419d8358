package models

import "time"

// GoalType is the period a goal is measured over.
type GoalType string

const (
	GoalDaily   GoalType = "daily"
	GoalWeekly  GoalType = "weekly"
	GoalMonthly GoalType = "monthly"
	GoalYearly  GoalType = "yearly"
)

// GoalPriority ranks goals against each other.
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// GoalCategory names the metric a goal tracks.
type GoalCategory string

const (
	GoalProfit   GoalCategory = "profit"
	GoalWinRate  GoalCategory = "winrate"
	GoalTrades   GoalCategory = "trades"
	GoalDrawdown GoalCategory = "drawdown"
)

// ValidGoalTypes is the set of allowed goal type values.
var ValidGoalTypes = map[GoalType]bool{
	GoalDaily:   true,
	GoalWeekly:  true,
	GoalMonthly: true,
	GoalYearly:  true,
}

// ValidGoalPriorities is the set of allowed priority values.
var ValidGoalPriorities = map[GoalPriority]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// ValidGoalCategories is the set of allowed goal category values.
var ValidGoalCategories = map[GoalCategory]bool{
	GoalProfit:   true,
	GoalWinRate:  true,
	GoalTrades:   true,
	GoalDrawdown: true,
}

// Goal is a target the trader is working towards.
type Goal struct {
	ID          string       `json:"id"`
	Type        GoalType     `json:"type"`
	Target      float64      `json:"target"`
	Current     float64      `json:"current"`
	Deadline    string       `json:"deadline"`
	Description string       `json:"description"`
	IsActive    bool         `json:"isActive"`
	Priority    GoalPriority `json:"priority"`
	Category    GoalCategory `json:"category"`
	CreatedAt   time.Time    `json:"createdAt,omitzero"`
}

// Completed reports whether progress has reached the target.
func (g Goal) Completed() bool {
	return g.Current >= g.Target
}

// GoalPatch carries the fields of a partial goal update.
type GoalPatch struct {
	Type        *GoalType     `json:"type,omitempty"`
	Target      *float64      `json:"target,omitempty"`
	Current     *float64      `json:"current,omitempty"`
	Deadline    *string       `json:"deadline,omitempty"`
	Description *string       `json:"description,omitempty"`
	IsActive    *bool         `json:"isActive,omitempty"`
	Priority    *GoalPriority `json:"priority,omitempty"`
	Category    *GoalCategory `json:"category,omitempty"`
}

// Apply returns g with every non-nil patch field written over it.
func (p GoalPatch) Apply(g Goal) Goal {
	if p.Type != nil {
		g.Type = *p.Type
	}
	if p.Target != nil {
		g.Target = *p.Target
	}
	if p.Current != nil {
		g.Current = *p.Current
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.IsActive != nil {
		g.IsActive = *p.IsActive
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	return g
}
