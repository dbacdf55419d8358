package models

import "time"

// EntityKind names a cached collection.
type EntityKind string

const (
	KindTrade        EntityKind = "trade"
	KindAsset        EntityKind = "asset"
	KindGoal         EntityKind = "goal"
	KindJournalEntry EntityKind = "journal_entry"
	KindPortfolio    EntityKind = "portfolio"
	KindUserSettings EntityKind = "user_settings"
	KindSnapshot     EntityKind = "snapshot"
)

// ChangeOp is the kind of mutation a ChangeEvent reports.
type ChangeOp string

const (
	OpAdded    ChangeOp = "added"
	OpUpdated  ChangeOp = "updated"
	OpRemoved  ChangeOp = "removed"
	OpReplaced ChangeOp = "replaced"
	OpLoaded   ChangeOp = "loaded"
)

// ChangeEvent is published by the cache after a mutation has been applied.
type ChangeEvent struct {
	Owner string     `json:"owner"`
	Kind  EntityKind `json:"kind"`
	Op    ChangeOp   `json:"op"`
	ID    string     `json:"id,omitempty"`
	At    time.Time  `json:"at"`
}
