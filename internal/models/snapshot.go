package models

import "time"

// Snapshot is the complete cached state for one owner. Every sequence except
// the portfolio transactions is most-recent-first.
type Snapshot struct {
	Trades         []Trade        `json:"trades"`
	Assets         []Asset        `json:"assets"`
	Goals          []Goal         `json:"goals"`
	JournalEntries []JournalEntry `json:"journalEntries"`
	Portfolio      Portfolio      `json:"portfolio"`
	UserSettings   UserSettings   `json:"userSettings"`
	LoadedAt       time.Time      `json:"loadedAt,omitzero"`
}

// EmptySnapshot returns a snapshot holding only default singletons.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Trades:         []Trade{},
		Assets:         []Asset{},
		Goals:          []Goal{},
		JournalEntries: []JournalEntry{},
		Portfolio:      DefaultPortfolio(),
		UserSettings:   DefaultUserSettings(),
	}
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Trades:         make([]Trade, len(s.Trades)),
		Assets:         append([]Asset{}, s.Assets...),
		Goals:          append([]Goal{}, s.Goals...),
		JournalEntries: make([]JournalEntry, len(s.JournalEntries)),
		Portfolio:      s.Portfolio.Clone(),
		UserSettings:   s.UserSettings,
		LoadedAt:       s.LoadedAt,
	}
	for i, t := range s.Trades {
		c.Trades[i] = t.Clone()
	}
	for i, e := range s.JournalEntries {
		c.JournalEntries[i] = e.Clone()
	}
	return c
}
