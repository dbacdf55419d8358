package models

import "time"

// ExportVersion is written into every export document. Documents without a
// version are treated as version 1.
const ExportVersion = 1

// ExportDocument is the portable form of a Snapshot. A nil sequence means the
// kind was absent from the document and is left alone on import.
type ExportDocument struct {
	Version        int            `json:"version,omitempty" msgpack:"version,omitempty"`
	Trades         []Trade        `json:"trades"`
	Portfolio      *Portfolio     `json:"portfolio"`
	Goals          []Goal         `json:"goals"`
	JournalEntries []JournalEntry `json:"journalEntries"`
	UserSettings   *UserSettings  `json:"userSettings"`
	Assets         []Asset        `json:"assets"`
	ExportDate     time.Time      `json:"exportDate"`
}
