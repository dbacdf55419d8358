package models

import "time"

// Mood is the overall tone of a journal entry.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNegative Mood = "negative"
	MoodNeutral  Mood = "neutral"
)

// ValidMoods is the set of allowed mood values.
var ValidMoods = map[Mood]bool{
	MoodPositive: true,
	MoodNegative: true,
	MoodNeutral:  true,
}

// JournalEntry is a free-form daily note.
type JournalEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      Mood      `json:"mood"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Clone returns a copy that shares no slices with e.
func (e JournalEntry) Clone() JournalEntry {
	c := e
	c.Tags = cloneStrings(e.Tags)
	return c
}

// JournalPatch carries the fields of a partial journal entry update.
type JournalPatch struct {
	Date    *string   `json:"date,omitempty"`
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Mood    *Mood     `json:"mood,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// Apply returns e with every non-nil patch field written over it.
func (p JournalPatch) Apply(e JournalEntry) JournalEntry {
	e = e.Clone()
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Tags != nil {
		e.Tags = cloneStrings(*p.Tags)
	}
	return e
}
