package transform

import "github.com/bobmcallan/tradejournal/internal/models"

// JournalEntryFromRow converts a journal_entries row into a JournalEntry.
func JournalEntryFromRow(row models.Row) (models.JournalEntry, error) {
	r := newReader(models.TableJournalEntries, row)
	e := models.JournalEntry{
		ID:        r.id(),
		Date:      r.str(ColDate),
		Title:     r.str(ColTitle),
		Content:   r.str(ColContent),
		Mood:      models.Mood(r.strOr(ColMood, string(models.MoodNeutral))),
		Tags:      r.strings(ColTags),
		CreatedAt: r.time(ColCreatedAt),
	}
	if err := r.result(); err != nil {
		return models.JournalEntry{}, err
	}
	return e, nil
}

// JournalEntryToRow converts a JournalEntry into an insertable row.
func JournalEntryToRow(e models.JournalEntry) models.Row {
	mood := e.Mood
	if mood == "" {
		mood = models.MoodNeutral
	}
	return models.Row{
		ColDate:    e.Date,
		ColTitle:   e.Title,
		ColContent: e.Content,
		ColMood:    string(mood),
		ColTags:    stringList(e.Tags),
	}
}

// JournalPatchToRow converts the present fields of a JournalPatch into a
// partial row.
func JournalPatchToRow(p models.JournalPatch) models.Row {
	row := models.Row{}
	if p.Date != nil {
		row[ColDate] = *p.Date
	}
	if p.Title != nil {
		row[ColTitle] = *p.Title
	}
	if p.Content != nil {
		row[ColContent] = *p.Content
	}
	if p.Mood != nil {
		row[ColMood] = string(*p.Mood)
	}
	if p.Tags != nil {
		row[ColTags] = stringList(*p.Tags)
	}
	return row
}
