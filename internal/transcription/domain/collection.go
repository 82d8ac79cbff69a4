package domain

import "sort"

// Collection wraps an ordered sequence of transcriptions. Every filtering
// and sorting operation copies; the source collection is never mutated.
type Collection struct {
	items []*Transcription
}

func NewCollection(items ...*Transcription) Collection {
	cp := make([]*Transcription, len(items))
	copy(cp, items)
	return Collection{items: cp}
}

func (c Collection) Count() int    { return len(c.items) }
func (c Collection) IsEmpty() bool { return len(c.items) == 0 }

func (c Collection) Items() []*Transcription {
	out := make([]*Transcription, len(c.items))
	copy(out, c.items)
	return out
}

func (c Collection) First() (*Transcription, bool) {
	if len(c.items) == 0 {
		return nil, false
	}
	return c.items[0], true
}

// Filter returns a new collection holding only items satisfying the
// specification.
func (c Collection) Filter(spec Specification) Collection {
	var out []*Transcription
	for _, t := range c.items {
		if spec.IsSatisfiedBy(t) {
			out = append(out, t)
		}
	}
	return Collection{items: out}
}

func (c Collection) ByStatus(status Status) Collection       { return c.Filter(ByStatus(status)) }
func (c Collection) ByLanguage(language Language) Collection { return c.Filter(ByLanguage(language)) }
func (c Collection) OnlyCompleted() Collection               { return c.ByStatus(StatusCompleted) }
func (c Collection) OnlyFailed() Collection                  { return c.ByStatus(StatusFailed) }
func (c Collection) OnlyProcessing() Collection              { return c.ByStatus(StatusProcessing) }
func (c Collection) OnlyPending() Collection                 { return c.ByStatus(StatusPending) }
func (c Collection) OnlyYouTube() Collection                 { return c.Filter(FromYouTube()) }

func (c Collection) SortByCreatedAtAsc() Collection {
	out := c.Items()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return Collection{items: out}
}

func (c Collection) SortByCreatedAtDesc() Collection {
	out := c.Items()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return Collection{items: out}
}

// Paginate slices the collection deterministically. Pages are 1-based;
// out-of-range pages yield an empty collection.
func (c Collection) Paginate(page, perPage int) Collection {
	if page < 1 || perPage < 1 {
		return Collection{}
	}
	offset := (page - 1) * perPage
	if offset >= len(c.items) {
		return Collection{}
	}
	end := offset + perPage
	if end > len(c.items) {
		end = len(c.items)
	}
	out := make([]*Transcription, end-offset)
	copy(out, c.items[offset:end])
	return Collection{items: out}
}

// Window slices the collection by raw offset and limit, for callers whose
// offsets are not page-aligned.
func (c Collection) Window(offset, limit int) Collection {
	if offset < 0 || limit < 1 || offset >= len(c.items) {
		return Collection{}
	}
	end := offset + limit
	if end > len(c.items) {
		end = len(c.items)
	}
	out := make([]*Transcription, end-offset)
	copy(out, c.items[offset:end])
	return Collection{items: out}
}

// Statistics are per-collection aggregates computed in a single pass.
type Statistics struct {
	Total          int
	Pending        int
	Processing     int
	Completed      int
	Failed         int
	Cancelled      int
	YouTubeSources int
	TotalWords     int
	TotalDuration  float64
	Languages      map[string]int
}

func (c Collection) Statistics() Statistics {
	stats := Statistics{
		Total:     len(c.items),
		Languages: map[string]int{},
	}

	for _, t := range c.items {
		switch t.Status() {
		case StatusPending:
			stats.Pending++
		case StatusProcessing:
			stats.Processing++
		case StatusCompleted:
			stats.Completed++
		case StatusFailed:
			stats.Failed++
		case StatusCancelled:
			stats.Cancelled++
		}

		if t.IsYouTubeSource() {
			stats.YouTubeSources++
		}
		if t.HasText() {
			stats.TotalWords += t.Text().WordCount()
			stats.TotalDuration += t.Text().Duration()
		}
		stats.Languages[t.Language().Code()]++
	}

	return stats
}

// TotalWordCount sums word counts over completed results.
func (c Collection) TotalWordCount() int {
	total := 0
	for _, t := range c.items {
		if t.HasText() {
			total += t.Text().WordCount()
		}
	}
	return total
}

// TotalDuration sums transcript durations in seconds.
func (c Collection) TotalDuration() float64 {
	total := 0.0
	for _, t := range c.items {
		if t.HasText() {
			total += t.Text().Duration()
		}
	}
	return total
}
