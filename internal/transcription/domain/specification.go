package domain

import "time"

// Specification is a composable predicate over transcriptions, used to
// build ad-hoc filters without the repository knowing every combination.
type Specification interface {
	IsSatisfiedBy(t *Transcription) bool
}

// SpecFunc adapts a plain predicate function to a Specification.
type SpecFunc func(t *Transcription) bool

func (f SpecFunc) IsSatisfiedBy(t *Transcription) bool { return f(t) }

// And matches when all inner specifications match.
func And(specs ...Specification) Specification {
	return SpecFunc(func(t *Transcription) bool {
		for _, s := range specs {
			if !s.IsSatisfiedBy(t) {
				return false
			}
		}
		return true
	})
}

// Or matches when any inner specification matches.
func Or(specs ...Specification) Specification {
	return SpecFunc(func(t *Transcription) bool {
		for _, s := range specs {
			if s.IsSatisfiedBy(t) {
				return true
			}
		}
		return false
	})
}

// Not inverts a specification.
func Not(spec Specification) Specification {
	return SpecFunc(func(t *Transcription) bool {
		return !spec.IsSatisfiedBy(t)
	})
}

func ByStatus(status Status) Specification {
	return SpecFunc(func(t *Transcription) bool {
		return t.Status() == status
	})
}

func ByLanguage(language Language) Specification {
	return SpecFunc(func(t *Transcription) bool {
		return t.Language().Equals(language)
	})
}

func ByUser(userID UserID) Specification {
	return SpecFunc(func(t *Transcription) bool {
		return t.UserID() == userID
	})
}

func FromYouTube() Specification {
	return SpecFunc(func(t *Transcription) bool {
		return t.IsYouTubeSource()
	})
}

func CreatedAfter(after time.Time) Specification {
	return SpecFunc(func(t *Transcription) bool {
		return t.CreatedAt().After(after)
	})
}

func CreatedBefore(before time.Time) Specification {
	return SpecFunc(func(t *Transcription) bool {
		return t.CreatedAt().Before(before)
	})
}

func WithMinWordCount(min int) Specification {
	return SpecFunc(func(t *Transcription) bool {
		return t.HasText() && t.Text().WordCount() >= min
	})
}
