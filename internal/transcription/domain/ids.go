package domain

import "github.com/google/uuid"

// TranscriptionID is the opaque identity of a transcription aggregate.
type TranscriptionID string

func NewTranscriptionID() TranscriptionID {
	return TranscriptionID(uuid.NewString())
}

func ParseTranscriptionID(s string) (TranscriptionID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", &ValidationError{Field: "transcription id", Value: s, Expected: "uuid"}
	}
	return TranscriptionID(s), nil
}

func (id TranscriptionID) String() string { return string(id) }
func (id TranscriptionID) IsZero() bool   { return id == "" }

// UserID identifies the owning user. Issued outside this core.
type UserID string

func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return "", &ValidationError{Field: "user id", Value: s, Expected: "non-empty string"}
	}
	return UserID(s), nil
}

func (id UserID) String() string { return string(id) }
func (id UserID) IsZero() bool   { return id == "" }
