package command

import (
	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
)

const (
	CreateFromFileName    = "transcription.create_from_file"
	CreateFromYouTubeName = "transcription.create_from_youtube"
	StartProcessingName   = "transcription.start_processing"
	ProcessName           = "transcription.process"
	CompleteName          = "transcription.complete"
	FailName              = "transcription.fail"
	CancelName            = "transcription.cancel"
	RetryName             = "transcription.retry"
	DeleteName            = "transcription.delete"
)

// CreateFromFile registers an uploaded audio file for transcription.
type CreateFromFile struct {
	baseCommand
	UserID    domain.UserID
	AudioFile domain.AudioFile
	Language  domain.Language
	Priority  bool
}

func NewCreateFromFile(userID domain.UserID, file domain.AudioFile, language domain.Language, priority bool) (*CreateFromFile, error) {
	cmd := &CreateFromFile{
		baseCommand: newBaseCommand(),
		UserID:      userID,
		AudioFile:   file,
		Language:    language,
		Priority:    priority,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *CreateFromFile) CommandName() string { return CreateFromFileName }

func (c *CreateFromFile) Validate() error {
	if c.UserID.IsZero() {
		return &domain.ValidationError{Field: "user id", Value: "", Expected: "non-empty id"}
	}
	if c.AudioFile.Path() == "" {
		return &domain.ValidationError{Field: "audio file", Value: "", Expected: "validated audio file"}
	}
	if c.Language.IsZero() {
		return &domain.ValidationError{Field: "language", Value: "", Expected: "supported language"}
	}
	return nil
}

func (c *CreateFromFile) ToMap() map[string]any {
	return map[string]any{
		"command_id": c.id.String(),
		"user_id":    c.UserID.String(),
		"file":       c.AudioFile.OriginalName(),
		"size":       c.AudioFile.Size(),
		"language":   c.Language.Code(),
		"priority":   c.Priority,
	}
}

// CreateFromYouTube registers a YouTube URL for download and transcription.
type CreateFromYouTube struct {
	baseCommand
	UserID   domain.UserID
	URL      string
	Language domain.Language
	Priority bool
}

func NewCreateFromYouTube(userID domain.UserID, url string, language domain.Language, priority bool) (*CreateFromYouTube, error) {
	cmd := &CreateFromYouTube{
		baseCommand: newBaseCommand(),
		UserID:      userID,
		URL:         url,
		Language:    language,
		Priority:    priority,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *CreateFromYouTube) CommandName() string { return CreateFromYouTubeName }

func (c *CreateFromYouTube) Validate() error {
	if c.UserID.IsZero() {
		return &domain.ValidationError{Field: "user id", Value: "", Expected: "non-empty id"}
	}
	if _, err := domain.YouTubeMetadataFromURL(c.URL); err != nil {
		return err
	}
	if c.Language.IsZero() {
		return &domain.ValidationError{Field: "language", Value: "", Expected: "supported language"}
	}
	return nil
}

func (c *CreateFromYouTube) ToMap() map[string]any {
	return map[string]any{
		"command_id": c.id.String(),
		"user_id":    c.UserID.String(),
		"url":        c.URL,
		"language":   c.Language.Code(),
		"priority":   c.Priority,
	}
}

type transcriptionCommand struct {
	baseCommand
	TranscriptionID domain.TranscriptionID
}

func (c *transcriptionCommand) Validate() error {
	if c.TranscriptionID.IsZero() {
		return &domain.ValidationError{Field: "transcription id", Value: "", Expected: "non-empty id"}
	}
	return nil
}

func (c *transcriptionCommand) toMap(name string) map[string]any {
	return map[string]any{
		"command_id":       c.id.String(),
		"command":          name,
		"transcription_id": c.TranscriptionID.String(),
	}
}

// StartProcessing moves a pending transcription into processing without
// running the pipeline; used when an external worker owns the heavy step.
type StartProcessing struct {
	transcriptionCommand
	PreprocessedPath string
}

func NewStartProcessing(id domain.TranscriptionID, preprocessedPath string) (*StartProcessing, error) {
	cmd := &StartProcessing{
		transcriptionCommand: transcriptionCommand{baseCommand: newBaseCommand(), TranscriptionID: id},
		PreprocessedPath:     preprocessedPath,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *StartProcessing) CommandName() string { return StartProcessingName }
func (c *StartProcessing) ToMap() map[string]any {
	m := c.toMap(StartProcessingName)
	if c.PreprocessedPath != "" {
		m["preprocessed_path"] = c.PreprocessedPath
	}
	return m
}

// Process runs the full pipeline for a pending transcription: start,
// transcribe via the external provider, then complete or fail.
type Process struct {
	transcriptionCommand
	PreprocessedPath string
}

func NewProcess(id domain.TranscriptionID, preprocessedPath string) (*Process, error) {
	cmd := &Process{
		transcriptionCommand: transcriptionCommand{baseCommand: newBaseCommand(), TranscriptionID: id},
		PreprocessedPath:     preprocessedPath,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *Process) CommandName() string   { return ProcessName }
func (c *Process) ToMap() map[string]any { return c.toMap(ProcessName) }

// Complete records the transcript for a processing transcription.
type Complete struct {
	transcriptionCommand
	Text     domain.TranscribedText
	Metadata map[string]string
}

func NewComplete(id domain.TranscriptionID, text domain.TranscribedText, metadata map[string]string) (*Complete, error) {
	cmd := &Complete{
		transcriptionCommand: transcriptionCommand{baseCommand: newBaseCommand(), TranscriptionID: id},
		Text:                 text,
		Metadata:             metadata,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *Complete) CommandName() string { return CompleteName }

func (c *Complete) Validate() error {
	if err := c.transcriptionCommand.Validate(); err != nil {
		return err
	}
	if c.Text.IsZero() {
		return &domain.ValidationError{Field: "transcribed text", Value: "", Expected: "non-empty text"}
	}
	return nil
}

func (c *Complete) ToMap() map[string]any {
	m := c.toMap(CompleteName)
	m["word_count"] = c.Text.WordCount()
	return m
}

// Fail marks a transcription as failed with a machine-readable code.
type Fail struct {
	transcriptionCommand
	Reason    string
	ErrorCode string
	Context   map[string]string
}

func NewFail(id domain.TranscriptionID, reason, errorCode string, context map[string]string) (*Fail, error) {
	cmd := &Fail{
		transcriptionCommand: transcriptionCommand{baseCommand: newBaseCommand(), TranscriptionID: id},
		Reason:               reason,
		ErrorCode:            errorCode,
		Context:              context,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *Fail) CommandName() string { return FailName }

func (c *Fail) Validate() error {
	if err := c.transcriptionCommand.Validate(); err != nil {
		return err
	}
	if c.Reason == "" {
		return &domain.ValidationError{Field: "failure reason", Value: "", Expected: "non-empty string"}
	}
	return nil
}

func (c *Fail) ToMap() map[string]any {
	m := c.toMap(FailName)
	m["reason"] = c.Reason
	m["error_code"] = c.ErrorCode
	return m
}

// Cancel stops an unfinished transcription.
type Cancel struct {
	transcriptionCommand
}

func NewCancel(id domain.TranscriptionID) (*Cancel, error) {
	cmd := &Cancel{transcriptionCommand{baseCommand: newBaseCommand(), TranscriptionID: id}}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *Cancel) CommandName() string   { return CancelName }
func (c *Cancel) ToMap() map[string]any { return c.toMap(CancelName) }

// Retry returns a failed or cancelled transcription to pending.
type Retry struct {
	transcriptionCommand
}

func NewRetry(id domain.TranscriptionID) (*Retry, error) {
	cmd := &Retry{transcriptionCommand{baseCommand: newBaseCommand(), TranscriptionID: id}}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *Retry) CommandName() string   { return RetryName }
func (c *Retry) ToMap() map[string]any { return c.toMap(RetryName) }

// Delete removes a transcription permanently.
type Delete struct {
	transcriptionCommand
}

func NewDelete(id domain.TranscriptionID) (*Delete, error) {
	cmd := &Delete{transcriptionCommand{baseCommand: newBaseCommand(), TranscriptionID: id}}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *Delete) CommandName() string   { return DeleteName }
func (c *Delete) ToMap() map[string]any { return c.toMap(DeleteName) }
