package domain

import (
	"path/filepath"
	"strings"
)

// MaxAudioFileSize is the Whisper upload limit.
const MaxAudioFileSize = 25 * 1024 * 1024

var supportedAudioFormats = map[string]struct{}{
	"mp3": {}, "mp4": {}, "m4a": {}, "wav": {}, "flac": {}, "ogg": {}, "webm": {}, "aac": {},
}

// AudioFile is an immutable description of an uploaded or downloaded media
// file. With* methods return new instances.
type AudioFile struct {
	path             string
	originalName     string
	mimeType         string
	size             int64
	duration         float64 // seconds, 0 means unknown
	preprocessedPath string
}

func NewAudioFile(path, originalName, mimeType string, size int64) (AudioFile, error) {
	if strings.TrimSpace(path) == "" {
		return AudioFile{}, &ValidationError{Field: "file path", Value: path, Expected: "non-empty string"}
	}
	ext := audioExtension(originalName)
	if _, ok := supportedAudioFormats[ext]; !ok {
		return AudioFile{}, &ValidationError{Field: "file format", Value: ext, Expected: supportedFormatList()}
	}
	if size <= 0 {
		return AudioFile{}, &ValidationError{Field: "file size", Value: size, Expected: "positive integer"}
	}
	if size > MaxAudioFileSize {
		return AudioFile{}, &ValidationError{Field: "file size", Value: size, Expected: "at most 25MB"}
	}
	return AudioFile{
		path:         path,
		originalName: originalName,
		mimeType:     mimeType,
		size:         size,
	}, nil
}

func (f AudioFile) IsZero() bool         { return f.path == "" }
func (f AudioFile) Path() string         { return f.path }
func (f AudioFile) OriginalName() string { return f.originalName }
func (f AudioFile) MimeType() string     { return f.mimeType }
func (f AudioFile) Size() int64          { return f.size }
func (f AudioFile) Extension() string    { return audioExtension(f.originalName) }

func (f AudioFile) SizeInMB() float64 {
	return roundTo(float64(f.size)/(1024*1024), 2)
}

func (f AudioFile) Duration() float64 { return f.duration }
func (f AudioFile) HasDuration() bool { return f.duration > 0 }

func (f AudioFile) DurationInMinutes() float64 {
	if f.duration <= 0 {
		return 0
	}
	return roundTo(f.duration/60, 2)
}

func (f AudioFile) PreprocessedPath() string { return f.preprocessedPath }
func (f AudioFile) HasPreprocessed() bool    { return f.preprocessedPath != "" }

// EffectivePath is the path a transcriber should read: the preprocessed
// version when one exists, the original otherwise.
func (f AudioFile) EffectivePath() string {
	if f.preprocessedPath != "" {
		return f.preprocessedPath
	}
	return f.path
}

// NeedsPreprocessing reports container formats that are usually transcoded
// to plain audio before transcription.
func (f AudioFile) NeedsPreprocessing() bool {
	switch f.Extension() {
	case "mp4", "webm", "m4a":
		return true
	default:
		return false
	}
}

func (f AudioFile) WithPreprocessedPath(path string) AudioFile {
	cp := f
	cp.preprocessedPath = path
	return cp
}

func (f AudioFile) WithDuration(seconds float64) AudioFile {
	cp := f
	if seconds >= 0 {
		cp.duration = seconds
	}
	return cp
}

func (f AudioFile) Equals(other AudioFile) bool { return f == other }

func audioExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func supportedFormatList() string {
	return "mp3, mp4, m4a, wav, flac, ogg, webm, aac"
}
