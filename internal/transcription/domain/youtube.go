package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	youtubeVideoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	youtubeURLPatterns    = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
	}
)

// YouTubeMetadata describes the YouTube origin of a transcription.
type YouTubeMetadata struct {
	videoID     string
	originalURL string
	title       string
	duration    int // seconds
}

func NewYouTubeMetadata(videoID, originalURL, title string, duration int) (YouTubeMetadata, error) {
	if !youtubeVideoIDPattern.MatchString(videoID) {
		return YouTubeMetadata{}, &ValidationError{Field: "youtube video id", Value: videoID, Expected: "11-character alphanumeric string"}
	}
	if err := validateYouTubeURL(originalURL); err != nil {
		return YouTubeMetadata{}, err
	}
	return YouTubeMetadata{
		videoID:     videoID,
		originalURL: originalURL,
		title:       title,
		duration:    duration,
	}, nil
}

// YouTubeMetadataFromURL extracts the video id from any supported URL shape.
func YouTubeMetadataFromURL(rawURL string) (YouTubeMetadata, error) {
	if err := validateYouTubeURL(rawURL); err != nil {
		return YouTubeMetadata{}, err
	}
	for _, pattern := range youtubeURLPatterns {
		if m := pattern.FindStringSubmatch(rawURL); len(m) == 2 {
			return YouTubeMetadata{videoID: m[1], originalURL: rawURL}, nil
		}
	}
	return YouTubeMetadata{}, &ValidationError{Field: "youtube url", Value: rawURL, Expected: "url containing a video id"}
}

func validateYouTubeURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: "youtube url", Value: rawURL, Expected: "valid url"}
	}
	host := strings.TrimPrefix(u.Host, "www.")
	if host != "youtube.com" && host != "youtu.be" && host != "m.youtube.com" {
		return &ValidationError{Field: "youtube url", Value: rawURL, Expected: "youtube.com or youtu.be url"}
	}
	return nil
}

func (m YouTubeMetadata) VideoID() string     { return m.videoID }
func (m YouTubeMetadata) OriginalURL() string { return m.originalURL }
func (m YouTubeMetadata) Title() string       { return m.title }
func (m YouTubeMetadata) Duration() int       { return m.duration }
func (m YouTubeMetadata) IsZero() bool        { return m.videoID == "" }

func (m YouTubeMetadata) WithTitle(title string) YouTubeMetadata {
	cp := m
	cp.title = title
	return cp
}

func (m YouTubeMetadata) WithDuration(seconds int) YouTubeMetadata {
	cp := m
	if seconds >= 0 {
		cp.duration = seconds
	}
	return cp
}

func (m YouTubeMetadata) Equals(other YouTubeMetadata) bool { return m == other }
