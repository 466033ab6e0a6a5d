package normalization

import (
	"regexp"
)

// youtubeIDPattern finds a video id after a "v=" query marker or a
// "youtu.be/" path marker. This is deliberately a heuristic, not a full URL
// parser: shorts, embeds and playlist links without an explicit v= parameter
// are not recognized.
var youtubeIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([A-Za-z0-9_-]{6,})`)

// NormalizeYouTubeURL maps an arbitrary YouTube URL string onto the canonical
// watch form. The second return value is false when no video id token can be
// found in the input.
func NormalizeYouTubeURL(raw string) (string, bool) {
	m := youtubeIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return "https://www.youtube.com/watch?v=" + m[1], true
}
