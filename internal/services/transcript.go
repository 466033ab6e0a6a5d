package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vidquiz/vidquiz-backend/internal/logger"
	"github.com/vidquiz/vidquiz-backend/internal/normalization"
	"github.com/vidquiz/vidquiz-backend/internal/utils"
)

const (
	noTranscriptMessage = "No Transcript Found."

	// Anything shorter than this is treated as noise (intro jingles,
	// caption fragments) rather than a usable transcript.
	minTranscriptRunes = 50
)

// TranscriptService turns a normalized watch URL into plain transcript text.
type TranscriptService interface {
	FetchTranscript(ctx context.Context, watchURL string) (string, error)
}

// NewTranscriptService selects a strategy from TRANSCRIPT_STRATEGY:
// "captions" uses the published subtitle track only, "audio" always
// transcribes the audio stream, "auto" tries captions and falls back
// to audio.
func NewTranscriptService(log *logger.Logger, videos VideoProviderService, media MediaToolsService, speech SpeechProviderService) (TranscriptService, error) {
	slog := log.With("service", "TranscriptService")
	strategy := normalization.ParseInputString(utils.GetEnv("TRANSCRIPT_STRATEGY", "auto", slog))

	captions := &captionTranscriptService{log: slog, videos: videos}
	audio := &audioTranscriptService{log: slog, videos: videos, media: media, speech: speech}

	switch strategy {
	case "captions":
		return captions, nil
	case "audio":
		return audio, nil
	case "auto":
		return &autoTranscriptService{log: slog, captions: captions, audio: audio}, nil
	default:
		return nil, fmt.Errorf("unknown transcript strategy %q", strategy)
	}
}

type captionTranscriptService struct {
	log    *logger.Logger
	videos VideoProviderService
}

func (s *captionTranscriptService) FetchTranscript(ctx context.Context, watchURL string) (string, error) {
	workDir, err := os.MkdirTemp("", "vidquiz-subs-*")
	if err != nil {
		return "", newPipelineError(CodeNoTranscript, noTranscriptMessage, err)
	}
	defer os.RemoveAll(workDir)

	vttPath, err := s.videos.DownloadSubtitles(ctx, watchURL, workDir)
	if err != nil {
		s.log.Warn("subtitle download failed", "url", watchURL, "error", err)
		return "", newPipelineError(CodeNoTranscript, noTranscriptMessage, err)
	}
	raw, err := os.ReadFile(vttPath)
	if err != nil {
		return "", newPipelineError(CodeNoTranscript, noTranscriptMessage, err)
	}

	transcript := parseVTT(string(raw))
	if utf8.RuneCountInString(transcript) < minTranscriptRunes {
		return "", newPipelineError(CodeNoTranscript, noTranscriptMessage, fmt.Errorf("caption transcript too short (%d runes)", utf8.RuneCountInString(transcript)))
	}
	return transcript, nil
}

type audioTranscriptService struct {
	log    *logger.Logger
	videos VideoProviderService
	media  MediaToolsService
	speech SpeechProviderService
}

func (s *audioTranscriptService) FetchTranscript(ctx context.Context, watchURL string) (string, error) {
	workDir, err := os.MkdirTemp("", "vidquiz-audio-*")
	if err != nil {
		return "", newPipelineError(CodeNoTranscript, noTranscriptMessage, err)
	}
	defer os.RemoveAll(workDir)

	audioPath, err := s.videos.DownloadAudio(ctx, watchURL, workDir)
	if err != nil {
		s.log.Warn("audio download failed", "url", watchURL, "error", err)
		return "", newPipelineError(CodeNoTranscript, noTranscriptMessage, err)
	}

	wavPath := filepath.Join(workDir, "audio.wav")
	if _, err := s.media.ExtractAudioWAV(ctx, audioPath, wavPath); err != nil {
		s.log.Warn("audio transcode failed", "url", watchURL, "error", err)
		return "", newPipelineError(CodeNoTranscript, noTranscriptMessage, err)
	}

	transcript, err := s.speech.TranscribeAudioFile(ctx, wavPath)
	if err != nil {
		s.log.Warn("speech transcription failed", "url", watchURL, "error", err)
		return "", newPipelineError(CodeNoTranscript, noTranscriptMessage, err)
	}
	transcript = strings.TrimSpace(transcript)
	if utf8.RuneCountInString(transcript) < minTranscriptRunes {
		return "", newPipelineError(CodeNoTranscript, noTranscriptMessage, fmt.Errorf("audio transcript too short (%d runes)", utf8.RuneCountInString(transcript)))
	}
	return transcript, nil
}

type autoTranscriptService struct {
	log      *logger.Logger
	captions TranscriptService
	audio    TranscriptService
}

func (s *autoTranscriptService) FetchTranscript(ctx context.Context, watchURL string) (string, error) {
	transcript, err := s.captions.FetchTranscript(ctx, watchURL)
	if err == nil {
		return transcript, nil
	}
	s.log.Info("falling back to audio transcription", "url", watchURL)
	return s.audio.FetchTranscript(ctx, watchURL)
}

var (
	vttInlineTagPattern = regexp.MustCompile(`<[^>]*>`)
	vttCueIDPattern     = regexp.MustCompile(`^\d+$`)
)

// parseVTT flattens a WebVTT document into plain text. Header lines,
// cue timings, and inline timing tags are dropped; consecutive duplicate
// cue lines (common in auto-generated rolling captions) collapse to one.
func parseVTT(raw string) string {
	var parts []string
	var prev string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "Kind:") ||
			strings.HasPrefix(line, "Language:") ||
			strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "STYLE") {
			continue
		}
		if strings.Contains(line, "-->") {
			continue
		}
		if vttCueIDPattern.MatchString(line) {
			continue
		}
		line = strings.TrimSpace(vttInlineTagPattern.ReplaceAllString(line, ""))
		if line == "" || line == prev {
			continue
		}
		parts = append(parts, line)
		prev = line
	}
	return strings.Join(parts, " ")
}
