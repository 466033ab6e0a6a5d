package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/vidquiz/vidquiz-backend/internal/logger"
)

// MediaToolsService is the glue around system binaries:
//
// REQUIRED BINARIES in the runtime:
// - ffmpeg for audio transcoding
//
// This service is synchronous and deterministic.
type MediaToolsService interface {
	AssertReady(ctx context.Context) error
	ExtractAudioWAV(ctx context.Context, inputPath string, outPath string) (string, error)
}

type mediaToolsService struct {
	log *logger.Logger

	ffmpegPath string

	defaultTimeout time.Duration
}

func NewMediaToolsService(log *logger.Logger) MediaToolsService {
	slog := log.With("service", "MediaToolsService")
	return &mediaToolsService{
		log:            slog,
		ffmpegPath:     "ffmpeg",
		defaultTimeout: 10 * time.Minute,
	}
}

func (m *mediaToolsService) AssertReady(ctx context.Context) error {
	if _, err := exec.LookPath(m.ffmpegPath); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", m.ffmpegPath, err)
	}
	return nil
}

// ExtractAudioWAV transcodes any yt-dlp audio container to 16kHz mono
// LINEAR16 WAV, the shape the speech recognizer expects.
func (m *mediaToolsService) ExtractAudioWAV(ctx context.Context, inputPath string, outPath string) (string, error) {
	ctx = defaultCtx(ctx)
	if err := m.AssertReady(ctx); err != nil {
		return "", err
	}
	if inputPath == "" {
		return "", fmt.Errorf("inputPath required")
	}
	if outPath == "" {
		return "", fmt.Errorf("outPath required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("mkdir outPath dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.defaultTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.ffmpegPath,
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg extract audio failed: %w; out=%s", err, string(out))
	}
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("audio output missing at %s", outPath)
	}
	return outPath, nil
}

func defaultCtx(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
