package services

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/vidquiz/vidquiz-backend/internal/logger"
	"github.com/vidquiz/vidquiz-backend/internal/utils"
)

// VideoProviderService wraps the yt-dlp binary. It downloads either the
// best available audio stream or the English subtitle track for a single
// watch URL into a caller-owned directory.
type VideoProviderService interface {
	AssertReady(ctx context.Context) error
	DownloadAudio(ctx context.Context, watchURL string, destDir string) (string, error)
	DownloadSubtitles(ctx context.Context, watchURL string, destDir string) (string, error)
}

type videoProviderService struct {
	log *logger.Logger

	ytdlpPath      string
	defaultTimeout time.Duration
}

func NewVideoProviderService(log *logger.Logger) VideoProviderService {
	slog := log.With("service", "VideoProviderService")
	ytdlpPath := utils.GetEnv("YTDLP_PATH", "yt-dlp", slog)
	timeoutSec := utils.GetEnvAsInt("YTDLP_TIMEOUT_SECONDS", 600, slog)
	return &videoProviderService{
		log:            slog,
		ytdlpPath:      ytdlpPath,
		defaultTimeout: time.Duration(timeoutSec) * time.Second,
	}
}

func (v *videoProviderService) AssertReady(ctx context.Context) error {
	if _, err := exec.LookPath(v.ytdlpPath); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", v.ytdlpPath, err)
	}
	return nil
}

func (v *videoProviderService) DownloadAudio(ctx context.Context, watchURL string, destDir string) (string, error) {
	ctx = defaultCtx(ctx)
	if watchURL == "" {
		return "", fmt.Errorf("watchURL required")
	}
	if destDir == "" {
		return "", fmt.Errorf("destDir required")
	}
	if err := v.AssertReady(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, v.defaultTimeout)
	defer cancel()

	outTemplate := filepath.Join(destDir, "%(id)s.%(ext)s")
	cmd := exec.CommandContext(ctx, v.ytdlpPath,
		"-f", "bestaudio/best",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"-o", outTemplate,
		watchURL,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp audio download failed: %w; out=%s", err, string(out))
	}

	matches, err := filepath.Glob(filepath.Join(destDir, "*"))
	if err != nil {
		return "", fmt.Errorf("scan destDir: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("yt-dlp produced no audio file in %s", destDir)
	}
	return matches[0], nil
}

func (v *videoProviderService) DownloadSubtitles(ctx context.Context, watchURL string, destDir string) (string, error) {
	ctx = defaultCtx(ctx)
	if watchURL == "" {
		return "", fmt.Errorf("watchURL required")
	}
	if destDir == "" {
		return "", fmt.Errorf("destDir required")
	}
	if err := v.AssertReady(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, v.defaultTimeout)
	defer cancel()

	outTemplate := filepath.Join(destDir, "%(id)s.%(ext)s")
	cmd := exec.CommandContext(ctx, v.ytdlpPath,
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", "en.*,en",
		"--sub-format", "vtt",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"-o", outTemplate,
		watchURL,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp subtitle download failed: %w; out=%s", err, string(out))
	}

	matches, err := filepath.Glob(filepath.Join(destDir, "*.vtt"))
	if err != nil {
		return "", fmt.Errorf("scan destDir: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no subtitle track available for %s", watchURL)
	}
	return matches[0], nil
}
