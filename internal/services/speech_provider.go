package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vidquiz/vidquiz-backend/internal/logger"
)

// SpeechProviderService transcribes WAV audio produced by the media tools.
// Audio is sent inline, so inputs should stay within the recognizer's
// inline-content limits.
type SpeechProviderService interface {
	TranscribeAudioFile(ctx context.Context, wavPath string) (string, error)
	Close() error
}

type speechProviderService struct {
	log    *logger.Logger
	client *speech.Client

	maxRetries int
}

func NewSpeechProviderService(log *logger.Logger) (SpeechProviderService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "SpeechProviderService")

	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	ctx := context.Background()

	var c *speech.Client
	var err error
	if creds != "" {
		c, err = speech.NewClient(ctx, option.WithCredentialsFile(creds))
	} else {
		c, err = speech.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}

	return &speechProviderService{
		log:        slog,
		client:     c,
		maxRetries: 4,
	}, nil
}

func (s *speechProviderService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *speechProviderService) TranscribeAudioFile(ctx context.Context, wavPath string) (string, error) {
	ctx = defaultCtx(ctx)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	if wavPath == "" {
		return "", fmt.Errorf("wavPath required")
	}
	audio, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("audio file is empty: %s", wavPath)
	}

	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            16000,
			AudioChannelCount:          1,
			LanguageCode:               "en-US",
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := s.retryLR(ctx, func() (*speechpb.LongRunningRecognizeResponse, error) {
		op, err := s.client.LongRunningRecognize(ctx, req)
		if err != nil {
			return nil, err
		}
		return op.Wait(ctx)
	})
	if err != nil {
		return "", fmt.Errorf("speech longrunningrecognize: %w", err)
	}

	var full strings.Builder
	for _, r := range resp.GetResults() {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		transcript := strings.TrimSpace(r.Alternatives[0].Transcript)
		if transcript == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(transcript)
	}
	return strings.TrimSpace(full.String()), nil
}

func (s *speechProviderService) retryLR(ctx context.Context, fn func() (*speechpb.LongRunningRecognizeResponse, error)) (*speechpb.LongRunningRecognizeResponse, error) {
	backoff := 750 * time.Millisecond
	var last error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		last = err

		code := status.Code(err)
		if code != codes.Unavailable && code != codes.ResourceExhausted && code != codes.DeadlineExceeded {
			return nil, err
		}
		if attempt == s.maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return nil, last
}
