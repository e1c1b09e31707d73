// Package translate implements the translation core: validation, the
// upstream call and response normalization. It has no HTTP knowledge.
package translate

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pricofy/youdao-translate/internal/domain"
	"github.com/pricofy/youdao-translate/internal/youdao"
)

// successCode is the upstream errorCode for a successful translation.
const successCode = "0"

// Upstream is the outbound translation call.
type Upstream interface {
	Translate(ctx context.Context, q, to string) (*youdao.Response, error)
}

// Service translates single texts through the upstream.
type Service struct {
	upstream      Upstream
	defaultTarget string
	logger        *zap.Logger
}

// NewService creates a new Service. An empty defaultTarget means "en".
func NewService(upstream Upstream, defaultTarget string, logger *zap.Logger) *Service {
	if defaultTarget == "" {
		defaultTarget = domain.DefaultTargetLanguage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		upstream:      upstream,
		defaultTarget: defaultTarget,
		logger:        logger,
	}
}

// Translate validates req, calls the upstream once and normalizes the reply.
// Every returned error is a *domain.Error.
func (s *Service) Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error) {
	if req.Text == "" {
		return nil, domain.MissingField("text")
	}

	target := req.TargetLanguage
	if target == "" {
		target = s.defaultTarget
	}

	resp, err := s.upstream.Translate(ctx, req.Text, target)
	if err != nil {
		var derr *domain.Error
		if !errors.As(err, &derr) {
			derr = domain.UpstreamUnavailable(err, nil)
		}
		s.logger.Warn("Upstream unavailable", zap.String("target", target), zap.Error(derr))
		return nil, derr
	}

	result, derr := normalize(resp)
	if derr != nil {
		s.logger.Info("Translation rejected by upstream",
			zap.String("target", target),
			zap.String("errorCode", derr.ErrorCode))
		return nil, derr
	}

	s.logger.Debug("Translated",
		zap.String("from", result.SourceLanguage),
		zap.String("to", result.TargetLanguage),
		zap.Int("textLength", len(req.Text)))

	return result, nil
}

// normalize maps an upstream payload to the result shape.
func normalize(resp *youdao.Response) (*domain.TranslationResult, *domain.Error) {
	if resp.ErrorCode != successCode {
		return nil, domain.TranslationFailed(resp.ErrorCode, resp.Raw)
	}
	if len(resp.Translation) == 0 {
		return nil, domain.TranslationFailed(resp.ErrorCode, resp.Raw)
	}

	source, target := SplitLanguagePair(resp.L)

	return &domain.TranslationResult{
		TranslatedText: resp.Translation[0],
		SourceLanguage: source,
		TargetLanguage: target,
		Pronunciation: domain.Pronunciation{
			Source: resp.SpeakURL,
			Target: resp.TSpeakURL,
		},
		Raw: resp.Raw,
	}, nil
}

// SplitLanguagePair splits the upstream "l" field ("<src>2<dst>") on "2"
// and returns the first two parts. A code that itself contains "2" is split
// wrongly; the upstream format gives no way to tell.
func SplitLanguagePair(l string) (source, target string) {
	parts := strings.Split(l, "2")
	source = parts[0]
	if len(parts) > 1 {
		target = parts[1]
	}
	return source, target
}
