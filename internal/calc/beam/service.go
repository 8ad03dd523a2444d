package beam

import (
	"context"
	"encoding/json"

	"github.com/sgostarter/i/l"
)

// Cache stores encoded results by Input.Key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Service is the shared entry point for handlers that need an analysis.
// Results are memoised when a Cache is configured.
type Service struct {
	cache    Cache
	segments int
	logger   l.Wrapper
}

func NewService(cache Cache, segments int, logger l.Wrapper) *Service {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	return &Service{
		cache:    cache,
		segments: segments,
		logger:   logger.WithFields(l.StringField(l.ClsKey, "beamService")),
	}
}

func (s *Service) Analyze(ctx context.Context, in Input) (Result, error) {
	if in.Segments <= 0 && s.segments > 0 {
		in.Segments = s.segments
	}

	key := in.Key()
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var res Result
			if err := json.Unmarshal(raw, &res); err == nil {
				return res, nil
			}
			s.logger.WithFields(l.StringField("key", key)).Warn("drop undecodable cache entry")
		}
	}

	res, err := Calculate(in)
	if err != nil {
		return Result{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(res); err == nil {
			s.cache.Set(ctx, key, raw)
		} else {
			s.logger.WithFields(l.ErrorField(err)).Error("encode result for cache")
		}
	}
	return res, nil
}
