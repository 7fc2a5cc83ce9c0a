package service

import (
	"log/slog"
)

type ServicesConfig struct {
	OpenCloud       OpenCloud
	URLs            URLConfig
	MinAPIKeyLength int
	Logger          *slog.Logger
}

type Services struct {
	publish         PublishService
	minAPIKeyLength int
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		publish:         NewPublishService(cfg.OpenCloud, cfg.URLs, cfg.Logger),
		minAPIKeyLength: cfg.MinAPIKeyLength,
	}
}

func (s *Services) Publish() PublishService {
	return s.publish
}

// MinAPIKeyLength is the credential length enforced on the /api routes.
func (s *Services) MinAPIKeyLength() int {
	return s.minAPIKeyLength
}
