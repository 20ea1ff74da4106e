// Package service hosts the small HTTP sidecar servers run alongside
// watch mode: a healthz endpoint and an optional Prometheus metrics
// endpoint.
package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/verdicthq/verdict-go/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"
)

// Config overrides the default listen addresses.
type Config struct {
	HealthzAddr    string
	MetricsAddr    string
	MetricsEnabled bool
}

type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer

	healthzAddr    string
	metricsAddr    string
	metricsEnabled bool
}

func New(cfg Config) *Service {
	healthzAddr := cfg.HealthzAddr
	if healthzAddr == "" {
		healthzAddr = net.JoinHostPort(HealthzHost, HealthzPort)
	}
	metricsAddr := cfg.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = net.JoinHostPort(MetricsHost, MetricsPort)
	}

	return &Service{
		Healthz:        &HealthzServer{},
		Metrics:        &MetricsServer{},
		healthzAddr:    healthzAddr,
		metricsAddr:    metricsAddr,
		metricsEnabled: cfg.MetricsEnabled,
	}
}

func (s *Service) Start(ctx context.Context) {
	log.Info("service starting")

	go func() {
		log.Info("starting healthz server", "addr", s.healthzAddr)
		if err := s.Healthz.Start(ctx, s.healthzAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting healthz server", "err", err)
			metrics.RecordErrorDetails("error starting healthz server", err)
		}
	}()

	if s.metricsEnabled {
		go func() {
			log.Info("starting metrics server", "addr", s.metricsAddr)
			if err := s.Metrics.Start(ctx, s.metricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("error starting metrics server", "err", err)
				metrics.RecordErrorDetails("error starting metrics server", err)
			}
		}()
	}

	log.Info("service started")
}

func (s *Service) Shutdown() {
	log.Info("service shutting down")

	_ = s.Healthz.Shutdown()
	log.Info("healthz stopped")

	_ = s.Metrics.Shutdown()
	log.Info("metrics stopped")

	log.Info("service stopped")
}
