package server

import (
	"context"
	"testing"

	"github.com/pratikbuilds/account-socket/internal/config"
	"github.com/pratikbuilds/account-socket/internal/domain"
)

// fakeResolver returns a canned answer for every pubkey.
type fakeResolver struct {
	account *domain.AccountUpdate
	source  domain.Source
	err     error
}

func (f *fakeResolver) Resolve(ctx context.Context, pubkey string) (*domain.AccountUpdate, domain.Source, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.account, f.source, nil
}

type serverOption func(*Server)

func withRedisHealthCheck(checker redisHealthChecker) serverOption {
	return func(s *Server) {
		s.redisHealthCheck = checker
	}
}

func withPostgresHealthCheck(checker postgresHealthChecker) serverOption {
	return func(s *Server) {
		s.postgresHealthCheck = checker
	}
}

func withResolver(resolver domain.StateResolver) serverOption {
	return func(s *Server) {
		s.resolver = resolver
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:        "test",
		WebsocketHost: "127.0.0.1",
		WebsocketPort: "0",
	}

	srv := NewServer(cfg, nil, &fakeResolver{err: domain.ErrAccountNotFound}, nil, nil)
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}
