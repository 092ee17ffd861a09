package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
)

type RevocationSuite struct {
	suite.Suite
	pool     *dockertest.Pool
	resource *dockertest.Resource
	client   *redis.Client
}

func TestRevocationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(RevocationSuite))
}

func (s *RevocationSuite) SetupSuite() {
	pool, err := dockertest.NewPool("")
	if err != nil {
		s.T().Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		s.T().Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	s.Require().NoError(err)
	_ = resource.Expire(120)
	s.pool, s.resource = pool, resource

	s.client = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp"))})
	s.Require().NoError(pool.Retry(func() error {
		return s.client.Ping(context.Background()).Err()
	}))
}

func (s *RevocationSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.pool != nil && s.resource != nil {
		_ = s.pool.Purge(s.resource)
	}
}

func (s *RevocationSuite) SetupTest() {
	s.Require().NoError(s.client.FlushDB(context.Background()).Err())
}

func (s *RevocationSuite) TestRevokeAndCheck() {
	ctx := context.Background()
	r := NewRevocations(s.client)

	revoked, err := r.IsRevoked(ctx, "jti-1")
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(r.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = r.IsRevoked(ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	ttl, err := s.client.TTL(ctx, revokedKeyPrefix+"jti-1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RevocationSuite) TestExpiredTokenIsNotStored() {
	ctx := context.Background()
	r := NewRevocations(s.client)

	s.Require().NoError(r.Revoke(ctx, "jti-old", 0))
	n, err := s.client.Exists(ctx, revokedKeyPrefix+"jti-old").Result()
	s.Require().NoError(err)
	s.Zero(n)
}
