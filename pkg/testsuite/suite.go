// Package testsuite starts the containers integration suites run against.
package testsuite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type Options struct {
	// Migrations is the path of the migrations directory relative to the
	// test package.
	Migrations string
	Redis      bool
	Kafka      bool
}

type BaseSuite struct {
	suite.Suite
	PgContainer    *postgres.PostgresContainer
	RedisContainer *tcredis.RedisContainer
	KafkaContainer *kafka.KafkaContainer
	DbPool         *pgxpool.Pool
	Redis          *redis.Client
	KafkaBrokers   []string
	Ctx            context.Context
}

func (s *BaseSuite) SetupInfrastructure(opts Options) {
	s.Ctx = context.Background()

	var err error
	s.PgContainer, err = postgres.Run(
		s.Ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)

	connStr, err := s.PgContainer.ConnectionString(s.Ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.Require().NoError(db.Migrate(connStr, opts.Migrations, zap.NewNop()))

	s.DbPool, err = pgxpool.New(s.Ctx, connStr)
	s.Require().NoError(err)

	if opts.Redis {
		s.RedisContainer, err = tcredis.Run(s.Ctx, "redis:7-alpine")
		s.Require().NoError(err)

		uri, err := s.RedisContainer.ConnectionString(s.Ctx)
		s.Require().NoError(err)

		redisOpts, err := redis.ParseURL(uri)
		s.Require().NoError(err)

		s.Redis = redis.NewClient(redisOpts)
	}

	if opts.Kafka {
		s.KafkaContainer, err = kafka.Run(
			s.Ctx,
			"confluentinc/cp-kafka:7.5.0",
			kafka.WithClusterID("test-cluster"),
		)
		s.Require().NoError(err)

		s.KafkaBrokers, err = s.KafkaContainer.Brokers(s.Ctx)
		s.Require().NoError(err)
	}
}

func (s *BaseSuite) TearDownInfrastructure() {
	if s.DbPool != nil {
		s.DbPool.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}

	var containers []testcontainers.Container
	if s.PgContainer != nil {
		containers = append(containers, s.PgContainer)
	}
	if s.RedisContainer != nil {
		containers = append(containers, s.RedisContainer)
	}
	if s.KafkaContainer != nil {
		containers = append(containers, s.KafkaContainer)
	}

	for _, c := range containers {
		if err := c.Terminate(s.Ctx); err != nil {
			s.T().Logf("failed to terminate container: %v", err)
		}
	}
}

// TruncateTables empties tables and restarts their identity sequences.
func (s *BaseSuite) TruncateTables(tables ...string) {
	_, err := s.DbPool.Exec(s.Ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	s.Require().NoError(err)

	if s.Redis != nil {
		s.Require().NoError(s.Redis.FlushDB(s.Ctx).Err())
	}
}
