package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"
)

// Store keeps history values in Redis. It implements history.KV.
type Store struct {
	pool   *redis.Pool
	logger *logrus.Entry
}

func timeoutDialOptions(db int) []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
		redis.DialDatabase(db),
	}
}

func New(logger *logrus.Logger, host string, port int, db int) *Store {
	redisAddr := fmt.Sprintf("%s:%d", host, port)
	return &Store{
		pool: &redis.Pool{
			MaxIdle:     5,
			IdleTimeout: 240 * time.Second,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", redisAddr, timeoutDialOptions(db)...)
			},
		},
		logger: logger.WithField("pkg", "redis").WithField("addr", redisAddr),
	}
}

// Ping checks that Redis answers, without persistence the tracker should not start.
func (s *Store) Ping(ctx context.Context) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = redis.DoContext(conn, ctx, "PING")
	return err
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	value, err := redis.Bytes(redis.DoContext(conn, ctx, "GET", key))
	if err == nil {
		return value, nil
	}

	if errors.Is(err, redis.ErrNil) {
		return nil, nil
	}

	s.logger.Errorf("error Redis GET: %s", err.Error())
	return nil, err
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = redis.DoContext(conn, ctx, "SET", key, value)
	if err != nil {
		s.logger.Errorf("error Redis SET: %s", err.Error())
		return err
	}

	return nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = redis.DoContext(conn, ctx, "DEL", key)
	if err != nil {
		s.logger.Errorf("error Redis DEL: %s", err.Error())
		return err
	}

	return nil
}

func (s *Store) Close() error {
	return s.pool.Close()
}
