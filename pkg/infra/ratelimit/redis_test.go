package ratelimit

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	redisNow  = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	fixedUUID = uuid.MustParse("8b7c4a6e-1f0d-4c1e-9a43-0e5f7c2d9b11")
)

const testKey = "ratelimit:room-1:alice"

func newTestRedisLimiter(t *testing.T) (Limiter, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRedisLimiter(db, logger, WithUUIDProvider(func() uuid.UUID { return fixedUUID })), mock
}

func member() string {
	return strconv.FormatInt(redisNow.UnixMilli(), 10) + ":" + fixedUUID.String()
}

func TestRedisLimiter_Admits(t *testing.T) {
	l, mock := newTestRedisLimiter(t)
	mock.ExpectEvalSha(slidingWindow.Hash(), []string{testKey}, windowArgs(redisNow, 10, member())...).SetVal(int64(1))

	ok, err := l.Allow(context.Background(), "alice", "room-1", 10, redisNow)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_LimitExceeded(t *testing.T) {
	l, mock := newTestRedisLimiter(t)
	mock.ExpectEvalSha(slidingWindow.Hash(), []string{testKey}, windowArgs(redisNow, 10, member())...).SetVal(int64(0))

	ok, err := l.Allow(context.Background(), "alice", "room-1", 10, redisNow)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_LoadsScriptWhenMissing(t *testing.T) {
	l, mock := newTestRedisLimiter(t)
	args := windowArgs(redisNow, 10, member())
	mock.ExpectEvalSha(slidingWindow.Hash(), []string{testKey}, args...).
		SetErr(errors.New("NOSCRIPT No matching script. Please use EVAL."))
	mock.ExpectEval(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`, []string{testKey}, args...).SetVal(int64(1))

	ok, err := l.Allow(context.Background(), "alice", "room-1", 10, redisNow)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_ScriptError(t *testing.T) {
	l, mock := newTestRedisLimiter(t)
	mock.ExpectEvalSha(slidingWindow.Hash(), []string{testKey}, windowArgs(redisNow, 10, member())...).
		SetErr(errors.New("connection refused"))

	_, err := l.Allow(context.Background(), "alice", "room-1", 10, redisNow)
	assert.Error(t, err)
}

func TestRedisLimiter_Reset(t *testing.T) {
	l, mock := newTestRedisLimiter(t)

	mock.ExpectDel(testKey).SetVal(1)
	require.NoError(t, l.Reset(context.Background(), "alice", "room-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
