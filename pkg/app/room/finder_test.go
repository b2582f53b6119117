package room_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/app/room"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation/mocks"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache"
	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const roomID = "!room:example.org"

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPolicyFinder_CachesRepositoryResult(t *testing.T) {
	repo := mocks.NewRoomPolicyRepository(t)
	stored := &moderation.RoomPolicy{ContextID: roomID, ModerationLevel: moderation.LevelStrict, TrustThreshold: 0.4}
	repo.On("Get", mock.Anything, roomID).Return(stored, nil).Once()

	finder := room.NewPolicyFinder(repo, cache.NewTTLMap(time.Minute), *moderation.DefaultRoomPolicy(""), quietLogger())

	for i := 0; i < 3; i++ {
		got, err := finder.Find(context.Background(), roomID)
		require.NoError(t, err)
		assert.Equal(t, moderation.LevelStrict, got.ModerationLevel)
	}
}

func TestPolicyFinder_UnknownRoomGetsDefault(t *testing.T) {
	repo := mocks.NewRoomPolicyRepository(t)
	repo.On("Get", mock.Anything, roomID).Return(nil, moderation.ErrRoomPolicyNotFound).Once()

	defaults := moderation.RoomPolicy{
		ModerationLevel: moderation.LevelRelaxed,
		TrustThreshold:  0.25,
		AllowedActions:  moderation.ActionsJSON{moderation.ActionWarn},
	}
	finder := room.NewPolicyFinder(repo, cache.NewTTLMap(time.Minute), defaults, quietLogger())

	got, err := finder.Find(context.Background(), roomID)
	require.NoError(t, err)
	assert.Equal(t, roomID, got.ContextID)
	assert.Equal(t, moderation.LevelRelaxed, got.ModerationLevel)
	assert.Equal(t, moderation.ActionsJSON{moderation.ActionWarn}, got.AllowedActions)
}

func TestPolicyFinder_RepositoryError(t *testing.T) {
	repo := mocks.NewRoomPolicyRepository(t)
	repo.On("Get", mock.Anything, roomID).Return(nil, errors.New("connection refused")).Once()

	finder := room.NewPolicyFinder(repo, cache.NewTTLMap(time.Minute), *moderation.DefaultRoomPolicy(""), quietLogger())
	_, err := finder.Find(context.Background(), roomID)
	assert.ErrorContains(t, err, "connection refused")
}

func TestPolicyFinder_ConcurrentMissesShareLookup(t *testing.T) {
	repo := mocks.NewRoomPolicyRepository(t)
	release := make(chan struct{})
	repo.On("Get", mock.Anything, roomID).
		Run(func(mock.Arguments) { <-release }).
		Return(moderation.DefaultRoomPolicy(roomID), nil).
		Once()

	finder := room.NewPolicyFinder(repo, cache.NewTTLMap(time.Minute), *moderation.DefaultRoomPolicy(""), quietLogger())

	var wg sync.WaitGroup
	started := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started <- struct{}{}
			_, err := finder.Find(context.Background(), roomID)
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < 5; i++ {
		<-started
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
}

type recordingPublisher struct {
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev event.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

func TestPolicyUpdater_SavesAndInvalidates(t *testing.T) {
	repo := mocks.NewRoomPolicyRepository(t)
	ttlMap := cache.NewTTLMap(time.Minute)
	ttlMap.Set(roomID, moderation.DefaultRoomPolicy(roomID))
	pub := &recordingPublisher{err: errors.New("redis down")}

	policy := &moderation.RoomPolicy{ContextID: roomID, ModerationLevel: moderation.LevelStrict, TrustThreshold: 0.5}
	repo.On("Save", mock.Anything, policy).Return(nil).Once()

	updater := room.NewPolicyUpdater(repo, ttlMap, pub, quietLogger())
	require.NoError(t, updater.Update(context.Background(), policy))

	_, ok := ttlMap.Get(roomID)
	assert.False(t, ok)
	require.Len(t, pub.events, 1)
	assert.Equal(t, event.DeleteRoomPolicyCacheEvent{RoomID: roomID}, pub.events[0])
	assert.False(t, policy.UpdatedAt.IsZero())
}

func TestPolicyUpdater_RejectsInvalidPolicy(t *testing.T) {
	repo := mocks.NewRoomPolicyRepository(t)
	updater := room.NewPolicyUpdater(repo, cache.NewTTLMap(time.Minute), &recordingPublisher{}, quietLogger())

	err := updater.Update(context.Background(), &moderation.RoomPolicy{ContextID: roomID, ModerationLevel: "chaotic"})
	assert.ErrorIs(t, err, room.ErrInvalidPolicy)
}
