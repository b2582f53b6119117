package executor_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/app/executor"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newExecutor(transport moderation.ChatTransport, escalator moderation.Escalator) executor.Executor {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return executor.NewExecutor(
		logger,
		transport,
		escalator,
		executor.WithRetryInterval(time.Millisecond),
		executor.WithClock(func() time.Time { return now }),
	)
}

func content() moderation.ContentItem {
	return moderation.ContentItem{
		ID:       "msg-1",
		EventID:  "$evt1",
		Text:     "spam spam",
		AuthorID: "@mallory:example.org",
		RoomID:   "!room:example.org",
	}
}

func decision(action moderation.Action) moderation.ModerationDecision {
	return moderation.ModerationDecision{
		ID:       "dec-1",
		Action:   action,
		Reason:   "test reason",
		Metadata: map[string]string{},
	}
}

func TestExecute_NoneOnlyEscalates(t *testing.T) {
	transport := mocks.NewChatTransport(t)
	escalator := mocks.NewEscalator(t)
	d := decision(moderation.ActionNone)
	d.Escalate = true
	escalator.On("Escalate", mock.Anything, "@mods:example.org", d).Return(nil).Once()

	err := newExecutor(transport, escalator).Execute(context.Background(), content(), d, "@mods:example.org")
	require.NoError(t, err)
	transport.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_NoneWithoutEscalationMakesNoCalls(t *testing.T) {
	transport := mocks.NewChatTransport(t)
	escalator := mocks.NewEscalator(t)

	err := newExecutor(transport, escalator).Execute(context.Background(), content(), decision(moderation.ActionNone), "")
	require.NoError(t, err)
	escalator.AssertNotCalled(t, "Escalate", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_Actions(t *testing.T) {
	c := content()
	expiry := now.Add(time.Hour)
	tests := []struct {
		name   string
		action moderation.Action
		expect func(m *mocks.ChatTransport)
	}{
		{
			name:   "warn",
			action: moderation.ActionWarn,
			expect: func(m *mocks.ChatTransport) {
				m.On("Warn", mock.Anything, c.RoomID, c.AuthorID, "test reason").Return(nil).Once()
			},
		},
		{
			name:   "mute uses expiry",
			action: moderation.ActionMute,
			expect: func(m *mocks.ChatTransport) {
				m.On("Mute", mock.Anything, c.RoomID, c.AuthorID, expiry).Return(nil).Once()
			},
		},
		{
			name:   "kick",
			action: moderation.ActionKick,
			expect: func(m *mocks.ChatTransport) {
				m.On("Kick", mock.Anything, c.RoomID, c.AuthorID, "test reason").Return(nil).Once()
			},
		},
		{
			name:   "ban",
			action: moderation.ActionBan,
			expect: func(m *mocks.ChatTransport) {
				m.On("Ban", mock.Anything, c.RoomID, c.AuthorID, "test reason").Return(nil).Once()
			},
		},
		{
			name:   "redact uses event id",
			action: moderation.ActionRedact,
			expect: func(m *mocks.ChatTransport) {
				m.On("Redact", mock.Anything, c.RoomID, "$evt1", "test reason").Return(nil).Once()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := mocks.NewChatTransport(t)
			tt.expect(transport)
			d := decision(tt.action)
			if tt.action == moderation.ActionMute {
				d.ExpiresAt = &expiry
			}
			require.NoError(t, newExecutor(transport, mocks.NewEscalator(t)).Execute(context.Background(), c, d, ""))
		})
	}
}

func TestExecute_MuteWithoutExpiryDefaultsToLongExpiry(t *testing.T) {
	c := content()
	transport := mocks.NewChatTransport(t)
	transport.On("Mute", mock.Anything, c.RoomID, c.AuthorID, now.Add(24*time.Hour)).Return(nil).Once()

	require.NoError(t, newExecutor(transport, mocks.NewEscalator(t)).Execute(context.Background(), c, decision(moderation.ActionMute), ""))
}

func TestExecute_BanWithRedactAndEscalation(t *testing.T) {
	c := content()
	d := decision(moderation.ActionBan)
	d.Escalate = true
	d.Metadata[moderation.MetadataRedact] = "true"

	transport := mocks.NewChatTransport(t)
	transport.On("Ban", mock.Anything, c.RoomID, c.AuthorID, "test reason").Return(nil).Once()
	transport.On("Redact", mock.Anything, c.RoomID, "$evt1", "test reason").Return(nil).Once()
	escalator := mocks.NewEscalator(t)
	escalator.On("Escalate", mock.Anything, "@mods:example.org", d).Return(nil).Once()

	require.NoError(t, newExecutor(transport, escalator).Execute(context.Background(), c, d, "@mods:example.org"))
}

func TestExecute_RetriesOnce(t *testing.T) {
	c := content()
	transport := mocks.NewChatTransport(t)
	transport.On("Kick", mock.Anything, c.RoomID, c.AuthorID, "test reason").Return(errors.New("503")).Once()
	transport.On("Kick", mock.Anything, c.RoomID, c.AuthorID, "test reason").Return(nil).Once()

	require.NoError(t, newExecutor(transport, mocks.NewEscalator(t)).Execute(context.Background(), c, decision(moderation.ActionKick), ""))
}

func TestExecute_FailsAfterRetry(t *testing.T) {
	c := content()
	transport := mocks.NewChatTransport(t)
	transport.On("Ban", mock.Anything, c.RoomID, c.AuthorID, "test reason").Return(errors.New("503")).Twice()

	err := newExecutor(transport, mocks.NewEscalator(t)).Execute(context.Background(), c, decision(moderation.ActionBan), "")
	assert.ErrorIs(t, err, moderation.ErrActionExecutionFailed)
	assert.True(t, moderation.IsSystemic(err))
}

func TestExecute_EscalationFailureIsNotFatal(t *testing.T) {
	c := content()
	d := decision(moderation.ActionWarn)
	d.Escalate = true

	transport := mocks.NewChatTransport(t)
	transport.On("Warn", mock.Anything, c.RoomID, c.AuthorID, "test reason").Return(nil).Once()
	escalator := mocks.NewEscalator(t)
	escalator.On("Escalate", mock.Anything, "@mods:example.org", d).Return(errors.New("down")).Once()

	require.NoError(t, newExecutor(transport, escalator).Execute(context.Background(), c, d, "@mods:example.org"))
}

func TestExecute_FailedActionStillEscalates(t *testing.T) {
	c := content()
	d := decision(moderation.ActionKick)
	d.Escalate = true

	transport := mocks.NewChatTransport(t)
	transport.On("Kick", mock.Anything, c.RoomID, c.AuthorID, "test reason").Return(errors.New("503")).Twice()
	escalator := mocks.NewEscalator(t)
	escalator.On("Escalate", mock.Anything, "@mods:example.org", d).Return(nil).Once()

	err := newExecutor(transport, escalator).Execute(context.Background(), c, d, "@mods:example.org")
	assert.ErrorIs(t, err, moderation.ErrActionExecutionFailed)
}
