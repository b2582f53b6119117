package httpx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCircuitBreaker(t *testing.T) {
	breaker := NewCircuitBreaker("openai", 30*time.Second, 5)

	require.NotNil(t, breaker)
	assert.IsType(t, &circuitBreakerWrapper{}, breaker)
	assert.Equal(t, "openai", breaker.Name())
	assert.Equal(t, StateClosed, breaker.State())
}

func TestCircuitBreaker_ExecuteFailureIsWrapped(t *testing.T) {
	breaker := NewCircuitBreaker("failure-test", 30*time.Second, 3)
	testError := errors.New("upstream 500")

	err := breaker.Execute(func() error {
		return testError
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, testError)
	assert.Contains(t, err.Error(), "failure-test")
}

func TestCircuitBreaker_PanicIsRecovered(t *testing.T) {
	tests := []struct {
		name       string
		panicValue interface{}
	}{
		{name: "string panic", panicValue: "boom"},
		{name: "error panic", panicValue: errors.New("panic error")},
		{name: "integer panic", panicValue: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := NewCircuitBreaker("panic-test", 30*time.Second, 3)
			err := breaker.Execute(func() error {
				panic(tt.panicValue)
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "panic recovered:")
		})
	}
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	breaker := NewCircuitBreaker("consecutive", 30*time.Second, 5)

	for i := 0; i < 4; i++ {
		_ = breaker.Execute(func() error { return errors.New("failure") })
	}
	assert.Equal(t, StateClosed, breaker.State())

	_ = breaker.Execute(func() error { return errors.New("failure") })
	assert.Equal(t, StateOpen, breaker.State())

	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreaker_SuccessResetsConsecutiveFailures(t *testing.T) {
	breaker := NewCircuitBreaker("reset", 30*time.Second, 3)

	_ = breaker.Execute(func() error { return errors.New("failure") })
	_ = breaker.Execute(func() error { return errors.New("failure") })
	_ = breaker.Execute(func() error { return nil })
	_ = breaker.Execute(func() error { return errors.New("failure") })
	_ = breaker.Execute(func() error { return errors.New("failure") })

	assert.Equal(t, StateClosed, breaker.State())
}

func TestCircuitBreaker_Recovery(t *testing.T) {
	breaker := NewCircuitBreaker("recovery", 50*time.Millisecond, 1)

	_ = breaker.Execute(func() error { return errors.New("trigger failure") })
	assert.Equal(t, StateOpen, breaker.State())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, breaker.State())

	assert.NoError(t, breaker.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, breaker.State())
}

func TestCircuitBreaker_IsRejected(t *testing.T) {
	breaker := NewCircuitBreaker("rejected", 50*time.Millisecond, 1)

	failure := breaker.Execute(func() error { return errors.New("trigger failure") })
	assert.False(t, IsRejected(failure))

	err := breaker.Execute(func() error { return nil })
	assert.True(t, IsRejected(err))

	time.Sleep(100 * time.Millisecond)
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- breaker.Execute(func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err = breaker.Execute(func() error { return nil })
	assert.True(t, IsRejected(err))

	close(release)
	assert.NoError(t, <-done)
}

func TestCircuitBreaker_NeutralErrorsDoNotTrip(t *testing.T) {
	breaker := NewCircuitBreaker("neutral", 30*time.Second, 1, WithNeutralErrors(func(err error) bool {
		return errors.Is(err, context.Canceled)
	}))

	err := breaker.Execute(func() error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, breaker.State())
}

func TestCircuitBreaker_StateChangeHook(t *testing.T) {
	var mu sync.Mutex
	var transitions []State
	breaker := NewCircuitBreaker("hooked", 30*time.Second, 1, WithStateChangeHook(func(_ string, _, to State) {
		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, to)
	}))

	_ = breaker.Execute(func() error { return errors.New("failure") })

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{StateOpen}, transitions)
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	breaker := NewCircuitBreaker("concurrent", 30*time.Second, 100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = breaker.Execute(func() error {
				if id%2 == 0 {
					return nil
				}
				return errors.New("failure")
			})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, StateClosed, breaker.State())
}
