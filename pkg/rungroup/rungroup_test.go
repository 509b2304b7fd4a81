package rungroup

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/kolide/localipc/pkg/log/multislogger"
	"github.com/stretchr/testify/require"
)

func TestRun_NoActors(t *testing.T) {
	t.Parallel()

	testRunGroup := NewRunGroup(multislogger.NewNopLogger())
	require.NoError(t, testRunGroup.Run())
}

// blockingActor adds an actor that runs until interrupted and reports the
// interrupt on the returned channel.
func blockingActor(g *Group, name string) <-chan error {
	interrupted := make(chan error, 1)
	stop := make(chan struct{})
	g.Add(name, func() error {
		<-stop
		return nil
	}, func(err error) {
		interrupted <- err
		close(stop)
	})
	return interrupted
}

func TestRun_FirstActorStopsGroup(t *testing.T) {
	t.Parallel()

	testRunGroup := NewRunGroup(multislogger.NewNopLogger())
	listenerInterrupted := blockingActor(testRunGroup, "listener")

	expectedError := errors.New("test error from stoppingActor")
	testRunGroup.Add("stoppingActor", func() error {
		return expectedError
	}, func(error) {})

	runCompleted := make(chan error, 1)
	go func() {
		runCompleted <- testRunGroup.Run()
	}()

	select {
	case err := <-runCompleted:
		require.ErrorIs(t, err, expectedError)
	case <-time.After(interruptTimeout + executeReturnTimeout + time.Second):
		t.Fatal("rungroup.Run did not terminate")
	}

	require.ErrorIs(t, <-listenerInterrupted, expectedError, "listener should be interrupted with the first actor's error")
}

func TestRun_ActorPanics(t *testing.T) {
	t.Parallel()

	testRunGroup := NewRunGroup(multislogger.NewNopLogger())
	listenerInterrupted := blockingActor(testRunGroup, "listener")

	testRunGroup.Add("panickingActor", func() error {
		var m map[string]int
		m["boom"] = 1
		return nil
	}, func(error) {})

	runCompleted := make(chan error, 1)
	go func() {
		runCompleted <- testRunGroup.Run()
	}()

	select {
	case err := <-runCompleted:
		require.ErrorContains(t, err, "panickingActor panicked")
	case <-time.After(interruptTimeout + executeReturnTimeout + time.Second):
		t.Fatal("rungroup.Run did not terminate after actor panic")
	}

	require.Error(t, <-listenerInterrupted)
}

func TestRun_SignalHandler(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	testRunGroup := NewRunGroup(multislogger.NewNopLogger())
	testRunGroup.AddSignalHandler(ctx, os.Interrupt, syscall.SIGTERM)
	listenerInterrupted := blockingActor(testRunGroup, "listener")

	runCompleted := make(chan error, 1)
	go func() {
		runCompleted <- testRunGroup.Run()
	}()

	// Cancelling the context stops the signal handler as if a signal arrived
	cancel()

	select {
	case err := <-runCompleted:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(interruptTimeout + executeReturnTimeout + time.Second):
		t.Fatal("rungroup.Run did not terminate after signal handler context was cancelled")
	}

	require.ErrorIs(t, <-listenerInterrupted, context.Canceled)
}
