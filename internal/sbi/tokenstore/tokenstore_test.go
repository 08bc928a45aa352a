package tokenstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUnknownKeyIsNotFound(t *testing.T) {
	s := New[string, int]()
	_, found, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetThenGetReturnsReadyValue(t *testing.T) {
	s := New[string, int]()
	v, err := s.Set(context.Background(), "k", func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	got, found, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 42, got)
}

func TestSetFailurePropagatesToGet(t *testing.T) {
	s := New[string, int]()
	wantErr := errors.New("boom")
	_, err := s.Set(context.Background(), "k", func(context.Context) (int, error) { return 0, wantErr })
	require.Error(t, err)

	_, found, err := s.Get(context.Background(), "k")
	assert.False(t, found)
	require.Error(t, err)
}

func TestConcurrentSetFailsFast(t *testing.T) {
	s := New[string, int]()
	start := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Set(context.Background(), "k", func(context.Context) (int, error) {
			close(start)
			<-release
			return 1, nil
		})
	}()

	<-start
	_, err := s.Set(context.Background(), "k", func(context.Context) (int, error) { return 2, nil })
	assert.ErrorIs(t, err, ErrUpdateAlreadyInProgress)

	close(release)
	wg.Wait()
}

func TestGetWaitsOutAnInProgressUpdate(t *testing.T) {
	s := New[string, int]()
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Set(context.Background(), "k", func(context.Context) (int, error) {
			<-release
			return 7, nil
		})
	}()

	time.Sleep(10 * time.Millisecond)
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()

	got, found, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, got)
	wg.Wait()
}
