package serializer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_RunsTask(t *testing.T) {
	s := New()
	ran := false
	err := s.Do(func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestDo_FIFOOrder(t *testing.T) {
	s := New()

	var mu sync.Mutex
	var order []int

	// Первая задача держит очередь, пока остальные не встанут за ней.
	gate := make(chan struct{})
	queued := make(chan struct{}, 3)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Do(func() error {
			<-gate
			mu.Lock()
			order = append(order, 0)
			mu.Unlock()
			return nil
		})
	}()

	// Даем первой задаче захватить хвост очереди.
	time.Sleep(20 * time.Millisecond)

	for i := 1; i <= 3; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			queued <- struct{}{}
			_ = s.Do(func() error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
		<-queued
		// Последовательный запуск горутин фиксирует порядок постановки.
		time.Sleep(20 * time.Millisecond)
	}

	close(gate)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestDo_NoOverlap(t *testing.T) {
	s := New()

	var running, maxRunning int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(func() error {
				mu.Lock()
				running++
				if running > maxRunning {
					maxRunning = running
				}
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxRunning)
}

func TestDo_ErrorDoesNotBlockQueue(t *testing.T) {
	s := New()

	wantErr := errors.New("task failed")
	err := s.Do(func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	ran := false
	err = s.Do(func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestDo_ErrorIsolatedPerTask(t *testing.T) {
	s := New()

	errFirst := errors.New("first")
	results := make([]error, 2)
	results[0] = s.Do(func() error { return errFirst })
	results[1] = s.Do(func() error { return nil })

	assert.ErrorIs(t, results[0], errFirst)
	assert.NoError(t, results[1])
}
