package live

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed(t *testing.T) {
	t.Run("publish reaches every subscriber", func(t *testing.T) {
		f := NewFeed[int](4)
		defer f.Close()

		ctx := context.Background()
		a, b := f.Subscribe(ctx), f.Subscribe(ctx)
		require.Equal(t, 2, f.Len())

		f.Publish(7)
		assert.Equal(t, 7, <-a)
		assert.Equal(t, 7, <-b)
	})

	t.Run("context cancellation closes the channel", func(t *testing.T) {
		f := NewFeed[int](4)
		defer f.Close()

		ctx, cancel := context.WithCancel(context.Background())
		ch := f.Subscribe(ctx)
		cancel()

		select {
		case _, ok := <-ch:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel was not closed")
		}
		assert.Equal(t, 0, f.Len())
	})

	t.Run("slow subscriber is dropped", func(t *testing.T) {
		f := NewFeed[int](1)
		defer f.Close()

		ctx := context.Background()
		slow := f.Subscribe(ctx)
		f.Publish(1)
		f.Publish(2)

		assert.Eventually(t, func() bool { return f.Len() == 0 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, 1, <-slow)
		_, ok := <-slow
		assert.False(t, ok)
	})

	t.Run("close ends subscriptions", func(t *testing.T) {
		f := NewFeed[string](4)
		ch := f.Subscribe(context.Background())

		f.Close()
		f.Close()

		_, ok := <-ch
		assert.False(t, ok)

		late := f.Subscribe(context.Background())
		_, ok = <-late
		assert.False(t, ok)

		f.Publish("ignored")
	})
}

func TestStore(t *testing.T) {
	t.Run("get and delete", func(t *testing.T) {
		s := NewStore(0)
		sess := newSession(nil, 1)
		s.Put(sess)

		got, ok := s.Get(sess.ID)
		require.True(t, ok)
		assert.Same(t, sess, got)

		updates := sess.Updates(context.Background())
		assert.True(t, s.Delete(sess.ID))
		assert.False(t, s.Delete(sess.ID))
		assert.Equal(t, 0, s.Len())

		_, open := <-updates
		assert.False(t, open)
	})

	t.Run("sweep removes idle sessions", func(t *testing.T) {
		s := NewStore(time.Minute)
		idle := newSession(nil, 1)
		fresh := newSession(nil, 1)
		s.Put(idle)
		s.Put(fresh)

		idle.lastSeen = time.Now().Add(-2 * time.Minute)

		assert.Equal(t, 1, s.Sweep(time.Now()))
		_, ok := s.Get(idle.ID)
		assert.False(t, ok)
		_, ok = s.Get(fresh.ID)
		assert.True(t, ok)
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		s := NewStore(0)
		sess := newSession(nil, 1)
		s.Put(sess)
		assert.Equal(t, 0, s.Sweep(time.Now().Add(24*time.Hour)))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("run closes sessions on shutdown", func(t *testing.T) {
		s := NewStore(time.Minute)
		s.Put(newSession(nil, 1))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			s.Run(ctx, time.Hour)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Run did not return")
		}
		assert.Equal(t, 0, s.Len())
	})
}
