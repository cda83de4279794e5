package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdk-keningau/temujanji-bot/internal/conversation"
)

func TestStoreGetAndUpdate(t *testing.T) {
	store := NewStore()

	assert.Equal(t, conversation.Session{}, store.Get(1), "unknown user gets an idle session")

	store.Update(1, func(s conversation.Session) conversation.Session {
		s.State = conversation.StateCollectingName
		s.Officer = "DO"
		return s
	})

	got := store.Get(1)
	assert.Equal(t, conversation.StateCollectingName, got.State)
	assert.Equal(t, "DO", got.Officer)

	assert.Equal(t, conversation.Session{}, store.Get(2), "sessions are per user")
}

func TestStoreDropsIdleSessions(t *testing.T) {
	store := NewStore()

	store.Update(1, func(s conversation.Session) conversation.Session {
		s.State = conversation.StateChoosingDate
		return s
	})
	store.Update(1, func(s conversation.Session) conversation.Session {
		return conversation.Session{}
	})

	store.mu.RLock()
	_, exists := store.sessions[1]
	store.mu.RUnlock()
	assert.False(t, exists, "idle session should be removed from the map")
}

func TestStoreClear(t *testing.T) {
	store := NewStore()

	store.Update(1, func(s conversation.Session) conversation.Session {
		s.State = conversation.StateChoosingDate
		return s
	})
	store.Clear(1)
	assert.Equal(t, conversation.Session{}, store.Get(1))
}

func TestStoreSerializesPerUser(t *testing.T) {
	store := NewStore()

	const updates = 200
	var wg sync.WaitGroup
	for i := 0; i < updates; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(1, func(s conversation.Session) conversation.Session {
				// Name doubles as a counter; lost updates would show up
				// as a short string.
				s.State = conversation.StateCollectingName
				s.Name += "x"
				return s
			})
		}()
	}
	wg.Wait()

	assert.Len(t, store.Get(1).Name, updates)
}

func TestStoreEndedSessionDoesNotSwallowConcurrentUpdate(t *testing.T) {
	store := NewStore()

	store.Update(1, func(s conversation.Session) conversation.Session {
		s.State = conversation.StateChoosingTime
		return s
	})

	entered := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan struct{})
	secondDone := make(chan struct{})

	// First update ends the session (booking confirmed) but stalls inside
	// fn, holding the per-user lock.
	go func() {
		defer close(firstDone)
		store.Update(1, func(s conversation.Session) conversation.Session {
			close(entered)
			<-release
			return conversation.Session{}
		})
	}()
	<-entered

	// Second update (a fresh /book) queues up behind it. Its write must
	// survive the first update's delete-on-idle.
	go func() {
		defer close(secondDone)
		store.Update(1, func(s conversation.Session) conversation.Session {
			s.State = conversation.StateChoosingDate
			return s
		})
	}()

	// Give the second goroutine time to block on the entry that is about
	// to be removed.
	time.Sleep(10 * time.Millisecond)
	close(release)
	<-firstDone
	<-secondDone

	assert.Equal(t, conversation.StateChoosingDate, store.Get(1).State,
		"update queued behind an ending session must not be lost")
}

func TestStoreConcurrentUsers(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for id := int64(1); id <= 50; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Update(id, func(s conversation.Session) conversation.Session {
				s.State = conversation.StateChoosingOfficer
				return s
			})
		}(id)
	}
	wg.Wait()

	for id := int64(1); id <= 50; id++ {
		assert.Equal(t, conversation.StateChoosingOfficer, store.Get(id).State)
	}
}
