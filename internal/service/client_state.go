// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"
	"time"

	"github.com/MKhiriev/neuroplan-sync/models"
)

// SyncStatus owns the state of one sync session. Writers are the
// orchestrator, the conflict workflow, the connectivity glue and the queue;
// readers take snapshots or subscribe to changes.
//
// Each subscriber receives the latest state only: a slow reader misses
// intermediate states but never blocks a writer.
type SyncStatus struct {
	mu    sync.RWMutex
	state models.SyncState

	subs   map[int]chan models.SyncState
	nextID int
}

// NewSyncStatus returns a session that starts offline and idle.
func NewSyncStatus() *SyncStatus {
	return &SyncStatus{
		state: models.SyncState{
			Connectivity: models.Offline,
			Phase:        models.PhaseIdle,
		},
		subs: make(map[int]chan models.SyncState),
	}
}

// State returns a snapshot of the session.
func (s *SyncStatus) State() models.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

func (s *SyncStatus) IsOnline() bool {
	return s.State().IsOnline()
}

func (s *SyncStatus) IsSyncing() bool {
	return s.State().IsSyncing
}

// Subscribe registers a listener. The channel immediately carries the
// current state. The returned func unsubscribes and closes the channel.
func (s *SyncStatus) Subscribe() (<-chan models.SyncState, func()) {
	ch := make(chan models.SyncState, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- copyState(s.state)
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// update applies fn and notifies subscribers when the state changed.
// It reports whether anything changed.
func (s *SyncStatus) update(fn func(state *models.SyncState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := copyState(s.state)
	fn(&s.state)
	if sameState(before, s.state) {
		return false
	}

	snapshot := copyState(s.state)
	for _, ch := range s.subs {
		publish(ch, snapshot)
	}
	return true
}

// setConnectivity reports whether this call was an offline to online edge.
func (s *SyncStatus) setConnectivity(online bool) (cameOnline bool) {
	next := models.Offline
	if online {
		next = models.Online
	}

	s.update(func(state *models.SyncState) {
		cameOnline = state.Connectivity != models.Online && next == models.Online
		state.Connectivity = next
	})
	return cameOnline
}

func (s *SyncStatus) setPhase(phase models.SyncPhase) {
	s.update(func(state *models.SyncState) { state.Phase = phase })
}

func (s *SyncStatus) setSyncing(syncing bool) {
	s.update(func(state *models.SyncState) { state.IsSyncing = syncing })
}

func (s *SyncStatus) setPendingCount(n int) {
	s.update(func(state *models.SyncState) { state.PendingCount = n })
}

func (s *SyncStatus) setConflictCount(n int) {
	s.update(func(state *models.SyncState) { state.ConflictCount = n })
}

func (s *SyncStatus) setLastSyncAt(at time.Time) {
	s.update(func(state *models.SyncState) { state.LastSyncAt = &at })
}

// publish replaces whatever the subscriber has not read yet with state.
func publish(ch chan models.SyncState, state models.SyncState) {
	select {
	case ch <- state:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- state:
	default:
	}
}

func copyState(state models.SyncState) models.SyncState {
	if state.LastSyncAt != nil {
		at := *state.LastSyncAt
		state.LastSyncAt = &at
	}
	return state
}

func sameState(a, b models.SyncState) bool {
	if (a.LastSyncAt == nil) != (b.LastSyncAt == nil) {
		return false
	}
	if a.LastSyncAt != nil && !a.LastSyncAt.Equal(*b.LastSyncAt) {
		return false
	}
	a.LastSyncAt, b.LastSyncAt = nil, nil
	return a == b
}

func (s *SyncStatus) setFailureCount(n int) {
	s.update(func(state *models.SyncState) { state.FailureCount = n })
}
