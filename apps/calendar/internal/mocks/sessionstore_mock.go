//nolint:revive //ignore
package mocks

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xdoubleu/essentia/v2/pkg/database"
	"swimschool.app/apps/calendar/internal/models"
)

var (
	ErrMockInsert = errors.New("mock insert failure")
	ErrMockDelete = errors.New("mock delete failure")
	ErrMockList   = errors.New("mock list failure")
)

// MockSessionStore keeps sessions in memory and has no atomic batch insert.
// FailOnInsert makes the n-th Create call (1-based) fail; 0 never fails.
type MockSessionStore struct {
	mu           sync.Mutex
	sessions     map[uuid.UUID]models.Session
	inserts      int
	FailOnInsert int
	FailDelete   bool
	FailList     bool
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		mu:           sync.Mutex{},
		sessions:     make(map[uuid.UUID]models.Session),
		inserts:      0,
		FailOnInsert: 0,
		FailDelete:   false,
		FailList:     false,
	}
}

func (store *MockSessionStore) Create(_ context.Context, session models.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.inserts++
	if store.FailOnInsert > 0 && store.inserts == store.FailOnInsert {
		return ErrMockInsert
	}

	session.CreatedAt = time.Now()
	store.sessions[session.ID] = session
	return nil
}

func (store *MockSessionStore) DeleteByIDs(_ context.Context, ids []uuid.UUID) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.FailDelete {
		return ErrMockDelete
	}

	for _, id := range ids {
		delete(store.sessions, id)
	}
	return nil
}

func (store *MockSessionStore) ListInRange(
	_ context.Context,
	from time.Time,
	to time.Time,
	classID *uuid.UUID,
) ([]models.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.FailList {
		return nil, ErrMockList
	}

	result := []models.Session{}
	for _, session := range store.sessions {
		if session.StartTime.Before(from) || !session.StartTime.Before(to) {
			continue
		}
		if classID != nil && session.ClassID != *classID {
			continue
		}
		result = append(result, session)
	}

	slices.SortFunc(result, func(a, b models.Session) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return result, nil
}

func (store *MockSessionStore) CancelSeries(
	_ context.Context,
	seriesID uuid.UUID,
) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var count int64
	for id, session := range store.sessions {
		if session.SeriesID != seriesID || session.Status != models.Scheduled {
			continue
		}
		session.Status = models.Cancelled
		store.sessions[id] = session
		count++
	}

	if count == 0 {
		return 0, database.ErrResourceNotFound
	}
	return count, nil
}

func (store *MockSessionStore) CompleteEndedBefore(
	_ context.Context,
	t time.Time,
) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var count int64
	for id, session := range store.sessions {
		if session.Status != models.Scheduled || !session.EndTime().Before(t) {
			continue
		}
		session.Status = models.Completed
		store.sessions[id] = session
		count++
	}
	return count, nil
}

func (store *MockSessionStore) GetByID(
	_ context.Context,
	id uuid.UUID,
) (*models.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	session, ok := store.sessions[id]
	if !ok {
		return nil, database.ErrResourceNotFound
	}
	return &session, nil
}

func (store *MockSessionStore) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()

	return len(store.sessions)
}

// MockBatchSessionStore adds an all-or-nothing CreateBatch.
type MockBatchSessionStore struct {
	*MockSessionStore
	Batches   int
	FailBatch bool
}

func NewMockBatchSessionStore() *MockBatchSessionStore {
	return &MockBatchSessionStore{
		MockSessionStore: NewMockSessionStore(),
		Batches:          0,
		FailBatch:        false,
	}
}

func (store *MockBatchSessionStore) CreateBatch(
	_ context.Context,
	series models.Series,
) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.Batches++
	if store.FailBatch {
		return ErrMockInsert
	}

	for _, session := range series.Sessions {
		session.CreatedAt = time.Now()
		store.sessions[session.ID] = session
	}
	return nil
}
