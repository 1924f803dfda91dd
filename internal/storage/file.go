package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/session"
)

// FileStorage keeps everything in memory and persists to JSON files with
// debounced background writes. Watch subscribers are fed through in-process
// hubs after every mutation.
type FileStorage struct {
	mu           sync.RWMutex
	sessions     map[string]*internal.SleepSession
	sessionIndex []*internal.SleepSession // sorted descending by StartTime
	diapers      map[string]*internal.DiaperChange
	diaperIndex  []*internal.DiaperChange // sorted descending by Timestamp

	sessionsFile string
	diapersFile  string

	saveSessionsChan chan struct{}
	saveDiapersChan  chan struct{}
	shutdownChan     chan struct{}
	saveDelay        time.Duration

	historyHub *hub[[]internal.SleepSession]
	activeHub  *hub[*internal.SleepSession]
	diaperHub  *hub[[]internal.DiaperChange]

	logger internal.Logger
}

func NewFileStorage(sessionsFile, diapersFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		sessions:         make(map[string]*internal.SleepSession),
		diapers:          make(map[string]*internal.DiaperChange),
		sessionsFile:     sessionsFile,
		diapersFile:      diapersFile,
		saveSessionsChan: make(chan struct{}, 1),
		saveDiapersChan:  make(chan struct{}, 1),
		shutdownChan:     make(chan struct{}),
		saveDelay:        500 * time.Millisecond,
		historyHub:       newHub[[]internal.SleepSession](),
		activeHub:        newHub[*internal.SleepSession](),
		diaperHub:        newHub[[]internal.DiaperChange](),
		logger:           logger,
	}

	if err := s.loadSessions(); err != nil {
		logger.Errorf("storage: failed to load sessions: %v", err)
		return nil, err
	}
	if err := s.loadDiapers(); err != nil {
		logger.Errorf("storage: failed to load diaper changes: %v", err)
		return nil, err
	}

	go s.saveWorker(s.saveSessionsChan, s.saveSessions, "sessions")
	go s.saveWorker(s.saveDiapersChan, s.saveDiapers, "diaper changes")

	return s, nil
}

func (s *FileStorage) loadSessions() error {
	file, err := os.Open(s.sessionsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var sessions []*internal.SleepSession
	if err := json.NewDecoder(file).Decode(&sessions); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range sessions {
		s.sessions[sess.ID] = sess
		s.sessionIndex = append(s.sessionIndex, sess)
	}
	sort.Slice(s.sessionIndex, func(i, j int) bool {
		return s.sessionIndex[i].StartTime.After(s.sessionIndex[j].StartTime)
	})
	return nil
}

func (s *FileStorage) loadDiapers() error {
	file, err := os.Open(s.diapersFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var changes []*internal.DiaperChange
	if err := json.NewDecoder(file).Decode(&changes); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range changes {
		s.diapers[c.ID] = c
		s.diaperIndex = append(s.diaperIndex, c)
	}
	sort.Slice(s.diaperIndex, func(i, j int) bool {
		return s.diaperIndex[i].Timestamp.After(s.diaperIndex[j].Timestamp)
	})
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveSessions() error {
	s.mu.RLock()
	sessions := make([]*internal.SleepSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.sessionsFile, sessions)
}

func (s *FileStorage) saveDiapers() error {
	s.mu.RLock()
	changes := make([]*internal.DiaperChange, 0, len(s.diapers))
	for _, c := range s.diapers {
		changes = append(changes, c)
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.diapersFile, changes)
}

// saveWorker batches save requests so bursts of mutations trigger a single
// disk write after saveDelay of quiet.
func (s *FileStorage) saveWorker(signal chan struct{}, save func() error, what string) {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-signal:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", what, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func requestSave(signal chan struct{}) {
	select {
	case signal <- struct{}{}:
	default:
	}
}

// Close stops the workers, flushes pending data and terminates every watch.
func (s *FileStorage) Close() error {
	close(s.shutdownChan)
	s.historyHub.close()
	s.activeHub.close()
	s.diaperHub.close()

	if err := s.saveSessions(); err != nil {
		return err
	}
	return s.saveDiapers()
}

// snapshots assume s.mu is held at least for reading.

func (s *FileStorage) historySnapshotLocked() []internal.SleepSession {
	out := make([]internal.SleepSession, len(s.sessionIndex))
	for i, sess := range s.sessionIndex {
		out[i] = *sess
	}
	return out
}

func (s *FileStorage) activeSnapshotLocked() *internal.SleepSession {
	history := s.historySnapshotLocked()
	if i := session.FindActive(history); i >= 0 {
		active := history[i]
		return &active
	}
	return nil
}

func (s *FileStorage) diaperSnapshotLocked() []internal.DiaperChange {
	out := make([]internal.DiaperChange, len(s.diaperIndex))
	for i, c := range s.diaperIndex {
		out[i] = *c
	}
	return out
}

func (s *FileStorage) publishSessionsLocked() {
	s.historyHub.publish(s.historySnapshotLocked())
	s.activeHub.publish(s.activeSnapshotLocked())
}

// --- SessionRepository ---

func (s *FileStorage) CreateSession(ctx context.Context, sess *internal.SleepSession) (*internal.SleepSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sess
	stored.ID = uuid.NewString()
	s.sessions[stored.ID] = &stored

	// Insert maintaining descending StartTime order.
	inserted := false
	for i, existing := range s.sessionIndex {
		if existing.StartTime.Before(stored.StartTime) {
			s.sessionIndex = append(s.sessionIndex[:i], append([]*internal.SleepSession{&stored}, s.sessionIndex[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		s.sessionIndex = append(s.sessionIndex, &stored)
	}

	requestSave(s.saveSessionsChan)
	s.publishSessionsLocked()
	out := stored
	return &out, nil
}

func (s *FileStorage) UpdateSession(ctx context.Context, sess *internal.SleepSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sessions[sess.ID]
	if !ok {
		return fmt.Errorf("session %s: %w", sess.ID, internal.ErrNotFound)
	}
	*existing = *sess

	requestSave(s.saveSessionsChan)
	s.publishSessionsLocked()
	return nil
}

func (s *FileStorage) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, internal.ErrNotFound)
	}
	delete(s.sessions, id)
	for i, sess := range s.sessionIndex {
		if sess.ID == id {
			s.sessionIndex = append(s.sessionIndex[:i], s.sessionIndex[i+1:]...)
			break
		}
	}

	requestSave(s.saveSessionsChan)
	s.publishSessionsLocked()
	return nil
}

func (s *FileStorage) GetSession(ctx context.Context, id string) (*internal.SleepSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, internal.ErrNotFound)
	}
	out := *sess
	return &out, nil
}

func (s *FileStorage) ListSessions(ctx context.Context) ([]internal.SleepSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.historySnapshotLocked(), nil
}

func (s *FileStorage) WatchHistory(ctx context.Context) (<-chan []internal.SleepSession, error) {
	s.mu.RLock()
	initial := s.historySnapshotLocked()
	s.mu.RUnlock()
	return s.historyHub.subscribe(ctx, initial), nil
}

func (s *FileStorage) WatchActiveSession(ctx context.Context) (<-chan *internal.SleepSession, error) {
	s.mu.RLock()
	initial := s.activeSnapshotLocked()
	s.mu.RUnlock()
	return s.activeHub.subscribe(ctx, initial), nil
}

// --- DiaperRepository ---

func (s *FileStorage) AddDiaperChange(ctx context.Context, c *internal.DiaperChange) (*internal.DiaperChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	stored.ID = uuid.NewString()
	s.diapers[stored.ID] = &stored

	inserted := false
	for i, existing := range s.diaperIndex {
		if existing.Timestamp.Before(stored.Timestamp) {
			s.diaperIndex = append(s.diaperIndex[:i], append([]*internal.DiaperChange{&stored}, s.diaperIndex[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		s.diaperIndex = append(s.diaperIndex, &stored)
	}

	requestSave(s.saveDiapersChan)
	s.diaperHub.publish(s.diaperSnapshotLocked())
	out := stored
	return &out, nil
}

func (s *FileStorage) DeleteDiaperChange(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.diapers[id]; !ok {
		return fmt.Errorf("diaper change %s: %w", id, internal.ErrNotFound)
	}
	delete(s.diapers, id)
	for i, c := range s.diaperIndex {
		if c.ID == id {
			s.diaperIndex = append(s.diaperIndex[:i], s.diaperIndex[i+1:]...)
			break
		}
	}

	requestSave(s.saveDiapersChan)
	s.diaperHub.publish(s.diaperSnapshotLocked())
	return nil
}

func (s *FileStorage) ListDiaperChanges(ctx context.Context) ([]internal.DiaperChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diaperSnapshotLocked(), nil
}

func (s *FileStorage) WatchDiaperChanges(ctx context.Context) (<-chan []internal.DiaperChange, error) {
	s.mu.RLock()
	initial := s.diaperSnapshotLocked()
	s.mu.RUnlock()
	return s.diaperHub.subscribe(ctx, initial), nil
}

// --- Compile-time assertions ---
var _ SessionRepository = (*FileStorage)(nil)
var _ DiaperRepository = (*FileStorage)(nil)
