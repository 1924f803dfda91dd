package storage

import "github.com/JeffCortez23/BabySleepTracker/internal"

func NewFileRepositories(sessionsFile, diapersFile string, logger internal.Logger) (SessionRepository, DiaperRepository, func() error, error) {
	store, err := NewFileStorage(sessionsFile, diapersFile, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, store, store.Close, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (SessionRepository, DiaperRepository, func() error, error) {
	store, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, store, store.Close, nil
}
