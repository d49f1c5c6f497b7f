package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/msmeconnect/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	applicationsFile = "applications.json"
	vendorsFile      = "snps.json"
	feedbackFile     = "feedback.json"
	lockFile         = ".msmeconnect.lock"

	lockTimeout = 5 * time.Second
	lockRetry   = 50 * time.Millisecond
)

// Store keeps applications, the SNP directory and feedback in memory and
// mirrors them to JSON files in one directory. Reads are served from memory
// and may lag behind other processes. Every write takes a cross-process file
// lock, re-reads the files, applies its change on top and rewrites them, so
// writers sharing the directory keep each other's records.
type Store struct {
	dir  string
	lock *flock.Flock
	seed []domain.Vendor
	now  func() time.Time
	log  *logrus.Entry

	mu           sync.RWMutex
	applications []domain.Application
	vendors      []domain.Vendor
	feedback     []domain.Feedback
}

type snapshot struct {
	applications []domain.Application
	vendors      []domain.Vendor
	feedback     []domain.Feedback
}

// New creates the data directory if needed and loads it. seed is written as
// the SNP directory when snps.json does not exist yet.
func New(dir string, seed []domain.Vendor) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", domain.ErrStorageFailure, err)
	}

	s := &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockFile)),
		seed: seed,
		now:  time.Now,
		log:  logrus.WithFields(logrus.Fields{"component": "storage", "backend": "json", "dir": dir}),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory state with the files on disk. Corrupt files
// are treated as empty; a missing SNP file is seeded and saved.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, _, err := readList[domain.Application](s, applicationsFile)
	if err != nil {
		return err
	}
	fb, _, err := readList[domain.Feedback](s, feedbackFile)
	if err != nil {
		return err
	}
	vendors, found, err := readList[domain.Vendor](s, vendorsFile)
	if err != nil {
		return err
	}

	s.applications, s.feedback, s.vendors = apps, fb, vendors
	if found {
		return nil
	}

	s.vendors = append([]domain.Vendor(nil), s.seed...)
	s.log.WithField("vendors", len(s.vendors)).Info("seeding default SNP directory")
	return s.persist(s.current())
}

// Save writes the in-memory state to disk
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(s.current())
}

// readList decodes a JSON array file. It reports whether the file existed;
// a corrupt file decodes as an empty list.
func readList[T any](s *Store, name string) ([]T, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %s: %v", domain.ErrStorageFailure, name, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.WithError(err).WithField("file", name).Warn("corrupt data file, starting empty")
		return nil, true, nil
	}
	return items, true, nil
}

func (s *Store) current() snapshot {
	return snapshot{applications: s.applications, vendors: s.vendors, feedback: s.feedback}
}

// persist writes snap under the file lock
func (s *Store) persist(snap snapshot) error {
	release, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer release()
	return s.writeFiles(snap)
}

// mutate applies fn to the state on disk while holding the file lock, writes
// the result and adopts it in memory. Nothing is written when fn fails.
// Callers hold s.mu.
func (s *Store) mutate(fn func(snap *snapshot) error) error {
	release, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer release()

	snap, err := s.reload()
	if err != nil {
		return err
	}
	if err := fn(&snap); err != nil {
		return err
	}
	if err := s.writeFiles(snap); err != nil {
		return err
	}
	s.applications, s.vendors, s.feedback = snap.applications, snap.vendors, snap.feedback
	return nil
}

// reload reads the current files. A file that no longer exists keeps the
// in-memory list.
func (s *Store) reload() (snapshot, error) {
	snap := s.current()

	apps, found, err := readList[domain.Application](s, applicationsFile)
	if err != nil {
		return snapshot{}, err
	}
	if found {
		snap.applications = apps
	}
	vendors, found, err := readList[domain.Vendor](s, vendorsFile)
	if err != nil {
		return snapshot{}, err
	}
	if found {
		snap.vendors = vendors
	}
	fb, found, err := readList[domain.Feedback](s, feedbackFile)
	if err != nil {
		return snapshot{}, err
	}
	if found {
		snap.feedback = fb
	}
	return snap, nil
}

func (s *Store) writeFiles(snap snapshot) error {
	files := []struct {
		name string
		data any
	}{
		{applicationsFile, nonNil(snap.applications)},
		{vendorsFile, nonNil(snap.vendors)},
		{feedbackFile, nonNil(snap.feedback)},
	}
	for _, f := range files {
		if err := writeAtomic(filepath.Join(s.dir, f.name), f.data); err != nil {
			return fmt.Errorf("%w: write %s: %v", domain.ErrStorageFailure, f.name, err)
		}
	}
	return nil
}

func (s *Store) acquireLock() (func(), error) {
	deadline := time.Now().Add(lockTimeout)
	for {
		locked, err := s.lock.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("%w: acquire lock: %v", domain.ErrStorageFailure, err)
		}
		if locked {
			return func() { _ = s.lock.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("%w: data directory locked by another process (%s)", domain.ErrStorageFailure, s.lock.Path())
		}
		time.Sleep(lockRetry)
	}
}

func writeAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// SaveApplication inserts the application or replaces the one with the same ID
func (s *Store) SaveApplication(ctx context.Context, app *domain.Application) error {
	if app == nil || app.ID == "" {
		return fmt.Errorf("%w: application id is required", domain.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(snap *snapshot) error {
		apps := append([]domain.Application(nil), snap.applications...)
		for i := range apps {
			if apps[i].ID == app.ID {
				apps[i] = *app
				snap.applications = apps
				return nil
			}
		}
		snap.applications = append(apps, *app)
		return nil
	})
}

// GetApplication returns the application with the given ID
func (s *Store) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.applications {
		if app.ID == id {
			out := app
			return &out, nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

// ListApplications returns all applications in insertion order
func (s *Store) ListApplications(ctx context.Context) ([]domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Application{}, s.applications...), nil
}

// UpdateApplicationStatus records a verification decision
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, update domain.StatusUpdate) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out domain.Application
	err := s.mutate(func(snap *snapshot) error {
		apps := append([]domain.Application(nil), snap.applications...)
		for i := range apps {
			if apps[i].ID != id {
				continue
			}
			apps[i].Status = update.Status
			apps[i].VerifierID = update.VerifierID
			apps[i].VerificationComments = update.Comments
			apps[i].UpdatedAt = s.now().UTC()

			snap.applications = apps
			out = apps[i]
			return nil
		}
		return domain.ErrApplicationNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListVendors returns the registered SNP directory
func (s *Store) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Vendor{}, s.vendors...), nil
}

// GetVendor returns a registered SNP by ID
func (s *Store) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.vendors {
		if v.ID == id {
			out := v
			return &out, nil
		}
	}
	return nil, domain.ErrVendorNotFound
}

// SaveFeedback appends a feedback record
func (s *Store) SaveFeedback(ctx context.Context, fb *domain.Feedback) error {
	if fb == nil {
		return fmt.Errorf("%w: feedback is nil", domain.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(snap *snapshot) error {
		snap.feedback = append(append([]domain.Feedback(nil), snap.feedback...), *fb)
		return nil
	})
}

// ListFeedback returns all stored feedback
func (s *Store) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Feedback{}, s.feedback...), nil
}

// Ping checks that the data directory is still reachable
func (s *Store) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrStorageFailure, s.dir)
	}
	return nil
}

// Close releases the lock file handle
func (s *Store) Close() error {
	return s.lock.Close()
}
