package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"gopkg.in/fsnotify.v1"
)

// Store holds the active profile and can watch its backing file for changes,
// so a running server picks up threshold edits without a restart.
type Store struct {
	mu      sync.RWMutex
	path    string
	profile Profile

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(Profile)
}

// NewStore creates a store. With an empty path the store serves defaults and
// cannot be watched.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, profile: Default()}
	if path == "" {
		return s, nil
	}

	profile, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.profile = profile
	return s, nil
}

// Current returns the active profile.
func (s *Store) Current() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetOnChange sets a callback invoked after each successful reload.
func (s *Store) SetOnChange(fn func(Profile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Reload re-reads the profile file. An unreadable or invalid file leaves the
// active profile unchanged.
func (s *Store) Reload() error {
	if s.path == "" {
		return fmt.Errorf("no profile file configured")
	}
	profile, err := Load(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.profile = profile
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(profile)
	}
	return nil
}

// Watch starts watching the profile file's directory for changes.
func (s *Store) Watch() error {
	if s.path == "" {
		return fmt.Errorf("no profile file configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	s.watcher = watcher
	s.stopChan = make(chan struct{})

	go s.watchLoop()

	// Watch the directory rather than the file so editor rename-and-replace
	// saves are still seen.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		s.watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	return nil
}

// Stop stops watching.
func (s *Store) Stop() {
	if s.stopChan != nil {
		close(s.stopChan)
		s.stopChan = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

func (s *Store) watchLoop() {
	stop := s.stopChan
	watcher := s.watcher
	for {
		select {
		case <-stop:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// A failed reload keeps the previous profile active.
				_ = s.Reload()
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
