// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rigtool/recipe-image-generator/pkg/defaults"
)

// Target selects the data map an answer is stored in.
type Target int

const (
	// Project is the data map of the current project. It is not synced.
	Project Target = iota
	// Database is the data map of the shared database, pushed to the remote.
	Database
)

func (t Target) String() string {
	if t == Database {
		return "database"
	}
	return "project"
}

// Store holds the learned texture answers of a project and of the shared
// database, and pushes database changes to the remote.
type Store struct {
	mu       sync.Mutex
	project  *DataMap
	database *DataMap
	syncer   Syncer
	limiter  *rate.Limiter
	dirty    bool
}

// Option configures a Store.
type Option func(*Store)

// WithSyncer pushes database changes through s. Without a syncer the store
// is local only.
func WithSyncer(s Syncer) Option {
	return func(st *Store) { st.syncer = s }
}

// WithPushInterval limits pushes to one per interval. Changes made in
// between are pushed by the next allowed push or by Flush.
func WithPushInterval(d time.Duration) Option {
	return func(st *Store) { st.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// New returns a store over two data maps.
func New(project, database *DataMap, opts ...Option) *Store {
	s := &Store{
		project:  project,
		database: database,
		limiter:  rate.NewLimiter(rate.Every(defaults.SyncPushInterval), 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open loads data_map.json from the project and database directories.
func Open(projectDir, databaseDir string, opts ...Option) (*Store, error) {
	project, err := LoadDataMap(filepath.Join(projectDir, defaults.DataMapFile))
	if err != nil {
		return nil, err
	}
	database, err := LoadDataMap(filepath.Join(databaseDir, defaults.DataMapFile))
	if err != nil {
		return nil, err
	}
	return New(project, database, opts...), nil
}

// Learned returns the answers of both maps; project answers win.
func (s *Store) Learned() Entries {
	out := s.database.Entries()
	out.Merge(s.project.Entries())
	return out
}

// Put stores an answer and saves its data map. Database answers are then
// pushed when the rate limit allows it. A failed push returns a *SyncError;
// the answer is kept locally and pushed again by the next Put or Flush.
func (s *Store) Put(ctx context.Context, target Target, item, variant, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dm := s.project
	if target == Database {
		dm = s.database
	}
	dm.Set(item, variant, path)
	if err := dm.Save(); err != nil {
		return err
	}
	learnedTotal.WithLabelValues(target.String()).Inc()
	slog.Debug("texture answer saved",
		slog.String("target", target.String()),
		slog.String("item", item),
		slog.String("variant", variant),
		slog.String("path", path))

	if target != Database || s.syncer == nil {
		return nil
	}
	s.dirty = true
	if !s.limiter.Allow() {
		slog.Debug("push deferred by rate limit")
		return nil
	}
	return s.pushLocked(ctx)
}

// Flush pushes pending database answers.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.syncer == nil {
		return nil
	}
	return s.pushLocked(ctx)
}

// Dirty reports whether database answers wait for a push.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Store) pushLocked(ctx context.Context) error {
	if err := s.syncer.Push(ctx); err != nil {
		pushTotal.WithLabelValues("error").Inc()
		return asSyncError("push", err)
	}
	pushTotal.WithLabelValues("ok").Inc()
	s.dirty = false
	return nil
}
