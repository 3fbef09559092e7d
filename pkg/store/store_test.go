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
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtool/recipe-image-generator/pkg/errors"
)

type fakeSyncer struct {
	pulls, pushes int
	err           error
}

func (f *fakeSyncer) Pull(context.Context) error { f.pulls++; return f.err }
func (f *fakeSyncer) Push(context.Context) error { f.pushes++; return f.err }

func TestLoadDataMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data_map.json")

	dm, err := LoadDataMap(path)
	require.NoError(t, err)
	assert.Empty(t, dm.Entries(), "missing file is empty")

	require.NoError(t, os.WriteFile(path, []byte(`{
		// learned
		"minecraft:stone": {"0": "RP/textures/blocks/stone", "1": "block-images/granite",},
	}`), 0o600))
	dm, err = LoadDataMap(path)
	require.NoError(t, err)
	p, ok := dm.Entries().Get("minecraft:stone", "1")
	assert.True(t, ok)
	assert.Equal(t, "block-images/granite", p)

	require.NoError(t, os.WriteFile(path, []byte(`[1]`), 0o600))
	_, err = LoadDataMap(path)
	assert.Error(t, err)
}

func TestDataMapSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data_map.json")
	dm, err := LoadDataMap(path)
	require.NoError(t, err)

	dm.Set("minecraft:stick", "0", "RP/textures/items/stick")
	require.NoError(t, dm.Save())

	again, err := LoadDataMap(path)
	require.NoError(t, err)
	assert.Equal(t, Entries{"minecraft:stick": {"0": "RP/textures/items/stick"}}, again.Entries())
}

func TestEntriesCloneIsDeep(t *testing.T) {
	e := Entries{"a": {"0": "x"}}
	c := e.Clone()
	c.Set("a", "0", "y")
	assert.Equal(t, "x", e["a"]["0"])
}

func TestStoreLearnedProjectWins(t *testing.T) {
	project := t.TempDir()
	database := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "data_map.json"),
		[]byte(`{"minecraft:stone": {"0": "block-images/project"}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(database, "data_map.json"),
		[]byte(`{"minecraft:stone": {"0": "block-images/db", "1": "block-images/db1"}}`), 0o600))

	s, err := Open(project, database)
	require.NoError(t, err)
	learned := s.Learned()
	assert.Equal(t, "block-images/project", learned["minecraft:stone"]["0"])
	assert.Equal(t, "block-images/db1", learned["minecraft:stone"]["1"])
}

func TestStorePutThrottlesPushes(t *testing.T) {
	ctx := context.Background()
	sy := &fakeSyncer{}
	s, err := Open(t.TempDir(), t.TempDir(), WithSyncer(sy), WithPushInterval(time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, Database, "minecraft:a", "0", "RP/a"))
	assert.Equal(t, 1, sy.pushes)
	assert.False(t, s.Dirty())

	require.NoError(t, s.Put(ctx, Database, "minecraft:b", "0", "RP/b"))
	assert.Equal(t, 1, sy.pushes, "second push is deferred")
	assert.True(t, s.Dirty())

	require.NoError(t, s.Put(ctx, Project, "minecraft:c", "0", "RP/c"))
	assert.Equal(t, 1, sy.pushes, "project answers are never pushed")

	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, 2, sy.pushes)
	assert.False(t, s.Dirty())

	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, 2, sy.pushes, "nothing left to flush")
}

func TestStorePutPushFailureKeepsAnswer(t *testing.T) {
	ctx := context.Background()
	sy := &fakeSyncer{err: stderrors.New("offline")}
	database := t.TempDir()
	s, err := Open(t.TempDir(), database, WithSyncer(sy))
	require.NoError(t, err)

	err = s.Put(ctx, Database, "minecraft:a", "0", "RP/a")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSync))
	var se *SyncError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "push", se.Op)
	assert.True(t, s.Dirty())

	saved, err := LoadDataMap(filepath.Join(database, "data_map.json"))
	require.NoError(t, err)
	_, ok := saved.Entries().Get("minecraft:a", "0")
	assert.True(t, ok, "answer saved locally despite the failed push")
}

func TestStoreWithoutSyncer(t *testing.T) {
	s, err := Open(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), Database, "minecraft:a", "0", "RP/a"))
	assert.False(t, s.Dirty())
	assert.NoError(t, s.Flush(context.Background()))
}
