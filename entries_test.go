//
//  Copyright 2024 The vfskit authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//  	http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package vfskit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vfskit/vfskit"
	"github.com/vfskit/vfskit/memfs"
)

func setupTree(t *testing.T) *memfs.Memfs {
	t.Helper()

	m := memfs.New()
	require.NoError(t, m.MkdirP("/dir1/dir1a"))
	require.NoError(t, m.MkdirP("/dir2"))
	require.NoError(t, m.MkFile("/file1"))
	require.NoError(t, m.MkFile("/dir1/file1a"))
	require.NoError(t, m.MkFile("/dir1/dir1a/file1a1"))
	require.NoError(t, m.MkFile("/dir2/file2a"))

	return m
}

func names(items []vfskit.Item) []string {
	var out []string

	for _, it := range items {
		if it.Err == nil {
			out = append(out, it.Entry.Path)
		}
	}

	return out
}

func TestEntriesDirs(t *testing.T) {
	m := setupTree(t)

	it, err := m.Entries("/").Dirs(true).SortByName().Walk()
	require.NoError(t, err)

	got := names(it.Collect())
	require.Equal(t, []string{"/", "/dir1", "/dir1/dir1a", "/dir2"}, got)
}

func TestEntriesFiles(t *testing.T) {
	m := setupTree(t)

	it, err := m.Entries("/").Files(true).SortByName().Walk()
	require.NoError(t, err)

	got := names(it.Collect())
	require.ElementsMatch(t, []string{"/dir1/dir1a/file1a1", "/dir1/file1a", "/dir2/file2a", "/file1"}, got)
}

func TestEntriesDepth(t *testing.T) {
	m := setupTree(t)

	it, err := m.Entries("/").MaxDepth(1).SortByName().Walk()
	require.NoError(t, err)

	got := names(it.Collect())
	require.Equal(t, []string{"/", "/dir1", "/dir2", "/file1"}, got)
}

func TestEntriesMinDepthClampsMaxDepth(t *testing.T) {
	m := setupTree(t)
	e := m.Entries("/").MaxDepth(1).MinDepth(3)

	min, max := e.Depths()
	require.Equal(t, 3, min)
	require.Equal(t, 3, max)
}

func TestEntriesContentsFirst(t *testing.T) {
	m := setupTree(t)

	it, err := m.Entries("/dir1").Dirs(true).ContentsFirst(true).SortByName().Walk()
	require.NoError(t, err)

	got := names(it.Collect())
	require.Equal(t, []string{"/dir1/dir1a", "/dir1"}, got)
}

func TestEntriesSymlinkLoop(t *testing.T) {
	m := setupTree(t)
	require.NoError(t, m.Symlink("/dir1", "/dir1/loop"))

	it, err := m.Entries("/dir1").Follow(true).Walk()
	require.NoError(t, err)

	items := it.Collect()

	found := false

	for _, item := range items {
		if item.Err != nil {
			found = true
		}
	}

	require.True(t, found, "expected a link-loop error among walked items")
}

func TestEntriesMaxDescriptorsFallsBackToCache(t *testing.T) {
	m := setupTree(t)

	it, err := m.Entries("/").MaxDescriptors(1).SortByName().Walk()
	require.NoError(t, err)

	got := names(it.Collect())
	require.Contains(t, got, "/dir1/dir1a/file1a1")
}
