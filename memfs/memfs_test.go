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

package memfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfskit/vfskit"
	"github.com/vfskit/vfskit/memfs"
)

func TestMkdirPAndStat(t *testing.T) {
	m := memfs.New()

	require.NoError(t, m.MkdirP("/a/b/c"))

	e, err := m.Stat("/a/b/c")
	require.NoError(t, err)
	assert.True(t, e.IsDir())
}

func TestMkFileWriteReadAll(t *testing.T) {
	m := memfs.New()

	require.NoError(t, m.MkFile("/file1"))
	require.NoError(t, m.WriteAll("/file1", []byte("hello")))

	got, err := m.ReadAll("/file1")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestAppend(t *testing.T) {
	m := memfs.New()

	require.NoError(t, m.WriteAll("/file1", []byte("ab")))
	require.NoError(t, m.Append("/file1", []byte("cd")))

	got, err := m.ReadAll("/file1")
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(got))
}

func TestRemoveRejectsNonEmptyDir(t *testing.T) {
	m := memfs.New()

	require.NoError(t, m.MkdirP("/dir1"))
	require.NoError(t, m.MkFile("/dir1/file1"))

	err := m.Remove("/dir1")
	assert.ErrorIs(t, err, vfskit.ErrDirContainsFiles)
}

func TestRemoveAll(t *testing.T) {
	m := memfs.New()

	require.NoError(t, m.MkdirP("/dir1/dir1a"))
	require.NoError(t, m.MkFile("/dir1/dir1a/file1"))
	require.NoError(t, m.RemoveAll("/dir1"))

	_, err := m.Stat("/dir1")
	assert.ErrorIs(t, err, vfskit.ErrDoesNotExist)
}

func TestSymlinkAndReadlink(t *testing.T) {
	m := memfs.New()

	require.NoError(t, m.MkdirP("/dir1"))
	require.NoError(t, m.Symlink("/dir1", "/link1"))

	e, err := m.Stat("/link1")
	require.NoError(t, err)
	assert.True(t, e.IsSymlinkDir())

	target, err := m.Readlink("/link1")
	require.NoError(t, err)
	assert.Equal(t, "/dir1", target)
}

func TestAbsResolvesRelativeAndRejectsEscape(t *testing.T) {
	m := memfs.New()

	_, err := m.Abs("")
	assert.ErrorIs(t, err, vfskit.ErrEmpty)

	abs, err := m.Abs("a/b")
	require.NoError(t, err)
	assert.Equal(t, "/a/b", abs)

	_, err = m.Abs("../../escape")
	assert.ErrorIs(t, err, vfskit.ErrParentNotFound)
}

func TestCloneSharesState(t *testing.T) {
	m := memfs.New()
	clone := m.Clone()

	require.NoError(t, m.MkdirP("/dir1"))

	e, err := clone.Stat("/dir1")
	require.NoError(t, err)
	assert.True(t, e.IsDir())
}
