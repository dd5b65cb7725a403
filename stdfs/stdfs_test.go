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

package stdfs_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vfskit/vfskit/stdfs"
)

func newSandbox(t *testing.T) *stdfs.Stdfs {
	t.Helper()

	root := t.TempDir() + "/" + uuid.NewString()
	s, err := stdfs.New(root)
	require.NoError(t, err)
	require.NoError(t, s.MkdirP(root))

	return s
}

func TestStdfsMkdirAndWriteReadAll(t *testing.T) {
	s := newSandbox(t)

	require.NoError(t, s.MkdirP(s.Root()+"/dir1"))
	require.NoError(t, s.WriteAll(s.Root()+"/dir1/file1", []byte("hello")))

	got, err := s.ReadAll(s.Root() + "/dir1/file1")
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestStdfsEntriesWalk(t *testing.T) {
	s := newSandbox(t)

	require.NoError(t, s.MkdirP(s.Root()+"/a/b"))
	require.NoError(t, s.WriteAll(s.Root()+"/a/file1", []byte("x")))

	it, err := s.Entries(s.Root()).SortByName().Walk()
	require.NoError(t, err)

	var paths []string
	for {
		item, ok := it.Next()
		if !ok {
			break
		}

		require.NoError(t, item.Err)
		paths = append(paths, item.Entry.Path)
	}

	require.Contains(t, paths, s.Root()+"/a")
	require.Contains(t, paths, s.Root()+"/a/b")
	require.Contains(t, paths, s.Root()+"/a/file1")
}
