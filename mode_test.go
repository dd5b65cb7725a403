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

	"github.com/vfskit/vfskit/memfs"
)

func TestChmodRecursiveReachesRestrictedSubtree(t *testing.T) {
	v := memfs.NewVFS()

	require.NoError(t, v.MkdirP("/dir1/dir1a"))
	require.NoError(t, v.MkFile("/dir1/dir1a/file1"))

	// A fully restrictive directory mode would normally block descent;
	// the two-pass algorithm must still reach every descendant.
	require.NoError(t, v.Chmod("/dir1", 0o000).Recurse(true).Exec())

	e, err := v.Stat("/dir1")
	require.NoError(t, err)
	require.Equal(t, uint32(0), uint32(e.Mode.Perm()))

	e, err = v.Stat("/dir1/dir1a/file1")
	require.NoError(t, err)
	require.Equal(t, uint32(0), uint32(e.Mode.Perm()))
}

func TestChmodNonRecursiveOnlyAffectsTarget(t *testing.T) {
	v := memfs.NewVFS()

	require.NoError(t, v.MkdirP("/dir1"))
	require.NoError(t, v.MkFile("/dir1/file1"))
	require.NoError(t, v.Chmod("/dir1/file1", 0o600).Exec())

	e, err := v.Stat("/dir1/file1")
	require.NoError(t, err)
	require.Equal(t, uint32(0o600), uint32(e.Mode.Perm()))
}

func TestChownRecursive(t *testing.T) {
	v := memfs.NewVFS()

	require.NoError(t, v.MkdirP("/dir1/dir1a"))
	require.NoError(t, v.MkFile("/dir1/dir1a/file1"))

	require.NoError(t, v.Chown("/dir1", 42, 42).Recurse(true).Exec())

	e, err := v.Stat("/dir1/dir1a/file1")
	require.NoError(t, err)
	require.Equal(t, 42, e.UID)
	require.Equal(t, 42, e.GID)
}
