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

package pathutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	cases := map[string]string{
		"":             ".",
		"/":            "/",
		"/a/b/../c":    "/a/c",
		"/a/./b":       "/a/b",
		"a/b/../../c":  "c",
		"../a":         "../a",
		"/../a":        "/a",
		"a//b":         "a/b",
	}

	for in, want := range cases {
		assert.Equal(t, want, Clean(in), "Clean(%q)", in)
	}
}

func TestBaseDir(t *testing.T) {
	assert.Equal(t, "c", Base("/a/b/c"))
	assert.Equal(t, "/", Base("/"))
	assert.Equal(t, ".", Base(""))
	assert.Equal(t, "/a/b", Dir("/a/b/c"))
}

func TestMash(t *testing.T) {
	assert.Equal(t, "/a/b/c", Mash("/a", "b", "c"))
}

func TestTrimProtocol(t *testing.T) {
	assert.Equal(t, "/a/b", TrimProtocol("file:///a/b"))
	assert.Equal(t, "a/b", TrimProtocol("HTTPS://a/b"))
	assert.Equal(t, "/a/b", TrimProtocol("/a/b"))
}

func TestExpandHome(t *testing.T) {
	got, err := Expand("~/dir", "/home/u")
	require.NoError(t, err)
	assert.Equal(t, "/home/u/dir", got)

	_, err = Expand("~/a/~/b", "/home/u")
	assert.ErrorIs(t, err, ErrMultipleHomeSymbols)
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("VFSKIT_TEST_VAR", "value")
	defer os.Unsetenv("VFSKIT_TEST_VAR")

	got, err := Expand("$VFSKIT_TEST_VAR/dir", "/home/u")
	require.NoError(t, err)
	assert.Equal(t, "value/dir", got)

	got, err = Expand("${VFSKIT_TEST_VAR}/dir", "/home/u")
	require.NoError(t, err)
	assert.Equal(t, "value/dir", got)

	_, err = Expand("$VFSKIT_NOT_SET/dir", "/home/u")
	assert.ErrorIs(t, err, ErrInvalidExpansion)
}
