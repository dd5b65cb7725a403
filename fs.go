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

package vfskit

import "io"

// WriteHandle is an open file opened for writing or appending.
type WriteHandle interface {
	io.Writer
	io.Closer
}

// ReadHandle is an open file opened for reading.
type ReadHandle interface {
	io.Reader
	io.Closer
}

// FS is the capability set both backends implement. memfs.Memfs and
// stdfs.Stdfs each satisfy it, and VFS dispatches to whichever is active.
type FS interface {
	DirOpener

	// Abs resolves path to an absolute, cleaned path against the current
	// directory and root.
	Abs(path string) (string, error)

	// Root returns the filesystem's root path.
	Root() string

	// Getwd returns the current working directory.
	Getwd() (string, error)

	// SetCwd sets the current working directory.
	SetCwd(path string) error

	// MkdirP creates path and any missing parents using DefaultDirPerm.
	MkdirP(path string) error

	// MkdirM creates path and any missing parents using mode.
	MkdirM(path string, mode uint32) error

	// MkFile creates an empty file at path using DefaultFilePerm.
	MkFile(path string) error

	// MkFileM creates an empty file at path using mode.
	MkFileM(path string, mode uint32) error

	// Symlink creates newname as a symbolic link to oldname.
	Symlink(oldname, newname string) error

	// Readlink returns the target of the symbolic link at path.
	Readlink(path string) (string, error)

	// Remove removes the single, empty entry at path.
	Remove(path string) error

	// RemoveAll removes path and, if it is a directory, its contents.
	RemoveAll(path string) error

	// OpenWrite opens path for writing, truncating any existing content.
	OpenWrite(path string) (WriteHandle, error)

	// OpenAppend opens path for appending.
	OpenAppend(path string) (WriteHandle, error)

	// OpenRead opens path for reading.
	OpenRead(path string) (ReadHandle, error)

	// ReadAll returns the full contents of the file at path.
	ReadAll(path string) ([]byte, error)

	// WriteAll replaces the full contents of the file at path.
	WriteAll(path string, data []byte) error

	// Append appends data to the file at path, creating it if necessary.
	Append(path string, data []byte) error

	// Paths returns every path currently known to the filesystem, in no
	// particular order.
	Paths() []string

	// Chmod sets the mode bits of path. If follow is false and path is a
	// symlink, its target is not changed: memfs sets the link's own mode,
	// stdfs leaves the link unchanged.
	Chmod(path string, mode uint32, follow bool) error

	// ChmodRecursive applies mode to path and, if path is a directory,
	// every descendant, using the two-pass algorithm described by ChmodTree.
	ChmodRecursive(path string, dirMode, fileMode uint32, follow bool) error

	// Chown sets the uid/gid of path.
	Chown(path string, uid, gid int, follow bool) error

	// ChownRecursive applies uid/gid to path and, if path is a directory,
	// every descendant.
	ChownRecursive(path string, uid, gid int, follow bool) error

	// Entries returns a traversal builder rooted at path.
	Entries(path string) *Entries
}

// BackendKind identifies which concrete implementation a VFS wraps.
type BackendKind int

const (
	// Standard identifies the OS-delegating backend.
	Standard BackendKind = iota

	// InMemory identifies the in-memory backend.
	InMemory
)

// VFS is a tagged union over the two backends. It dispatches every FS
// method to whichever concrete backend it wraps; it holds no logic of its
// own.
type VFS struct {
	kind BackendKind
	fs   FS
}

// Upcast wraps fs as a VFS tagged with kind. Backend packages call this
// from their own NewVFS constructors; it is the only way to build a VFS
// from outside this package.
func Upcast(kind BackendKind, fs FS) VFS {
	return VFS{kind: kind, fs: fs}
}

// Kind reports which backend this VFS wraps.
func (v VFS) Kind() BackendKind { return v.kind }

// Unwrap returns the concrete FS this VFS wraps.
func (v VFS) Unwrap() FS { return v.fs }

func (v VFS) Stat(path string) (Entry, error) { return v.fs.Stat(path) }

func (v VFS) OpenDir(path string) (*EntryIter, error) { return v.fs.OpenDir(path) }

func (v VFS) Abs(path string) (string, error) { return v.fs.Abs(path) }

func (v VFS) Root() string { return v.fs.Root() }

func (v VFS) Getwd() (string, error) { return v.fs.Getwd() }

func (v VFS) SetCwd(path string) error { return v.fs.SetCwd(path) }

func (v VFS) MkdirP(path string) error { return v.fs.MkdirP(path) }

func (v VFS) MkdirM(path string, mode uint32) error { return v.fs.MkdirM(path, mode) }

func (v VFS) MkFile(path string) error { return v.fs.MkFile(path) }

func (v VFS) MkFileM(path string, mode uint32) error { return v.fs.MkFileM(path, mode) }

func (v VFS) Symlink(oldname, newname string) error { return v.fs.Symlink(oldname, newname) }

func (v VFS) Readlink(path string) (string, error) { return v.fs.Readlink(path) }

func (v VFS) Remove(path string) error { return v.fs.Remove(path) }

func (v VFS) RemoveAll(path string) error { return v.fs.RemoveAll(path) }

func (v VFS) OpenWrite(path string) (WriteHandle, error) { return v.fs.OpenWrite(path) }

func (v VFS) OpenAppend(path string) (WriteHandle, error) { return v.fs.OpenAppend(path) }

func (v VFS) OpenRead(path string) (ReadHandle, error) { return v.fs.OpenRead(path) }

func (v VFS) ReadAll(path string) ([]byte, error) { return v.fs.ReadAll(path) }

func (v VFS) WriteAll(path string, data []byte) error { return v.fs.WriteAll(path, data) }

func (v VFS) Append(path string, data []byte) error { return v.fs.Append(path, data) }

func (v VFS) Paths() []string { return v.fs.Paths() }

func (v VFS) Entries(path string) *Entries { return v.fs.Entries(path) }

// Chmod returns a builder to change the mode of path.
func (v VFS) Chmod(path string, mode uint32) *Chmod {
	return newChmod(v.fs, path, mode)
}

// Chown returns a builder to change the ownership of path.
func (v VFS) Chown(path string, uid, gid int) *Chown {
	return newChown(v.fs, path, uid, gid)
}
