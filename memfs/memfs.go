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

package memfs

import (
	"strings"

	"github.com/vfskit/vfskit"
	"github.com/vfskit/vfskit/internal/pathutil"
)

// Memfs is the in-memory vfskit backend. Memfs values sharing the same
// underlying store (as clones returned by Clone do) observe each other's
// writes.
type Memfs struct {
	s *store
}

// New returns a Memfs rooted at "/".
func New() *Memfs {
	return &Memfs{s: newStore("/")}
}

// NewVFS returns a ready-to-use VFS wrapping a fresh Memfs.
func NewVFS() vfskit.VFS {
	return vfskit.Upcast(vfskit.InMemory, New())
}

// Clone returns a Memfs sharing this one's underlying store.
func (m *Memfs) Clone() *Memfs {
	return &Memfs{s: m.s}
}

func (m *Memfs) Abs(path string) (string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	abs, err := m.s.abs(path)

	return abs, vfskit.WrapPath("abs", path, err)
}

func (m *Memfs) Root() string { return m.s.root }

func (m *Memfs) Getwd() (string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	return m.s.cwd, nil
}

func (m *Memfs) SetCwd(path string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	abs, err := m.s.abs(path)
	if err != nil {
		return vfskit.WrapPath("setcwd", path, err)
	}

	e, ok := m.s.entries[abs]
	if !ok {
		return vfskit.WrapPath("setcwd", path, vfskit.ErrDoesNotExist)
	}

	if !e.IsDir() {
		return vfskit.WrapPath("setcwd", path, vfskit.ErrIsNotDir)
	}

	m.s.cwd = abs

	return nil
}

func (m *Memfs) Stat(path string) (vfskit.Entry, error) {
	abs, err := m.Abs(path)
	if err != nil {
		return vfskit.Entry{}, err
	}

	e, err := m.s.lookup(abs)

	return e, vfskit.WrapPath("stat", path, err)
}

func (m *Memfs) MkdirP(path string) error {
	return m.mkdirAll(path, vfskit.DefaultDirPerm)
}

func (m *Memfs) MkdirM(path string, mode uint32) error {
	return m.mkdirAll(path, mode)
}

func (m *Memfs) mkdirAll(path string, leafMode uint32) error {
	abs, err := m.Abs(path)
	if err != nil {
		return vfskit.WrapPath("mkdir", path, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, exists := m.s.entries[abs]; exists {
		return nil
	}

	rel := strings.TrimPrefix(abs, m.s.root)
	parts := strings.Split(strings.Trim(rel, "/"), "/")

	cur := m.s.root
	uid, gid := vfskit.CurrentUser()

	for i, part := range parts {
		if part == "" {
			continue
		}

		cur = pathutil.Mash(cur, part)

		if existing, exists := m.s.entries[cur]; exists {
			if !existing.IsDir() {
				return vfskit.WrapPath("mkdir", path, vfskit.ErrIsNotDir)
			}

			continue
		}

		mode := vfskit.ApplyUMask(vfskit.DefaultDirPerm)
		if i == len(parts)-1 {
			mode = perm(leafMode)
		}

		e := &vfskit.Entry{
			Path:     cur,
			Kind:     vfskit.KindDir,
			Mode:     mode,
			UID:      uid,
			GID:      gid,
			Children: map[string]struct{}{},
		}

		if err := m.s.addEntry(cur, e); err != nil {
			return vfskit.WrapPath("mkdir", path, err)
		}
	}

	return nil
}

func (m *Memfs) MkFile(path string) error {
	return m.mkFile(path, vfskit.DefaultFilePerm)
}

func (m *Memfs) MkFileM(path string, mode uint32) error {
	return m.mkFile(path, mode)
}

func (m *Memfs) mkFile(path string, mode uint32) error {
	abs, err := m.Abs(path)
	if err != nil {
		return vfskit.WrapPath("mkfile", path, err)
	}

	if err := m.mkdirAll(pathutil.Dir(abs), vfskit.DefaultDirPerm); err != nil {
		return vfskit.WrapPath("mkfile", path, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if existing, exists := m.s.entries[abs]; exists {
		if existing.IsFile() {
			return nil
		}

		return vfskit.WrapPath("mkfile", path, vfskit.ErrIsNotFile)
	}

	uid, gid := vfskit.CurrentUser()

	e := &vfskit.Entry{
		Path: abs,
		Kind: vfskit.KindFile,
		Mode: perm(mode),
		UID:  uid,
		GID:  gid,
	}

	if err := m.s.addEntry(abs, e); err != nil {
		return vfskit.WrapPath("mkfile", path, err)
	}

	m.s.data[abs] = &fileData{}

	return nil
}

func (m *Memfs) Symlink(oldname, newname string) error {
	absOld, err := m.Abs(oldname)
	if err != nil {
		return vfskit.WrapPath("symlink", oldname, err)
	}

	absNew, err := m.Abs(newname)
	if err != nil {
		return vfskit.WrapPath("symlink", newname, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, exists := m.s.entries[absNew]; exists {
		return vfskit.WrapPath("symlink", newname, vfskit.ErrExistsAlready)
	}

	resolvedKind := vfskit.KindFile
	if target, ok := m.s.entries[absOld]; ok {
		resolvedKind = target.Kind
	}

	uid, gid := vfskit.CurrentUser()

	e := &vfskit.Entry{
		Path:         absNew,
		Alt:          absOld,
		Kind:         vfskit.KindSymlink,
		ResolvedKind: resolvedKind,
		Mode:         vfskit.ApplyUMask(vfskit.DefaultFilePerm),
		UID:          uid,
		GID:          gid,
	}

	return vfskit.WrapPath("symlink", newname, m.s.addEntry(absNew, e))
}

func (m *Memfs) Readlink(path string) (string, error) {
	abs, err := m.Abs(path)
	if err != nil {
		return "", vfskit.WrapPath("readlink", path, err)
	}

	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	e, ok := m.s.entries[abs]
	if !ok {
		return "", vfskit.WrapPath("readlink", path, vfskit.ErrDoesNotExist)
	}

	if !e.IsSymlink() {
		return "", vfskit.WrapPath("readlink", path, vfskit.ErrIsNotSymlink)
	}

	return e.Alt, nil
}

func (m *Memfs) Remove(path string) error {
	abs, err := m.Abs(path)
	if err != nil {
		return vfskit.WrapPath("remove", path, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	e, ok := m.s.entries[abs]
	if !ok {
		return vfskit.WrapPath("remove", path, vfskit.ErrDoesNotExist)
	}

	if e.IsDir() && len(e.Children) > 0 {
		return vfskit.WrapPath("remove", path, vfskit.ErrDirContainsFiles)
	}

	m.removeOneLocked(abs)

	return nil
}

func (m *Memfs) removeOneLocked(abs string) {
	parent := m.s.entries[m.s.parent(abs)]
	if parent != nil {
		delete(parent.Children, pathutil.Base(abs))
	}

	delete(m.s.entries, abs)
	delete(m.s.data, abs)
}

func (m *Memfs) RemoveAll(path string) error {
	abs, err := m.Abs(path)
	if err != nil {
		return vfskit.WrapPath("removeall", path, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.entries[abs]; !ok {
		return vfskit.WrapPath("removeall", path, vfskit.ErrDoesNotExist)
	}

	prefix := abs + "/"

	for p := range m.s.entries {
		if p == abs || strings.HasPrefix(p, prefix) {
			delete(m.s.data, p)
			delete(m.s.entries, p)
		}
	}

	if parent := m.s.entries[m.s.parent(abs)]; parent != nil {
		delete(parent.Children, pathutil.Base(abs))
	}

	return nil
}

func (m *Memfs) ReadAll(path string) ([]byte, error) {
	abs, err := m.Abs(path)
	if err != nil {
		return nil, vfskit.WrapPath("readall", path, err)
	}

	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	e, ok := m.s.entries[abs]
	if !ok {
		return nil, vfskit.WrapPath("readall", path, vfskit.ErrDoesNotExist)
	}

	if !e.IsFile() {
		return nil, vfskit.WrapPath("readall", path, vfskit.ErrIsNotFile)
	}

	d := m.s.data[abs]
	out := make([]byte, len(d.content))
	copy(out, d.content)

	return out, nil
}

func (m *Memfs) WriteAll(path string, data []byte) error {
	abs, err := m.Abs(path)
	if err != nil {
		return vfskit.WrapPath("writeall", path, err)
	}

	if err := m.ensureFile(abs); err != nil {
		return vfskit.WrapPath("writeall", path, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	m.s.data[abs] = &fileData{content: buf}

	return nil
}

func (m *Memfs) Append(path string, data []byte) error {
	abs, err := m.Abs(path)
	if err != nil {
		return vfskit.WrapPath("append", path, err)
	}

	if err := m.ensureFile(abs); err != nil {
		return vfskit.WrapPath("append", path, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	d := m.s.data[abs]
	d.content = append(d.content, data...)

	return nil
}

func (m *Memfs) ensureFile(abs string) error {
	m.s.mu.RLock()
	_, exists := m.s.entries[abs]
	m.s.mu.RUnlock()

	if exists {
		return nil
	}

	return m.mkFile(abs, vfskit.DefaultFilePerm)
}

func (m *Memfs) Paths() []string {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := make([]string, 0, len(m.s.entries))
	for p := range m.s.entries {
		out = append(out, p)
	}

	return out
}

func (m *Memfs) Chmod(path string, mode uint32, follow bool) error {
	abs, err := m.Abs(path)
	if err != nil {
		return vfskit.WrapPath("chmod", path, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	e, ok := m.s.entries[abs]
	if !ok {
		return vfskit.WrapPath("chmod", path, vfskit.ErrDoesNotExist)
	}

	if follow && e.IsSymlink() {
		target, ok := m.s.entries[e.Alt]
		if !ok {
			return vfskit.WrapPath("chmod", path, vfskit.ErrDoesNotExist)
		}

		target.Mode = perm(mode)

		return nil
	}

	e.Mode = perm(mode)

	return nil
}

func (m *Memfs) ChmodRecursive(path string, dirMode, fileMode uint32, follow bool) error {
	return vfskit.ChmodTree(m, path, dirMode, fileMode, follow)
}

func (m *Memfs) Chown(path string, uid, gid int, follow bool) error {
	abs, err := m.Abs(path)
	if err != nil {
		return vfskit.WrapPath("chown", path, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	e, ok := m.s.entries[abs]
	if !ok {
		return vfskit.WrapPath("chown", path, vfskit.ErrDoesNotExist)
	}

	if follow && e.IsSymlink() {
		target, ok := m.s.entries[e.Alt]
		if !ok {
			return vfskit.WrapPath("chown", path, vfskit.ErrDoesNotExist)
		}

		target.UID, target.GID = uid, gid

		return nil
	}

	e.UID, e.GID = uid, gid

	return nil
}

func (m *Memfs) ChownRecursive(path string, uid, gid int, follow bool) error {
	return vfskit.ChownTree(m, path, uid, gid, follow)
}

func (m *Memfs) Entries(path string) *vfskit.Entries {
	return vfskit.NewEntries(m, path)
}
