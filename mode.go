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

// Default permissions for newly created entries, before umask.
const (
	DefaultDirPerm  = 0o755
	DefaultFilePerm = 0o644
)

// Chmod is a builder for changing the mode of a path, optionally
// recursively, mirroring the two-pass algorithm used for directories whose
// final mode would otherwise block descent.
type Chmod struct {
	fs        FS
	path      string
	mode      uint32
	follow    bool
	recursive bool
}

func newChmod(fs FS, path string, mode uint32) *Chmod {
	return &Chmod{fs: fs, path: path, mode: mode}
}

// Follow makes Chmod affect a symlink's target instead of the link itself.
func (c *Chmod) Follow() *Chmod { c.follow = true; return c }

// Recurse enables or disables recursive descent into directories.
func (c *Chmod) Recurse(yes bool) *Chmod { c.recursive = yes; return c }

// Exec applies the configured mode change.
func (c *Chmod) Exec() error {
	if !c.recursive {
		return c.fs.Chmod(c.path, c.mode, c.follow)
	}

	return ChmodTree(c.fs, c.path, c.mode, c.mode, c.follow)
}

// ChmodTree walks path contents-first and dirs-first: a PreOp pass
// ORs the requested directory bits into each directory's mode before
// descending, so a final mode that would otherwise be unreadable or
// unwritable doesn't block the walk from reaching its children; the
// authoritative mode (dirMode for directories, fileMode for files) is then
// applied on the way back up. Symlinks are skipped unless following.
func ChmodTree(fsys FS, path string, dirMode, fileMode uint32, follow bool) error {
	root, err := fsys.Stat(path)
	if err != nil {
		return err
	}

	if !root.IsDir() || (root.IsSymlink() && !follow) {
		return fsys.Chmod(path, fileMode, follow)
	}

	it, err := fsys.Entries(path).
		Follow(follow).
		DirsFirst(nil).
		ContentsFirst(true).
		PreOp(func(e Entry) error {
			if !e.IsDir() {
				return nil
			}

			return fsys.Chmod(e.Path, uint32(e.Mode.Perm())|(dirMode&0o777), false)
		}).
		Walk()
	if err != nil {
		return err
	}

	for {
		item, ok := it.Next()
		if !ok {
			break
		}

		if item.Err != nil {
			return item.Err
		}

		mode := fileMode

		switch {
		case item.Entry.IsDir():
			mode = dirMode
		case item.Entry.IsSymlink() && !follow:
			mode = 0
		}

		if item.Entry.IsSymlink() && !follow {
			continue
		}

		if err := fsys.Chmod(item.Entry.Path, mode, follow); err != nil {
			return err
		}
	}

	return fsys.Chmod(path, dirMode, follow)
}

// Chown is a builder for changing the uid/gid of a path, optionally
// recursively. It mirrors rivia's Chown builder (path/uid/gid/follow/
// recursive options, exec to apply).
type Chown struct {
	fs        FS
	path      string
	uid, gid  int
	follow    bool
	recursive bool
}

func newChown(fs FS, path string, uid, gid int) *Chown {
	return &Chown{fs: fs, path: path, uid: uid, gid: gid}
}

// Follow makes Chown affect a symlink's target instead of the link itself.
func (c *Chown) Follow() *Chown { c.follow = true; return c }

// Recurse enables or disables recursive descent into directories.
func (c *Chown) Recurse(yes bool) *Chown { c.recursive = yes; return c }

// Exec applies the configured ownership change.
func (c *Chown) Exec() error {
	if !c.recursive {
		return c.fs.Chown(c.path, c.uid, c.gid, c.follow)
	}

	return ChownTree(c.fs, c.path, c.uid, c.gid, c.follow)
}

// ChownTree walks path the same way ChmodTree does. Ownership
// changes never block descent, so there is no additive PreOp pass; the
// traversal order is kept identical to Chmod's for behavioral symmetry.
func ChownTree(fsys FS, path string, uid, gid int, follow bool) error {
	root, err := fsys.Stat(path)
	if err != nil {
		return err
	}

	if !root.IsDir() || (root.IsSymlink() && !follow) {
		return fsys.Chown(path, uid, gid, follow)
	}

	it, err := fsys.Entries(path).Follow(follow).DirsFirst(nil).ContentsFirst(true).Walk()
	if err != nil {
		return err
	}

	for {
		item, ok := it.Next()
		if !ok {
			break
		}

		if item.Err != nil {
			return item.Err
		}

		if item.Entry.IsSymlink() && !follow {
			continue
		}

		if err := fsys.Chown(item.Entry.Path, uid, gid, follow); err != nil {
			return err
		}
	}

	return fsys.Chown(path, uid, gid, follow)
}
