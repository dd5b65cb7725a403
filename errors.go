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

import (
	"errors"
	"io/fs"
)

// Sentinel errors returned (wrapped in a *fs.PathError) by vfskit operations.
var (
	ErrEmpty               = errors.New("path is empty")
	ErrDoesNotExist        = errors.New("path does not exist")
	ErrExistsAlready       = errors.New("path exists already")
	ErrIsNotDir            = errors.New("path is not a directory")
	ErrIsNotFile           = errors.New("path is not a file")
	ErrIsNotSymlink        = errors.New("path is not a symlink")
	ErrDirContainsFiles    = errors.New("directory contains files")
	ErrParentNotFound      = errors.New("parent directory not found")
	ErrMultipleHomeSymbols = errors.New("multiple home symbols in path")
	ErrInvalidExpansion    = errors.New("invalid path expansion")
	ErrLinkLooping         = errors.New("too many levels of symbolic links")
	ErrFailedToString      = errors.New("failed to convert path to string")
)

// WrapPath wraps err as a *fs.PathError for op on path, the way every
// vfskit operation reports a failure. If err is already a *fs.PathError it
// is returned unchanged so call sites can wrap defensively without
// double-wrapping an error that already carries its own op/path.
func WrapPath(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe
	}

	return &fs.PathError{Op: op, Path: path, Err: err}
}
