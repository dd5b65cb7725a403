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
	"io/fs"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	umask     fs.FileMode //nolint:gochecknoglobals // protected by umaskMu.
	umaskMu   sync.RWMutex
	umaskOnce sync.Once
)

func initUMask() {
	umaskMu.Lock()
	defer umaskMu.Unlock()

	m := unix.Umask(0)
	unix.Umask(m) // restore after read.

	umask = fs.FileMode(m)
}

// UMask returns the process's file mode creation mask.
func UMask() fs.FileMode {
	umaskOnce.Do(initUMask)

	umaskMu.RLock()
	defer umaskMu.RUnlock()

	return umask
}

// SetUMask sets the process's file mode creation mask and returns the
// previous value.
func SetUMask(mask fs.FileMode) fs.FileMode {
	umaskOnce.Do(initUMask)

	umaskMu.Lock()
	defer umaskMu.Unlock()

	prev := umask
	m := int(mask & fs.ModePerm)
	unix.Umask(m)
	umask = fs.FileMode(m)

	return prev
}

// ApplyUMask clears the bits set in the current umask from mode, as the OS
// does for newly created files and directories.
func ApplyUMask(mode fs.FileMode) fs.FileMode {
	return mode &^ UMask()
}
