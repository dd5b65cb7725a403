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
	"os/user"
	"strconv"
	"sync"
)

var (
	curUID, curGID int
	curUserOnce    sync.Once
)

// CurrentUser returns the uid/gid of the process's current user, looked up
// once and cached. New entries created by either backend default to these
// values.
func CurrentUser() (uid, gid int) {
	curUserOnce.Do(func() {
		u, err := user.Current()
		if err != nil {
			return
		}

		curUID, _ = strconv.Atoi(u.Uid)
		curGID, _ = strconv.Atoi(u.Gid)
	})

	return curUID, curGID
}
