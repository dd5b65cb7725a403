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

// Command vfsls walks a directory tree through vfskit's standard backend
// and prints it dirs-first, sorted by name.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vfskit/vfskit/stdfs"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: vfsls <path>")
	}

	root := os.Args[1]

	v, err := stdfs.NewVFS(root)
	if err != nil {
		log.Fatal().Err(err).Str("root", root).Msg("failed to open root")
	}

	it, err := v.Entries(root).DirsFirst(nil).SortByName().Walk()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start walk")
	}

	for {
		item, ok := it.Next()
		if !ok {
			break
		}

		if item.Err != nil {
			log.Warn().Err(item.Err).Msg("walk error")
			continue
		}

		fmt.Println(item.Entry.Path)
	}
}
