/*******************************************************************************
*
* Copyright 2025 nachotacos69
*
* This file is part of GE2Extra.
*
* GE2Extra is free software: you can redistribute it and/or modify it under the
* terms of the GNU General Public License as published by the Free Software
* Foundation, either version 3 of the License, or (at your option) any later
* version.
*
* GE2Extra is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR
* A PARTICULAR PURPOSE. See the GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License along with
* GE2Extra. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

package extract

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/nachotacos69/GE2Extra/src/res-extract/blz"
	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

//EntryKey identifies one entry across the (possibly localized) indexes of a
//single container: the language label (empty for plain archives) plus the
//entry's enumeration index.
type EntryKey struct {
	Language string
	Index    int
}

//ChunkEvent is one progress notification from the preloader.
type ChunkEvent struct {
	Index int
	Total int
	Name  string
}

//PreloadItem is one entry handed to the preloader.
type PreloadItem struct {
	Key   EntryKey
	Entry *pres.Entry
}

//Preloader stages the raw (still compressed) chunk of every extractable entry
//into a temp directory so that an interactive viewer can browse payloads
//without re-reading the container. It runs on its own goroutine; the path map
//is written only by that goroutine and becomes safe to read once Wait
//returns.
type Preloader struct {
	events chan ChunkEvent
	done   chan struct{}
	cancel chan struct{}
	once   sync.Once
	paths  map[EntryKey]string
}

//StartPreloader launches the background staging worker. Cancellation is
//checked between entries; entries that cannot be read (missing RDP, short
//read) are skipped silently, matching the viewer's tolerance for partially
//available containers.
func StartPreloader(env *Environment, srcPath string, data []byte, items []PreloadItem, tempDir string) *Preloader {
	p := &Preloader{
		events: make(chan ChunkEvent, len(items)),
		done:   make(chan struct{}),
		cancel: make(chan struct{}),
		paths:  make(map[EntryKey]string),
	}
	go p.run(env, srcPath, data, items, tempDir)
	return p
}

func (p *Preloader) run(env *Environment, srcPath string, data []byte, items []PreloadItem, tempDir string) {
	defer close(p.done)
	defer close(p.events)

	//the preloader owns a private RDP cache so that it never races the
	//session's main cache
	rdp := NewRDPCache(env)
	defer rdp.Close()
	srcDir := filepath.Dir(srcPath)

	for i, item := range items {
		select {
		case <-p.cancel:
			return
		default:
		}

		entry := item.Entry
		name := entry.Name.FileName()
		if name == "" {
			name = fmt.Sprintf("Unnamed_File_%d", item.Key.Index)
		}
		p.events <- ChunkEvent{Index: i, Total: len(items), Name: name}

		if entry.Dummy || entry.Location.Kind == pres.SkipUnknown ||
			entry.Location.Kind == pres.SkipExternal || entry.Location.Kind == pres.Unrecognized {
			continue
		}

		raw, ok := readChunk(data, srcDir, rdp, entry)
		if !ok || len(raw) == 0 {
			continue
		}

		langDir := item.Key.Language
		if langDir == "" {
			langDir = "_root"
		}
		dir := filepath.Join(tempDir, langDir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%d_%s", item.Key.Index, name))
		if err := ioutil.WriteFile(path, raw, 0644); err != nil {
			continue
		}
		p.paths[item.Key] = path
	}
}

//readChunk fetches an entry's raw bytes from the container or its RDP file.
func readChunk(data []byte, srcDir string, rdp *RDPCache, entry *pres.Entry) ([]byte, bool) {
	if entry.CSize == 0 {
		return nil, true
	}
	loc := entry.Location
	switch loc.Kind {
	case pres.InCurrent:
		end := loc.Offset + int64(entry.CSize)
		if end > int64(len(data)) {
			return nil, false
		}
		return data[loc.Offset:end], true
	case pres.InRDP:
		raw, err := rdp.ReadAt(loc.RDP, srcDir, loc.Offset, entry.CSize)
		if err != nil {
			return nil, false
		}
		return raw, true
	}
	return nil, false
}

//Events returns the progress channel. It is closed when the worker finishes
//or is cancelled.
func (p *Preloader) Events() <-chan ChunkEvent {
	return p.events
}

//Cancel asks the worker to stop before the next entry.
func (p *Preloader) Cancel() {
	p.once.Do(func() { close(p.cancel) })
}

//Wait blocks until the worker has finished and returns the mapping from entry
//key to staged temp path.
func (p *Preloader) Wait() map[EntryKey]string {
	<-p.done
	return p.paths
}

//Loader reads one staged chunk on demand and expands it. Loads are
//serialized; at most one is in flight at any time.
type Loader struct {
	mu sync.Mutex
}

//Load reads the staged chunk at the given path and decompresses it if it
//carries a codec tag. blz4 integrity mismatches are tolerated here: the
//viewer shows the decoded bytes either way.
func (l *Loader) Load(tempPath string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := ioutil.ReadFile(tempPath)
	if err != nil {
		return nil, err
	}
	out, err := blz.Decompress(raw)
	var integrity blz.IntegrityError
	if err != nil && !errors.As(err, &integrity) {
		return nil, err
	}
	return out, nil
}
