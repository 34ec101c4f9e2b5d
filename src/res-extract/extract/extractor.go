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

//Package extract implements the recursive extraction driver for Pres
//archives. It walks a parsed index in file order, resolves each entry's
//payload location, expands compressed payloads, writes output files, and
//re-enters nested .res/.rtbl archives depth-first.
package extract

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/nachotacos69/GE2Extra/src/res-extract/blz"
	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

//Extractor drives the extraction of one session. It owns the visited set that
//bounds recursion, the RDP handle cache, and the diagnostics report.
type Extractor struct {
	Env    *Environment
	Report *Report
	//Progress, when set, receives one line per written file, plus a warning
	//line for a localized header with a non-standard signature.
	Progress io.Writer
	//OnDiagnostic, when set, is called for every diagnostic as it is
	//recorded (in addition to the report).
	OnDiagnostic func(Diagnostic)

	rdp     *RDPCache
	visited map[string]bool
	//visitedSums guards against nested archives that are bit-identical copies
	//of an ancestor: such children get a fresh path on every level, so the
	//path-keyed set alone would never terminate.
	visitedSums map[[sha256.Size]byte]bool
}

//NewExtractor initializes an Extractor for one session.
func NewExtractor(env *Environment) *Extractor {
	return &Extractor{
		Env:         env,
		Report:      &Report{},
		rdp:         NewRDPCache(env),
		visited:     make(map[string]bool),
		visitedSums: make(map[[sha256.Size]byte]bool),
	}
}

//Close releases the session's cached RDP handles.
func (x *Extractor) Close() {
	x.rdp.Close()
}

func (x *Extractor) diag(d Diagnostic) {
	x.Report.Add(d)
	if x.OnDiagnostic != nil {
		x.OnDiagnostic(d)
	}
}

func (x *Extractor) printf(format string, args ...interface{}) {
	if x.Progress != nil {
		fmt.Fprintf(x.Progress, format+"\n", args...)
	}
}

//ExtractFile processes one archive file into the given output directory. For
//localized == true the file is parsed as a localized container; .rtbl files
//are recognized by extension regardless. Nested archives encountered during
//extraction are processed recursively with the plain parser.
//
//Fatal conditions (bad header, truncated structures) abort only this archive;
//they are recorded in the report, and processing of sibling and parent
//archives continues.
func (x *Extractor) ExtractFile(path string, localized bool, outDir string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if x.visited[abs] {
		x.diag(Diagnostic{Kind: VisitedCycle, File: path, EntryIndex: -1, Offset: -1,
			Detail: "archive was already unpacked in this session"})
		return
	}
	x.visited[abs] = true

	data, err := ioutil.ReadFile(path)
	if err != nil {
		x.diag(Diagnostic{Kind: IOError, File: path, EntryIndex: -1, Offset: -1, Detail: err.Error()})
		return
	}
	sum := sha256.Sum256(data)
	if x.visitedSums[sum] {
		x.diag(Diagnostic{Kind: VisitedCycle, File: path, EntryIndex: -1, Offset: -1,
			Detail: "an identical archive was already unpacked in this session"})
		return
	}
	x.visitedSums[sum] = true

	if strings.EqualFold(filepath.Ext(path), ".rtbl") {
		x.extractIndex(path, data, pres.ParseRTBL(data), outDir)
		return
	}
	if localized {
		x.extractLocalized(path, data, outDir)
		return
	}

	idx, err := pres.ParseArchive(data)
	if err != nil {
		x.diagParseError(path, err)
		return
	}
	x.extractIndex(path, data, idx, outDir)
}

//diagParseError maps parser errors onto the diagnostic taxonomy.
func (x *Extractor) diagParseError(path string, err error) {
	var invalid pres.InvalidHeaderError
	var truncated pres.TruncatedError
	switch {
	case errors.As(err, &invalid):
		x.diag(Diagnostic{Kind: InvalidHeader, File: path, EntryIndex: -1, Offset: 0, Detail: err.Error()})
	case errors.As(err, &truncated):
		x.diag(Diagnostic{Kind: TruncatedStructure, File: path, EntryIndex: -1, Offset: truncated.Offset, Detail: err.Error()})
	default:
		x.diag(Diagnostic{Kind: InvalidHeader, File: path, EntryIndex: -1, Offset: -1, Detail: err.Error()})
	}
}

func (x *Extractor) extractLocalized(path string, data []byte, outDir string) {
	arc, err := pres.ParseLocalized(data, x.Env.Languages)
	if err != nil {
		x.diagParseError(path, err)
		return
	}
	if !arc.Header.MagicOK {
		x.printf("Warning: %s has a non-standard localized header signature", path)
	}
	for _, set := range arc.Sets {
		if set.Empty {
			continue
		}
		if set.Filtered {
			x.diag(Diagnostic{Kind: SkippedLanguage, File: path, EntryIndex: -1, Offset: -1, Detail: set.Language})
			continue
		}
		subDir := outDir
		if set.Language != "" {
			subDir = filepath.Join(outDir, set.Language)
		}
		x.extractIndex(path, data, set.Index, subDir)
	}
}

//extractIndex walks one index in file order. Collision counters are scoped to
//this walk, so two runs over identical input produce identical trees.
func (x *Extractor) extractIndex(srcPath string, data []byte, idx *pres.Index, outDir string) {
	srcDir := filepath.Dir(srcPath)
	used := make(map[string]bool)

	for _, entry := range idx.Entries {
		x.extractEntry(srcPath, srcDir, data, entry, outDir, used)
	}
}

//extractEntry runs the per-entry pipeline: resolve, read, decode, write,
//recurse. Every step may short-circuit into a diagnostic.
func (x *Extractor) extractEntry(srcPath, srcDir string, data []byte, entry *pres.Entry, outDir string, used map[string]bool) {
	if entry.Dummy {
		x.diag(Diagnostic{Kind: DummyEntry, File: srcPath, EntryIndex: entry.Index, Offset: -1,
			Detail: fmt.Sprintf("dummy entry with decompressed size %d", entry.DSize)})
		return
	}

	loc := entry.Location
	switch loc.Kind {
	case pres.SkipUnknown:
		x.diag(Diagnostic{Kind: UnknownAddressMode, File: srcPath, EntryIndex: entry.Index, Offset: -1,
			Detail: "address mode 0x00"})
		return
	case pres.SkipExternal:
		x.diag(Diagnostic{Kind: ExternalData, File: srcPath, EntryIndex: entry.Index, Offset: -1,
			Detail: "payload lives in an external dataset file"})
		return
	case pres.Unrecognized:
		x.diag(Diagnostic{Kind: UnknownAddressMode, File: srcPath, EntryIndex: entry.Index, Offset: -1,
			Detail: fmt.Sprintf("address mode %#02x", loc.Mode)})
		return
	}

	if entry.Name.IsEmpty() {
		x.diag(Diagnostic{Kind: UnnamedEntry, File: srcPath, EntryIndex: entry.Index, Offset: -1,
			Detail: "entry has no name record"})
		return
	}

	//read
	var raw []byte
	if entry.CSize > 0 {
		switch loc.Kind {
		case pres.InCurrent:
			end := loc.Offset + int64(entry.CSize)
			if end > int64(len(data)) {
				x.diag(Diagnostic{Kind: ShortRead, File: srcPath, EntryIndex: entry.Index, Offset: loc.Offset,
					Detail: fmt.Sprintf("payload of %d bytes runs past end of file", entry.CSize)})
				return
			}
			raw = data[loc.Offset:end]
		case pres.InRDP:
			var err error
			raw, err = x.rdp.ReadAt(loc.RDP, srcDir, loc.Offset, entry.CSize)
			if errors.Is(err, os.ErrNotExist) {
				x.diag(Diagnostic{Kind: MissingRDP, File: srcPath, EntryIndex: entry.Index, Offset: loc.Offset,
					Detail: loc.RDP.String()})
				return
			}
			if err != nil {
				x.diag(Diagnostic{Kind: ShortRead, File: srcPath, EntryIndex: entry.Index, Offset: loc.Offset,
					Detail: err.Error()})
				return
			}
		}
	}

	//decode
	final := raw
	if blz.IsCompressed(raw) {
		out, err := blz.Decompress(raw)
		var integrity blz.IntegrityError
		switch {
		case err == nil:
			final = out
		case errors.As(err, &integrity):
			//soft: the decoded payload is still written
			final = out
			x.diag(Diagnostic{Kind: CodecIntegrityError, File: srcPath, EntryIndex: entry.Index, Offset: loc.Offset,
				Detail: err.Error()})
		default:
			//hard codec failure: keep the raw payload so nothing is lost
			x.diag(Diagnostic{Kind: CodecFrameError, File: srcPath, EntryIndex: entry.Index, Offset: loc.Offset,
				Detail: err.Error() + " (raw payload written instead)"})
		}
	}

	//write
	dir, filename := planTarget(outDir, entry.Name, entry.NameCount)
	if err := os.MkdirAll(dir, 0755); err != nil {
		x.diag(Diagnostic{Kind: IOError, File: srcPath, EntryIndex: entry.Index, Offset: -1, Detail: err.Error()})
		return
	}
	target := uniquePath(dir, filename, used)
	if err := ioutil.WriteFile(target, final, 0644); err != nil {
		x.diag(Diagnostic{Kind: IOError, File: srcPath, EntryIndex: entry.Index, Offset: -1, Detail: err.Error()})
		return
	}
	x.printf("Extracting: %s", target)

	//recurse depth-first into nested archives; the nested tree goes into a
	//directory named after the file stem
	if entry.Name.IsArchive() && len(final) > 0 {
		nestedOut := strings.TrimSuffix(target, filepath.Ext(target))
		x.ExtractFile(target, false, nestedOut)
	}
}
