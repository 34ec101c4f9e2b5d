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

import "fmt"

//DiagnosticKind classifies a diagnostic. Only InvalidHeader and
//TruncatedStructure abort processing of the containing archive; every other
//kind is best-effort per entry.
type DiagnosticKind int

//Values for DiagnosticKind.
const (
	InvalidHeader DiagnosticKind = iota
	TruncatedStructure
	UnknownAddressMode
	ExternalData
	DummyEntry
	UnnamedEntry
	MissingRDP
	ShortRead
	CodecFrameError
	CodecIntegrityError
	IOError
	VisitedCycle
	SkippedLanguage
)

//String implements the fmt.Stringer interface.
func (k DiagnosticKind) String() string {
	switch k {
	case InvalidHeader:
		return "InvalidHeader"
	case TruncatedStructure:
		return "TruncatedStructure"
	case UnknownAddressMode:
		return "UnknownAddressMode"
	case ExternalData:
		return "ExternalData"
	case DummyEntry:
		return "DummyEntry"
	case UnnamedEntry:
		return "UnnamedEntry"
	case MissingRDP:
		return "MissingRdp"
	case ShortRead:
		return "ShortRead"
	case CodecFrameError:
		return "CodecFrameError"
	case CodecIntegrityError:
		return "CodecIntegrityError"
	case IOError:
		return "IoError"
	case VisitedCycle:
		return "VisitedCycle"
	case SkippedLanguage:
		return "Skipped"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

//IsFatal checks whether this kind aborts processing of the containing
//archive.
func (k DiagnosticKind) IsFatal() bool {
	return k == InvalidHeader || k == TruncatedStructure
}

//Diagnostic is one structured finding emitted during extraction: a kind plus
//the context needed to locate the problem.
type Diagnostic struct {
	Kind DiagnosticKind
	//File is the path of the archive being processed.
	File string
	//EntryIndex is the enumeration index of the affected entry, or -1 when
	//the diagnostic concerns the archive as a whole.
	EntryIndex int
	//Offset is the affected byte offset where one is known, else -1.
	Offset int64
	Detail string
}

//String implements the fmt.Stringer interface.
func (d Diagnostic) String() string {
	str := d.Kind.String() + ": " + d.File
	if d.EntryIndex >= 0 {
		str += fmt.Sprintf(" entry %d", d.EntryIndex)
	}
	if d.Offset >= 0 {
		str += fmt.Sprintf(" at offset %#x", d.Offset)
	}
	if d.Detail != "" {
		str += ": " + d.Detail
	}
	return str
}

//Report aggregates the diagnostics of one extraction session. Like an error
//collector, it lets callers record findings as they occur and decide on a
//collective outcome at the end:
//
//    report.Add(diag)
//    ...
//    if report.HasFatal() { os.Exit(2) }
type Report struct {
	Diagnostics []Diagnostic
	hasFatal    bool
}

//Add records a diagnostic.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	if d.Kind.IsFatal() {
		r.hasFatal = true
	}
}

//HasFatal checks whether any recorded diagnostic was fatal for its archive.
func (r *Report) HasFatal() bool {
	return r.hasFatal
}
