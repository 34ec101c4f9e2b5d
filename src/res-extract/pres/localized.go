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

package pres

import (
	"encoding/binary"
	"fmt"
)

//Languages3 is the language order of country code 3 containers.
var Languages3 = []string{"English", "French", "Italian"}

//Languages6 is the language order of country code 6 containers.
var Languages6 = []string{"English", "French", "Italian", "Deutsch", "Español", "Russian"}

//localizedGroupCount is the fixed group count of every per-language
//sub-archive (and of the direct fileset of country code 1).
const localizedGroupCount = 8

//LanguageFilter selects which languages of a localized container are
//materialized. A nil or empty filter selects all of them.
type LanguageFilter map[string]bool

//NewLanguageFilter builds a filter from a list of language labels.
func NewLanguageFilter(languages []string) LanguageFilter {
	if len(languages) == 0 {
		return nil
	}
	f := make(LanguageFilter, len(languages))
	for _, lang := range languages {
		f[lang] = true
	}
	return f
}

//Allows checks whether the given language is selected by this filter.
func (f LanguageFilter) Allows(language string) bool {
	if len(f) == 0 {
		return true
	}
	return f[language]
}

//KnownLanguage reports whether the label names one of the six languages that
//can appear in a localized container.
func KnownLanguage(label string) bool {
	for _, lang := range Languages6 {
		if lang == label {
			return true
		}
	}
	return false
}

//LanguageSet is one per-language sub-archive of a localized container.
type LanguageSet struct {
	//Language is the language label, or "" for the direct fileset of a
	//country code 1 container.
	Language string
	Offset   uint32
	Size     uint32
	//Empty is set when the container carries a zeroed (offset, size) record
	//for this language.
	Empty bool
	//Filtered is set when a language filter excluded this set. Filtered sets
	//carry no index.
	Filtered bool
	Index    *Index
}

//LocalizedArchive is the parsed form of a localized container: one index per
//materialized language.
type LocalizedArchive struct {
	Header *LocalizedHeader
	Sets   []*LanguageSet
}

//ParseLocalized builds the per-language indexes of a localized container.
//Country code 1 yields a single direct fileset with an empty language label;
//country codes 3 and 6 yield one set per language in fixed order. The filter
//selects which sets are materialized; the others are recorded as filtered and
//carry no entries.
func ParseLocalized(data []byte, filter LanguageFilter) (*LocalizedArchive, error) {
	hdr, err := ParseLocalizedHeader(data)
	if err != nil {
		return nil, err
	}
	arc := &LocalizedArchive{Header: hdr}

	switch hdr.Country {
	case 1:
		//direct fileset: dataset group table at ConfLength, body at +64
		idx, err := parseFileset(data, hdr.ConfLength)
		if err != nil {
			return nil, err
		}
		arc.Sets = append(arc.Sets, &LanguageSet{Index: idx})
		return arc, nil
	case 3, 6:
		languages := Languages3
		if hdr.Country == 6 {
			languages = Languages6
		}
		for i, language := range languages {
			pos := int64(HeaderSize) + int64(i)*8
			if pos+8 > int64(len(data)) {
				return nil, TruncatedError{What: "language table", Offset: pos, Need: 8}
			}
			set := &LanguageSet{
				Language: language,
				Offset:   binary.LittleEndian.Uint32(data[pos : pos+4]),
				Size:     binary.LittleEndian.Uint32(data[pos+4 : pos+8]),
			}
			arc.Sets = append(arc.Sets, set)
			if set.Offset == 0 && set.Size == 0 {
				set.Empty = true
				continue
			}
			if !filter.Allows(language) {
				set.Filtered = true
				continue
			}
			set.Index, err = parseFileset(data, set.Offset)
			if err != nil {
				return nil, err
			}
		}
		return arc, nil
	}
	return nil, fmt.Errorf("unsupported country code %d in localized header", hdr.Country)
}

//parseFileset indexes one sub-archive of a localized container: a dataset
//group table of 8 records at groupOffset, followed by the fileset body at
//groupOffset+64. The body is read linearly; the group records only contribute
//their entry counts.
func parseFileset(data []byte, groupOffset uint32) (*Index, error) {
	groups, err := parseGroupTable(data, groupOffset, localizedGroupCount)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, group := range groups {
		total += int(group.EntryCount)
	}
	idx := &Index{Groups: groups}
	bodyStart := int64(groupOffset) + localizedGroupCount*GroupRecordSize
	return idx, idx.appendEntries(data, bodyStart, total)
}
