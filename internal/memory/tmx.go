// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/transmem/pkg/types"
)

const (
	tmxVersion    = "1.4"
	tmxDoctype    = `<!DOCTYPE tmx SYSTEM "tmx14.dtd">` + "\n"
	tmxProvider   = "tmx_import"
	tmxConfidence = 0.9
)

type tmxDocument struct {
	XMLName xml.Name  `xml:"tmx"`
	Version string    `xml:"version,attr"`
	Header  tmxHeader `xml:"header"`
	Units   []tmxUnit `xml:"body>tu"`
}

type tmxHeader struct {
	CreationTool        string `xml:"creationtool,attr"`
	CreationToolVersion string `xml:"creationtoolversion,attr"`
	DataType            string `xml:"datatype,attr"`
	SegType             string `xml:"segtype,attr"`
	AdminLang           string `xml:"adminlang,attr"`
	SrcLang             string `xml:"srclang,attr"`
	OTMF                string `xml:"o-tmf,attr"`
}

type tmxUnit struct {
	TUID     string       `xml:"tuid,attr,omitempty"`
	Variants []tmxVariant `xml:"tuv"`
}

// tmxVariant carries the language in xml:lang (TMX 1.4) or, in older
// files, a plain lang attribute.
type tmxVariant struct {
	Lang       string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	LegacyLang string `xml:"lang,attr,omitempty"`
	Seg        string `xml:"seg"`
}

func (v tmxVariant) lang() string {
	if v.Lang != "" {
		return v.Lang
	}
	return v.LegacyLang
}

// ImportTMX reads a TMX document from r and stores one entry per
// translation unit that has segments for both sourceLang and targetLang.
// Units whose source text already exists for the language pair, ignoring
// case, are skipped. A unit's tuid becomes the entry ID unless that ID is
// already stored, in which case a random ID is used; existing entries are
// never overwritten. It returns the number of entries added.
func (s *Store) ImportTMX(ctx context.Context, r io.Reader, sourceLang, targetLang string) (int, error) {
	sourceLang, targetLang = normalizeLang(sourceLang), normalizeLang(targetLang)
	if sourceLang == "" || targetLang == "" {
		return 0, fmt.Errorf("source and target language are required")
	}

	var doc tmxDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("parsing TMX: %w", err)
	}

	existing, err := s.Corpus(ctx, CorpusFilter{SourceLanguage: sourceLang, TargetLanguage: targetLang})
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[strings.ToLower(e.SourceText)] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, u := range doc.Units {
		src, tgt, ok := u.pair(sourceLang, targetLang)
		if !ok || strings.TrimSpace(src) == "" || seen[strings.ToLower(src)] {
			continue
		}
		seen[strings.ToLower(src)] = true

		// TUIDs are only unique within their file; reuse one only when
		// no stored entry has it.
		id := u.TUID
		if id != "" {
			_, taken, err := lookupOwner(ctx, tx, id)
			if err != nil {
				return 0, err
			}
			if taken {
				id = ""
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		e, err := s.normalize(types.TranslationEntry{
			ID:             id,
			SourceText:     src,
			TargetText:     tgt,
			SourceLanguage: sourceLang,
			TargetLanguage: targetLang,
			Confidence:     tmxConfidence,
			Provider:       tmxProvider,
			Verified:       true,
		})
		if err != nil {
			return 0, err
		}
		if err := upsertEntry(ctx, tx, e, ""); err != nil {
			return 0, err
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing TMX import: %w", err)
	}
	s.log.Debug("tmx imported", "units", len(doc.Units), "added", added)
	return added, nil
}

// pair returns the segments for the source and target languages.
func (u tmxUnit) pair(sourceLang, targetLang string) (src, tgt string, ok bool) {
	var haveSrc, haveTgt bool
	for _, v := range u.Variants {
		switch {
		case !haveSrc && langMatches(v.lang(), sourceLang):
			src, haveSrc = v.Seg, true
		case !haveTgt && langMatches(v.lang(), targetLang):
			tgt, haveTgt = v.Seg, true
		}
	}
	return src, tgt, haveSrc && haveTgt
}

// langMatches compares language tags ignoring case, falling back to the
// primary subtag so "en-US" matches "en".
func langMatches(tag, want string) bool {
	tag = normalizeLang(tag)
	if tag == "" {
		return false
	}
	return tag == want || primarySubtag(tag) == primarySubtag(want)
}

func primarySubtag(tag string) string {
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		return tag[:i]
	}
	return tag
}

// WriteTMX writes the entries of a language pair to w as a TMX 1.4 document.
func (s *Store) WriteTMX(ctx context.Context, w io.Writer, sourceLang, targetLang string) error {
	sourceLang, targetLang = normalizeLang(sourceLang), normalizeLang(targetLang)
	entries, err := s.Corpus(ctx, CorpusFilter{SourceLanguage: sourceLang, TargetLanguage: targetLang})
	if err != nil {
		return err
	}

	doc := tmxDocument{
		Version: tmxVersion,
		Header: tmxHeader{
			CreationTool:        "transmem",
			CreationToolVersion: "1.0",
			DataType:            "plaintext",
			SegType:             "sentence",
			AdminLang:           "en",
			SrcLang:             sourceLang,
			OTMF:                "transmem",
		},
		Units: make([]tmxUnit, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Units = append(doc.Units, tmxUnit{
			TUID: e.ID,
			Variants: []tmxVariant{
				{Lang: sourceLang, Seg: e.SourceText},
				{Lang: targetLang, Seg: e.TargetText},
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header+tmxDoctype); err != nil {
		return fmt.Errorf("writing TMX header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding TMX: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing TMX: %w", err)
	}
	return nil
}
