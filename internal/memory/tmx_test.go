// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTMX = `<?xml version="1.0" encoding="UTF-8"?>
<tmx version="1.4">
  <header creationtool="test" srclang="en-US" datatype="plaintext" segtype="sentence" adminlang="en" o-tmf="test"/>
  <body>
    <tu tuid="tu-1">
      <tuv xml:lang="en-US"><seg>Open the map</seg></tuv>
      <tuv xml:lang="it-IT"><seg>Apri la mappa</seg></tuv>
    </tu>
    <tu>
      <tuv xml:lang="EN"><seg>OPEN THE MAP</seg></tuv>
      <tuv xml:lang="it"><seg>APRI LA MAPPA</seg></tuv>
    </tu>
    <tu tuid="tu-3">
      <tuv lang="en"><seg>Close the map</seg></tuv>
      <tuv lang="it"><seg>Chiudi la mappa</seg></tuv>
    </tu>
    <tu tuid="tu-4">
      <tuv xml:lang="en"><seg>Only English</seg></tuv>
      <tuv xml:lang="fr"><seg>Seulement anglais</seg></tuv>
    </tu>
  </body>
</tmx>
`

func TestImportTMX(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	added, err := store.ImportTMX(ctx, strings.NewReader(sampleTMX), "en", "it")
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	e, err := store.Get(ctx, "tu-1")
	require.NoError(t, err)
	assert.Equal(t, "Apri la mappa", e.TargetText)
	assert.Equal(t, "tmx_import", e.Provider)
	assert.InDelta(t, 0.9, e.Confidence, 1e-9)
	assert.True(t, e.Verified)

	legacy, err := store.Get(ctx, "tu-3")
	require.NoError(t, err)
	assert.Equal(t, "Chiudi la mappa", legacy.TargetText)

	_, err = store.Get(ctx, "tu-4")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportTMXSkipsExistingSources(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	_, err := store.ImportTMX(ctx, strings.NewReader(sampleTMX), "en", "it")
	require.NoError(t, err)

	added, err := store.ImportTMX(ctx, strings.NewReader(sampleTMX), "en", "it")
	require.NoError(t, err)
	assert.Zero(t, added)

	all, err := store.Corpus(ctx, CorpusFilter{SourceLanguage: "en", TargetLanguage: "it"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func numberedTMX(lang, text string) string {
	return `<tmx version="1.4"><header srclang="en"/><body>
<tu tuid="1"><tuv xml:lang="en"><seg>Start game</seg></tuv><tuv xml:lang="` + lang + `"><seg>` + text + `</seg></tuv></tu>
</body></tmx>`
}

func TestImportTMXKeepsOtherPairs(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	added, err := store.ImportTMX(ctx, strings.NewReader(numberedTMX("it", "Inizia partita")), "en", "it")
	require.NoError(t, err)
	require.Equal(t, 1, added)

	added, err = store.ImportTMX(ctx, strings.NewReader(numberedTMX("fr", "Commencer la partie")), "en", "fr")
	require.NoError(t, err)
	require.Equal(t, 1, added)

	it, err := store.Corpus(ctx, CorpusFilter{SourceLanguage: "en", TargetLanguage: "it"})
	require.NoError(t, err)
	require.Len(t, it, 1)
	assert.Equal(t, "1", it[0].ID)
	assert.Equal(t, "Inizia partita", it[0].TargetText)

	fr, err := store.Corpus(ctx, CorpusFilter{SourceLanguage: "en", TargetLanguage: "fr"})
	require.NoError(t, err)
	require.Len(t, fr, 1)
	assert.NotEqual(t, "1", fr[0].ID)
	assert.Equal(t, "Commencer la partie", fr[0].TargetText)
}

func TestImportTMXKeepsManualEntryWithSameID(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	_, err := store.Add(ctx, sampleEntries()[0])
	require.NoError(t, err)

	doc := `<tmx version="1.4"><header srclang="en"/><body>
<tu tuid="menu-start"><tuv xml:lang="en"><seg>Quit</seg></tuv><tuv xml:lang="it"><seg>Esci</seg></tuv></tu>
</body></tmx>`
	added, err := store.ImportTMX(ctx, strings.NewReader(doc), "en", "it")
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	e, err := store.Get(ctx, "menu-start")
	require.NoError(t, err)
	assert.Equal(t, "Press start to continue", e.SourceText)

	all, err := store.Corpus(ctx, CorpusFilter{SourceLanguage: "en", TargetLanguage: "it"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportTMXErrors(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	_, err := store.ImportTMX(ctx, strings.NewReader(sampleTMX), "", "it")
	assert.Error(t, err)

	_, err = store.ImportTMX(ctx, strings.NewReader("<tmx><body><tu>"), "en", "it")
	assert.Error(t, err)
}

func TestWriteTMXRoundTrip(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()
	addSamples(t, store)

	var buf bytes.Buffer
	require.NoError(t, store.WriteTMX(ctx, &buf, "EN", "it"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<!DOCTYPE tmx SYSTEM "tmx14.dtd">`)
	assert.Contains(t, out, `xml:lang="en"`)
	assert.Contains(t, out, `tuid="menu-start"`)
	assert.NotContains(t, out, "Spiel laden")

	other, _ := testSetup(t)
	added, err := other.ImportTMX(ctx, &buf, "en", "it")
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	e, err := other.Get(ctx, "menu-save")
	require.NoError(t, err)
	assert.Equal(t, "Salva la partita", e.TargetText)
	assert.Equal(t, "Save the game", e.SourceText)
}

func TestLangMatches(t *testing.T) {
	tests := []struct {
		tag, want string
		match     bool
	}{
		{"en", "en", true},
		{"en-US", "en", true},
		{"EN_gb", "en", true},
		{"it", "en", false},
		{"", "en", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.match, langMatches(tt.tag, tt.want))
		})
	}
}
