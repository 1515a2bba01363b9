package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/vocabdeck/internal"
)

const (
	// DefaultDeckID is the fixed id so re-imports update the same deck
	DefaultDeckID int64 = 100123
	// DefaultDeckName is the name shown in Anki
	DefaultDeckName = "Vocabulary Deck"
	// BasicModelID is the id of the stock Basic note type
	BasicModelID int64 = 1559383000
)

var (
	imgRefPattern   = regexp.MustCompile(`<img[^>]*\ssrc="([^"]+)"`)
	soundRefPattern = regexp.MustCompile(`\[sound:([^\]]+)\]`)
	htmlTagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName string
	deckID   int64
	modelID  int64
	cards    []Card
	media    map[string]string // media name -> source path
}

// NewAPKGGenerator creates a new APKG generator. Zero values select the
// default deck id and name.
func NewAPKGGenerator(deckName string, deckID int64) *APKGGenerator {
	if deckName == "" {
		deckName = DefaultDeckName
	}
	if deckID == 0 {
		deckID = DefaultDeckID
	}
	return &APKGGenerator{
		deckName: deckName,
		deckID:   deckID,
		modelID:  BasicModelID,
		cards:    make([]Card, 0),
		media:    make(map[string]string),
	}
}

// AddCard adds a card and registers its image and audio files as media
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
	if card.ImageFile != "" {
		g.AddMedia(card.ImageFile)
	}
	if card.AudioFile != "" {
		g.AddMedia(card.AudioFile)
	}
}

// AddMedia bundles a file under its base name
func (g *APKGGenerator) AddMedia(path string) {
	g.media[filepath.Base(path)] = path
}

// MediaNames returns the sorted names of all bundled media files
func (g *APKGGenerator) MediaNames() []string {
	names := make([]string, 0, len(g.media))
	for name := range g.media {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CardCount returns the number of cards added so far
func (g *APKGGenerator) CardCount() int {
	return len(g.cards)
}

// GenerateAPKG creates an .apkg file
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	if err := g.checkMediaReferences(); err != nil {
		return err
	}

	// Create temporary directory for building the collection
	tempDir, err := os.MkdirTemp("", "anki_export_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := g.createZipPackage(dbPath, outputPath); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to create zip package: %w", err)
	}

	return nil
}

// checkMediaReferences makes sure every media name used on a card is bundled
// and readable
func (g *APKGGenerator) checkMediaReferences() error {
	for _, card := range g.cards {
		for _, name := range referencedMedia(card.Front) {
			if _, ok := g.media[name]; !ok {
				return fmt.Errorf("card %q references media %q that is not bundled", card.Word, name)
			}
		}
	}
	for name, path := range g.media {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("media file %s: %w", name, err)
		}
	}
	return nil
}

// referencedMedia extracts image sources and sound references from card HTML
func referencedMedia(front string) []string {
	var names []string
	for _, m := range imgRefPattern.FindAllStringSubmatch(front, -1) {
		names = append(names, m[1])
	}
	for _, m := range soundRefPattern.FindAllStringSubmatch(front, -1) {
		names = append(names, m[1])
	}
	return names
}

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := g.createTables(db); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return nil
}

// createTables creates the Anki schema 11 tables
func (g *APKGGenerator) createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE col (
			id integer PRIMARY KEY,
			crt integer NOT NULL,
			mod integer NOT NULL,
			scm integer NOT NULL,
			ver integer NOT NULL,
			dty integer NOT NULL,
			usn integer NOT NULL,
			ls integer NOT NULL,
			conf text NOT NULL,
			models text NOT NULL,
			decks text NOT NULL,
			dconf text NOT NULL,
			tags text NOT NULL
		)`,
		`CREATE TABLE notes (
			id integer PRIMARY KEY,
			guid text NOT NULL,
			mid integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			tags text NOT NULL,
			flds text NOT NULL,
			sfld text NOT NULL,
			csum integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE cards (
			id integer PRIMARY KEY,
			nid integer NOT NULL,
			did integer NOT NULL,
			ord integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			type integer NOT NULL,
			queue integer NOT NULL,
			due integer NOT NULL,
			ivl integer NOT NULL,
			factor integer NOT NULL,
			reps integer NOT NULL,
			lapses integer NOT NULL,
			left integer NOT NULL,
			odue integer NOT NULL,
			odid integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE revlog (
			id integer PRIMARY KEY,
			cid integer NOT NULL,
			usn integer NOT NULL,
			ease integer NOT NULL,
			ivl integer NOT NULL,
			lastIvl integer NOT NULL,
			factor integer NOT NULL,
			time integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE TABLE graves (
			usn integer NOT NULL,
			oid integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE INDEX ix_notes_csum ON notes (csum)`,
		`CREATE INDEX ix_notes_usn ON notes (usn)`,
		`CREATE INDEX ix_cards_usn ON cards (usn)`,
		`CREATE INDEX ix_cards_nid ON cards (nid)`,
		`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
		`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
		`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// deckConfig returns the JSON object Anki stores per deck
func deckConfig(id int64, name, desc string, mod int64) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"mod":              mod,
		"desc":             desc,
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

// insertCollection inserts the collection metadata
func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := time.Now().Unix()

	decks := map[string]any{
		"1":                         deckConfig(1, "Default", "", now),
		fmt.Sprintf("%d", g.deckID): deckConfig(g.deckID, g.deckName, "English vocabulary with Vietnamese translations", now),
	}
	models := map[string]any{
		fmt.Sprintf("%d", g.modelID): g.basicModel(now),
	}
	conf := map[string]any{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      fmt.Sprintf("%d", g.modelID),
		"dayLearnFirst": false,
	}
	dconf := map[string]any{
		"1": map[string]any{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]any{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]any{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]any{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
		},
	}

	encoded := make([]string, 0, 4)
	for _, v := range []any{conf, models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded = append(encoded, string(data))
	}

	query := `INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(query,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		encoded[0],
		encoded[1],
		encoded[2],
		encoded[3],
		"{}", // tags
	)
	return err
}

// basicModel returns the Basic note type: Front/Back and one template
func (g *APKGGenerator) basicModel(mod int64) map[string]any {
	field := func(name string, ord int) map[string]any {
		return map[string]any{
			"name":   name,
			"ord":    ord,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		}
	}

	return map[string]any{
		"id":    g.modelID,
		"name":  "Basic",
		"type":  0,
		"mod":   mod,
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		"req":   [][]any{{0, "all", []int{0}}},
		"vers":  []int{},
		"tags":  []string{},
		"latexPre": `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`,
		"latexPost": `\end{document}`,
		"flds":      []map[string]any{field("Front", 0), field("Back", 1)},
		"tmpls": []map[string]any{
			{
				"name":  "Card 1",
				"ord":   0,
				"qfmt":  "{{Front}}",
				"afmt":  "{{FrontSide}}\n\n<hr id=answer>\n\n{{Back}}",
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"css": `.card {
  font-family: arial;
  font-size: 20px;
  text-align: center;
  color: black;
  background-color: white;
}`,
	}
}

// insertNotesAndCards inserts one note and one card per Card
func (g *APKGGenerator) insertNotesAndCards(db *sql.DB) error {
	now := time.Now()
	base := now.UnixMilli()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, card := range g.cards {
		noteID := base + int64(i*2)
		cardID := noteID + 1

		// Fields are joined with the ASCII unit separator
		fields := card.Front + "\x1f" + card.Back
		sortField := stripHTML(card.Front)

		noteQuery := `INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(noteQuery,
			noteID,                       // id
			internal.NoteGUID(card.Word), // guid
			g.modelID,                    // mid
			now.Unix(),                   // mod
			-1,                           // usn
			"",                           // tags
			fields,                       // flds
			sortField,                    // sfld
			fieldChecksum(sortField),     // csum
			0,                            // flags
			"",                           // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		cardQuery := `INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err = tx.Exec(cardQuery,
			cardID,     // id
			noteID,     // nid
			g.deckID,   // did
			0,          // ord
			now.Unix(), // mod
			-1,         // usn
			0,          // type (0=new)
			0,          // queue (0=new)
			i+1,        // due (position for new cards)
			0,          // ivl
			0,          // factor
			0,          // reps
			0,          // lapses
			0,          // left
			0,          // odue
			0,          // odid
			0,          // flags
			"",         // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}
	}

	return tx.Commit()
}

// createZipPackage writes the collection, the media map and the numbered
// media entries into the .apkg zip file
func (g *APKGGenerator) createZipPackage(dbPath, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	if err := addFileToZip(archive, "collection.anki2", dbPath); err != nil {
		return err
	}

	names := g.MediaNames()
	mapping := make(map[string]string, len(names))
	for i, name := range names {
		entry := fmt.Sprintf("%d", i)
		mapping[entry] = name
		if err := addFileToZip(archive, entry, g.media[name]); err != nil {
			return fmt.Errorf("failed to add media %s: %w", name, err)
		}
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	writer, err := archive.Create("media")
	if err != nil {
		return err
	}
	if _, err := writer.Write(data); err != nil {
		return err
	}

	return archive.Close()
}

func addFileToZip(archive *zip.Writer, entry, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer, err := archive.Create(entry)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, file)
	return err
}

// stripHTML removes tags and sound references for the sort field
func stripHTML(s string) string {
	s = soundRefPattern.ReplaceAllString(s, "")
	s = htmlTagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// fieldChecksum is the first 8 hex digits of sha1(field) as integer
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}
