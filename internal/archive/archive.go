// Package archive exports a game as a zip file: the game record, its
// structure trees, every note and the pictures the notes point to.
package archive

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"regexp"

	"grimoires/internal/domain/models/grimoire"
)

// entryPattern is what a client-chosen id must look like to become an entry name
var entryPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Bundle is the content of one game export
type Bundle struct {
	Game       *grimoire.Game
	Structures []*grimoire.Structure
	Notes      []grimoire.Note
}

// WriteZip writes the bundle to w. Pictures are read from images (the image
// store root, laid out as <fileType>/<img>); missing pictures are skipped.
func WriteZip(w io.Writer, b *Bundle, images fs.FS) error {
	zipWriter := zip.NewWriter(w)

	if err := writeJSON(zipWriter, "game.json", b.Game); err != nil {
		return err
	}
	for _, s := range b.Structures {
		if err := writeJSON(zipWriter, path.Join("structures", s.Type+".json"), s); err != nil {
			return err
		}
	}
	for i := range b.Notes {
		note := &b.Notes[i]
		if err := writeJSON(zipWriter, noteEntry(note), note); err != nil {
			return err
		}
		if note.Img == "" || images == nil {
			continue
		}
		if err := copyImage(zipWriter, images, path.Join(note.FileType, note.Img)); err != nil {
			return err
		}
	}

	return zipWriter.Close()
}

// noteEntry names the entry of a note after its node id, or after its row
// id when the node id is not a plain token.
func noteEntry(note *grimoire.Note) string {
	if entryPattern.MatchString(note.NodeID) {
		return "notes/" + note.NodeID + ".json"
	}
	return fmt.Sprintf("notes/note-%d.json", note.ID)
}

func writeJSON(zw *zip.Writer, name string, v interface{}) error {
	fileWriter, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	enc := json.NewEncoder(fileWriter)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func copyImage(zw *zip.Writer, images fs.FS, name string) error {
	if !fs.ValidPath(name) {
		return nil
	}
	f, err := images.Open(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open image %s: %w", name, err)
	}
	defer f.Close()

	fileWriter, err := zw.Create(path.Join("images", name))
	if err != nil {
		return fmt.Errorf("create image %s: %w", name, err)
	}
	if _, err := io.Copy(fileWriter, f); err != nil {
		return fmt.Errorf("copy image %s: %w", name, err)
	}
	return nil
}
