package util

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
)

// WriteArchive gob encodes value as the single entry of a zip archive.
func WriteArchive(writer io.Writer, entry string, value interface{}) error {
	archive := zip.NewWriter(writer)
	entryWriter, err := archive.Create(entry)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(entryWriter).Encode(value); err != nil {
		return fmt.Errorf("encoding %s: %w", entry, err)
	}
	return archive.Close()
}

// ReadArchive decodes the named entry written by WriteArchive into value.
func ReadArchive(reader io.Reader, entry string, value interface{}) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	for _, file := range archive.File {
		if file.Name != entry {
			continue
		}
		entryReader, err := file.Open()
		if err != nil {
			return err
		}
		defer entryReader.Close()
		if err := gob.NewDecoder(entryReader).Decode(value); err != nil {
			return fmt.Errorf("decoding %s: %w", entry, err)
		}
		return nil
	}
	return fmt.Errorf("archive has no %s entry", entry)
}

func WriteArchiveFile(fileName, entry string, value interface{}) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := WriteArchive(file, entry, value); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func ReadArchiveFile(fileName, entry string, value interface{}) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	return ReadArchive(file, entry, value)
}
