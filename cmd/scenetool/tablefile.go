package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/godo/pkg/container"
	"github.com/Faultbox/godo/pkg/scene"
)

// tableFile is a scene table read either as raw bytes or from a section
// archive holding one compressed section per record.
type tableFile struct {
	table   []byte
	archive *container.Archive
}

func readTable(path string) (*tableFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene table: %w", err)
	}
	if len(data) == scene.TableSize {
		return &tableFile{table: data}, nil
	}

	archive, err := container.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s is neither a %d-byte table nor a section archive: %w", path, scene.TableSize, err)
	}
	if archive.Len() != scene.RecordCount {
		return nil, fmt.Errorf("%s: archive has %d sections, need %d", path, archive.Len(), scene.RecordCount)
	}

	table := make([]byte, 0, scene.TableSize)
	for i := 0; i < archive.Len(); i++ {
		rec, err := archive.Read(i)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(rec) != scene.RecordSize {
			return nil, fmt.Errorf("%s: section %d holds %d bytes, need %d", path, i, len(rec), scene.RecordSize)
		}
		table = append(table, rec...)
	}
	return &tableFile{table: table, archive: archive}, nil
}

// write stores the table in the format it was read in.
func (f *tableFile) write(path string) error {
	if f.archive == nil {
		return os.WriteFile(path, f.table, 0644)
	}
	recs, err := scene.Records(f.table)
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if err := f.archive.Replace(i, rec); err != nil {
			return err
		}
	}
	return f.archive.WriteFile(path)
}

func (f *tableFile) format() string {
	if f.archive != nil {
		return "archive"
	}
	return "raw"
}

// readOptional reads path, or returns nil when path is empty.
func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}
