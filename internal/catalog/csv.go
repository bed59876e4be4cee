// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{"movieId", "title", "genres"}

// WriteCSV writes movies to path with a movieId,title,genres header,
// creating parent directories. The file is replaced atomically.
func WriteCSV(path string, movies []Movie) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".movies-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		_ = tmp.Close()
		return err
	}
	for _, m := range movies {
		if err := w.Write([]string{strconv.FormatInt(m.ID, 10), m.Title, m.Genres}); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write movie %d: %w", m.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
