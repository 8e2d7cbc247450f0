// Package loader fetches and decodes language reference datasets.
//
// A dataset lives at <language>-reference-helper/<language>-commands.json
// relative to a Source, which may be a directory on disk, any fs.FS, or an
// HTTP base URL.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oakwood-commons/refx/pkg/logger"
	"github.com/oakwood-commons/refx/pkg/reference"
)

const (
	// DatasetDirSuffix is appended to a language name to form its directory.
	DatasetDirSuffix = "-reference-helper"
	// DatasetFileSuffix is appended to a language name to form its file name.
	DatasetFileSuffix = "-commands.json"
)

// maxDatasetBytes bounds how much of a dataset is read into memory.
const maxDatasetBytes = 32 << 20

// ErrNotArray is returned when a dataset's root value is not a JSON array.
var ErrNotArray = errors.New("invalid data format: expected an array")

// ErrNoLanguage is returned when Load is called without a language.
var ErrNoLanguage = errors.New("no language selected")

// DatasetPath returns the slash-separated dataset path for language.
func DatasetPath(language string) string {
	return language + DatasetDirSuffix + "/" + language + DatasetFileSuffix
}

// LoadError wraps any failure to fetch, parse or shape-check a dataset.
type LoadError struct {
	Language string
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// StatusMessage is the single user-facing message for a failed load.
func (e *LoadError) StatusMessage() string {
	return StatusMessage(e.Language)
}

// StatusMessage formats the user-facing load failure message for language.
func StatusMessage(language string) string {
	return fmt.Sprintf("Error loading data for %s. Please check your connection or try again later.", language)
}

// Load fetches the dataset for language from src and decodes it into records.
// Every failure is returned as a *LoadError.
func Load(ctx context.Context, src Source, language string) ([]reference.Record, error) {
	language = strings.TrimSpace(language)
	path := DatasetPath(language)
	fail := func(err error) ([]reference.Record, error) {
		return nil, &LoadError{Language: language, Path: path, Err: err}
	}
	if language == "" {
		return fail(ErrNoLanguage)
	}
	if strings.ContainsAny(language, `/\`) || strings.Contains(language, "..") {
		return fail(fmt.Errorf("invalid language %q", language))
	}

	lgr := logger.FromContext(ctx)
	lgr.V(1).Info("loading dataset", "language", language, "source", src.String(), "path", path)

	rc, err := src.Open(ctx, path)
	if err != nil {
		lgr.V(1).Info("dataset open failed", "language", language, "path", path, "error", err.Error())
		return fail(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDatasetBytes))
	if err != nil {
		return fail(fmt.Errorf("read: %w", err))
	}

	records, err := Decode(data)
	if err != nil {
		lgr.V(1).Info("dataset decode failed", "language", language, "path", path, "error", err.Error())
		return fail(err)
	}
	lgr.V(1).Info("dataset loaded", "language", language, "records", len(records))
	return records, nil
}
