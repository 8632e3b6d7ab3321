package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"profilestats/internal/components/assert"
	"profilestats/internal/components/chrono"
	"profilestats/internal/components/telemetry"
)

const (
	report_store_load  = "store.load"
	report_store_save  = "store.save"
	report_store_merge = "store.merge"
)

// Store keeps one json file per source inside a directory.
// it assumes a single writer.
type Store struct {
	dir  string
	time chrono.TimeAPI
	tel  telemetry.API
}

func NewStore(dir string, time chrono.TimeAPI, tel telemetry.API) Store {
	assert.NotEmptyStr(dir)
	assert.NotNil(time)
	assert.NotNil(tel)

	return Store{
		dir:  dir,
		time: time,
		tel:  telemetry.NewScopedAPI("snapshot", tel),
	}
}

// Path returns the file backing `source`, ex. data/bilibili-stats.json
func (s Store) Path(source string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-stats.json", source))
}

// Load reads the record of `source`. when the file does not exist an empty
// record is returned together with an error wrapping os.ErrNotExist.
func (s Store) Load(source string) (Record, error) {
	path := s.Path(source)
	contents, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}

	decoder := json.NewDecoder(bytes.NewReader(contents))
	decoder.UseNumber()
	record := Record{}
	err = decoder.Decode(&record)
	if err != nil {
		s.tel.ReportBroken(report_store_load, fmt.Errorf("decode: %w", err), path)
		return Record{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return record, nil
}

// Save writes `record` to the file of `source`, creating the directory if needed.
func (s Store) Save(source string, record Record) error {
	path := s.Path(source)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(record)
	if err != nil {
		s.tel.ReportBroken(report_store_save, fmt.Errorf("encode: %w", err), path)
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		s.tel.ReportBroken(report_store_save, fmt.Errorf("mkdir: %w", err), path)
		return err
	}
	err = os.WriteFile(path, buf.Bytes(), 0644)
	if err != nil {
		s.tel.ReportBroken(report_store_save, fmt.Errorf("write: %w", err), path)
		return err
	}
	return nil
}

// Merge loads the record of `source`, merges `observed` into it and persists
// the result. nothing is written when no observed field is valid.
func (s Store) Merge(source string, observed Fields) (MergeResult, error) {
	prior, err := s.Load(source)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return MergeResult{}, err
	}

	result, err := Merge(prior, observed, s.time.Now())
	if err != nil {
		s.tel.ReportBroken(report_store_merge, err, source)
		return MergeResult{}, err
	}

	for _, name := range result.Updated {
		s.tel.ReportCount(fmt.Sprintf("%s.%s", source, name), observed[name])
	}
	for _, skip := range result.Skipped {
		kept := any("N/A")
		if skip.Kept != nil {
			kept = skip.Kept
		}
		s.tel.ReportWarning(
			report_store_merge,
			fmt.Errorf("skipped invalid %s value %d, keeping %v", skip.Field, skip.Rejected, kept),
			source,
		)
	}

	if !result.Changed() {
		s.tel.ReportWarning(report_store_merge, fmt.Errorf("no valid field observed, %s left untouched", s.Path(source)), source)
		return result, nil
	}

	err = s.Save(source, result.Record)
	if err != nil {
		return result, err
	}
	result.Written = true
	return result, nil
}
