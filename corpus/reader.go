package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reader supplies ordered lines of normalized tokens per dataset id.
type Reader interface {
	Lines(dataset string) ([]Line, error)
}

// EvidenceReader supplies pairwise token-adjacency records per dataset id.
type EvidenceReader interface {
	Evidence(dataset string) ([]Evidence, error)
}

// RecordFile is the on-disk shape of a dataset record file.
type RecordFile struct {
	Dataset  string     `json:"dataset" yaml:"dataset"`
	Lines    []Line     `json:"lines" yaml:"lines"`
	Evidence []Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// recordExts lists the probed extensions, in priority order.
var recordExts = []string{".json", ".yaml", ".yml"}

// FileReader reads <Dir>/<dataset>.{json,yaml,yml}.
// Evidence is taken from <Dir>/<dataset>.evidence.{json,yaml,yml} when it
// exists, otherwise from the evidence field of the dataset file itself.
type FileReader struct {
	Dir string
}

var (
	_ Reader         = FileReader{}
	_ EvidenceReader = FileReader{}
)

// Lines implements Reader.
func (r FileReader) Lines(dataset string) ([]Line, error) {
	rec, err := r.load(dataset)
	if err != nil {
		return nil, err
	}
	return rec.Lines, nil
}

// Evidence implements EvidenceReader. A dataset without evidence yields
// an empty slice, not an error; the layout solver decides what empty means.
func (r FileReader) Evidence(dataset string) ([]Evidence, error) {
	rec, err := r.load(dataset + ".evidence")
	if err == nil {
		return rec.Evidence, nil
	}
	if !errors.Is(err, ErrDatasetNotFound) {
		return nil, err
	}
	rec, err = r.load(dataset)
	if err != nil {
		return nil, err
	}
	return rec.Evidence, nil
}

// Load reads a dataset and builds a Corpus resolved through table.
func (r FileReader) Load(dataset string, table FolioTable) (*Corpus, error) {
	lines, err := r.Lines(dataset)
	if err != nil {
		return nil, err
	}
	return New(dataset, lines, table)
}

func (r FileReader) load(name string) (RecordFile, error) {
	for _, ext := range recordExts {
		path := filepath.Join(r.Dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return RecordFile{}, fmt.Errorf("corpus: read %s: %w", path, err)
		}
		return DecodeRecordFile(path, data)
	}
	return RecordFile{}, fmt.Errorf("corpus: %s in %s: %w", name, r.Dir, ErrDatasetNotFound)
}

// DecodeRecordFile decodes data according to the extension of path.
func DecodeRecordFile(path string, data []byte) (RecordFile, error) {
	var rec RecordFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &rec); err != nil {
			return RecordFile{}, fmt.Errorf("corpus: decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return RecordFile{}, fmt.Errorf("corpus: decode %s: %w", path, err)
		}
	default:
		return RecordFile{}, fmt.Errorf("corpus: %s: %w", path, ErrUnknownFormat)
	}
	return rec, nil
}
