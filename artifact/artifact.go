package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Directory names under the root.
const (
	LatestDir = "latest"
	RunsDir   = "runs"
)

// Envelope wraps every persisted record.
type Envelope struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	RunID       string    `json:"run_id" yaml:"run_id"`
	Record      any       `json:"record" yaml:"record"`
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(logicalPath string) (format, error) {
	switch strings.ToLower(filepath.Ext(logicalPath)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%s: %w", logicalPath, ErrUnknownFormat)
	}
}

// clean validates a logical path and returns its OS form.
func clean(logicalPath string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(logicalPath))
	switch {
	case strings.TrimSpace(logicalPath) == "", rel == ".", filepath.IsAbs(rel), filepath.VolumeName(rel) != "":
		return "", fmt.Errorf("%q: %w", logicalPath, ErrBadPath)
	case rel == "..", strings.HasPrefix(rel, ".."+string(filepath.Separator)):
		return "", fmt.Errorf("%q: %w", logicalPath, ErrBadPath)
	}
	return rel, nil
}

// Writer writes enveloped records below a root directory.
type Writer struct {
	root  string
	runID string
	now   func() time.Time
}

// Option customizes a Writer.
type Option func(*Writer)

// WithRunID fixes the run id instead of generating a UUID.
func WithRunID(id string) Option {
	return func(w *Writer) { w.runID = id }
}

// WithClock overrides the clock used for generated_at.
func WithClock(clock func() time.Time) Option {
	return func(w *Writer) { w.now = clock }
}

// NewWriter returns a Writer rooted at root with a fresh run id.
func NewWriter(root string, opts ...Option) (*Writer, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("artifact.NewWriter: %w", ErrBadPath)
	}
	w := &Writer{root: root, runID: uuid.NewString(), now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// RunID returns the id of the run-scoped copies.
func (w *Writer) RunID() string { return w.runID }

// Root returns the root directory.
func (w *Writer) Root() string { return w.root }

// Write persists record under latest/<logicalPath> and
// runs/<run-id>/<logicalPath> and returns the latest path.
func (w *Writer) Write(logicalPath string, record any) (string, error) {
	rel, err := clean(logicalPath)
	if err != nil {
		return "", fmt.Errorf("artifact.Write: %w", err)
	}
	f, err := formatOf(rel)
	if err != nil {
		return "", fmt.Errorf("artifact.Write: %w", err)
	}
	env := Envelope{GeneratedAt: w.now().UTC(), RunID: w.runID, Record: record}
	var data []byte
	switch f {
	case formatJSON:
		data, err = json.MarshalIndent(env, "", "  ")
	case formatYAML:
		data, err = yaml.Marshal(env)
	}
	if err != nil {
		return "", fmt.Errorf("artifact.Write(%s): %w", logicalPath, err)
	}

	latest := filepath.Join(w.root, LatestDir, rel)
	for _, dest := range []string{filepath.Join(w.root, RunsDir, w.runID, rel), latest} {
		if err = writeAtomic(dest, data); err != nil {
			return "", fmt.Errorf("artifact.Write(%s): %w", logicalPath, err)
		}
	}
	return latest, nil
}

// writeAtomic writes data to a temp file next to dest, syncs it and renames
// it over dest.
func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err = os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Reader loads records written by a Writer.
type Reader struct {
	root string
}

// NewReader returns a Reader rooted at root.
func NewReader(root string) *Reader { return &Reader{root: root} }

// Read decodes the record of latest/<logicalPath> into v and returns its
// envelope metadata (Record left nil).
func (r *Reader) Read(logicalPath string, v any) (Envelope, error) {
	return r.read(LatestDir, logicalPath, v)
}

// ReadRun decodes the record written by run runID.
func (r *Reader) ReadRun(runID, logicalPath string, v any) (Envelope, error) {
	return r.read(filepath.Join(RunsDir, runID), logicalPath, v)
}

func (r *Reader) read(scope, logicalPath string, v any) (Envelope, error) {
	rel, err := clean(logicalPath)
	if err != nil {
		return Envelope{}, fmt.Errorf("artifact.Read: %w", err)
	}
	f, err := formatOf(rel)
	if err != nil {
		return Envelope{}, fmt.Errorf("artifact.Read: %w", err)
	}
	path := filepath.Join(r.root, scope, rel)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Envelope{}, &MissingArtifactError{Path: path}
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("artifact.Read(%s): %w", path, err)
	}

	var env Envelope
	switch f {
	case formatJSON:
		var raw struct {
			GeneratedAt time.Time       `json:"generated_at"`
			RunID       string          `json:"run_id"`
			Record      json.RawMessage `json:"record"`
		}
		if err = json.Unmarshal(data, &raw); err == nil {
			env = Envelope{GeneratedAt: raw.GeneratedAt, RunID: raw.RunID}
			err = json.Unmarshal(raw.Record, v)
		}
	case formatYAML:
		var raw struct {
			GeneratedAt time.Time `yaml:"generated_at"`
			RunID       string    `yaml:"run_id"`
			Record      yaml.Node `yaml:"record"`
		}
		if err = yaml.Unmarshal(data, &raw); err == nil {
			env = Envelope{GeneratedAt: raw.GeneratedAt, RunID: raw.RunID}
			err = raw.Record.Decode(v)
		}
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("artifact.Read(%s): %w", path, err)
	}
	return env, nil
}
