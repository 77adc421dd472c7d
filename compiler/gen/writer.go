package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ManifestWriter writes the manifest of a graph with parallel execution:
// an index file with every class, and one file per data model.
type ManifestWriter struct {
	graph     *Graph
	outDir    string
	format    string
	generator string
	workers   int

	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks what a writer produced.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
	RunID        string
}

// ModelManifest is the per data model file: the model's API group and the
// data classes it exposes.
type ModelManifest struct {
	RunID       string            `json:"runId" yaml:"runId" msgpack:"runId"`
	Model       MultiAPIClassSpec `json:"model" yaml:"model" msgpack:"model"`
	DataClasses []string          `json:"dataClasses" yaml:"dataClasses" msgpack:"dataClasses"`
	APIClasses  []APIClassSpec    `json:"apiClasses" yaml:"apiClasses" msgpack:"apiClasses"`
}

// NewManifestWriter creates a writer for g. The directory and format come
// from the graph's config.
func NewManifestWriter(g *Graph) *ManifestWriter {
	format := g.Format
	if format == "" {
		format = FormatJSON
	}
	return &ManifestWriter{
		graph:   g,
		outDir:  g.Target,
		format:  format,
		workers: runtime.GOMAXPROCS(0),
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *ManifestWriter) WithWorkers(n int) *ManifestWriter {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithGenerator records the generator version in the manifest.
func (w *ManifestWriter) WithGenerator(version string) *ManifestWriter {
	w.generator = version
	return w
}

// Metrics returns the writer metrics.
func (w *ManifestWriter) Metrics() *WriterMetrics {
	return w.metrics
}

// fileTask is a single file to write.
type fileTask struct {
	name string // output file path (relative to outDir)
	data any
}

// WriteAll writes every manifest file in parallel.
func (w *ManifestWriter) WriteAll(ctx context.Context) error {
	if w.outDir == "" {
		return NewConfigError("Target", nil, "target directory cannot be empty")
	}
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return NewGenerationError("write", w.outDir, "create output directory", err)
	}
	m, err := Export(w.graph)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	m.RunID, m.Generator = runID, w.generator
	w.metrics.RunID = runID

	files := []fileTask{{name: "manifest." + w.ext(), data: m}}
	byName := make(map[string]APIClassSpec, len(m.APIClasses))
	for _, api := range m.APIClasses {
		byName[api.Name] = api
	}
	for i, multi := range m.MultiAPIClasses {
		mm := ModelManifest{RunID: runID, Model: multi}
		for _, api := range w.graph.MultiAPIClasses[i].APIs {
			mm.DataClasses = append(mm.DataClasses, api.DataClass.Name)
			mm.APIClasses = append(mm.APIClasses, byName[api.Name])
		}
		files = append(files, fileTask{name: multi.ClientAttribute + "." + w.ext(), data: mm})
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}
	return eg.Wait()
}

// ext returns the file extension of the writer format.
func (w *ManifestWriter) ext() string { return w.format }

// writeFile encodes and writes a single file.
func (w *ManifestWriter) writeFile(f fileTask) error {
	b, err := Encode(w.format, f.data)
	if err != nil {
		return NewGenerationError("encode", f.name, "", err)
	}
	fullPath := filepath.Join(w.outDir, f.name)
	if err := os.WriteFile(fullPath, b, 0o644); err != nil {
		return NewGenerationError("write", f.name, "", err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(b))
	w.mu.Unlock()
	return nil
}

// Encode serializes v in the given manifest format.
func Encode(format string, v any) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		return msgpack.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Decode reads a manifest written in the given format.
func Decode(format string, data []byte) (*Manifest, error) {
	m := &Manifest{}
	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, m)
	case FormatYAML:
		err = yaml.Unmarshal(data, m)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, m)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}
