// Package dataset reads tab-separated lock-in sweep files into sweep samples.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"sweepview/internal/sweep"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var (
	// ErrMissingColumn indicates the header lacks a configured column.
	ErrMissingColumn = errors.New("dataset: missing column")
	// ErrBadValue indicates a cell that does not parse as a number.
	ErrBadValue = errors.New("dataset: bad value")
)

// Columns names the header columns to read.
type Columns struct {
	Phase, S1, S2, Value string
}

// Options controls parsing.
type Options struct {
	Columns  Columns
	Encoding string // IANA charset name; empty or utf-8 reads bytes as is
}

// Load reads the file at path.
func Load(path string, opts Options) ([]sweep.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	samples, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return samples, nil
}

// Read parses a header line followed by tab-separated rows.
func Read(r io.Reader, opts Options) ([]sweep.Sample, error) {
	r, err := decoder(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bufio.NewReader(r))
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", sweep.ErrMalformedInput)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header, opts.Columns)
	if err != nil {
		return nil, err
	}

	var samples []sweep.Sample
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var vals [4]float64
		for k, col := range idx {
			if col >= len(rec) {
				return nil, fmt.Errorf("%w: line %d has %d fields", ErrBadValue, line, len(rec))
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", ErrBadValue, line, header[col], err)
			}
			vals[k] = v
		}
		samples = append(samples, sweep.Sample{
			Phase: int(math.Round(vals[0])),
			S1:    vals[1],
			S2:    vals[2],
			Value: vals[3],
		})
	}
	return samples, nil
}

func columnIndex(header []string, cols Columns) ([4]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var idx [4]int
	for k, name := range []string{cols.Phase, cols.S1, cols.S2, cols.Value} {
		i, ok := pos[name]
		if !ok {
			return idx, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		idx[k] = i
	}
	return idx, nil
}

func decoder(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Glob returns the files in dir (not recursing) whose extension is ext, sorted.
func Glob(dir, ext string) ([]string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
	if err != nil {
		return nil, err
	}

	files := matches[:0]
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// LoadResult reads path and reconstructs its grid.
func LoadResult(path string, opts Options, sweepOpts sweep.Options) (*sweep.Result, error) {
	samples, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	res, err := sweep.ReconstructWithOptions(samples, sweepOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return res, nil
}
