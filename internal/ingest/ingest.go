// Package ingest reads topic records from files, stdin and followed files and
// turns them into batches for the feed.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nxadm/tail"

	"podinsights/internal/dataset"
	"podinsights/internal/model"
	"podinsights/internal/parse"
	"podinsights/internal/util/logx"
)

type SourceKind string

const (
	SourceStdin SourceKind = "stdin"
	SourceFile  SourceKind = "file"
)

type Options struct {
	Source      SourceKind
	Path        string
	Follow      bool
	FromEnd     bool // follow only: skip what is already in the file
	ScanBufSize int  // per-line max (bytes)

	Stdin io.Reader // SourceStdin input; nil means os.Stdin
}

type Line struct {
	Text   string
	Source string
	When   time.Time
}

// Read streams lines until the source is exhausted or ctx is done. Both
// channels are closed when reading stops.
func Read(ctx context.Context, opt Options) (<-chan Line, <-chan error) {
	out := make(chan Line, 1024)
	errs := make(chan error, 1)
	if opt.ScanBufSize <= 0 {
		opt.ScanBufSize = 1024 * 1024
	}

	go func() {
		defer close(out)
		defer close(errs)

		switch opt.Source {
		case SourceStdin:
			in := opt.Stdin
			if in == nil {
				in = os.Stdin
			}
			readFromReader(ctx, in, "stdin", opt.ScanBufSize, out, errs)
		case SourceFile:
			if opt.Follow {
				readFromTail(ctx, opt.Path, opt.FromEnd, out, errs)
				return
			}
			f, err := os.Open(opt.Path)
			if err != nil {
				errs <- err
				return
			}
			defer f.Close()
			readFromReader(ctx, f, opt.Path, opt.ScanBufSize, out, errs)
		default:
			errs <- errors.New("unknown source kind")
		}
	}()

	return out, errs
}

func readFromReader(ctx context.Context, r io.Reader, src string, maxBuf int, out chan<- Line, errs chan<- error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*64)
	scanner.Buffer(buf, maxBuf)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		case out <- Line{Text: scanner.Text(), Source: src, When: time.Now()}:
		}
	}
	if err := scanner.Err(); err != nil {
		errs <- err
	}
}

func readFromTail(ctx context.Context, path string, fromEnd bool, out chan<- Line, errs chan<- error) {
	cfg := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
	}
	if fromEnd {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}
	t, err := tail.TailFile(path, cfg)
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				logx.Warnf("ingest: tail %s: %v", path, l.Err)
				continue
			}
			select {
			case out <- Line{Text: l.Text, Source: path, When: time.Now()}:
			case <-ctx.Done():
				_ = t.Stop()
				return
			}
		}
	}
}

// Batch is what one drain of the line channel produced.
type Batch struct {
	Topics []model.Topic
	Bad    int
	Closed bool
}

// Drain parses up to max lines that are already buffered, waiting at most
// wait for the first one. Closed reports that the source is exhausted.
func Drain(ctx context.Context, lines <-chan Line, p parse.Parser, max int, wait time.Duration) Batch {
	var b Batch
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for n := 0; n < max; n++ {
		var l Line
		var ok bool
		if n == 0 {
			select {
			case l, ok = <-lines:
			case <-timer.C:
				return b
			case <-ctx.Done():
				b.Closed = true
				return b
			}
		} else {
			select {
			case l, ok = <-lines:
			default:
				return b
			}
		}
		if !ok {
			b.Closed = true
			return b
		}
		t, err := p.Parse(l.Text, l.Source)
		switch {
		case errors.Is(err, parse.ErrEmptyLine):
		case err != nil:
			b.Bad++
			logx.Debugf("ingest: skip line: %v", err)
		default:
			b.Topics = append(b.Topics, t)
		}
	}
	return b
}

// InitialOptions selects the startup dataset.
type InitialOptions struct {
	Builtin bool
	Path    string
	Stdin   bool
	Format  string
}

// Initial loads the startup topics: the embedded collection, then the file,
// then stdin. A YAML file is read as one document, anything else as one
// record per line.
func Initial(ctx context.Context, opt InitialOptions) ([]model.Topic, error) {
	start := time.Now()
	var topics []model.Topic
	if opt.Builtin {
		b, err := dataset.Builtin()
		if err != nil {
			return nil, err
		}
		topics = append(topics, b...)
	}
	if opt.Path != "" {
		var more []model.Topic
		var err error
		if IsYAMLDocument(opt.Path) {
			more, err = dataset.LoadFile(opt.Path)
		} else {
			more, err = readAll(ctx, Options{Source: SourceFile, Path: opt.Path}, opt.Format)
		}
		if err != nil {
			return nil, err
		}
		topics = append(topics, more...)
	}
	if opt.Stdin {
		more, err := readAll(ctx, Options{Source: SourceStdin}, opt.Format)
		if err != nil {
			return nil, err
		}
		topics = append(topics, more...)
	}
	logx.Infof("ingest: %d topics loaded in %s", len(topics), logx.Since(start))
	return topics, nil
}

func IsYAMLDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func readAll(ctx context.Context, opt Options, format string) ([]model.Topic, error) {
	p, err := parse.NewParser(format)
	if err != nil {
		return nil, err
	}
	lines, errs := Read(ctx, opt)
	var topics []model.Topic
	bad := 0
	for {
		b := Drain(ctx, lines, p, 512, time.Minute)
		topics = append(topics, b.Topics...)
		bad += b.Bad
		if b.Closed {
			break
		}
	}
	// a reader blocked on stdin never reports once the load is cancelled
	select {
	case err := <-errs:
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", opt.Source, err)
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if bad > 0 {
		logx.Warnf("ingest: %d malformed records skipped from %s", bad, opt.Source)
	}
	return topics, nil
}
