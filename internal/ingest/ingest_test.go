package ingest

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"podinsights/internal/parse"
)

const ndjson = `{"id":"tesla-1","company":"Tesla","topic":"Robotaxi launch","tags":["Tesla","Autonomy"]}

not a record
{id: rivian-1, company: Rivian, topic: R2 pricing}
{"company":"NoID"}
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInitialNDJSON(t *testing.T) {
	path := writeFile(t, "topics.ndjson", ndjson)
	topics, err := Initial(context.Background(), InitialOptions{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 2 || topics[0].ID != "tesla-1" || topics[1].Company != "Rivian" {
		t.Fatalf("unexpected topics: %+v", topics)
	}
}

func TestInitialBuiltinAndYAML(t *testing.T) {
	path := writeFile(t, "extra.yaml", "- id: ford-1\n  company: Ford\n  topic: EV margins\n")
	topics, err := Initial(context.Background(), InitialOptions{Builtin: true, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 17 || topics[16].ID != "ford-1" {
		t.Fatalf("expected builtin + 1, got %d", len(topics))
	}
}

func TestInitialMissingFile(t *testing.T) {
	if _, err := Initial(context.Background(), InitialOptions{Path: filepath.Join(t.TempDir(), "nope.ndjson")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDrainCountsBadLines(t *testing.T) {
	lines := make(chan Line, 8)
	for _, s := range []string{`{"id":"a"}`, "garbage", "", `{"id":"b"}`} {
		lines <- Line{Text: s, Source: "test"}
	}
	close(lines)
	b := Drain(context.Background(), lines, parse.AutoParser{}, 10, time.Second)
	if len(b.Topics) != 2 || b.Bad != 1 || !b.Closed {
		t.Fatalf("batch: %+v", b)
	}
}

func TestDrainTimesOut(t *testing.T) {
	lines := make(chan Line)
	b := Drain(context.Background(), lines, parse.AutoParser{}, 10, 10*time.Millisecond)
	if b.Closed || len(b.Topics) != 0 {
		t.Fatalf("batch: %+v", b)
	}
}

func TestFollowPicksUpAppends(t *testing.T) {
	path := writeFile(t, "live.ndjson", `{"id":"old-1"}`+"\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lines, _ := Read(ctx, Options{Source: SourceFile, Path: path, Follow: true, FromEnd: true})

	time.Sleep(500 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(`{"id":"new-1"}` + "\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	b := Drain(ctx, lines, parse.AutoParser{}, 10, 5*time.Second)
	if len(b.Topics) != 1 || b.Topics[0].ID != "new-1" {
		t.Fatalf("follow batch: %+v", b)
	}
}

func TestReadAllStopsOnCancelWhileStdinBlocks(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := readAll(ctx, Options{Source: SourceStdin, Stdin: r}, "auto")
		done <- err
	}()
	if _, err := w.Write([]byte(`{"id":"slow-1"}` + "\n")); err != nil {
		t.Fatal(err)
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("load did not return after cancel while stdin stayed open")
	}
}
