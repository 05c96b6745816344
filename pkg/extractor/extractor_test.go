package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/logdocker/pkg/record"
)

const (
	lineEmbedded = `Jun 14 15:16:01 node1 portworx[1234]: time="2023-06-14T15:16:01Z" level=info msg="uploading object" file="objectstore.go:88" component=porx/pkg/objectstore pkg=driver`
	lineQuoted   = `Jun 14 15:16:02 node1 portworx[1234]: time="2023-06-14T15:16:02Z" level=error msg="attach failed" file="volume.go:42" component="porx/storage" pkg=volume`
	linePlain    = `Jun 14 15:16:03 node2 pxd[77]: time="2023-06-14T15:16:03Z" level=warning msg="slow backup" file="cloudsnap_backup.go:10" component=porx/cloudsnap`
)

func TestExtract_AllFields(t *testing.T) {
	rec, ok := Extract(linePlain)
	if !ok {
		t.Fatal("Extract() returned false for a valid line")
	}

	want := record.LogRecord{
		Date:      "Jun 14 15:16:03",
		Host:      "node2",
		Process:   "pxd",
		PID:       "77",
		LogTime:   "2023-06-14T15:16:03Z",
		Level:     "warning",
		Message:   "slow backup",
		File:      "cloudsnap_backup.go:10",
		Component: "porx/cloudsnap",
	}
	if rec != want {
		t.Errorf("Extract() = %+v, want %+v", rec, want)
	}
	if rec.HasSubcomponent() {
		t.Error("HasSubcomponent() = true, want absent")
	}
}

func TestExtract_EmbeddedSubcomponent(t *testing.T) {
	rec, ok := Extract(lineEmbedded)
	if !ok {
		t.Fatal("Extract() returned false")
	}
	if rec.Component != "porx/pkg/objectstore" {
		t.Errorf("Component = %q, want %q", rec.Component, "porx/pkg/objectstore")
	}
	if rec.Subcomponent != "pkg=driver" {
		t.Errorf("Subcomponent = %q, want %q", rec.Subcomponent, "pkg=driver")
	}
}

func TestExtract_SeparateSubcomponent(t *testing.T) {
	rec, ok := Extract(lineQuoted)
	if !ok {
		t.Fatal("Extract() returned false")
	}
	if rec.Component != "porx/storage" {
		t.Errorf("Component = %q, want %q", rec.Component, "porx/storage")
	}
	if rec.Subcomponent != "pkg=volume" {
		t.Errorf("Subcomponent = %q, want %q", rec.Subcomponent, "pkg=volume")
	}
}

func TestExtract_QuotedPkgAfterUnquotedComponent(t *testing.T) {
	line := `Jun 14 15:16:01 node1 portworx[1]: time="t" level=info msg="m" file="f.go" component=porx/storage pkg="volume"`
	rec, ok := Extract(line)
	if !ok {
		t.Fatal("Extract() returned false")
	}
	if rec.Component != "porx/storage" || rec.Subcomponent != "pkg=volume" {
		t.Errorf("got (%q, %q), want (%q, %q)", rec.Component, rec.Subcomponent, "porx/storage", "pkg=volume")
	}
}

func TestExtract_TrailingNewline(t *testing.T) {
	rec, ok := Extract(lineEmbedded + "\n")
	if !ok {
		t.Fatal("Extract() returned false")
	}
	if strings.ContainsAny(rec.Subcomponent, "\n\"") {
		t.Errorf("Subcomponent = %q, contains newline or quote", rec.Subcomponent)
	}
	if strings.ContainsAny(rec.Component, "\n\"") {
		t.Errorf("Component = %q, contains newline or quote", rec.Component)
	}
}

func TestExtract_EmptyQuotedFields(t *testing.T) {
	line := `Jun 14 15:16:01 node1 portworx[1]: time="" level=info msg="" file="" component=x`
	rec, ok := Extract(line)
	if !ok {
		t.Fatal("Extract() returned false for empty quoted fields")
	}
	if rec.Message != "" || rec.LogTime != "" || rec.File != "" {
		t.Errorf("expected empty quoted fields, got %+v", rec)
	}
	if rec.Component != "x" {
		t.Errorf("Component = %q, want %q", rec.Component, "x")
	}
}

func TestExtract_PIDPreservesDigits(t *testing.T) {
	line := `Jun 14 15:16:01 node1 portworx[000123456789012345678901]: time="t" level=info msg="m" file="f" component=c`
	rec, ok := Extract(line)
	if !ok {
		t.Fatal("Extract() returned false")
	}
	if rec.PID != "000123456789012345678901" {
		t.Errorf("PID = %q, want exact digits", rec.PID)
	}
}

func TestExtract_NoMatch(t *testing.T) {
	lines := []string{
		"",
		"random text",
		`Jun 14 15:16:01 node1 portworx: time="t" level=info msg="m" file="f" component=c`,
		`Jun 14 15:16:01 node1 portworx[abc]: time="t" level=info msg="m" file="f" component=c`,
		`Jun 14 15:16:01 node1 portworx[1]: level=info msg="m" file="f" component=c`,
		`  Jun 14 15:16:01 node1 portworx[1]: time="t" level=info msg="m" file="f" component=c`,
		`Jun 14 15:16:01 node1 portworx[1]: time="t" level=info msg="m" file="f" component=`,
	}
	for _, line := range lines {
		if rec, ok := Extract(line); ok {
			t.Errorf("Extract(%q) = %+v, want no match", line, rec)
		}
	}
}

func TestExtract_EmbeddedWinsOverSeparate(t *testing.T) {
	line := `Jun 14 15:16:01 node1 portworx[1]: time="t" level=info msg="m" file="f" component="a pkg=b" pkg=c`
	rec, ok := Extract(line)
	if !ok {
		t.Fatal("Extract() returned false")
	}
	if rec.Component != "a" || rec.Subcomponent != "pkg=b" {
		t.Errorf("Extract() = (%q, %q), want (%q, %q)", rec.Component, rec.Subcomponent, "a", "pkg=b")
	}
}

func TestExtract_TrailingContentIgnored(t *testing.T) {
	line := `Jun 14 15:16:01 node1 portworx[1]: time="t" level=info msg="m" file="f" component="c" trailing junk`
	rec, ok := Extract(line)
	if !ok {
		t.Fatal("Extract() returned false")
	}
	if rec.Component != "c" {
		t.Errorf("Component = %q, want %q", rec.Component, "c")
	}
}

func TestSplitComponent(t *testing.T) {
	tests := []struct {
		name     string
		rawComp  string
		rawSub   string
		captured bool
		wantComp string
		wantSub  string
	}{
		{"embedded", "porx/pkg/objectstore pkg=driver", "", false, "porx/pkg/objectstore", "pkg=driver"},
		{"separate", "porx/storage", "pkg=volume", true, "porx/storage", "pkg=volume"},
		{"none", "porx/storage", "", false, "porx/storage", ""},
		{"quotes and newline", "\"porx/storage\"\n", "\"pkg=volume\"\n", true, "porx/storage", "pkg=volume"},
		{"embedded quoted", "porx/a pkg=\"b\"\n", "", false, "porx/a", "pkg=b"},
		{"first occurrence", "a pkg=b pkg=c", "", false, "a", "pkg=b pkg=c"},
		{"embedded wins", "a pkg=b", "pkg=c", true, "a", "pkg=b"},
		{"captured empty", "a", "", true, "a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, sub := SplitComponent(tt.rawComp, tt.rawSub, tt.captured)
			if comp != tt.wantComp || sub != tt.wantSub {
				t.Errorf("SplitComponent(%q, %q, %v) = (%q, %q), want (%q, %q)",
					tt.rawComp, tt.rawSub, tt.captured, comp, sub, tt.wantComp, tt.wantSub)
			}
		})
	}
}

func TestSplitComponent_Idempotent(t *testing.T) {
	inputs := [][2]string{
		{"porx/pkg/objectstore pkg=driver", ""},
		{"\"porx/storage\"", "pkg=\"volume\"\n"},
		{"porx/storage", ""},
	}
	for _, in := range inputs {
		comp, sub := SplitComponent(in[0], in[1], in[1] != "")
		comp2, sub2 := SplitComponent(comp, sub, sub != "")
		if comp != comp2 || sub != sub2 {
			t.Errorf("second pass changed (%q, %q) to (%q, %q)", comp, sub, comp2, sub2)
		}
	}
}

func TestExtractLines_OrderAndDrops(t *testing.T) {
	lines := []string{lineEmbedded, "garbage", lineQuoted}
	records, err := New().ExtractLines(context.Background(), lines, 1)
	if err != nil {
		t.Fatalf("ExtractLines() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Level != "info" || records[1].Level != "error" {
		t.Errorf("records out of order: %q, %q", records[0].Level, records[1].Level)
	}
}

func TestExtractLines_ParallelPreservesOrder(t *testing.T) {
	var lines []string
	for i := 0; i < 5000; i++ {
		if i%7 == 0 {
			lines = append(lines, "unparseable")
			continue
		}
		lines = append(lines, fmt.Sprintf(
			`Jun 14 15:16:01 node1 portworx[%d]: time="t" level=info msg="m" file="f" component=c`, i))
	}

	e := New()
	seq, err := e.ExtractLines(context.Background(), lines, 1)
	if err != nil {
		t.Fatalf("sequential error = %v", err)
	}
	par, err := e.ExtractLines(context.Background(), lines, 4)
	if err != nil {
		t.Fatalf("parallel error = %v", err)
	}

	if len(seq) != len(par) {
		t.Fatalf("parallel returned %d records, sequential %d", len(par), len(seq))
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("record %d differs: %+v vs %+v", i, seq[i], par[i])
		}
	}
}

func TestExtractLines_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ExtractLines(ctx, []string{lineEmbedded}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ExtractLines() error = %v, want context.Canceled", err)
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "px.log")
	content := lineEmbedded + "\n" + "not a log line\n" + "\n" + linePlain + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New().ExtractFile(context.Background(), path, 2)
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if result.LinesRead != 4 {
		t.Errorf("LinesRead = %d, want 4", result.LinesRead)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(result.Records))
	}
	if result.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", result.Dropped())
	}
	if result.Records[0].Host != "node1" || result.Records[1].Host != "node2" {
		t.Errorf("unexpected record order: %+v", result.Records)
	}
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := New().ExtractFile(context.Background(), "/nonexistent/px.log", 1)
	if err == nil {
		t.Fatal("ExtractFile() expected error for missing file")
	}

	var accessErr *InputAccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("error = %T, want *InputAccessError", err)
	}
	if accessErr.Path != "/nonexistent/px.log" {
		t.Errorf("Path = %q", accessErr.Path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("error should unwrap to os.ErrNotExist")
	}
}

func TestReadLines_Numbers(t *testing.T) {
	lines, err := ReadLines(context.Background(), strings.NewReader("a\n\nb"))
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[2].Num != 3 || lines[2].Text != "b" {
		t.Errorf("lines[2] = %+v, want {b 3}", lines[2])
	}
}

func TestReadLines_CRLFAndNoFinalNewline(t *testing.T) {
	lines, err := ReadLines(context.Background(), strings.NewReader("a\r\nb\n\nc"))
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	want := []string{"a", "b", "", "c"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, w := range want {
		if lines[i].Text != w || lines[i].Num != i+1 {
			t.Errorf("lines[%d] = %+v, want {%s %d}", i, lines[i], w, i+1)
		}
	}
}

func TestExtractFile_LongLine(t *testing.T) {
	msg := strings.Repeat("m", 2<<20)
	long := fmt.Sprintf(`Jun 14 15:16:02 node1 portworx[1]: time="t" level=info msg="%s" file="f.go" component=porx/a`, msg)
	path := filepath.Join(t.TempDir(), "px.log")
	content := linePlain + "\n" + long + "\n" + lineEmbedded + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New().ExtractFile(context.Background(), path, 1)
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if result.LinesRead != 3 || len(result.Records) != 3 {
		t.Fatalf("read/records = %d/%d, want 3/3", result.LinesRead, len(result.Records))
	}
	if len(result.Records[1].Message) != len(msg) {
		t.Errorf("long message truncated to %d bytes", len(result.Records[1].Message))
	}
}
