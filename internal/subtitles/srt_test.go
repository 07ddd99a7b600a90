package subtitles

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestWriteFormatsBlocks(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1.5, Text: "  Hello there. "},
		{Start: 3725.4, End: 3727, Text: "Arrows --> are escaped"},
	}
	var buf strings.Builder
	if err := Write(&buf, segments); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nHello there.\n\n" +
		"2\n01:02:05,400 --> 01:02:07,000\nArrows -> are escaped\n\n"
	if buf.String() != want {
		t.Fatalf("Write output mismatch\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestWriteRejectsNegativeOffsets(t *testing.T) {
	var buf strings.Builder
	err := Write(&buf, []Segment{{Start: -1, End: 1, Text: "bad"}})
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	segments := []Segment{
		{Start: 0.5, End: 2.25, Text: "First line"},
		{Start: 2.25, End: 2.25, Text: "Zero length"},
		{Start: 1, End: 4, Text: "Overlaps the first"},
		{Start: 3600.001, End: 3661.999, Text: "After an hour"},
	}
	var buf strings.Builder
	if err := Write(&buf, segments); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, segments) {
		t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", got, segments)
	}
}

func TestReadSkipsMalformedBlocks(t *testing.T) {
	input := strings.Join([]string{
		"1",
		"",
		"2",
		"no timing here",
		"text",
		"",
		"3",
		"00:00:xx,000 --> 00:00:02,000",
		"bad timestamp",
		"",
		"3b",
		"9999999999999999:00:00,000 --> 9999999999999999:00:01,000",
		"out of range",
		"",
		"4",
		"00:00:03,000 --> 00:00:04,000",
		"kept",
		"across lines",
		"",
		"",
		"5",
		"00:00:05,000 --> 00:00:06,000",
		"",
		"6",
		"00:00:07,000 --> 00:00:08,000",
		"last block without trailing blank",
	}, "\n")

	got, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Segment{
		{Start: 3, End: 4, Text: "kept across lines"},
		{Start: 5, End: 6, Text: ""},
		{Start: 7, End: 8, Text: "last block without trailing blank"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Read mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestReadHandlesCRLFAndBOM(t *testing.T) {
	input := "\ufeff1\r\n00:00:01,000 --> 00:00:02,000\r\nHola\r\n\r\n2\r\n00:00:02,000 --> 00:00:03,500\r\nmundo\r\n"
	got, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Segment{
		{Start: 1, End: 2, Text: "Hola"},
		{Start: 2, End: 3.5, Text: "mundo"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Read mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestWriteFileAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs", "a.srt")
	segments := []Segment{{Start: 1, End: 2, Text: "one"}, {Start: 2, End: 3, Text: "two"}}

	if err := WriteFile(path, segments); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(got, segments) {
		t.Fatalf("ReadFile mismatch: %+v", got)
	}
}

func TestWriteFileFailureLeavesNoArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a_es.srt")
	err := WriteFile(path, []Segment{{Start: 0, End: 1, Text: "ok"}, {Start: -5, End: 1, Text: "bad"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("partial artifact should not exist, stat err = %v", statErr)
	}
}

func TestSegmentValidateAndClone(t *testing.T) {
	if err := (Segment{Start: 2, End: 1}).Validate(); !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp for inverted segment, got %v", err)
	}
	if err := (Segment{Start: 1, End: 1}).Validate(); err != nil {
		t.Fatalf("zero-length segment should be valid: %v", err)
	}

	source := []Segment{{Start: 1, End: 2, Text: "hello"}}
	copied := Clone(source)
	copied[0] = copied[0].WithText("hola")
	if source[0].Text != "hello" {
		t.Fatalf("clone shares storage with source: %+v", source)
	}
	if copied[0].Start != 1 || copied[0].End != 2 {
		t.Fatalf("WithText changed timing: %+v", copied[0])
	}
}
