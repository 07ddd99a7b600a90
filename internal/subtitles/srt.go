package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/LazyFu/auto-subtitle/internal/fileutil"
)

const (
	timingArrow   = "-->"
	escapedArrow  = "->"
	maxSRTLineLen = 1 << 20
)

// Write renders segments as SRT blocks numbered from 1 in slice order. Text is
// trimmed and any "-->" inside it becomes "->" so it cannot be mistaken for a
// timing line.
func Write(w io.Writer, segments []Segment) error {
	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		start, err := FormatTimestamp(seg.Start, true)
		if err != nil {
			return fmt.Errorf("segment %d start: %w", i+1, err)
		}
		end, err := FormatTimestamp(seg.End, true)
		if err != nil {
			return fmt.Errorf("segment %d end: %w", i+1, err)
		}
		text := strings.ReplaceAll(strings.TrimSpace(seg.Text), timingArrow, escapedArrow)

		bw.WriteString(strconv.Itoa(i + 1))
		bw.WriteByte('\n')
		bw.WriteString(start)
		bw.WriteString(" " + timingArrow + " ")
		bw.WriteString(end)
		bw.WriteByte('\n')
		bw.WriteString(text)
		bw.WriteString("\n\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// Read parses SRT blocks separated by blank lines. Blocks with fewer than two
// lines, without a timing arrow on the second line, or with unparseable
// timestamps are dropped. Text lines are joined with spaces. Only reader
// errors are returned.
func Read(r io.Reader) ([]Segment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSRTLineLen)

	var (
		segments []Segment
		block    []string
		first    = true
	)
	flush := func() {
		if seg, ok := parseBlock(block); ok {
			segments = append(segments, seg)
		}
		block = block[:0]
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if strings.TrimSpace(line) == "" {
			if len(block) > 0 {
				flush()
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	if len(block) > 0 {
		flush()
	}
	return segments, nil
}

func parseBlock(lines []string) (Segment, bool) {
	if len(lines) < 2 {
		return Segment{}, false
	}
	startText, endText, ok := strings.Cut(lines[1], timingArrow)
	if !ok {
		return Segment{}, false
	}
	start, err := ParseTimestamp(startText)
	if err != nil {
		return Segment{}, false
	}
	end, err := ParseTimestamp(endText)
	if err != nil {
		return Segment{}, false
	}
	text := ""
	if len(lines) > 2 {
		text = strings.TrimSpace(strings.Join(lines[2:], " "))
	}
	return Segment{Start: start, End: end, Text: text}, true
}

// WriteFile writes segments to path atomically: a failed write leaves any
// previous file in place and never a partial one.
func WriteFile(path string, segments []Segment) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, segments)
	})
}

// ReadFile parses the SRT file at path.
func ReadFile(path string) ([]Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open srt: %w", err)
	}
	defer file.Close()
	return Read(file)
}
