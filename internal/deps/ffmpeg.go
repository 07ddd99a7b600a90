package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const filterProbeTimeout = 10 * time.Second

// FilterLister returns the output of `ffmpeg -filters`.
type FilterLister func(ctx context.Context, binary string) ([]byte, error)

func listFilters(ctx context.Context, binary string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, "-hide_banner", "-filters")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s -filters: %w (%s)", binary, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// CheckSubtitleFilter reports whether ffmpeg was built with the libass
// "subtitles" filter that burn-in depends on.
func CheckSubtitleFilter(ctx context.Context, binary string) Status {
	return CheckSubtitleFilterWith(ctx, listFilters, binary)
}

// CheckSubtitleFilterWith is CheckSubtitleFilter with an injectable lister.
func CheckSubtitleFilterWith(ctx context.Context, list FilterLister, binary string) Status {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	status := Status{
		Name:        "FFmpeg subtitles filter",
		Command:     binary,
		Description: "Required to burn subtitles into video",
	}
	probeCtx, cancel := context.WithTimeout(ctx, filterProbeTimeout)
	defer cancel()
	out, err := list(probeCtx, binary)
	if err != nil {
		status.Detail = err.Error()
		return status
	}
	if !hasFilter(out, "subtitles") {
		status.Detail = "ffmpeg built without libass (subtitles filter missing)"
		return status
	}
	status.Available = true
	return status
}

// hasFilter scans `ffmpeg -filters` output, whose rows look like
// " ... subtitles         V->V       Render text subtitles onto input video".
func hasFilter(output []byte, name string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}
