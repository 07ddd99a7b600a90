package history

import "time"

// Run is one recorded pipeline run.
type Run struct {
	ID         string    `json:"id"`
	Target     string    `json:"target_language,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Warnings   []string  `json:"warnings,omitempty"`
	Videos     []Video   `json:"videos,omitempty"`
}

// Video is the outcome for one input video of a run.
type Video struct {
	Path           string        `json:"path"`
	Classification string        `json:"classification"`
	State          string        `json:"state"`
	Demoted        bool          `json:"demoted,omitempty"`
	Subtitle       string        `json:"subtitle,omitempty"`
	Output         string        `json:"output,omitempty"`
	SourceLanguage string        `json:"source_language,omitempty"`
	ErrorKind      string        `json:"error_kind,omitempty"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Summary is a run without its videos, as returned by List.
type Summary struct {
	ID         string    `json:"id"`
	Target     string    `json:"target_language,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Videos     int       `json:"videos"`
	Done       int       `json:"done"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// Duration is the wall time of the run.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
