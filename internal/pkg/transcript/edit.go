package transcript

import "strings"

//EditSession keeps the markup snapshot taken when edit mode is entered
type EditSession struct {
	snapshot string
}

//NewEditSession starts an edit session over the current rendered markup
func NewEditSession(rendered string) *EditSession {
	return &EditSession{snapshot: rendered}
}

//Discard returns the snapshot taken at session start. No data is mutated
func (s *EditSession) Discard() string {
	return s.snapshot
}

//Commit writes the edited span texts back into segments
func (s *EditSession) Commit(segments []Segment, spans []string) {
	ApplyEdits(segments, spans)
}

//ApplyEdits writes edited span texts back into segments by positional
//index. Rendering emits one span per segment in original order, so index i
//maps to segments[i]. A span count mismatch must not fail: segments beyond
//the rendered spans are left unmodified, extra spans are ignored
func ApplyEdits(segments []Segment, spans []string) {
	for i, sp := range spans {
		if i >= len(segments) {
			return
		}
		segments[i].Text = strings.TrimSpace(sp)
	}
}
