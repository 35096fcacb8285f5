package reconcile

import (
	"bytes"
	"encoding/json"

	"github.com/quickscribe/quickscribe/internal/pkg/transcript"
)

//Kind tags a normalized result
type Kind int

const (
	//Empty - no recognizable content
	Empty Kind = iota
	//Segments - a structured segment list
	Segments
	//PlainText - unstructured text, no paragraph grouping possible
	PlainText
)

//Result is the canonical form of a job result
type Result struct {
	Kind     Kind
	Segments []transcript.Segment
	Text     string
}

//Normalize reduces the observed result-envelope shapes to one canonical
//form. Shapes are tried in priority order, stopping at the first match:
//result (JSON-string tolerant), output.segments, bare segments, plain
//transcription text. Nothing here fails: unusable shapes yield Empty
func Normalize(p *Payload) Result {
	if segments, ok := segmentsFromRaw(p.Result); ok {
		return Result{Kind: Segments, Segments: segments}
	}
	if segments, ok := segmentsFromRaw(p.Output); ok {
		return Result{Kind: Segments, Segments: segments}
	}
	if p.Segments != nil {
		return Result{Kind: Segments, Segments: p.Segments}
	}
	if p.Transcription != "" {
		return Result{Kind: PlainText, Text: p.Transcription}
	}
	return Result{Kind: Empty}
}

//segmentsFromRaw digs a segment list out of an envelope that is either an
//object with a segments field or a JSON-encoded string of such an object.
//Parse failures are non-fatal, the caller falls through to the next shape
func segmentsFromRaw(raw json.RawMessage) ([]transcript.Segment, bool) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 {
		return nil, false
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, false
		}
		data = []byte(s)
	}
	var envelope struct {
		Segments []transcript.Segment `json:"segments"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, false
	}
	if envelope.Segments == nil {
		return nil, false
	}
	return envelope.Segments, true
}
