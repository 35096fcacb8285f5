package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSegments = []Segment{
	{Speaker: "SPEAKER_00", Start: 0, End: 1, Text: "hi"},
	{Speaker: "SPEAKER_01", Start: 1, End: 2, Text: "there"},
}

func TestRender_Idempotent(t *testing.T) {
	opts := RenderOpts{ShowTime: true, ShowSpeaker: true}
	assert.Equal(t, Render(testSegments, opts), Render(testSegments, opts))
}

func TestRender_TwoSpeakers(t *testing.T) {
	res := Render(testSegments, RenderOpts{ShowSpeaker: true})
	assert.Contains(t, res, "Speaker 1")
	assert.Contains(t, res, "Speaker 2")
	assert.Contains(t, res, SpeakerColor("SPEAKER_00"))
	assert.Contains(t, res, SpeakerColor("SPEAKER_01"))
}

func TestRender_SuppressesSoleDefaultSpeaker(t *testing.T) {
	segments := []Segment{{Speaker: "SPEAKER_00", Start: 0, End: 2, Text: "hello"}}
	res := Render(segments, RenderOpts{ShowSpeaker: true})
	assert.NotContains(t, res, "Speaker 1")
	assert.Contains(t, res, "no-speaker")
	assert.Contains(t, res, "hello")
}

func TestRender_Time(t *testing.T) {
	res := Render([]Segment{{Start: 65, Text: "x"}}, RenderOpts{ShowTime: true})
	assert.Contains(t, res, "01:05")
	res = Render([]Segment{{Start: 65, Text: "x"}}, RenderOpts{})
	assert.NotContains(t, res, "ts-col")
}

func TestRender_EscapesText(t *testing.T) {
	res := Render([]Segment{{Text: "a <b> & c"}}, RenderOpts{})
	assert.Contains(t, res, "a &lt;b&gt; &amp; c")
}

func TestRender_OneSpanPerSegment(t *testing.T) {
	res := Render(testSegments, RenderOpts{})
	assert.Equal(t, len(testSegments), strings.Count(res, "clickable-sent"))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00", FormatTime(0))
	assert.Equal(t, "00:59", FormatTime(59.9))
	assert.Equal(t, "02:05", FormatTime(125))
}

func TestApplyEdits(t *testing.T) {
	segments := []Segment{{Text: "a"}, {Text: "b"}}
	ApplyEdits(segments, []string{" x ", "y"})
	assert.Equal(t, "x", segments[0].Text)
	assert.Equal(t, "y", segments[1].Text)
}

func TestApplyEdits_Mismatch(t *testing.T) {
	segments := []Segment{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	ApplyEdits(segments, []string{"x"})
	assert.Equal(t, "x", segments[0].Text)
	assert.Equal(t, "b", segments[1].Text)
	assert.Equal(t, "c", segments[2].Text)

	ApplyEdits(segments, []string{"1", "2", "3", "4"})
	assert.Equal(t, "3", segments[2].Text)
}

func TestEditSession_Discard(t *testing.T) {
	rendered := Render(testSegments, RenderOpts{})
	s := NewEditSession(rendered)
	assert.Equal(t, rendered, s.Discard())
}

func TestEditSession_Commit(t *testing.T) {
	segments := []Segment{{Text: "a"}, {Text: "b"}}
	s := NewEditSession(Render(segments, RenderOpts{}))
	s.Commit(segments, []string{"x"})
	assert.Equal(t, "x", segments[0].Text)
	assert.Equal(t, "b", segments[1].Text)
}

func TestSyncIndex(t *testing.T) {
	segments := []Segment{{Start: 1}, {Start: 2}, {Start: 2}, {Start: 5}}
	assert.Equal(t, -1, SyncIndex(segments, 0.5))
	assert.Equal(t, 0, SyncIndex(segments, 1))
	// tie on start, last in sequence order wins
	assert.Equal(t, 2, SyncIndex(segments, 2))
	assert.Equal(t, 2, SyncIndex(segments, 4.9))
	assert.Equal(t, 3, SyncIndex(segments, 100))
	assert.Equal(t, -1, SyncIndex(nil, 10))
}
