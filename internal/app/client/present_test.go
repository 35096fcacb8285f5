package client

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
	"github.com/quickscribe/quickscribe/internal/pkg/status"
	"github.com/quickscribe/quickscribe/internal/pkg/transcript"
)

var testSegments = []transcript.Segment{
	{Speaker: "SPEAKER_00", Start: 0, End: 1.5, Text: "Hello there."},
	{Speaker: "SPEAKER_01", Start: 1.5, End: 3, Text: "Hi."},
}

func initPresentTest(t *testing.T) {
	t.Helper()
	cmdapp.Config.Set("transcript.showTime", true)
	cmdapp.Config.Set("transcript.showSpeaker", true)
	cmdapp.Config.Set("transcript.suppressAnySingle", false)
	cmdapp.Config.Set("output.file", "")
}

func TestWriteTranscript_Text(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "txt", &reconcile.Result{Kind: reconcile.Segments, Segments: testSegments})
	assert.Nil(t, err)
	assert.Contains(t, b.String(), "[00:00] Speaker 1:")
	assert.Contains(t, b.String(), "Hello there.")
	assert.Contains(t, b.String(), "Speaker 2:")
}

func TestWriteTranscript_TextSuppressesSoleDefault(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "txt", &reconcile.Result{Kind: reconcile.Segments,
		Segments: []transcript.Segment{{Speaker: "SPEAKER_00", Start: 0, End: 1, Text: "Solo."}}})
	assert.Nil(t, err)
	assert.NotContains(t, b.String(), "Speaker 1")
	assert.Contains(t, b.String(), "Solo.")
}

func TestWriteTranscript_SRT(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "srt", &reconcile.Result{Kind: reconcile.Segments, Segments: testSegments})
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(b.String(), "1\n00:00:00,000 --> 00:00:01,500\n"))
}

func TestWriteTranscript_HTML(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "html", &reconcile.Result{Kind: reconcile.Segments, Segments: testSegments})
	assert.Nil(t, err)
	assert.Contains(t, b.String(), "clickable-sent")
}

func TestWriteTranscript_RTF(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "rtf", &reconcile.Result{Kind: reconcile.Segments, Segments: testSegments})
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(b.String(), `{\rtf1`))
}

func TestWriteTranscript_PlainText(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "txt", &reconcile.Result{Kind: reconcile.PlainText, Text: "olia"})
	assert.Nil(t, err)
	assert.Equal(t, "olia\n", b.String())
}

func TestWriteTranscript_PlainTextNoTiming(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "srt", &reconcile.Result{Kind: reconcile.PlainText, Text: "olia"})
	assert.NotNil(t, err)
}

func TestWriteTranscript_Empty(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "txt", &reconcile.Result{Kind: reconcile.Empty})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "no transcript content")
}

func TestWriteTranscript_EmptySegments(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "srt", &reconcile.Result{Kind: reconcile.Segments})
	assert.NotNil(t, err)
}

func TestWriteTranscript_TextSuppressAnySingle(t *testing.T) {
	initPresentTest(t)
	cmdapp.Config.Set("transcript.suppressAnySingle", true)
	var b bytes.Buffer
	err := writeTranscript(&b, "txt", &reconcile.Result{Kind: reconcile.Segments,
		Segments: []transcript.Segment{{Speaker: "SPEAKER_05", Start: 0, End: 1, Text: "Solo."}}})
	assert.Nil(t, err)
	assert.NotContains(t, b.String(), "Speaker 6")
	assert.Contains(t, b.String(), "Solo.")
}

func TestWriteTranscript_RTFSuppressAnySingle(t *testing.T) {
	initPresentTest(t)
	cmdapp.Config.Set("transcript.suppressAnySingle", true)
	var b bytes.Buffer
	err := writeTranscript(&b, "rtf", &reconcile.Result{Kind: reconcile.Segments,
		Segments: []transcript.Segment{{Speaker: "SPEAKER_05", Start: 0, End: 1, Text: "Solo."}}})
	assert.Nil(t, err)
	assert.NotContains(t, b.String(), "Speaker 6")
}

func TestWriteOutcome_EmptyLeavesNoFile(t *testing.T) {
	initPresentTest(t)
	file := filepath.Join(t.TempDir(), "out.txt")
	cmdapp.Config.Set("output.file", file)
	cmdapp.Config.Set("output.format", "txt")

	err := writeOutcome(&reconcile.Outcome{ID: "id1", Status: status.Completed,
		Result: reconcile.Result{Kind: reconcile.Empty}})
	assert.NotNil(t, err)
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteOutcome_NoSegmentsLeavesNoFile(t *testing.T) {
	initPresentTest(t)
	file := filepath.Join(t.TempDir(), "out.srt")
	cmdapp.Config.Set("output.file", file)
	cmdapp.Config.Set("output.format", "srt")

	err := writeOutcome(&reconcile.Outcome{ID: "id1", Status: status.Completed,
		Result: reconcile.Result{Kind: reconcile.Segments}})
	assert.NotNil(t, err)
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteOutcome_WritesFile(t *testing.T) {
	initPresentTest(t)
	file := filepath.Join(t.TempDir(), "out.txt")
	cmdapp.Config.Set("output.file", file)
	cmdapp.Config.Set("output.format", "txt")

	err := writeOutcome(&reconcile.Outcome{ID: "id1", Status: status.Completed,
		Result: reconcile.Result{Kind: reconcile.Segments, Segments: testSegments}})
	assert.Nil(t, err)
	content, err := os.ReadFile(file)
	assert.Nil(t, err)
	assert.Contains(t, string(content), "Hello there.")
}

func TestWriteTranscript_UnknownFormat(t *testing.T) {
	initPresentTest(t)
	var b bytes.Buffer
	err := writeTranscript(&b, "olia", &reconcile.Result{Kind: reconcile.Segments, Segments: testSegments})
	assert.NotNil(t, err)
}
