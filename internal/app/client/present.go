package client

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/export"
	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
	"github.com/quickscribe/quickscribe/internal/pkg/status"
	"github.com/quickscribe/quickscribe/internal/pkg/transcript"
)

func present(out *reconcile.Outcome) {
	if out.Status == status.Failed {
		cmdapp.Log.Errorf("Transcription failed: %s", out.Error)
		return
	}
	cmdapp.Log.Infof("Transcription completed: %s", out.ID)
	if err := writeOutcome(out); err != nil {
		cmdapp.Log.Error(err)
	}
}

//writeOutcome renders into memory first, the output file appears only when
//there is content to put into it
func writeOutcome(out *reconcile.Outcome) error {
	if out.Status == status.Failed {
		return errors.New(out.Error)
	}
	var b bytes.Buffer
	if err := writeTranscript(&b, cmdapp.Config.GetString("output.format"), &out.Result); err != nil {
		return err
	}
	w, closeFn, err := openOutput()
	if err != nil {
		return err
	}
	defer closeFn()
	_, err = w.Write(b.Bytes())
	return err
}

func openOutput() (io.Writer, func(), error) {
	path := cmdapp.Config.GetString("output.file")
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "can't create output file")
	}
	return f, func() { f.Close() }, nil
}

func writeTranscript(w io.Writer, format string, res *reconcile.Result) error {
	if res.Kind == reconcile.Empty ||
		(res.Kind == reconcile.Segments && len(res.Segments) == 0) {
		return errors.New("no transcript content to export")
	}
	if res.Kind == reconcile.PlainText {
		if format != "txt" {
			return errors.Errorf("can't export plain text as %s, no timing data", format)
		}
		_, err := io.WriteString(w, res.Text+"\n")
		return err
	}

	switch format {
	case "srt":
		return export.WriteSRT(w, res.Segments)
	case "vtt":
		return export.WriteVTT(w, res.Segments)
	case "rtf":
		return writeRTF(w, res.Segments)
	case "html":
		_, err := io.WriteString(w, transcript.Render(res.Segments, renderOpts()))
		return err
	case "txt", "":
		return writeText(w, res.Segments)
	}
	return errors.Errorf("unknown format %s", format)
}

func writeRTF(w io.Writer, segments []transcript.Segment) error {
	b := export.NewRTFBuilder()
	if err := export.BuildDocument(b, segments, export.DocOpts{
		ShowTime:    cmdapp.Config.GetBool("transcript.showTime"),
		ShowSpeaker: cmdapp.Config.GetBool("transcript.showSpeaker"),
		Suppress:    suppressRule(),
	}); err != nil {
		return err
	}
	_, err := w.Write(b.Bytes())
	return err
}

func writeText(w io.Writer, segments []transcript.Segment) error {
	showTime := cmdapp.Config.GetBool("transcript.showTime")
	showSpeaker := cmdapp.Config.GetBool("transcript.showSpeaker")
	multiple := transcript.MultipleSpeakers(segments)
	rule := suppressRule()

	for _, g := range transcript.GroupBySpeaker(segments) {
		if showSpeaker && !rule.Suppressed(g.Speaker, multiple) {
			if showTime {
				fmt.Fprintf(w, "[%s] ", transcript.FormatTime(g.Start))
			}
			fmt.Fprintf(w, "%s:\n", transcript.Labels{}.Format(g.Speaker))
		}
		fmt.Fprintf(w, "%s\n\n", g.Text())
	}
	return nil
}

//suppressRule builds the dummy-speaker policy from config
func suppressRule() transcript.SuppressRule {
	rule := transcript.SuppressRule{}
	if cmdapp.Config.GetBool("transcript.suppressAnySingle") {
		rule.Policy = transcript.SuppressAnySingle
	}
	return rule
}

func renderOpts() transcript.RenderOpts {
	return transcript.RenderOpts{
		ShowTime:    cmdapp.Config.GetBool("transcript.showTime"),
		ShowSpeaker: cmdapp.Config.GetBool("transcript.showSpeaker"),
	}
}
