package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/quickscribe/quickscribe/internal/pkg/transcript"
)

//WriteVTT serializes segments as WebVTT: header line, dot-millisecond time
//ranges, no sequence index
func WriteVTT(w io.Writer, segments []transcript.Segment) error {
	if len(segments) == 0 {
		return ErrNoSegments
	}
	if _, err := fmt.Fprint(w, "WEBVTT\n\n"); err != nil {
		return err
	}
	for _, s := range segments {
		_, err := fmt.Fprintf(w, "%s --> %s\n%s\n\n",
			Timestamp(s.Start, "."), Timestamp(s.End, "."), strings.TrimSpace(s.Text))
		if err != nil {
			return err
		}
	}
	return nil
}
