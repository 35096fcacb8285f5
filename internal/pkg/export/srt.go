package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/quickscribe/quickscribe/internal/pkg/transcript"
)

//WriteSRT serializes segments as SubRip subtitles: 1-based sequence index,
//comma-millisecond time range, trimmed text, blank line separator
func WriteSRT(w io.Writer, segments []transcript.Segment) error {
	if len(segments) == 0 {
		return ErrNoSegments
	}
	for i, s := range segments {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1, Timestamp(s.Start, ","), Timestamp(s.End, ","), strings.TrimSpace(s.Text))
		if err != nil {
			return err
		}
	}
	return nil
}
