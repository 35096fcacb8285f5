package export

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

//ErrNoSegments is returned when there is nothing to export. Callers show a
//message to the user and must not produce a file
var ErrNoSegments = errors.New("no segments to export")

//Timestamp renders seconds as HH:MM:SS<sep>mmm. SRT separates milliseconds
//with a comma, VTT with a dot
func Timestamp(seconds float64, sep string) string {
	ms := int64(math.Round(seconds * 1000))
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d%s%03d",
		ms/3600000, ms/60000%60, ms/1000%60, sep, ms%1000)
}
