package clipstamp

import (
	"time"

	"github.com/tstromberg/clipstamp/pkg/capture"
)

// Image represents a photo found under the input directory, and what was derived for it.
type Image struct {
	InPath      string
	RelPath     string
	SidecarPath string
	ModTime     time.Time

	Sample      capture.Sample
	Orientation capture.Orientation
	Taken       capture.Reconciled

	// Wrote lists the metadata keys modified for this image, if any.
	Wrote []string
}
