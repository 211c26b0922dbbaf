package sim

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/gpupool"
)

// Report summarizes a simulation run.
type Report struct {
	Workload string
	Frames   int

	ImageAcquires  int
	BufferAcquires int

	// PeakImages is the largest number of images registered at the end of
	// any pass.
	PeakImages int

	// Barriers counts state changes reported by the subresource trackers.
	Barriers int

	// MaxTrackedRanges is the largest number of disjoint ranges any single
	// image tracker held.
	MaxTrackedRanges int

	Pool gpupool.Stats
}

// Write prints the report with numbers formatted for tag.
func (r *Report) Write(w io.Writer, tag language.Tag) error {
	p := message.NewPrinter(tag)
	_, err := p.Fprintf(w, `workload %q: %d frames
  acquires      %d images, %d buffers
  created       %d (%d reused, %.1f%% hit rate)
  pool          %d images, %d buffers, peak %d images
  memory        %d bytes (%d idle)
  barriers      %d
  max ranges    %d per image
`,
		r.Workload, r.Frames,
		r.ImageAcquires, r.BufferAcquires,
		r.Pool.Misses, r.Pool.Hits, r.Pool.HitRate()*100,
		r.Pool.Images, r.Pool.Buffers, r.PeakImages,
		r.Pool.TotalBytes, r.Pool.IdleBytes,
		r.Barriers,
		r.MaxTrackedRanges)
	return err
}
