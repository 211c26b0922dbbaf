package sim

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpupool"
	"github.com/gogpu/gpupool/subresource"
)

// initialState is the state of every subresource of a newly seen image.
const initialState = "undefined"

// Simulator replays a workload against a pool and tracks the state of every
// pooled image across frames.
type Simulator struct {
	pool     *gpupool.Pool
	workload *Workload
	logger   *slog.Logger

	// Trackers follow the pooled image, so state carries over when a
	// later pass reuses it.
	trackers map[*gpupool.PooledImage]*subresource.Tracker[string]

	report Report
}

// New returns a simulator replaying w on pool. A nil logger selects the
// package logger of gpupool.
func New(pool *gpupool.Pool, w *Workload, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = gpupool.Logger()
	}
	return &Simulator{
		pool:     pool,
		workload: w,
		logger:   logger,
		trackers: make(map[*gpupool.PooledImage]*subresource.Tracker[string]),
		report:   Report{Workload: w.Name},
	}
}

// Run replays frames frames and returns the accumulated report.
func (s *Simulator) Run(frames int) (Report, error) {
	for f := range frames {
		for i := range s.workload.Passes {
			if err := s.runPass(&s.workload.Passes[i]); err != nil {
				return s.report, fmt.Errorf("frame %d: %w", f, err)
			}
		}
		s.report.Frames++
	}
	s.report.Pool = s.pool.Stats()
	return s.report, nil
}

func (s *Simulator) runPass(p *Pass) (err error) {
	images := make(map[string]*gpupool.PooledImage, len(p.Images))
	var acquired []*gpupool.PooledImage
	var buffers []*gpupool.PooledBuffer

	// Everything acquired by the pass is released on every exit path.
	defer func() {
		for _, img := range acquired {
			if rerr := s.pool.ReleaseImage(img); rerr != nil && err == nil {
				err = rerr
			}
		}
		for _, b := range buffers {
			if rerr := s.pool.ReleaseBuffer(b); rerr != nil && err == nil {
				err = rerr
			}
		}
	}()

	for i := range p.Images {
		decl := &p.Images[i]
		desc, err := decl.Descriptor()
		if err != nil {
			return err
		}
		img, err := s.pool.AcquireImage(desc)
		if err != nil {
			return fmt.Errorf("pass %q: %w", p.Name, err)
		}
		acquired = append(acquired, img)
		s.report.ImageAcquires++
		if _, dup := images[decl.Name]; dup {
			return fmt.Errorf("pass %q: %w: %q", p.Name, ErrDuplicateImage, decl.Name)
		}
		images[decl.Name] = img
	}
	for i := range p.Buffers {
		desc, err := p.Buffers[i].Descriptor()
		if err != nil {
			return err
		}
		b, err := s.pool.AcquireBuffer(desc)
		if err != nil {
			return fmt.Errorf("pass %q: %w", p.Name, err)
		}
		buffers = append(buffers, b)
		s.report.BufferAcquires++
	}

	for i := range p.Transitions {
		t := &p.Transitions[i]
		img, ok := images[t.Image]
		if !ok {
			return fmt.Errorf("pass %q: %w: %q", p.Name, ErrUnknownImage, t.Image)
		}
		tr := s.tracker(img)
		changes := tr.Transition(t.Range(tr.Whole()), t.State)
		for _, c := range changes {
			s.logger.Debug("sim: barrier",
				"pass", p.Name, "image", t.Image,
				"range", c.Range.String(), "from", c.From, "to", c.To)
		}
		s.report.Barriers += len(changes)
		s.report.MaxTrackedRanges = max(s.report.MaxTrackedRanges, tr.Len())
	}

	s.report.PeakImages = max(s.report.PeakImages, s.pool.Stats().Images)
	return nil
}

func (s *Simulator) tracker(img *gpupool.PooledImage) *subresource.Tracker[string] {
	tr, ok := s.trackers[img]
	if !ok {
		tr = subresource.NewTracker(img.Subresources(), initialState)
		s.trackers[img] = tr
	}
	return tr
}
