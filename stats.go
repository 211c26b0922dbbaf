package gpupool

import "fmt"

// Stats is a snapshot of pool occupancy.
type Stats struct {
	// Images is the number of registered images.
	Images int

	// ImagesInUse is the number of images currently lent out.
	ImagesInUse int

	// Buffers is the number of registered buffers.
	Buffers int

	// BuffersInUse is the number of buffers currently lent out.
	BuffersInUse int

	// Hits counts acquires served by an existing resource.
	Hits uint64

	// Misses counts acquires that created a resource.
	Misses uint64

	// TotalBytes estimates the memory of every registered resource.
	TotalBytes uint64

	// IdleBytes estimates the memory of free resources.
	IdleBytes uint64
}

// HitRate returns the fraction of acquires served by reuse (0.0 to 1.0).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// String returns a human-readable string of pool stats.
func (s Stats) String() string {
	return fmt.Sprintf("Pool[images %d/%d in use, buffers %d/%d in use, %.1f%% hits, %d/%d MB idle]",
		s.ImagesInUse, s.Images,
		s.BuffersInUse, s.Buffers,
		s.HitRate()*100,
		s.IdleBytes/(1024*1024),
		s.TotalBytes/(1024*1024))
}

// Stats returns current pool statistics. Destroyed entries count as
// registered but hold no memory.
func (p *Pool) Stats() Stats {
	s := Stats{
		Images:  len(p.images),
		Buffers: len(p.buffers),
		Hits:    p.hits,
		Misses:  p.misses,
	}
	for _, img := range p.images {
		var size uint64
		if img.texture != nil {
			size = img.desc.ByteSize()
		}
		s.TotalBytes += size
		if img.inUse {
			s.ImagesInUse++
		} else {
			s.IdleBytes += size
		}
	}
	for _, b := range p.buffers {
		var size uint64
		if b.buffer != nil {
			size = alignedBufferSize(b.desc.ByteSize())
		}
		s.TotalBytes += size
		if b.inUse {
			s.BuffersInUse++
		} else {
			s.IdleBytes += size
		}
	}
	return s
}
