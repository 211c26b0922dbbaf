// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package subresource

const (
	// MaxSplit is the largest number of ranges Split returns.
	MaxSplit = 5

	// MaxCut is the largest number of ranges Cut returns.
	MaxCut = 4
)

// Overlaps reports whether a and b share at least one subresource.
//
// Both axes must overlap strictly: ranges that only touch along an edge do not
// overlap. Empty ranges never overlap anything. Overlaps is symmetric.
func Overlaps(a, b Range) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return uint64(a.BaseArrayLayer) < b.EndArrayLayer() && a.EndArrayLayer() > uint64(b.BaseArrayLayer) &&
		uint64(a.BaseMipLevel) < b.EndMipLevel() && a.EndMipLevel() > uint64(b.BaseMipLevel)
}

// Split partitions toCut along the edges of cutWith.
//
// toCut is first cut along the layer axis. Every resulting piece whose layers
// lie within cutWith's layers is then cut along the mip axis; other pieces are
// kept as they are. The result is a set of disjoint ranges whose union is
// exactly toCut, and exactly one of them equals the intersection of the two
// ranges when they overlap. When no cut applies the result is {toCut}.
//
// Split never returns more than MaxSplit ranges.
func Split(toCut, cutWith Range) []Range {
	return appendSplit(make([]Range, 0, MaxSplit), toCut, cutWith)
}

// Cut returns the part of toCut not covered by cutWith as a set of disjoint
// ranges.
//
// If the ranges do not overlap the result is {toCut}. If cutWith covers toCut
// entirely the result is empty. Cut never returns more than MaxCut ranges.
func Cut(toCut, cutWith Range) []Range {
	if !Overlaps(toCut, cutWith) {
		return []Range{toCut}
	}

	pieces := appendSplit(make([]Range, 0, MaxSplit), toCut, cutWith)
	out := pieces[:0]
	for _, p := range pieces {
		if !cutWith.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

func appendSplit(dst []Range, toCut, cutWith Range) []Range {
	layers, n := cutAxis(toCut.BaseArrayLayer, toCut.ArrayLayerCount,
		cutWith.BaseArrayLayer, cutWith.EndArrayLayer())

	for _, l := range layers[:n] {
		piece := toCut
		piece.BaseArrayLayer = l.start
		piece.ArrayLayerCount = l.count

		if piece.BaseArrayLayer < cutWith.BaseArrayLayer || piece.EndArrayLayer() > cutWith.EndArrayLayer() {
			dst = append(dst, piece)
			continue
		}

		mips, m := cutAxis(piece.BaseMipLevel, piece.MipLevelCount,
			cutWith.BaseMipLevel, cutWith.EndMipLevel())
		for _, s := range mips[:m] {
			p := piece
			p.BaseMipLevel = s.start
			p.MipLevelCount = s.count
			dst = append(dst, p)
		}
	}
	return dst
}

// span is a half-open interval [start, start+count) on one axis.
type span struct {
	start, count uint32
}

// cutAxis splits [start, start+count) at cutStart and cutEnd.
//
// The piece before cutStart and the piece after cutEnd are produced only when
// their extent is strictly positive and inside the interval. If at least one of
// them was produced, the remainder between them follows. With no cut the
// interval is returned whole.
func cutAxis(start, count, cutStart uint32, cutEnd uint64) (spans [3]span, n int) {
	lo := int64(cutStart) - int64(start)
	hi := int64(cutEnd) - int64(start)
	c := int64(count)

	if lo > 0 && lo < c {
		spans[n] = span{start: start, count: uint32(lo)}
		n++
	}
	if hi > 0 && hi < c {
		spans[n] = span{start: start + uint32(hi), count: uint32(c - hi)}
		n++
	}

	if n == 0 {
		spans[0] = span{start: start, count: count}
		return spans, 1
	}

	mlo, mhi := max(lo, 0), min(hi, c)
	if mhi > mlo {
		spans[n] = span{start: start + uint32(mlo), count: uint32(mhi - mlo)}
		n++
	}
	return spans, n
}
