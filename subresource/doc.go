// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package subresource partitions regions of a multi-layer, multi-mip image.
//
// A Range is a rectangle in (array layer × mip level) space. Cut computes the
// part of one range not covered by another as at most four disjoint ranges,
// and Split returns the full partition including the overlapping piece. Both
// are exact: the pieces never overlap and their union reconstructs the input,
// so a state tracker built on them issues neither missing nor redundant
// barriers.
//
// # Tracking
//
// Tracker keeps a state per subresource (for example an image layout) and
// reports which regions changed state on every Transition:
//
//	t := subresource.NewTracker(subresource.Whole(6, 10), layoutUndefined)
//	for _, c := range t.Transition(subresource.Range{
//	    BaseArrayLayer: 2, ArrayLayerCount: 1,
//	    BaseMipLevel: 0, MipLevelCount: 10,
//	}, layoutColorAttachment) {
//	    recordBarrier(c.Range, c.From, c.To)
//	}
//
// All functions in this package are pure and allocation-bounded; Tracker is
// not safe for concurrent use.
package subresource
