package sim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gpupool/subresource"
)

// ErrBadRange is returned by ParseRange for malformed input.
var ErrBadRange = errors.New("sim: range must look like layer:count,mip:count")

// ParseRange parses "layer:count,mip:count", for example "1:1,0:4".
func ParseRange(s string) (subresource.Range, error) {
	layers, mips, ok := strings.Cut(s, ",")
	if !ok {
		return subresource.Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	lb, lc, err := parsePair(layers)
	if err != nil {
		return subresource.Range{}, fmt.Errorf("%w: %q: %w", ErrBadRange, s, err)
	}
	mb, mc, err := parsePair(mips)
	if err != nil {
		return subresource.Range{}, fmt.Errorf("%w: %q: %w", ErrBadRange, s, err)
	}
	return subresource.Range{
		BaseArrayLayer:  lb,
		ArrayLayerCount: lc,
		BaseMipLevel:    mb,
		MipLevelCount:   mc,
	}, nil
}

func parsePair(s string) (base, count uint32, err error) {
	b, c, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("missing ':' in %q", s)
	}
	bv, err := strconv.ParseUint(b, 10, 32)
	if err != nil {
		return 0, 0, err
	}
	cv, err := strconv.ParseUint(c, 10, 32)
	if err != nil {
		return 0, 0, err
	}
	return uint32(bv), uint32(cv), nil
}
