package teleop

import "sync/atomic"

// RangeScanCache holds the latest range scan. Writers replace the snapshot
// wholesale; readers never see a partially written scan.
type RangeScanCache struct {
	latest atomic.Pointer[RangeScan]
}

// NewRangeScanCache returns an empty cache.
func NewRangeScanCache() *RangeScanCache {
	return &RangeScanCache{}
}

// Store replaces the cached scan. The cache takes ownership of scan; callers
// must not modify it afterwards.
func (c *RangeScanCache) Store(scan *RangeScan) {
	c.latest.Store(scan)
}

// Latest returns the most recent scan, or nil and false if none has arrived.
func (c *RangeScanCache) Latest() (*RangeScan, bool) {
	scan := c.latest.Load()
	return scan, scan != nil
}
