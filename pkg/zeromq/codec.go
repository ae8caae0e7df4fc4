package zeromq

import (
	"fmt"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/open-teleop/safeteleop/domain/teleop"
	"github.com/open-teleop/safeteleop/pkg/flatbuffers/safe_teleop/motion"
)

// minFlatbufferSize is the root offset plus the smallest possible vtable.
const minFlatbufferSize = 8

// EncodeVelocityCommand serializes cmd as a motion.Twist stamped with stamp.
func EncodeVelocityCommand(cmd teleop.VelocityCommand, stamp time.Time) []byte {
	builder := flatbuffers.NewBuilder(64)
	motion.TwistStart(builder)
	motion.TwistAddLinear(builder, cmd.Linear)
	motion.TwistAddAngular(builder, cmd.Angular)
	motion.TwistAddStampNs(builder, stampNanos(stamp))
	motion.FinishTwistBuffer(builder, motion.TwistEnd(builder))
	return builder.FinishedBytes()
}

// DecodeVelocityCommand parses a motion.Twist payload.
func DecodeVelocityCommand(data []byte) (cmd teleop.VelocityCommand, stamp time.Time, err error) {
	defer recoverMalformed(&err, "twist")
	if len(data) < minFlatbufferSize {
		return cmd, stamp, fmt.Errorf("%w: twist payload is %d bytes", ErrInvalidMessage, len(data))
	}

	twist := motion.GetRootAsTwist(data, 0)
	cmd = teleop.VelocityCommand{Linear: twist.Linear(), Angular: twist.Angular()}
	return cmd, fromNanos(twist.StampNs()), nil
}

// EncodeRangeScan serializes scan as a motion.LaserScan. Ranges are narrowed
// to float32 on the wire.
func EncodeRangeScan(scan *teleop.RangeScan) []byte {
	builder := flatbuffers.NewBuilder(64 + 4*len(scan.Ranges))

	motion.LaserScanStartRangesVector(builder, len(scan.Ranges))
	for i := len(scan.Ranges) - 1; i >= 0; i-- {
		builder.PrependFloat32(float32(scan.Ranges[i]))
	}
	ranges := builder.EndVector(len(scan.Ranges))

	motion.LaserScanStart(builder)
	motion.LaserScanAddRanges(builder, ranges)
	motion.LaserScanAddAngleMin(builder, scan.AngleMin)
	motion.LaserScanAddAngleMax(builder, scan.AngleMax)
	motion.LaserScanAddAngleIncrement(builder, scan.AngleIncrement)
	motion.LaserScanAddStampNs(builder, stampNanos(scan.CapturedAt))
	motion.FinishLaserScanBuffer(builder, motion.LaserScanEnd(builder))
	return builder.FinishedBytes()
}

// DecodeRangeScan parses a motion.LaserScan payload. A scan with no ranges is
// valid. CapturedAt is zero when the sender did not stamp the scan.
func DecodeRangeScan(data []byte) (scan *teleop.RangeScan, err error) {
	defer recoverMalformed(&err, "laser scan")
	if len(data) < minFlatbufferSize {
		return nil, fmt.Errorf("%w: laser scan payload is %d bytes", ErrInvalidMessage, len(data))
	}

	msg := motion.GetRootAsLaserScan(data, 0)
	n := msg.RangesLength()
	// Each float32 range takes four bytes of the payload, so a larger count
	// is a forged length prefix.
	if n < 0 || n > (len(data)-minFlatbufferSize)/4 {
		return nil, fmt.Errorf("%w: laser scan claims %d ranges in %d bytes", ErrInvalidMessage, n, len(data))
	}
	ranges := make([]float64, n)
	for i := 0; i < n; i++ {
		ranges[i] = float64(msg.Ranges(i))
	}

	return &teleop.RangeScan{
		Ranges:         ranges,
		AngleMin:       msg.AngleMin(),
		AngleMax:       msg.AngleMax(),
		AngleIncrement: msg.AngleIncrement(),
		CapturedAt:     fromNanos(msg.StampNs()),
	}, nil
}

// The generated accessors index the buffer directly and panic on truncated input.
func recoverMalformed(err *error, what string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: malformed %s: %v", ErrInvalidMessage, what, r)
	}
}

func stampNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
