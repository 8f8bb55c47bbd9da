package waveread

import (
	"encoding/binary"
	"slices"
)

// Layout selects the order of decoded samples.
type Layout int

const (
	// Interleaved orders samples time-major: ch0@t0, ch1@t0, ..., ch0@t1, ...
	Interleaved Layout = iota
	// Grouped orders samples channel-major: ch0@t0..tK, ch1@t0..tK, ...
	Grouped
)

func (l Layout) String() string {
	switch l {
	case Interleaved:
		return "interleaved"
	case Grouped:
		return "grouped"
	default:
		return "unknown"
	}
}

// normalizeChannels dedups and sorts the requested channel indices. The
// modulus against the channel count is taken later, per sample, so {0,1} on a
// mono file yields channel 0 twice.
func normalizeChannels(channels []int) []int {
	out := slices.Clone(channels)
	slices.Sort(out)
	return slices.Compact(out)
}

// sampleDecoder converts the bytes of one channel sample into a float in (-1, 1).
type sampleDecoder func(b []byte) float32

func decoderFor(bitsPerSample uint16) sampleDecoder {
	switch bitsPerSample {
	case 8:
		return decode8
	case 16:
		return decode16
	case 24:
		return decode24
	case 32:
		return decode32
	default:
		return nil
	}
}

// 8-bit samples are unsigned, offset by 2^7.
func decode8(b []byte) float32 {
	return float32(int(b[0])-128) / 128.0
}

func decode16(b []byte) float32 {
	return float32(int16(binary.LittleEndian.Uint16(b))) / 32768.0
}

// 24-bit samples are shifted into the top of a 32-bit word so the sign bit lands
// in place, then scaled like 32-bit.
func decode24(b []byte) float32 {
	v := int32(uint32(b[0])<<8 | uint32(b[1])<<16 | uint32(b[2])<<24)
	return float32(v) / 2147483648.0
}

func decode32(b []byte) float32 {
	return float32(int32(binary.LittleEndian.Uint32(b))) / 2147483648.0
}

// decode turns size bytes of data starting at off into floats. channels must
// already be normalized. It returns nil when the span overshoots data, when
// no channels are requested, or when the format has no decoder.
func decode(data []byte, format Format, off, size int, channels []int, stride int, layout Layout) []float32 {
	if off < 0 || size < 0 || off+size > len(data) || len(channels) == 0 || stride < 0 {
		return nil
	}

	conv := decoderFor(format.BitsPerSample)
	block := int(format.BlockAlign)
	numChans := int(format.NumChannels)
	if conv == nil || block == 0 || numChans == 0 {
		return nil
	}

	bps := format.BytesPerSample()
	step := block * (1 + stride)
	end := off + size - size%block
	frames := (end - off + step - 1) / step

	offsets := make([]int, len(channels))
	for i, ch := range channels {
		offsets[i] = (((ch % numChans) + numChans) % numChans) * bps
	}

	result := make([]float32, 0, frames*len(channels))

	switch layout {
	case Grouped:
		for _, cho := range offsets {
			for i := off; i < end; i += step {
				result = append(result, conv(data[i+cho:i+cho+bps]))
			}
		}
	default:
		for i := off; i < end; i += step {
			for _, cho := range offsets {
				result = append(result, conv(data[i+cho:i+cho+bps]))
			}
		}
	}

	return result
}
