package waveread

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

const (
	AudioFormatPCM       = 1
	AudioFormatIEEEFloat = 3
	AudioFormatALaw      = 6
	AudioFormatMULaw     = 7
)

// HeaderSize is the size of the canonical header. Sample data starts right after it.
const HeaderSize = 44

// pcmFmtSize is the fmt chunk size of plain PCM with no extra parameters.
const pcmFmtSize = 16

// Format is the descriptor the cache and decoder work from.
type Format struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// BytesPerSample is the width of one channel's sample.
func (f Format) BytesPerSample() int {
	return int(f.BitsPerSample) / 8
}

// Header mirrors the 44 bytes at the start of a canonical WAV file.
type Header struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	WaveID        [4]byte
	FmtID         [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataID        [4]byte
	DataSize      uint32
}

// Read loads the header from the start of rs.
func (h *Header) Read(rs io.ReadSeeker) error {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek header: %w", err)
	}

	if err := binary.Read(rs, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	return nil
}

// Validate reports why the header can't be read by a Reader, or nil if it can.
func (h *Header) Validate() error {
	if string(h.ChunkID[:]) != "RIFF" || string(h.WaveID[:]) != "WAVE" {
		return ErrNotWavFile
	}

	if string(h.FmtID[:]) != "fmt " || string(h.DataID[:]) != "data" || h.FmtSize != pcmFmtSize {
		return fmt.Errorf("%w: fmt size %d", ErrUnsupportedWavLayout, h.FmtSize)
	}

	if h.AudioFormat != AudioFormatPCM {
		return fmt.Errorf("%w: %d", ErrUnsupportedAudioFormat, h.AudioFormat)
	}

	switch h.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, h.BitsPerSample)
	}

	if h.NumChannels == 0 || int(h.BlockAlign) != int(h.NumChannels)*int(h.BitsPerSample/8) {
		return fmt.Errorf("%w: %d channels, %d bits, block align %d",
			ErrBlockAlignMismatch, h.NumChannels, h.BitsPerSample, h.BlockAlign)
	}

	return nil
}

// Valid is Validate as a predicate.
func (h *Header) Valid() bool {
	return h.Validate() == nil
}

// Clear zeroes every field.
func (h *Header) Clear() {
	*h = Header{}
}

// Format returns the descriptor view of the header.
func (h *Header) Format() Format {
	return Format{
		AudioFormat:   h.AudioFormat,
		NumChannels:   h.NumChannels,
		SampleRate:    h.SampleRate,
		ByteRate:      h.ByteRate,
		BlockAlign:    h.BlockAlign,
		BitsPerSample: h.BitsPerSample,
		DataSize:      h.DataSize,
	}
}

// Samples is the number of samples per channel in the data chunk.
func (h *Header) Samples() int {
	if h.BlockAlign == 0 {
		return 0
	}
	return int(h.DataSize) / int(h.BlockAlign)
}

// Duration calculates the total duration of the audio from the data chunk size,
// the block alignment, and the sample rate.
func (h *Header) Duration() time.Duration {
	if h.SampleRate == 0 {
		return 0
	}

	sec := float64(h.Samples()) / float64(h.SampleRate)

	return time.Duration(sec*1000000000) * time.Nanosecond
}
