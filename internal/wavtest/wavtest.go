// Package wavtest builds WAV fixtures and misbehaving byte sources for tests.
package wavtest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/zaf/g711"
)

// Params describes the header to build. Zero fields take the defaults of a
// valid PCM file: format 1, fmt size 16, sample rate 8000, block align from
// channels and bit depth, data size from the payload.
type Params struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	BlockAlign    uint16
	FmtSize       uint32
	DataSize      uint32
}

// Build returns a canonical 44-byte header followed by data.
func Build(p Params, data []byte) []byte {
	if p.AudioFormat == 0 {
		p.AudioFormat = 1
	}
	if p.FmtSize == 0 {
		p.FmtSize = 16
	}
	if p.SampleRate == 0 {
		p.SampleRate = 8000
	}
	if p.BlockAlign == 0 {
		p.BlockAlign = p.Channels * (p.BitsPerSample / 8)
	}
	if p.DataSize == 0 {
		p.DataSize = uint32(len(data))
	}

	buf := new(bytes.Buffer)

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, 36+p.DataSize)
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, p.FmtSize)
	binary.Write(buf, binary.LittleEndian, p.AudioFormat)
	binary.Write(buf, binary.LittleEndian, p.Channels)
	binary.Write(buf, binary.LittleEndian, p.SampleRate)
	binary.Write(buf, binary.LittleEndian, p.SampleRate*uint32(p.BlockAlign))
	binary.Write(buf, binary.LittleEndian, p.BlockAlign)
	binary.Write(buf, binary.LittleEndian, p.BitsPerSample)

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, p.DataSize)
	buf.Write(data)

	return buf.Bytes()
}

// PCM is Build for a valid integer PCM file.
func PCM(channels, bits int, data []byte) []byte {
	return Build(Params{Channels: uint16(channels), BitsPerSample: uint16(bits)}, data)
}

// Ramp returns n bytes counting up from 0 and wrapping at 256.
func Ramp(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

// Int16LE encodes samples as 16-bit little-endian PCM.
func Int16LE(samples ...int16) []byte {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return data
}

// ALaw returns an 8-bit A-law file holding the companded samples.
func ALaw(channels int, samples []int16) []byte {
	data := make([]byte, len(samples))
	for i, s := range samples {
		data[i] = g711.EncodeAlawFrame(s)
	}
	return Build(Params{AudioFormat: 6, Channels: uint16(channels), BitsPerSample: 8}, data)
}

// MuLaw returns an 8-bit μ-law file holding the companded samples.
func MuLaw(channels int, samples []int16) []byte {
	data := make([]byte, len(samples))
	for i, s := range samples {
		data[i] = g711.EncodeUlawFrame(s)
	}
	return Build(Params{AudioFormat: 7, Channels: uint16(channels), BitsPerSample: 8}, data)
}

// WriteFile encodes interleaved samples to path with the go-audio encoder.
func WriteFile(path string, sampleRate, bitDepth, channels int, samples []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}

	return enc.Close()
}

// ErrInjected is returned by FaultySource while failing.
var ErrInjected = errors.New("injected read failure")

// FaultySource serves data until told to fail, then returns ErrInjected from
// every Read.
type FaultySource struct {
	r       *bytes.Reader
	failing atomic.Bool
	reads   atomic.Int64
}

func NewFaultySource(data []byte) *FaultySource {
	return &FaultySource{r: bytes.NewReader(data)}
}

func (f *FaultySource) Fail(fail bool) { f.failing.Store(fail) }

// Reads counts Read calls, failed ones included.
func (f *FaultySource) Reads() int64 { return f.reads.Load() }

func (f *FaultySource) Read(p []byte) (int, error) {
	f.reads.Add(1)
	if f.failing.Load() {
		return 0, ErrInjected
	}
	return f.r.Read(p)
}

func (f *FaultySource) Seek(offset int64, whence int) (int64, error) {
	return f.r.Seek(offset, whence)
}

// SlowSource delays every Read, widening the window in which a background
// fill and a foreground request overlap.
type SlowSource struct {
	r     io.ReadSeeker
	delay time.Duration
}

func NewSlowSource(data []byte, delay time.Duration) *SlowSource {
	return &SlowSource{r: bytes.NewReader(data), delay: delay}
}

func (s *SlowSource) Read(p []byte) (int, error) {
	time.Sleep(s.delay)
	return s.r.Read(p)
}

func (s *SlowSource) Seek(offset int64, whence int) (int64, error) {
	return s.r.Seek(offset, whence)
}
