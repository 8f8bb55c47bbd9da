package waveread

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"

	"github.com/zrdimetc/go-waveread/internal/wavtest"
)

func TestChunksCanonical(t *testing.T) {
	chunks, err := Chunks(bytes.NewReader(wavtest.PCM(2, 16, wavtest.Ramp(64))))
	assert.NilError(t, err)

	assert.DeepEqual(t, chunks, []ChunkInfo{
		{ID: "fmt ", Size: 16},
		{ID: "data", Size: 64},
	})
}

func TestChunksTrailingList(t *testing.T) {
	file := wavtest.PCM(1, 8, wavtest.Ramp(10))
	file = append(file, "LIST"...)
	file = binary.LittleEndian.AppendUint32(file, 4)
	file = append(file, "INFO"...)
	binary.LittleEndian.PutUint32(file[4:], uint32(len(file)-8))

	chunks, err := Chunks(bytes.NewReader(file))
	assert.NilError(t, err)
	assert.Assert(t, is.Len(chunks, 3))
	assert.Equal(t, chunks[2].ID, "LIST")

	data, ok := FindChunk(chunks, "data")
	assert.Assert(t, ok)
	assert.Equal(t, data.Size, uint32(10))

	_, ok = FindChunk(chunks, "cue ")
	assert.Assert(t, !ok)
}

func TestChunksNotWave(t *testing.T) {
	file := wavtest.PCM(2, 16, wavtest.Ramp(8))
	copy(file[8:12], "AVI ")

	_, err := Chunks(bytes.NewReader(file))
	assert.Assert(t, errors.Is(err, ErrNotWavFile))
}

func TestChunksEncodedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	assert.NilError(t, wavtest.WriteFile(path, 22050, 16, 2, make([]int, 2*100)))

	f, err := os.Open(path)
	assert.NilError(t, err)
	defer f.Close()

	chunks, err := Chunks(f)
	assert.NilError(t, err)

	data, ok := FindChunk(chunks, "data")
	assert.Assert(t, ok)
	assert.Equal(t, data.Size, uint32(2*100*2))
}

func TestChunksIgnoresReadPosition(t *testing.T) {
	src := bytes.NewReader(wavtest.PCM(1, 16, wavtest.Ramp(20)))

	var h Header
	assert.NilError(t, h.Read(src))

	chunks, err := Chunks(src)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(chunks, 2))
}
