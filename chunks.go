package waveread

import (
	"fmt"
	"io"
	"math"

	"github.com/youpy/go-riff"
)

// ChunkInfo describes one chunk of a RIFF file.
type ChunkInfo struct {
	ID   string
	Size uint32
}

// Chunks lists the chunks of a RIFF/WAVE file in file order, reading from
// offset 0 whatever the current position of r. Files whose chunk list is not
// exactly "fmt " then "data" are rejected by Reader.Open; Chunks helps explain
// why.
func Chunks(r io.ReaderAt) ([]ChunkInfo, error) {
	riffChunk, err := riff.NewReader(io.NewSectionReader(r, 0, math.MaxInt64)).Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	if string(riffChunk.FileType[:]) != "WAVE" {
		return nil, ErrNotWavFile
	}

	chunks := make([]ChunkInfo, 0, len(riffChunk.Chunks))
	for _, ch := range riffChunk.Chunks {
		chunks = append(chunks, ChunkInfo{ID: string(ch.ChunkID[:]), Size: ch.ChunkSize})
	}

	return chunks, nil
}

// FindChunk returns the first chunk with the given id.
func FindChunk(chunks []ChunkInfo, id string) (ChunkInfo, bool) {
	for _, ch := range chunks {
		if ch.ID == id {
			return ch, true
		}
	}

	return ChunkInfo{}, false
}
