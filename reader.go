package waveread

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/go-audio/audio"
)

// maxDataSize is the largest data chunk whose byte offsets fit in an int.
var maxDataSize int64 = math.MaxInt

// Reader gives random access to the samples of a PCM WAV stream through a
// fixed-size cache window over the data chunk.
//
// All state is guarded by one mutex. Each Audio call classifies the request
// and decodes under a single lock acquisition, so a background prefetch can
// never swap the window between the two.
type Reader struct {
	mu     sync.Mutex
	src    Source
	header Header
	opened bool

	// data holds bytes [cachePos, cachePos+len(data)) of the data chunk.
	data      []byte
	cachePos  int64
	cacheSize int
	threshold float64

	// epoch changes on Close and Reset so stale prefetches are discarded.
	epoch    uint64
	prefetch *prefetcher
	logger   *slog.Logger
}

// NewReader creates an unopened reader over src. Sources that don't implement
// Source are wrapped in a Stream.
func NewReader(src io.ReadSeeker, opts ...Option) *Reader {
	r := &Reader{
		src:       asSource(src),
		cacheSize: DefaultCacheSize,
		threshold: DefaultCacheExtensionThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.prefetch = newPrefetcher(r.backgroundFill)

	return r
}

// Open reads and validates the header, then fills the cache from the start of
// the data chunk. Calling it on an opened reader is a no-op.
func (r *Reader) Open() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.openLocked()
}

func (r *Reader) openLocked() error {
	if r.opened {
		return nil
	}
	if r.src == nil {
		return ErrNoSource
	}

	if err := r.header.Read(r.src); err != nil {
		r.header.Clear()
		return err
	}
	if err := r.header.Validate(); err != nil {
		return err
	}
	if int64(r.header.DataSize) > maxDataSize {
		return fmt.Errorf("%w: %d bytes", ErrDataTooLarge, r.header.DataSize)
	}

	r.opened = true
	if !r.fillLocked(0, r.cacheSize) {
		r.logger.Debug("initial cache fill failed", slog.Uint64("dataSize", uint64(r.header.DataSize)))
	}

	return nil
}

// Close empties the cache, rewinds the source and marks the reader unopened.
// The source stays bound; the next Audio call reopens it.
func (r *Reader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.src != nil {
		if _, err := r.src.Seek(0, io.SeekStart); err != nil {
			r.logger.Debug("rewind on close failed", slog.Any("error", err))
		}
	}
	r.clearLocked()
}

// Reset binds the reader to a new source and clears all cached state.
func (r *Reader) Reset(src io.ReadSeeker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.src = asSource(src)
	r.clearLocked()
}

func (r *Reader) clearLocked() {
	r.data = nil
	r.header.Clear()
	r.cachePos = 0
	r.opened = false
	r.epoch++
}

// Audio returns count samples per channel starting at sample start, as floats
// in (-1, 1).
//
// Channel indices are deduplicated, sorted, and taken modulo the channel
// count, so asking for {0,1} from a mono file returns channel 0 twice. With
// stride k only every (k+1)th sample is kept. A request that runs past the
// end of the data returns the samples that exist; one that starts past the
// end, names no channels, or hits a read failure returns nil.
func (r *Reader) Audio(start, count int, channels []int, stride int, layout Layout) []float32 {
	if start < 0 || count <= 0 || stride < 0 {
		return nil
	}
	chans := normalizeChannels(channels)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.openLocked(); err != nil {
		r.logger.Debug("open failed", slog.Any("error", err))
		return nil
	}

	return r.audioLocked(start, count, chans, stride, layout)
}

// audioLocked serves a request on an opened reader. chans must be normalized.
func (r *Reader) audioLocked(start, count int, chans []int, stride int, layout Layout) []float32 {
	format := r.header.Format()
	dataSize := int64(format.DataSize)
	block := int64(format.BlockAlign)

	// Bounding start and count by the frame count keeps the byte offsets
	// below within twice the data size.
	frames := dataSize / block
	if int64(start) > frames {
		return nil
	}
	if int64(count) > frames+1 {
		count = int(frames + 1)
	}

	byteStart := int64(start) * block
	byteLen := int64(count) * block

	switch {
	case byteStart+byteLen >= dataSize:
		if byteStart >= dataSize {
			return nil
		}
		size := int(dataSize - byteStart)
		if !r.fillLocked(byteStart, size) {
			return nil
		}
		return decode(r.data, format, 0, size, chans, stride, layout)

	case byteStart >= r.cachePos && byteStart+byteLen <= r.cachePos+int64(len(r.data)):
		result := decode(r.data, format, int(byteStart-r.cachePos), int(byteLen), chans, stride, layout)
		if float64(byteStart) > float64(r.cachePos)+r.threshold*float64(len(r.data)) {
			r.schedulePrefetchLocked()
		}
		return result

	default:
		if !r.fillLocked(byteStart, int(max(int64(r.cacheSize), byteLen))) {
			return nil
		}
		return decode(r.data, format, 0, int(byteLen), chans, stride, layout)
	}
}

// Frames returns every channel, interleaved, for count samples from start.
func (r *Reader) Frames(start, count int) []float32 {
	samples, _, _ := r.frames(start, count)
	return samples
}

// Float32Buffer returns the same samples as Frames in a go-audio buffer.
func (r *Reader) Float32Buffer(start, count int) *audio.Float32Buffer {
	samples, format, err := r.frames(start, count)
	if err != nil {
		return nil
	}

	return &audio.Float32Buffer{
		Format: &audio.Format{
			NumChannels: int(format.NumChannels),
			SampleRate:  int(format.SampleRate),
		},
		Data:           samples,
		SourceBitDepth: int(format.BitsPerSample),
	}
}

// frames decodes all channels and returns the format they were decoded with,
// both taken under one lock so a concurrent Reset can't split them.
func (r *Reader) frames(start, count int) ([]float32, Format, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.openLocked(); err != nil {
		return nil, Format{}, err
	}
	format := r.header.Format()
	if start < 0 || count <= 0 {
		return nil, format, nil
	}

	return r.audioLocked(start, count, allChannels(format), 0, Interleaved), format, nil
}

func allChannels(format Format) []int {
	chans := make([]int, format.NumChannels)
	for i := range chans {
		chans[i] = i
	}
	return chans
}

// fillLocked loads size bytes of the data chunk from pos into a fresh window.
// The previous window survives any failure.
func (r *Reader) fillLocked(pos int64, size int) bool {
	dataSize := int64(r.header.DataSize)
	if pos < 0 || pos >= dataSize || size <= 0 {
		return false
	}
	if int64(size) > dataSize-pos {
		size = int(dataSize - pos)
	}

	if _, err := r.src.Seek(pos+HeaderSize, io.SeekStart); err != nil {
		r.logger.Debug("cache fill seek failed", slog.Int64("pos", pos), slog.Any("error", err))
		return false
	}
	// Stream clears its error on a successful seek; only other Source
	// implementations can still report one here.
	if err := r.src.Err(); err != nil {
		r.logger.Debug("source unhealthy", slog.Int64("pos", pos), slog.Any("error", err))
		return false
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		r.logger.Debug("cache fill read failed",
			slog.Int64("pos", pos),
			slog.Int("size", size),
			slog.Any("error", err),
		)
		return false
	}

	r.data = buf
	r.cachePos = pos
	r.logger.Debug("cache filled", slog.Int64("pos", pos), slog.Int("size", size))

	return true
}

func (r *Reader) schedulePrefetchLocked() {
	req := fillRequest{
		pos:   r.cachePos + int64(r.cacheSize/2),
		size:  r.cacheSize,
		epoch: r.epoch,
	}
	if req.pos >= int64(r.header.DataSize) {
		return
	}

	if r.prefetch.schedule(req) {
		r.logger.Debug("prefetch scheduled", slog.Int64("pos", req.pos), slog.Int("size", req.size))
	}
}

func (r *Reader) backgroundFill(req fillRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.epoch != r.epoch || !r.opened {
		r.logger.Debug("stale prefetch discarded", slog.Int64("pos", req.pos))
		return
	}
	if !r.fillLocked(req.pos, req.size) {
		r.logger.Debug("prefetch dropped", slog.Int64("pos", req.pos))
	}
}

// Wait blocks until any background prefetch has finished.
func (r *Reader) Wait() {
	r.prefetch.wait()
}

func (r *Reader) Header() Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header
}

func (r *Reader) Format() Format {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header.Format()
}

// Samples is the number of samples per channel, 0 until opened.
func (r *Reader) Samples() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header.Samples()
}

func (r *Reader) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header.Duration()
}

func (r *Reader) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheSize
}

// CachePosition is the data-chunk offset of the first cached byte.
func (r *Reader) CachePosition() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cachePos
}

// CachedLen is the number of bytes currently cached.
func (r *Reader) CachedLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

func (r *Reader) Opened() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opened
}

func (r *Reader) CacheExtensionThreshold() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.threshold
}

// SetCacheSize changes the window length used by later fills. It waits for
// any fill in progress and does not refill the cache itself. Non-positive
// sizes are ignored.
func (r *Reader) SetCacheSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > 0 {
		r.cacheSize = n
	}
}

// SetCacheExtensionThreshold changes the prefetch trigger, clamped to [0,1].
// Like SetCacheSize it does not refill the cache.
func (r *Reader) SetCacheExtensionThreshold(t float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.threshold = clampThreshold(t)
}
