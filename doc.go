// Package waveread reads uncompressed PCM WAV files by random access without
// loading them into memory.
//
// A Reader keeps a fixed-size window of the data chunk cached. Requests that
// fall inside the window are decoded straight from it; requests outside it
// refill the window synchronously. Once a caller reads past a configurable
// fraction of the window, the reader refills it ahead of time on a background
// goroutine, which suits forward playback and streaming.
//
// # Supported Formats
//
// Only canonical 44-byte-header PCM files are read:
//   - 8-bit unsigned, 16, 24 and 32-bit signed little-endian
//   - any number of channels
//   - any sample rate
//
// Float, A-law, μ-law and ADPCM files are rejected by Open.
//
// # Reading Samples
//
//	f, _ := os.Open("audio.wav")
//	r := waveread.NewReader(f, waveread.WithCacheSize(1<<16))
//	if err := r.Open(); err != nil {
//	    // not a supported file
//	}
//
//	// 1024 samples of both channels from sample 48000, interleaved
//	samples := r.Audio(48000, 1024, []int{0, 1}, 0, waveread.Interleaved)
//
// Audio never fails loudly: requests past the end are truncated, and requests
// that cannot be served return nil.
package waveread
