package waveread_test

import (
	"bytes"
	"fmt"

	waveread "github.com/zrdimetc/go-waveread"
	"github.com/zrdimetc/go-waveread/internal/wavtest"
)

// Example_interleaved reads a stereo 16-bit file frame by frame.
func Example_interleaved() {
	// left ramps up, right ramps down
	data := wavtest.Int16LE(0, 0, 8192, -8192, 16384, -16384, 24576, -24576)
	r := waveread.NewReader(bytes.NewReader(wavtest.PCM(2, 16, data)))
	if err := r.Open(); err != nil {
		fmt.Printf("Open error: %v\n", err)
		return
	}

	fmt.Printf("Samples: %d\n", r.Samples())
	fmt.Println(r.Audio(1, 2, []int{0, 1}, 0, waveread.Interleaved))
	fmt.Println(r.Audio(1, 2, []int{0, 1}, 0, waveread.Grouped))
	// Output:
	// Samples: 4
	// [0.25 -0.25 0.5 -0.5]
	// [0.25 0.5 -0.25 -0.5]
}

// Example_monoWrap shows channel indices wrapping on a mono file.
func Example_monoWrap() {
	r := waveread.NewReader(bytes.NewReader(wavtest.PCM(1, 8, []byte{128, 192, 64})))

	fmt.Println(r.Audio(0, 3, []int{0, 1}, 0, waveread.Interleaved))
	// Output:
	// [0 0 0.5 0.5 -0.5 -0.5]
}

// Example_pastEnd shows a request running off the end of the data.
func Example_pastEnd() {
	r := waveread.NewReader(bytes.NewReader(wavtest.PCM(1, 16, wavtest.Int16LE(1, 2, 3, 4))))

	fmt.Println(len(r.Audio(2, 10, []int{0}, 0, waveread.Interleaved)))
	fmt.Println(r.Audio(4, 1, []int{0}, 0, waveread.Interleaved) == nil)
	// Output:
	// 2
	// true
}

// Example_unsupported shows a companded file being refused.
func Example_unsupported() {
	r := waveread.NewReader(bytes.NewReader(wavtest.ALaw(1, []int16{0, 100, -100})))

	fmt.Println(r.Open())
	// Output:
	// only uncompressed PCM supported: 6
}
