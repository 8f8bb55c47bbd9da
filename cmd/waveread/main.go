package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	waveread "github.com/zrdimetc/go-waveread"
)

// version is set via ldflags at build time
var version = "dev"

type runContext struct {
	logger *slog.Logger
}

var CLI struct {
	Verbose bool             `short:"v" help:"Log cache activity to stderr."`
	Version kong.VersionFlag `help:"Show version information."`

	Info  InfoCmd  `cmd:"" help:"Show the header fields and RIFF chunks of a WAV file."`
	Dump  DumpCmd  `cmd:"" help:"Print decoded samples, one frame per line."`
	Bench BenchCmd `cmd:"" help:"Read a whole file sequentially through the cache."`
}

// CacheFlags are shared by commands that read through a Reader.
type CacheFlags struct {
	CacheSize int     `name:"cache-size" help:"Cache window in bytes." default:"1048576"`
	Threshold float64 `help:"Fraction of the window read before prefetching." default:"0.5"`
}

func (c CacheFlags) open(path string, logger *slog.Logger) (*waveread.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	r := waveread.NewReader(f,
		waveread.WithCacheSize(c.CacheSize),
		waveread.WithCacheExtensionThreshold(c.Threshold),
		waveread.WithLogger(logger),
	)
	if err := r.Open(); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return r, f, nil
}

type InfoCmd struct {
	File string `arg:"" type:"existingfile" help:"Input WAV file."`
}

func (c *InfoCmd) Run(rc *runContext) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	var h waveread.Header
	if err := h.Read(f); err != nil {
		return err
	}

	printHeader(c.File)
	printField("Audio format", strconv.Itoa(int(h.AudioFormat)))
	printField("Channels", strconv.Itoa(int(h.NumChannels)))
	printField("Sample rate", fmt.Sprintf("%d Hz", h.SampleRate))
	printField("Bits per sample", strconv.Itoa(int(h.BitsPerSample)))
	printField("Block align", strconv.Itoa(int(h.BlockAlign)))
	printField("Data size", fmt.Sprintf("%d bytes", h.DataSize))
	printField("Samples", strconv.Itoa(h.Samples()))
	printField("Duration", h.Duration().String())

	if err := h.Validate(); err != nil {
		printField("Supported", "no ("+err.Error()+")")
	} else {
		printField("Supported", "yes")
	}

	chunks, err := waveread.Chunks(f)
	if err != nil {
		rc.logger.Debug("chunk listing failed", slog.Any("error", err))
		return nil
	}
	for _, ch := range chunks {
		printField("Chunk", fmt.Sprintf("%q %d bytes", ch.ID, ch.Size))
	}

	return nil
}

type DumpCmd struct {
	CacheFlags `embed:""`

	File     string `arg:"" type:"existingfile" help:"Input WAV file."`
	Start    int    `help:"First sample." default:"0"`
	Count    int    `help:"Samples per channel." default:"16"`
	Channels []int  `help:"Channels to read, taken modulo the channel count." default:"0,1"`
	Stride   int    `help:"Samples skipped between retained samples." default:"0"`
	Grouped  bool   `help:"Group output by channel instead of interleaving."`
}

func (c *DumpCmd) Run(rc *runContext) error {
	r, f, err := c.open(c.File, rc.logger)
	if err != nil {
		return err
	}
	defer f.Close()

	layout := waveread.Interleaved
	if c.Grouped {
		layout = waveread.Grouped
	}
	samples := r.Audio(c.Start, c.Count, c.Channels, c.Stride, layout)

	width := len(slices.Compact(slices.Sorted(slices.Values(c.Channels))))
	if layout == waveread.Grouped && width > 0 {
		width = len(samples) / width
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	for i, v := range samples {
		sep := " "
		if width == 0 || (i+1)%width == 0 || i == len(samples)-1 {
			sep = "\n"
		}
		fmt.Fprintf(w, "%.6f%s", v, sep)
	}

	return nil
}

type BenchCmd struct {
	CacheFlags `embed:""`

	File    string `arg:"" type:"existingfile" help:"Input WAV file."`
	Block   int    `help:"Samples per request." default:"1024"`
	Profile string `help:"Write a profile while reading." enum:"none,cpu,mem" default:"none"`
	Dir     string `help:"Directory for profile output." default:"."`
}

func (c *BenchCmd) Run(rc *runContext) error {
	switch c.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(c.Dir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(c.Dir), profile.Quiet).Stop()
	}

	r, f, err := c.open(c.File, rc.logger)
	if err != nil {
		return err
	}
	defer f.Close()

	if c.Block <= 0 {
		return fmt.Errorf("block must be positive, got %d", c.Block)
	}

	format := r.Format()
	start := time.Now()
	var frames int
	for {
		got := r.Frames(frames, c.Block)
		if len(got) == 0 {
			break
		}
		frames += len(got) / int(format.NumChannels)
	}
	r.Wait()
	elapsed := time.Since(start)

	mb := float64(frames*int(format.BlockAlign)) / (1 << 20)
	printHeader(c.File)
	printField("Samples", strconv.Itoa(frames))
	printField("Elapsed", elapsed.String())
	printField("Throughput", fmt.Sprintf("%.1f MiB/s", mb/elapsed.Seconds()))

	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("waveread"),
		kong.Description("Inspect and decode PCM WAV files through a read-ahead cache."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	err := ctx.Run(&runContext{logger: newLogger(CLI.Verbose)})
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}
