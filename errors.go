package waveread

import "errors"

var (
	ErrNotWavFile             = errors.New("not a WAV file")
	ErrUnsupportedWavLayout   = errors.New("unsupported WAV layout")
	ErrUnsupportedAudioFormat = errors.New("only uncompressed PCM supported")
	ErrUnsupportedBitDepth    = errors.New("unsupported bit depth")
	ErrBlockAlignMismatch     = errors.New("block align does not match channels and bit depth")
	ErrNoSource               = errors.New("no source bound")
	ErrDataTooLarge           = errors.New("data chunk too large to address")
)
