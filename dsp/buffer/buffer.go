package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by buffer constructors.
var (
	ErrNoChannels     = errors.New("buffer: at least one channel required")
	ErrChannelLengths = errors.New("buffer: all channels must have equal length")
)

// Sample is a multichannel sequence of float64 samples at a fixed sample
// rate. All channels have equal length and there is at least one channel.
type Sample struct {
	channels   [][]float64
	sampleRate float64
}

// New returns a zero-filled buffer with the given channel count and length.
func New(channels, length int, sampleRate float64) (*Sample, error) {
	if channels < 1 {
		return nil, ErrNoChannels
	}
	if length < 0 {
		length = 0
	}

	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, length)
	}

	return &Sample{channels: data, sampleRate: sampleRate}, nil
}

// FromChannels wraps existing channel slices without copying.
// Mutations to the slices are visible through the buffer and vice versa.
func FromChannels(channels [][]float64, sampleRate float64) (*Sample, error) {
	if len(channels) < 1 {
		return nil, ErrNoChannels
	}

	n := len(channels[0])
	for ch := 1; ch < len(channels); ch++ {
		if len(channels[ch]) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrChannelLengths, ch, len(channels[ch]), n)
		}
	}

	return &Sample{channels: channels, sampleRate: sampleRate}, nil
}

// Channels returns the channel count.
func (b *Sample) Channels() int {
	return len(b.channels)
}

// Len returns the per-channel sample count.
func (b *Sample) Len() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// SampleRate returns the sample rate in Hz.
func (b *Sample) SampleRate() float64 {
	return b.sampleRate
}

// Channel returns the underlying slice for channel ch.
func (b *Sample) Channel(ch int) []float64 {
	return b.channels[ch]
}

// Raw returns the underlying channel slices without copying.
func (b *Sample) Raw() [][]float64 {
	return b.channels
}

// Slice returns a view of samples [start, end) across all channels.
// Indices are clamped to valid bounds; the view shares backing storage.
func (b *Sample) Slice(start, end int) *Sample {
	n := b.Len()
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}

	view := make([][]float64, len(b.channels))
	for ch := range b.channels {
		view[ch] = b.channels[ch][start:end]
	}

	return &Sample{channels: view, sampleRate: b.sampleRate}
}

// Copy returns a deep copy of the buffer.
func (b *Sample) Copy() *Sample {
	data := make([][]float64, len(b.channels))
	for ch := range b.channels {
		data[ch] = make([]float64, len(b.channels[ch]))
		copy(data[ch], b.channels[ch])
	}
	return &Sample{channels: data, sampleRate: b.sampleRate}
}

// Block returns a view of samples [start, start+size) across all channels,
// truncated at the buffer end. Used to feed block-based engines in place.
func (b *Sample) Block(start, size int) [][]float64 {
	end := start + size
	n := b.Len()
	if end > n {
		end = n
	}
	if start < 0 || start >= end {
		return nil
	}

	block := make([][]float64, len(b.channels))
	for ch := range b.channels {
		block[ch] = b.channels[ch][start:end]
	}
	return block
}
