package buffer

import (
	"errors"
	"testing"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0, 16, 48000); !errors.Is(err, ErrNoChannels) {
		t.Errorf("New(0, ...) error = %v, want ErrNoChannels", err)
	}

	buf, err := New(2, 16, 48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if buf.Channels() != 2 || buf.Len() != 16 {
		t.Errorf("shape = %dx%d, want 2x16", buf.Channels(), buf.Len())
	}

	if buf.SampleRate() != 48000 {
		t.Errorf("sample rate = %v, want 48000", buf.SampleRate())
	}
}

func TestFromChannelsLengthMismatch(t *testing.T) {
	_, err := FromChannels([][]float64{make([]float64, 4), make([]float64, 5)}, 48000)
	if !errors.Is(err, ErrChannelLengths) {
		t.Errorf("error = %v, want ErrChannelLengths", err)
	}

	if _, err := FromChannels(nil, 48000); !errors.Is(err, ErrNoChannels) {
		t.Errorf("error = %v, want ErrNoChannels", err)
	}
}

func TestSliceSharesStorage(t *testing.T) {
	buf, err := New(2, 8, 48000)
	if err != nil {
		t.Fatal(err)
	}

	view := buf.Slice(2, 6)
	if view.Len() != 4 {
		t.Fatalf("view len = %d, want 4", view.Len())
	}

	view.Channel(0)[0] = 1.5
	if buf.Channel(0)[2] != 1.5 {
		t.Error("slice view should share backing storage")
	}
}

func TestSliceClamps(t *testing.T) {
	buf, err := New(1, 8, 48000)
	if err != nil {
		t.Fatal(err)
	}

	if got := buf.Slice(-3, 100).Len(); got != 8 {
		t.Errorf("clamped slice len = %d, want 8", got)
	}

	if got := buf.Slice(6, 2).Len(); got != 0 {
		t.Errorf("inverted slice len = %d, want 0", got)
	}
}

func TestBlockViews(t *testing.T) {
	buf, err := New(2, 10, 48000)
	if err != nil {
		t.Fatal(err)
	}

	block := buf.Block(8, 4)
	if block == nil || len(block[0]) != 2 {
		t.Fatalf("tail block = %v, want 2 samples per channel", block)
	}

	block[1][0] = -1
	if buf.Channel(1)[8] != -1 {
		t.Error("block should mutate the underlying buffer")
	}

	if got := buf.Block(10, 4); got != nil {
		t.Errorf("out-of-range block = %v, want nil", got)
	}
}

func TestCopyIsDeep(t *testing.T) {
	buf, err := New(1, 4, 48000)
	if err != nil {
		t.Fatal(err)
	}

	buf.Channel(0)[0] = 1

	cp := buf.Copy()
	cp.Channel(0)[0] = 2

	if buf.Channel(0)[0] != 1 {
		t.Error("copy should not share storage")
	}
}
