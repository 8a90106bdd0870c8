// Package spectrum provides the windowed magnitude transform shared by all
// analyzers. A Transform applies a Hann window to the head of a channel,
// zero-pads to the transform size, runs a forward FFT, and exposes the
// one-sided magnitude spectrum. Two sizes are used in practice: 16384 where
// fine bin resolution matters (harmonics, noise floor) and 8192 for
// spectral-shape metrics.
package spectrum
