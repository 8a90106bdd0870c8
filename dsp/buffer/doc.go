// Package buffer provides the multichannel sample buffer exchanged between
// the signal generator, engines under test, and the analyzers. Analysis
// functions accept raw []float64 channels; Sample is the container that
// keeps the channels equal-length and carries the sample rate.
package buffer
