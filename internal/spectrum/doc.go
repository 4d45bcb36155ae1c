// Package spectrum turns quantized spectra into fixed-point MDCT
// coefficients: pulse restoration, dequantization with scalefactors,
// short-window deinterleaving, noise substitution, mid/side and intensity
// stereo, and TNS filtering.
//
// Coefficients are int32 with CoefFracBits fractional bits. Every stage
// reports the OR of the magnitudes it wrote so callers can keep a running
// guard-bit mask per channel.
package spectrum
