// Package sbr implements spectral band replication for HE-AAC v1 streams
// decoded at twice the core sampling rate.
//
// Each channel runs a 32-band QMF analysis over the 1024 wide samples of
// the core decoder, regenerates the bands above the crossover from the
// low band with linear prediction, shapes them to the transmitted
// envelope and noise floor, and resynthesizes 2048 samples with a 64-band
// QMF bank. Without a usable payload the same path runs as a pass-through
// that only upsamples.
//
// Subband samples are int32 in the scale of the ISO/IEC 14496-3 QMF banks
// applied to the wide input. Energies, prediction coefficients and gains
// are carried in fixed.Float.
package sbr
