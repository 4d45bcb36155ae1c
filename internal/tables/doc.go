// Package tables holds the constant data of the decoder: sampling rates,
// scalefactor band layouts, TNS limits and coefficients, and the fixed-point
// dequantizer constants.
package tables
