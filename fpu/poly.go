package fpu

// The log2 kernel evaluates P(t) ~ log2((1+x)/(1-x))/x with t = x^2. P has
// degree 8 and comes from the Taylor series of 2*atanh(x)/x, truncated at
// degree 18 and Chebyshev-economized over t in [0, 3/100], which covers
// (3-2*sqrt(2))^2 < 0.0295. The economization error is below 2^-66.
//
// Each coefficient is scaled by K = 2*log2(e). TestPoly_Coefficients
// rederives the table with exact rational arithmetic.
const (
	polyDegree = 8
)

// (K*c0 - 2) * 2^127
var polyHead = u128{0x71547652b82fe177, 0xba68d8d35e98ec4d}

// K*ck * 2^64, k = 1..polyDegree
var polyTerms = [polyDegree]uint64{
	0xf6384ee1d01fe18d,
	0x93bb62877d02edcf,
	0x6985d8a9bcd85b08,
	0x5212c5150f9b32ea,
	0x4326957f8f40c66a,
	0x38d4792edd9b4f7f,
	0x30eb3151cc219116,
	0x3118c6a16d7c96c4,
}
