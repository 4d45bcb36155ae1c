package tables

// Dequantizer constants. Quantized magnitudes below Pow43SmallSize come from
// Pow43Small; larger ones are normalized to t in [0.5, 1) and t^(4/3) is
// evaluated with one of two polynomials.

// Pow43SmallSize is the number of directly tabulated magnitudes.
const Pow43SmallSize = 64

// Pow43Small[x] is x^(4/3) in Q23.
var Pow43Small = [Pow43SmallSize]int32{
	0, 8388608, 21137968, 36295399, 53264341, 71721590, 91458674, 112327809,
	134217728, 157041070, 180727081, 205217069, 230461417, 256417525, 283048341, 310321295,
	338207482, 366681046, 395718700, 425299333, 455403707, 486014202, 517114610, 548689962,
	580726382, 613210965, 646131674, 679477248, 713237127, 747401384, 781960664, 816906137,
	852229450, 887922689, 923978338, 960389256, 997148640, 1034250007, 1071687164, 1109454194,
	1147545432, 1185955452, 1224679047, 1263711219, 1303047165, 1342682263, 1382612066, 1422832284,
	1463338785, 1504127577, 1545194805, 1586536745, 1628149793, 1670030463, 1712175375, 1754581259,
	1797244940, 1840163341, 1883333472, 1926752432, 1970417401, 2014325637, 2058474476, 2102861321,
}

// Pow14 is 2^(r/4) in Q30 for the fractional part of the scalefactor.
var Pow14 = [4]int32{1073741824, 1276901417, 1518500250, 1805811301}

// Pow2Frac is 2^(f/3) in Q30 for the fractional part of 4e/3.
var Pow2Frac = [3]int32{1073741824, 1352829926, 1704458901}

// Pow43Poly holds Q28 coefficients, highest order first, approximating
// t^(4/3) on [0.5, 0.75) (index 0) and [0.75, 1) (index 1).
var Pow43Poly = [2][5]int32{
	{19664291, -78502952, 182706823, 150422110, -5775265},
	{7952061, -44487176, 145454964, 168658997, -9143382},
}
