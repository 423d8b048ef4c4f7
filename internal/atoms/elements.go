package atoms

// standard atomic masses in amu
var atomicMasses = map[string]float64{
	"H":  1.008,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"Al": 26.9815385,
	"Ar": 39.948,
	"Ni": 58.6934,
	"Cu": 63.546,
	"Pd": 106.42,
	"Ag": 107.8682,
	"Pt": 195.084,
	"Au": 196.966569,
}

// Mass returns the standard atomic mass of symbol in amu.
func Mass(symbol string) (float64, bool) {
	m, ok := atomicMasses[symbol]
	return m, ok
}
