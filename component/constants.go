package component

// CAS is the opaque registry identifier for a chemical species. It is
// immutable once resolved and is the only component handle the rest of this
// module ever carries around.
type CAS string

// Formula is an element-symbol to atom-count map, used by the Gibbs reactor's
// elemental balance matrix. Nil when a species has no digitized formula.
type Formula map[string]float64

// CriticalProps holds a species' critical-point constants, generalized with
// a default critical volume/compressibility even when the source data only
// gives Tc/Pc/omega (Vc is then estimated via Zc*R*Tc/Pc with an assumed Zc
// when not tabulated).
type CriticalProps struct {
	Tc float64 // critical temperature, K
	Pc float64 // critical pressure, Pa
	Vc float64 // critical molar volume, m3/mol
	Zc float64 // critical compressibility factor
}

// ChemicalConstants holds the pure-component constants loaded for a resolved
// CAS number.
type ChemicalConstants struct {
	CAS          CAS
	Name         string
	MW           float64 // g/mol
	Acentric     float64
	Tb           float64 // normal boiling point, K
	Hf           float64 // standard formation enthalpy, J/mol
	Sf           float64 // standard formation entropy, J/mol/K
	Critical     CriticalProps
	Formula      Formula
	SurfaceRef   float64 // reference surface tension at Tb, N/m (0 if unknown)
}

// correlationSet bundles the T-dependent correlations for one component, in
// the polynomial/Antoine forms the flash and property-extraction code call.
type correlationSet struct {
	// CpIdealGas: J/mol/K, polynomial in T (Kelvin): a + bT + cT^2 + dT^3.
	CpIG [4]float64
	// CpLiquid: J/mol/K, polynomial in T (Kelvin).
	CpLiq [4]float64
	// Antoine: ln(Psat[Pa]) = A - B/(T[K]+C)
	AntoineA, AntoineB, AntoineC float64
	// Rackett liquid molar volume needs only Critical.Vc/Zc (component package).
	// ViscA/ViscB: liquid viscosity, ln(mu[Pa.s]) = ViscA + ViscB/T
	ViscA, ViscB float64
	// ThermCondA/B: liquid thermal conductivity, W/m/K = A + B*T
	ThermCondA, ThermCondB float64
}

// registryEntry is the full static record for one known species.
type registryEntry struct {
	ChemicalConstants
	corr correlationSet
}

// registry is the static component database. Values are representative
// literature constants; precision beyond a few significant figures is not
// claimed or required by this module's invariants.
var registry = map[CAS]registryEntry{
	"7732-18-5": { // water
		ChemicalConstants: ChemicalConstants{
			CAS: "7732-18-5", Name: "water", MW: 18.01528, Acentric: 0.3449, Tb: 373.15,
			Hf: -241818, Sf: 188.8,
			Critical: CriticalProps{Tc: 647.1, Pc: 22064000, Vc: 5.595e-5, Zc: 0.229},
			Formula:  Formula{"H": 2, "O": 1},
		},
		corr: correlationSet{
			CpIG:    [4]float64{32.24, 0.001924, 1.055e-5, -3.596e-9},
			CpLiq:   [4]float64{92.053, -0.039953, -0.00021103, 5.3469e-7},
			AntoineA: 23.1964, AntoineB: 3816.44, AntoineC: -46.13,
			ViscA: -10.2158, ViscB: 1792.0,
			ThermCondA: 0.5706, ThermCondB: 0.00177,
		},
	},
	"74-82-8": { // methane
		ChemicalConstants: ChemicalConstants{
			CAS: "74-82-8", Name: "methane", MW: 16.0425, Acentric: 0.0115, Tb: 111.66,
			Hf: -74520, Sf: 186.3,
			Critical: CriticalProps{Tc: 190.56, Pc: 4599000, Vc: 9.86e-5, Zc: 0.286},
			Formula:  Formula{"C": 1, "H": 4},
		},
		corr: correlationSet{
			CpIG:    [4]float64{19.25, 0.05213, 0.00001197, -1.132e-8},
			CpLiq:   [4]float64{65.0, 0.0, 0.0, 0.0},
			AntoineA: 15.2243, AntoineB: 897.84, AntoineC: -7.16,
			ViscA: -12.0, ViscB: 150.0,
			ThermCondA: 0.17, ThermCondB: -0.0005,
		},
	},
	"74-84-0": { // ethane
		ChemicalConstants: ChemicalConstants{
			CAS: "74-84-0", Name: "ethane", MW: 30.069, Acentric: 0.0995, Tb: 184.55,
			Hf: -83820, Sf: 229.2,
			Critical: CriticalProps{Tc: 305.32, Pc: 4872000, Vc: 1.455e-4, Zc: 0.279},
			Formula:  Formula{"C": 2, "H": 6},
		},
		corr: correlationSet{
			CpIG: [4]float64{5.409, 0.1781, -6.938e-5, 8.713e-9},
			CpLiq: [4]float64{68.0, 0.09, 0.0, 0.0},
			AntoineA: 15.4083, AntoineB: 1511.42, AntoineC: -17.16,
			ViscA: -11.5, ViscB: 180.0,
			ThermCondA: 0.2, ThermCondB: -0.0006,
		},
	},
	"106-97-8": { // n-butane
		ChemicalConstants: ChemicalConstants{
			CAS: "106-97-8", Name: "n-butane", MW: 58.122, Acentric: 0.2002, Tb: 272.65,
			Hf: -125790, Sf: 310.0,
			Critical: CriticalProps{Tc: 425.12, Pc: 3796000, Vc: 2.55e-4, Zc: 0.274},
			Formula:  Formula{"C": 4, "H": 10},
		},
		corr: correlationSet{
			CpIG: [4]float64{9.487, 0.3313, -1.108e-4, -2.822e-9},
			CpLiq: [4]float64{140.0, 0.0, 0.0, 0.0},
			AntoineA: 15.6782, AntoineB: 2154.7, AntoineC: -34.42,
			ViscA: -12.0, ViscB: 300.0,
			ThermCondA: 0.12, ThermCondB: -0.0003,
		},
	},
	"75-28-5": { // isobutane
		ChemicalConstants: ChemicalConstants{
			CAS: "75-28-5", Name: "isobutane", MW: 58.122, Acentric: 0.1844, Tb: 261.43,
			Hf: -134990, Sf: 295.0,
			Critical: CriticalProps{Tc: 407.8, Pc: 3629000, Vc: 2.63e-4, Zc: 0.283},
			Formula:  Formula{"C": 4, "H": 10},
		},
		corr: correlationSet{
			CpIG: [4]float64{9.0, 0.34, -1.1e-4, -2.7e-9},
			CpLiq: [4]float64{135.0, 0.0, 0.0, 0.0},
			AntoineA: 15.5381, AntoineB: 2032.73, AntoineC: -33.15,
			ViscA: -12.1, ViscB: 290.0,
			ThermCondA: 0.11, ThermCondB: -0.0003,
		},
	},
	"110-54-3": { // n-hexane
		ChemicalConstants: ChemicalConstants{
			CAS: "110-54-3", Name: "n-hexane", MW: 86.178, Acentric: 0.3007, Tb: 341.88,
			Hf: -166920, Sf: 386.0,
			Critical: CriticalProps{Tc: 507.6, Pc: 3025000, Vc: 3.68e-4, Zc: 0.266},
			Formula:  Formula{"C": 6, "H": 14},
			SurfaceRef: 0.0184,
		},
		corr: correlationSet{
			CpIG: [4]float64{13.98, 0.4642, -2.337e-4, 4.44e-8},
			CpLiq: [4]float64{195.0, 0.4, 0.0, 0.0},
			AntoineA: 15.8366, AntoineB: 2697.55, AntoineC: -48.78,
			ViscA: -11.0, ViscB: 900.0,
			ThermCondA: 0.138, ThermCondB: -0.00022,
		},
	},
	"71-43-2": { // benzene
		ChemicalConstants: ChemicalConstants{
			CAS: "71-43-2", Name: "benzene", MW: 78.114, Acentric: 0.2103, Tb: 353.24,
			Hf: 82930, Sf: 269.2,
			Critical: CriticalProps{Tc: 562.05, Pc: 4895000, Vc: 2.56e-4, Zc: 0.271},
			Formula:  Formula{"C": 6, "H": 6},
			SurfaceRef: 0.0289,
		},
		corr: correlationSet{
			CpIG: [4]float64{-33.89, 0.4741, -3.017e-4, 7.13e-8},
			CpLiq: [4]float64{136.1, 0.0, 0.0, 0.0},
			AntoineA: 15.9037, AntoineB: 2789.01, AntoineC: -52.36,
			ViscA: -10.8, ViscB: 850.0,
			ThermCondA: 0.147, ThermCondB: -0.00023,
		},
	},
	"108-88-3": { // toluene
		ChemicalConstants: ChemicalConstants{
			CAS: "108-88-3", Name: "toluene", MW: 92.141, Acentric: 0.2657, Tb: 383.78,
			Hf: 50170, Sf: 320.7,
			Critical: CriticalProps{Tc: 591.75, Pc: 4108000, Vc: 3.16e-4, Zc: 0.264},
			Formula:  Formula{"C": 7, "H": 8},
			SurfaceRef: 0.0273,
		},
		corr: correlationSet{
			CpIG: [4]float64{-24.35, 0.5125, -2.765e-4, 4.91e-8},
			CpLiq: [4]float64{157.3, 0.0, 0.0, 0.0},
			AntoineA: 16.0137, AntoineB: 3096.52, AntoineC: -53.67,
			ViscA: -10.5, ViscB: 950.0,
			ThermCondA: 0.141, ThermCondB: -0.00019,
		},
	},
	"67-56-1": { // methanol
		ChemicalConstants: ChemicalConstants{
			CAS: "67-56-1", Name: "methanol", MW: 32.042, Acentric: 0.5625, Tb: 337.85,
			Hf: -205000, Sf: 239.9,
			Critical: CriticalProps{Tc: 512.5, Pc: 8084000, Vc: 1.17e-4, Zc: 0.224},
			Formula:  Formula{"C": 1, "H": 4, "O": 1},
			SurfaceRef: 0.0226,
		},
		corr: correlationSet{
			CpIG: [4]float64{21.15, 0.07092, 2.587e-5, -2.852e-8},
			CpLiq: [4]float64{81.1, 0.0, 0.0, 0.0},
			AntoineA: 18.5875, AntoineB: 3626.55, AntoineC: -34.29,
			ViscA: -9.5, ViscB: 1100.0,
			ThermCondA: 0.21, ThermCondB: -0.0002,
		},
	},
	"124-38-9": { // carbon dioxide
		ChemicalConstants: ChemicalConstants{
			CAS: "124-38-9", Name: "carbon dioxide", MW: 44.01, Acentric: 0.2236, Tb: 194.7,
			Hf: -393509, Sf: 213.8,
			Critical: CriticalProps{Tc: 304.13, Pc: 7377300, Vc: 9.4e-5, Zc: 0.274},
			Formula:  Formula{"C": 1, "O": 2},
		},
		corr: correlationSet{
			CpIG: [4]float64{19.8, 0.0734, -5.602e-5, 1.715e-8},
			CpLiq: [4]float64{90.0, 0.0, 0.0, 0.0},
			AntoineA: 22.5898, AntoineB: 3103.39, AntoineC: -0.16,
			ViscA: -11.0, ViscB: 200.0,
			ThermCondA: 0.1, ThermCondB: -0.0003,
		},
	},
	"7783-06-4": { // hydrogen sulfide
		ChemicalConstants: ChemicalConstants{
			CAS: "7783-06-4", Name: "hydrogen sulfide", MW: 34.08, Acentric: 0.1005, Tb: 213.6,
			Hf: -20600, Sf: 205.8,
			Critical: CriticalProps{Tc: 373.4, Pc: 8963000, Vc: 9.85e-5, Zc: 0.284},
			Formula:  Formula{"H": 2, "S": 1},
		},
		corr: correlationSet{
			CpIG: [4]float64{31.9, 0.0014, 2.4e-5, -1.1e-8},
			CpLiq: [4]float64{69.0, 0.0, 0.0, 0.0},
			AntoineA: 16.1040, AntoineB: 1768.69, AntoineC: -26.06,
			ViscA: -11.0, ViscB: 250.0,
			ThermCondA: 0.15, ThermCondB: -0.0004,
		},
	},
	"7664-41-7": { // ammonia
		ChemicalConstants: ChemicalConstants{
			CAS: "7664-41-7", Name: "ammonia", MW: 17.031, Acentric: 0.2526, Tb: 239.82,
			Hf: -45940, Sf: 192.8,
			Critical: CriticalProps{Tc: 405.5, Pc: 11333000, Vc: 7.25e-5, Zc: 0.242},
			Formula:  Formula{"N": 1, "H": 3},
		},
		corr: correlationSet{
			CpIG: [4]float64{27.31, 0.02383, 1.707e-5, -1.185e-8},
			CpLiq: [4]float64{80.8, 0.0, 0.0, 0.0},
			AntoineA: 19.4892, AntoineB: 2132.5, AntoineC: -32.98,
			ViscA: -10.3, ViscB: 600.0,
			ThermCondA: 0.25, ThermCondB: -0.0003,
		},
	},
	"7727-37-9": { // nitrogen
		ChemicalConstants: ChemicalConstants{
			CAS: "7727-37-9", Name: "nitrogen", MW: 28.0134, Acentric: 0.0372, Tb: 77.36,
			Hf: 0, Sf: 191.6,
			Critical: CriticalProps{Tc: 126.2, Pc: 3398000, Vc: 8.94e-5, Zc: 0.29},
			Formula:  Formula{"N": 2},
		},
		corr: correlationSet{
			CpIG: [4]float64{28.9, -0.00157, 8.08e-6, -2.87e-9},
			CpLiq: [4]float64{60.0, 0.0, 0.0, 0.0},
			AntoineA: 14.9542, AntoineB: 588.72, AntoineC: -6.6,
			ViscA: -13.0, ViscB: 70.0,
			ThermCondA: 0.14, ThermCondB: -0.0006,
		},
	},
	"124-18-5": { // n-decane (representative heavy HC)
		ChemicalConstants: ChemicalConstants{
			CAS: "124-18-5", Name: "n-decane", MW: 142.282, Acentric: 0.4923, Tb: 447.3,
			Hf: -249500, Sf: 545.8,
			Critical: CriticalProps{Tc: 617.7, Pc: 2110000, Vc: 6.24e-4, Zc: 0.247},
			Formula:  Formula{"C": 10, "H": 22},
			SurfaceRef: 0.0233,
		},
		corr: correlationSet{
			CpIG: [4]float64{31.1, 0.827, -4.36e-4, 8.9e-8},
			CpLiq: [4]float64{315.0, 0.0, 0.0, 0.0},
			AntoineA: 16.0114, AntoineB: 3456.8, AntoineC: -78.67,
			ViscA: -9.5, ViscB: 1400.0,
			ThermCondA: 0.135, ThermCondB: -0.00018,
		},
	},
}

// Set is an immutable handle to the resolved component list for one solve.
// Streams and flashes carry a pointer to the same Set so names/MW vectors are
// never duplicated per stream, per the design notes on stream-state sharing.
type Set struct {
	cas    []CAS
	consts []ChemicalConstants
	corr   []correlationSet
	index  map[CAS]int
}

// NewSet builds a component Set from a list of already-resolved CAS numbers.
// Unknown CAS numbers produce an error.
func NewSet(casList []CAS) (*Set, error) {
	s := &Set{
		cas:    make([]CAS, len(casList)),
		consts: make([]ChemicalConstants, len(casList)),
		corr:   make([]correlationSet, len(casList)),
		index:  make(map[CAS]int, len(casList)),
	}
	for i, c := range casList {
		entry, ok := registry[c]
		if !ok {
			return nil, UnresolvedComponent(string(c))
		}
		s.cas[i] = c
		s.consts[i] = entry.ChemicalConstants
		s.corr[i] = entry.corr
		s.index[c] = i
	}
	return s, nil
}

// N returns the number of components in the set.
func (s *Set) N() int { return len(s.cas) }

// CAS returns component i's registry identifier.
func (s *Set) CAS(i int) CAS { return s.cas[i] }

// Name returns component i's human-readable name.
func (s *Set) Name(i int) string { return s.consts[i].Name }

// Names returns all component names in order, a convenience for result
// serialization.
func (s *Set) Names() []string {
	out := make([]string, len(s.consts))
	for i, c := range s.consts {
		out[i] = c.Name
	}
	return out
}

// MW returns component i's molecular weight in g/mol.
func (s *Set) MW(i int) float64 { return s.consts[i].MW }

// MWs returns the molecular weight vector, g/mol.
func (s *Set) MWs() []float64 {
	out := make([]float64, len(s.consts))
	for i, c := range s.consts {
		out[i] = c.MW
	}
	return out
}

// Constants returns the full constant record for component i.
func (s *Set) Constants(i int) ChemicalConstants { return s.consts[i] }

// IndexOf returns the index of a CAS number within the set, or -1.
func (s *Set) IndexOf(c CAS) int {
	if idx, ok := s.index[c]; ok {
		return idx
	}
	return -1
}

// MWMix computes the mixture molecular weight (g/mol) for mole fractions zs.
func (s *Set) MWMix(zs []float64) float64 {
	var mw float64
	for i, z := range zs {
		mw += z * s.consts[i].MW
	}
	return mw
}
