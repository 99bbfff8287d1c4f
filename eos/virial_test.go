package eos

import (
	"math"
	"testing"
)

func TestAbbottB0(t *testing.T) {
	tests := []struct {
		name    string
		tr      float64
		want    float64
		wantErr bool
	}{
		{"Tr=1", 1.0, 0.083 - 0.422, false},
		{"Tr=2", 2.0, 0.083 - 0.422/math.Pow(2, 1.6), false},
		{"Tr=0", 0.0, 0, true},
		{"Tr=-1", -1.0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AbbottB0(tt.tr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AbbottB0(%v) error = %v, wantErr %v", tt.tr, err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AbbottB0(%v) = %v, want %v", tt.tr, got, tt.want)
			}
		})
	}
}

func TestAbbottB1(t *testing.T) {
	tests := []struct {
		name    string
		tr      float64
		want    float64
		wantErr bool
	}{
		{"Tr=1", 1.0, 0.139 - 0.172, false},
		{"Tr=2", 2.0, 0.139 - 0.172/math.Pow(2, 4.2), false},
		{"Tr=0", 0.0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AbbottB1(tt.tr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AbbottB1(%v) error = %v, wantErr %v", tt.tr, err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AbbottB1(%v) = %v, want %v", tt.tr, got, tt.want)
			}
		})
	}
}

func TestVirialZPropane(t *testing.T) {
	// Propane: Tc=369.8K, Pc=4.25MPa, w=0.152, at low reduced pressure the
	// two-term virial Z should sit close to but below 1.
	z, err := VirialZ(369.8, 4.25e6, 0.152, 323, 101325)
	if err != nil {
		t.Fatal(err)
	}
	if z <= 0 || z >= 1.05 {
		t.Errorf("VirialZ = %v, want a value near but below 1", z)
	}
}

func TestVirialMixtureZMatchesPureAtSingleComponent(t *testing.T) {
	z, err := VirialMixtureZ([]float64{369.8}, []float64{4.25e6}, []float64{0.152}, []float64{1}, 323, 101325)
	if err != nil {
		t.Fatal(err)
	}
	zPure, _ := VirialZ(369.8, 4.25e6, 0.152, 323, 101325)
	if math.Abs(z-zPure) > 1e-9 {
		t.Errorf("VirialMixtureZ(single component) = %v, want %v", z, zPure)
	}
}
