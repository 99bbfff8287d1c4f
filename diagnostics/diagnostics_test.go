package diagnostics

import "testing"

func TestCheckExtSuggestsClosest(t *testing.T) {
	err := checkExt("profile.pn")
	if err == nil {
		t.Fatal("expected an error for an invalid extension")
	}
}

func TestCheckExtAcceptsKnown(t *testing.T) {
	for _, ext := range []string{"plot.png", "plot.svg", "plot.pdf"} {
		if err := checkExt(ext); err != nil {
			t.Errorf("checkExt(%q) = %v, want nil", ext, err)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{".pn", ".png", 1},
		{".png", ".png", 0},
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

type fakeBubbleDewEngine struct{}

func (fakeBubbleDewEngine) BubblePointT(P float64, zs []float64) (float64, error) {
	return 350 - 30*zs[0], nil
}

func (fakeBubbleDewEngine) DewPointT(P float64, zs []float64) (float64, error) {
	return 360 - 30*zs[0], nil
}

func TestDrawTxyRejectsNonBinary(t *testing.T) {
	err := DrawTxy(&TxyConfig{}, "/tmp/diagnostics_test_txy.svg", fakeBubbleDewEngine{}, 101325, 3)
	if err == nil {
		t.Fatal("expected an error for a non-binary component count")
	}
}

func TestDrawTrayProfileRejectsEmpty(t *testing.T) {
	err := DrawTrayProfile(&TrayProfileConfig{}, "/tmp/diagnostics_test_tray.svg", nil)
	if err == nil {
		t.Fatal("expected an error for an empty stage-temperature slice")
	}
}
