package theme

import "testing"

func TestForModePicksLatteOnlyForLight(t *testing.T) {
	if ForMode("light") != Latte {
		t.Fatalf("light mode should use Latte")
	}
	for _, mode := range []string{"dark", "system", ""} {
		if ForMode(mode) != Mocha {
			t.Fatalf("mode %q should use Mocha", mode)
		}
	}
}

func TestUseSwitchesColours(t *testing.T) {
	Use(Latte)
	defer Use(Mocha)
	if Base != Latte.Base || Peach != Latte.Peach {
		t.Fatalf("colours not switched: base=%s peach=%s", Base, Peach)
	}
}
