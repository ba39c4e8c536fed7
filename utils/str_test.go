package utils

import "testing"

func TestRound(t *testing.T) {
	if got := Round(3.14159, 2); got != 3.14 {
		t.Fatalf("round = %v, want 3.14", got)
	}
	if got := Round(2.5, 0); got != 3 {
		t.Fatalf("round = %v, want 3", got)
	}
	if got := Round(0.030499999, 2); got != 0.03 {
		t.Fatalf("round = %v, want 0.03", got)
	}
}

func TestFormatFloat(t *testing.T) {
	if got := FormatFloat(0.2); got != "0.2" {
		t.Fatalf("format = %q, want 0.2", got)
	}
	if got := FormatFloat(-32767); got != "-32767" {
		t.Fatalf("format = %q, want -32767", got)
	}
}

func TestHexColorToRGB(t *testing.T) {
	r, g, b, err := HexColorToRGB("#2c7bb6")
	if err != nil {
		t.Fatal(err)
	}
	if r != 0x2c || g != 0x7b || b != 0xb6 {
		t.Fatalf("rgb = %d %d %d", r, g, b)
	}
	if _, _, _, err = HexColorToRGB("#fff"); err != ErrBadHexColor {
		t.Fatalf("short color err = %v", err)
	}
	if _, _, _, err = HexColorToRGB("not-hex"); err != ErrBadHexColor {
		t.Fatalf("garbage color err = %v", err)
	}
}
