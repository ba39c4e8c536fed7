package tiffconvert

import (
	"math"
	"testing"
	"time"
)

func TestGsdFromPixelSize(t *testing.T) {
	if got := gsdFromPixelSize(0.03, 0.031); got != 3.05 {
		t.Fatalf("gsd = %v, want 3.05", got)
	}
	if got := gsdFromPixelSize(0.05, 0.05); got != 5 {
		t.Fatalf("gsd = %v, want 5", got)
	}
}

func TestNormalizeNoData(t *testing.T) {
	if got := normalizeNoData(math.NaN(), true); got != 0 {
		t.Fatalf("nan nodata = %v, want 0", got)
	}
	if got := normalizeNoData(-32767, true); got != -32767 {
		t.Fatalf("nodata = %v, want -32767", got)
	}
	if got := normalizeNoData(0, false); got != 0 {
		t.Fatalf("absent nodata = %v, want 0", got)
	}
}

func TestAcquisitionDate(t *testing.T) {
	want := time.Date(2021, 3, 4, 10, 11, 12, 0, time.UTC)

	if got := acquisitionDate("2021-03-04T10:11:12-03:00", ""); !got.Equal(want) {
		t.Fatalf("drone deploy date = %v, want %v", got, want)
	}
	if got := acquisitionDate("", "2021:03:04 10:11:12"); !got.Equal(want) {
		t.Fatalf("pix4d date = %v, want %v", got, want)
	}
	// DroneDeploy tag wins when both are present.
	if got := acquisitionDate("2021-03-04T10:11:12-03:00", "1999:01/01 00:00:00"); !got.Equal(want) {
		t.Fatalf("date = %v, want %v", got, want)
	}
	if got := acquisitionDate("", ""); !got.IsZero() {
		t.Fatalf("missing tags should yield a zero date, got %v", got)
	}
	if got := acquisitionDate("garbage-value", "also garbage"); !got.IsZero() {
		t.Fatalf("malformed tags should yield a zero date, got %v", got)
	}
}
