package protocol

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDayIndex(t *testing.T) {
	c := Default()
	cases := []struct {
		name string
		ts   uint64
		want int64
	}{
		{"genesis", c.Genesis, 0},
		{"end of day 0", c.Genesis + DaySeconds - 1, 0},
		{"start of day 1", c.Genesis + DaySeconds, 1},
		{"day 42 midday", c.Genesis + 42*DaySeconds + 3600, 42},
		{"one second before genesis", c.Genesis - 1, -1},
		{"one day before genesis", c.Genesis - DaySeconds, -1},
		{"one day and a second before genesis", c.Genesis - DaySeconds - 1, -2},
	}
	for _, tc := range cases {
		if got := c.DayIndex(tc.ts); got != tc.want {
			t.Fatalf("%s: day index %d != %d", tc.name, got, tc.want)
		}
	}
}

func TestBucketStartRoundTrip(t *testing.T) {
	c := Default()
	for _, day := range []int64{0, 1, 7, 30, 1000} {
		start := c.BucketStart(day)
		if c.DayIndex(start) != day {
			t.Fatalf("bucket %d start %d maps to %d", day, start, c.DayIndex(start))
		}
		if c.DayIndex(start+DaySeconds-1) != day {
			t.Fatalf("bucket %d end maps to another bucket", day)
		}
	}
}

func TestTokenAmount(t *testing.T) {
	c := Default()
	raw, _ := new(big.Int).SetString("1234500000000000000001", 10)
	got := c.TokenAmount(raw)
	want := decimal.RequireFromString("1234.500000000000000001")
	if !got.Equal(want) {
		t.Fatalf("token amount %s != %s", got, want)
	}
	if !c.TokenAmount(nil).IsZero() {
		t.Fatalf("nil raw amount should be zero")
	}
}

func TestFeeCutRatio(t *testing.T) {
	c := Default()
	if got := c.FeeCutRatio(800000); !got.Equal(decimal.RequireFromString("0.8")) {
		t.Fatalf("cut ratio %s", got)
	}
	if got := c.FeeCutRatio(1); !got.Equal(decimal.RequireFromString("0.000001")) {
		t.Fatalf("cut ratio %s", got)
	}
	if got := c.FeeCutRatio(0); !got.IsZero() {
		t.Fatalf("cut ratio %s", got)
	}
}

func TestRatioZeroDenominator(t *testing.T) {
	c := Default()
	if got := c.Ratio(decimal.NewFromInt(5), decimal.Zero); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
	if got := c.Ratio(decimal.NewFromInt(1), decimal.NewFromInt(3)); !got.Equal(decimal.RequireFromString("0.333333333333333333")) {
		t.Fatalf("ratio precision %s", got)
	}
}
