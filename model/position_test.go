package model

import (
	"errors"
	"math"
	"testing"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawPosition
		want    Position
		wantErr bool
	}{
		{"valid", RawPosition{X: 10, Y: 20, Room: "W1N1"}, Position{X: 10, Y: 20, Room: "W1N1"}, false},
		{"edge", RawPosition{X: 0, Y: 49, Room: "W1N1"}, Position{X: 0, Y: 49, Room: "W1N1"}, false},
		{"missing room", RawPosition{X: 10, Y: 20}, Position{}, true},
		{"nan", RawPosition{X: math.NaN(), Y: 20, Room: "W1N1"}, Position{}, true},
		{"inf", RawPosition{X: 10, Y: math.Inf(1), Room: "W1N1"}, Position{}, true},
		{"fraction", RawPosition{X: 10.5, Y: 20, Room: "W1N1"}, Position{}, true},
		{"negative", RawPosition{X: -1, Y: 20, Room: "W1N1"}, Position{}, true},
		{"outside room", RawPosition{X: 50, Y: 20, Room: "W1N1"}, Position{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePosition(tc.raw)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidPosition) {
					t.Fatalf("ParsePosition(%+v) error = %v, want ErrInvalidPosition", tc.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePosition(%+v) unexpected error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("ParsePosition(%+v) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestRangeTo(t *testing.T) {
	a := Position{X: 10, Y: 10, Room: "W1N1"}
	tests := []struct {
		b    Position
		want int
	}{
		{Position{X: 10, Y: 10, Room: "W1N1"}, 0},
		{Position{X: 11, Y: 11, Room: "W1N1"}, 1},
		{Position{X: 13, Y: 11, Room: "W1N1"}, 3},
		{Position{X: 7, Y: 15, Room: "W1N1"}, 5},
		{Position{X: 10, Y: 10, Room: "W2N1"}, Unreachable},
	}
	for _, tc := range tests {
		if got := a.RangeTo(tc.b); got != tc.want {
			t.Errorf("RangeTo(%v) = %d, want %d", tc.b, got, tc.want)
		}
	}
}

func TestInRangeToAcrossRooms(t *testing.T) {
	a := Position{X: 10, Y: 10, Room: "W1N1"}
	b := Position{X: 10, Y: 10, Room: "W2N1"}
	if a.InRangeTo(b, 100) {
		t.Error("positions in different rooms should never be in range")
	}
	if !a.InRangeTo(Position{X: 12, Y: 9, Room: "W1N1"}, 2) {
		t.Error("expected (12,9) to be within 2 of (10,10)")
	}
}

func TestRawRoundTrip(t *testing.T) {
	p := Position{X: 3, Y: 4, Room: "E5S5"}
	got, err := ParsePosition(p.Raw())
	if err != nil {
		t.Fatalf("ParsePosition(Raw()) error: %v", err)
	}
	if !got.Equal(p) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}
