package prime

import (
	"errors"
	"math"
	"testing"
)

func TestIsPrime(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		n       int
		want    bool
		wantErr bool
	}{
		"negative":       {n: -1, wantErr: true},
		"zero":           {n: 0, want: false},
		"one":            {n: 1, want: false},
		"two":            {n: 2, want: true},
		"three":          {n: 3, want: true},
		"even composite": {n: 100, want: false},
		"odd composite":  {n: 9, want: false},
		"larger prime":   {n: 7919, want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := IsPrime(tc.n)
			if tc.wantErr {
				if err == nil || !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("IsPrime(%d) error = %v, want ErrInvalidArgument", tc.n, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("IsPrime(%d) unexpected error: %v", tc.n, err)
			}
			if got != tc.want {
				t.Fatalf("IsPrime(%d) = %v, want %v", tc.n, got, tc.want)
			}
		})
	}
}

func TestGetPrime(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		n       int
		want    int
		wantErr bool
	}{
		"negative rejected":    {n: -5, wantErr: true},
		"tabled exact match":   {n: 3, want: 3},
		"between table rows":   {n: 4, want: 7},
		"zero":                 {n: 0, want: 3},
		"beyond table":         {n: 8_000_000, want: 0}, // checked below via IsPrime
		"math max int32 pinned": {n: math.MaxInt32, want: math.MaxInt32},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := GetPrime(tc.n)
			if tc.wantErr {
				if err == nil || !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("GetPrime(%d) error = %v, want ErrInvalidArgument", tc.n, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetPrime(%d) unexpected error: %v", tc.n, err)
			}
			if tc.want != 0 && got != tc.want {
				t.Fatalf("GetPrime(%d) = %d, want %d", tc.n, got, tc.want)
			}
			if got < tc.n {
				t.Fatalf("GetPrime(%d) = %d, want >= %d", tc.n, got, tc.n)
			}
			if ok, _ := IsPrime(got); !ok {
				t.Fatalf("GetPrime(%d) = %d, which is not prime", tc.n, got)
			}
		})
	}
}

func TestGetPrimeMonotonic(t *testing.T) {
	t.Parallel()

	prev := 0
	for n := 0; n < 10_000; n++ {
		got, err := GetPrime(n)
		if err != nil {
			t.Fatalf("GetPrime(%d) unexpected error: %v", n, err)
		}
		if got < prev {
			t.Fatalf("GetPrime(%d) = %d regressed below previous result %d", n, got, prev)
		}
		prev = got
	}
}
