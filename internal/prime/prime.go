package prime

import (
	"fmt"
	"math"

	"github.com/giantswarm/keyedsem/internal/sentinel"
)

// ErrInvalidArgument is returned by GetPrime and IsPrime for negative input.
const ErrInvalidArgument = sentinel.Error("prime: n must be >= 0")

// maxInt32 is the terminal value GetPrime saturates at once the requested
// size runs past the last tabled prime and the odd-candidate probe also runs
// out of room. It doubles as the test-pinned case: maxInt32 (2147483647,
// the Mersenne prime 2^31-1) is itself prime, so GetPrime(maxInt32) ==
// maxInt32 regardless of table contents.
const maxInt32 = math.MaxInt32

// primes is a monotonically increasing table of primes used to size
// hash-based collections without common divisors. Successive entries grow
// by roughly 1.2x, not 2x, and the table ends at 7199369; GetPrime serves
// larger requests with its odd-candidate probe.
var primes = []int{
	3, 7, 11, 17, 23, 29, 37, 47, 59, 71, 89, 107, 131, 163, 197, 239, 293,
	353, 431, 521, 631, 761, 919, 1103, 1327, 1597, 1931, 2333, 2801, 3371,
	4049, 4861, 5839, 7013, 8419, 10103, 12143, 14591, 17519, 21023, 25229,
	30293, 36353, 43627, 52361, 62851, 75431, 90523, 108631, 130363, 156437,
	187751, 225307, 270371, 324449, 389357, 467237, 560689, 672827, 807403,
	968897, 1162687, 1395263, 1674319, 2009191, 2411033, 2893249, 3471899,
	4166287, 4999559, 5999471, 7199369,
}

// IsPrime reports whether n is prime. It fails with ErrInvalidArgument for
// n < 0.
func IsPrime(n int) (bool, error) {
	if n < 0 {
		return false, fmt.Errorf("%w, got %d", ErrInvalidArgument, n)
	}
	switch {
	case n == 2 || n == 3:
		return true, nil
	case n <= 1 || n%2 == 0:
		return false, nil
	}
	limit := int(math.Sqrt(float64(n)))
	for d := 3; d <= limit; d += 2 {
		if n%d == 0 {
			return false, nil
		}
	}
	return true, nil
}

// GetPrime returns the first tabled prime that is >= n, which is not
// always the smallest prime >= n (GetPrime(12) is 17, not 13). If n runs
// past the table, it probes odd candidates >= n
// (skipping multiples of 3, which are never prime past 3 itself) with
// trial division until one checks out, saturating at maxInt32.
//
// GetPrime fails with ErrInvalidArgument for n < 0.
func GetPrime(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w, got %d", ErrInvalidArgument, n)
	}

	for _, p := range primes {
		if p >= n {
			return p, nil
		}
	}

	if n >= maxInt32 {
		return maxInt32, nil
	}

	for c := n | 1; c < maxInt32; c += 2 {
		if c%3 == 0 && c != 3 {
			continue
		}
		ok, err := IsPrime(c)
		if err != nil {
			return 0, err
		}
		if ok {
			return c, nil
		}
	}
	return maxInt32, nil
}
