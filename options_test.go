package keyedsem

import (
	"errors"
	"testing"
)

func TestCountedConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg     CountedConfig
		wantErr bool
	}{
		"defaults ok": {cfg: defaultCountedConfig(), wantErr: false},
		"zero max count": {
			cfg:     CountedConfig{MaxCount: 0, PoolSize: 0, PoolInitialFill: -1},
			wantErr: true,
		},
		"negative pool size": {
			cfg:     CountedConfig{MaxCount: 1, PoolSize: -1, PoolInitialFill: -1},
			wantErr: true,
		},
		"initial fill below -1": {
			cfg:     CountedConfig{MaxCount: 1, PoolSize: 5, PoolInitialFill: -2},
			wantErr: true,
		},
		"initial fill above pool size": {
			cfg:     CountedConfig{MaxCount: 1, PoolSize: 5, PoolInitialFill: 6},
			wantErr: true,
		},
		"everything wrong at once": {
			cfg:     CountedConfig{MaxCount: 0, PoolSize: -1, PoolInitialFill: -2},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tc.wantErr && !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("Validate() = %v, want wrapping ErrInvalidArgument", err)
			}
		})
	}
}

func TestCountedConfigValidateJoinsAllViolations(t *testing.T) {
	cfg := CountedConfig{MaxCount: 0, PoolSize: -1, PoolInitialFill: -2}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate() error does not support errors.Join unwrapping: %v", err)
	}
	if n := len(joined.Unwrap()); n != 3 {
		t.Fatalf("Validate() joined %d errors, want 3", n)
	}
}

func TestStripedConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg     StripedConfig[string]
		wantErr bool
	}{
		"defaults ok":       {cfg: defaultStripedConfig[string](), wantErr: false},
		"zero stripes ok":   {cfg: StripedConfig[string]{NumberOfStripes: 0, MaxCount: 1}, wantErr: false},
		"negative stripes":  {cfg: StripedConfig[string]{NumberOfStripes: -1, MaxCount: 1}, wantErr: true},
		"zero max count":    {cfg: StripedConfig[string]{NumberOfStripes: 4, MaxCount: 0}, wantErr: true},
		"both invalid":      {cfg: StripedConfig[string]{NumberOfStripes: -1, MaxCount: 0}, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestWithConcurrencyLevelPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("WithConcurrencyLevel(0) did not panic")
		}
	}()
	WithConcurrencyLevel(0)
}

func TestWithHasherPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("WithHasher(nil) did not panic")
		}
	}()
	WithHasher[string](nil)
}
