// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package fallback

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func atoi() Strategy[string, int] {
	return Strategy[string, int]{Name: "atoi", Run: strconv.Atoi}
}

func constant(name string, v int) Strategy[string, int] {
	return Strategy[string, int]{Name: name, Run: func(string) (int, error) { return v, nil }}
}

func failing(name string) Strategy[string, int] {
	return Strategy[string, int]{Name: name, Run: func(string) (int, error) {
		return 0, errors.New(name + " failed")
	}}
}

func TestChainFirstSuccessWins(t *testing.T) {
	tests := []struct {
		name         string
		chain        *Chain[string, int]
		input        string
		wantValue    int
		wantStrategy string
		wantAttempts int
	}{
		{"first strategy", New(atoi(), constant("zero", 0)), "42", 42, "atoi", 1},
		{"falls through", New(atoi(), constant("zero", 0)), "x", 0, "zero", 2},
		{"skips failures", New(failing("a"), failing("b"), constant("c", 7)), "", 7, "c", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.chain.Run(tt.input)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out.Value != tt.wantValue {
				t.Errorf("Value = %d, want %d", out.Value, tt.wantValue)
			}
			if out.Strategy != tt.wantStrategy {
				t.Errorf("Strategy = %q, want %q", out.Strategy, tt.wantStrategy)
			}
			if len(out.Attempts) != tt.wantAttempts {
				t.Errorf("len(Attempts) = %d, want %d", len(out.Attempts), tt.wantAttempts)
			}
		})
	}
}

func TestChainExhausted(t *testing.T) {
	out, err := New(failing("strict"), failing("lenient")).Run("x")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Run() error = %v, want ErrExhausted", err)
	}
	for _, want := range []string{"strict failed", "lenient failed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
	if len(out.Attempts) != 2 {
		t.Errorf("len(Attempts) = %d, want 2", len(out.Attempts))
	}
	for _, a := range out.Attempts {
		if a.Err == nil {
			t.Errorf("attempt %s has nil error", a.Strategy)
		}
	}
}

func TestChainRecoversPanics(t *testing.T) {
	boom := Strategy[string, int]{Name: "boom", Run: func(string) (int, error) { panic("bad input") }}
	out, err := New(boom, constant("safe", 1)).Run("")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Strategy != "safe" {
		t.Errorf("Strategy = %q, want safe", out.Strategy)
	}
	if out.Attempts[0].Err == nil || !strings.Contains(out.Attempts[0].Err.Error(), "bad input") {
		t.Errorf("panic attempt error = %v", out.Attempts[0].Err)
	}
}

func TestChainObserver(t *testing.T) {
	var seen []string
	chain := New(failing("a"), constant("b", 2)).WithObserver(func(a Attempt) {
		seen = append(seen, a.Strategy)
	})
	if _, err := chain.Run(""); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Join(seen, ",") != "a,b" {
		t.Errorf("observed = %v, want [a b]", seen)
	}
	if got := strings.Join(chain.Names(), ","); got != "a,b" {
		t.Errorf("Names() = %q, want a,b", got)
	}
}

func TestChainEmpty(t *testing.T) {
	_, err := New[string, int]().Run("")
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("empty chain error = %v, want ErrExhausted", err)
	}
}
