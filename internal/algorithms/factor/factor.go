// Package factor registers integer factorisation implementations with the
// default invoke registry.
package factor

import (
	"context"
	"math/big"
	"sort"

	"github.com/Aidin1998/algohost/internal/invoke"
)

// Implementation ids.
const (
	TrialDivisionID = "trial"
	PollardRhoID    = "rho"
)

// ParamN is the integer to factor.
const ParamN = "N"

// Result is returned by every factor implementation.
type Result struct {
	N       int64   `json:"N"`
	Factors []int64 `json:"factors"`
}

func init() {
	invoke.Register(TrialDivisionID, Trial)
	invoke.Register(PollardRhoID, Rho)
}

// Trial factors N by trial division.
func Trial(ctx context.Context, args invoke.Args) (any, error) {
	n, err := readN(args)
	if err != nil {
		return nil, err
	}
	factors, err := trialDivision(ctx, n)
	if err != nil {
		return nil, err
	}
	return Result{N: n, Factors: factors}, nil
}

// Rho factors N with Pollard's rho, falling back to trial division for
// small cofactors.
func Rho(ctx context.Context, args invoke.Args) (any, error) {
	n, err := readN(args)
	if err != nil {
		return nil, err
	}
	factors, err := pollard(ctx, n)
	if err != nil {
		return nil, err
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i] < factors[j] })
	return Result{N: n, Factors: factors}, nil
}

func readN(args invoke.Args) (int64, error) {
	n, err := args.Int(ParamN)
	if err != nil {
		return 0, err
	}
	if n < 2 {
		return 0, invoke.InvalidArgumentf("N must be an integer >= 2, got %d", n)
	}
	return n, nil
}

func trialDivision(ctx context.Context, n int64) ([]int64, error) {
	var factors []int64
	for n%2 == 0 {
		factors = append(factors, 2)
		n /= 2
	}
	for d := int64(3); d <= n/d; d += 2 {
		if d%(1<<16) == 1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for n%d == 0 {
			factors = append(factors, d)
			n /= d
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors, nil
}

func pollard(ctx context.Context, n int64) ([]int64, error) {
	if n < 1<<20 {
		return trialDivision(ctx, n)
	}
	if big.NewInt(n).ProbablyPrime(20) {
		return []int64{n}, nil
	}
	if n%2 == 0 {
		rest, err := pollard(ctx, n/2)
		if err != nil {
			return nil, err
		}
		return append([]int64{2}, rest...), nil
	}

	d, err := rhoDivisor(ctx, n)
	if err != nil {
		return nil, err
	}
	left, err := pollard(ctx, d)
	if err != nil {
		return nil, err
	}
	right, err := pollard(ctx, n/d)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

// rhoDivisor returns a non-trivial divisor of the odd composite n.
func rhoDivisor(ctx context.Context, n int64) (int64, error) {
	bn := big.NewInt(n)
	one := big.NewInt(1)
	for c := int64(1); ; c++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		x, y := big.NewInt(2), big.NewInt(2)
		bc := big.NewInt(c)
		d := big.NewInt(1)
		diff := new(big.Int)
		step := func(v *big.Int) {
			v.Mul(v, v).Add(v, bc).Mod(v, bn)
		}
		for d.Cmp(one) == 0 {
			step(x)
			step(y)
			step(y)
			diff.Sub(x, y).Abs(diff)
			d.GCD(nil, nil, diff, bn)
		}
		if d.Cmp(bn) != 0 {
			return d.Int64(), nil
		}
	}
}
