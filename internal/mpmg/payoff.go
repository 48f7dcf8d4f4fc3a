package mpmg

import "fmt"

// The two strategies available to every agent each round.
const (
	FairPrice      = 0 // bid the non-inflated cost-based price
	CollusivePrice = 1 // bid the inflated price
)

// Payoff computes per-agent rewards for one round of the minimum-price game.
// Agent i's fair bid is b_i = (1-beta_i)*v. With k the number of i's
// opponents bidding fair and betaFair the aggregate market power of all fair
// bidders (i included when i bids fair):
//
//	fair, k = 0       -> b_i                      (sole defector wins outright)
//	fair, 0 < k < n-1 -> beta_i/betaFair * b_i    (coalition splits by power)
//	fair, k = n-1     -> beta_i * b_i             (full defection)
//	collusive, k = 0  -> alpha * beta_i * b_i     (universal collusion)
//	collusive, k > 0  -> 0                        (undercut by any defector)
//
// The discontinuities at the coalition boundaries are the minimum-price
// unanimity rule itself, hence the explicit case split. For n=1 there are no
// opponents and k=0 holds unconditionally, so a single agent earns b_i when
// fair and alpha*beta*b when collusive.
func Payoff(profile []int, beta []float64, contractValue, alpha float64) ([]float64, error) {
	n := len(beta)
	if len(profile) != n {
		return nil, fmt.Errorf("%w: action profile has length %d, want %d", ErrInput, len(profile), n)
	}
	if contractValue <= 0 {
		return nil, fmt.Errorf("%w: contract value %v, want > 0", ErrConfig, contractValue)
	}
	if alpha <= 1 {
		return nil, fmt.Errorf("%w: alpha %v, want > 1", ErrConfig, alpha)
	}

	fairCount := 0
	fairPower := 0.0
	for i, s := range profile {
		switch s {
		case FairPrice:
			fairCount++
			fairPower += beta[i]
		case CollusivePrice:
		default:
			return nil, fmt.Errorf("%w: agent %d action %d, want 0 or 1", ErrInput, i, s)
		}
	}

	rewards := make([]float64, n)
	for i, s := range profile {
		bid := (1 - beta[i]) * contractValue
		if s == CollusivePrice {
			if fairCount == 0 {
				rewards[i] = alpha * beta[i] * bid
			}
			continue
		}
		k := fairCount - 1
		switch {
		case k == 0:
			rewards[i] = bid
		case k == n-1:
			rewards[i] = beta[i] * bid
		default:
			rewards[i] = beta[i] / fairPower * bid
		}
	}
	return rewards, nil
}
