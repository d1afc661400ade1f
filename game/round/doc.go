// Package round runs a single game of Ricochet Robots on a fixed board.
//
// A Round owns the robot configuration and the goal pool. Goals are drawn at
// random without replacement from a caller-supplied *rand.Rand, so a seeded
// source replays the same round. Submitted move sequences are played inside
// a TxStack transaction: an illegal or validate-only sequence leaves no
// trace, a committed legal one completes the goal.
//
// Usage:
//
//	rng := rand.New(rand.NewSource(seed))
//	r, err := round.NewRandom(board, rng, false)
//	if err != nil {
//		return err
//	}
//	goal, _ := r.NextGoal()
//	res, err := r.ValidateAndApply(moves, true)
//	if errors.Is(err, round.ErrNoRicochet) {
//		// the goal robot has to turn at least once
//	}
//
// Lifecycle:
//
// A round is Idle while no goal is active, GoalActive after NextGoal, and
// Done once every goal on the board has been completed.
package round
