package dice

import "go.uber.org/zap"

// RollResult is the audit trail of one evaluated Expression.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all dice plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// Roller wraps a Source and logger; every draw is logged at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Uniform returns a value drawn uniformly from [lo, hi).
func (r *Roller) Uniform(label string, lo, hi float64) float64 {
	v := lo + (hi-lo)*r.src.Float64()
	r.logger.Debug("uniform draw",
		zap.String("label", label),
		zap.Float64("lo", lo),
		zap.Float64("hi", hi),
		zap.Float64("value", v),
	)
	return v
}

// Roll evaluates expr.
//
// Postcondition: len(result.Dice) == expr.Count.
func (r *Roller) Roll(expr Expression) RollResult {
	result := RollResult{Expression: expr.Raw, Dice: make([]int, expr.Count), Modifier: expr.Modifier}
	for i := range result.Dice {
		result.Dice[i] = r.src.Intn(expr.Sides) + 1
	}
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses and rolls expr.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}
