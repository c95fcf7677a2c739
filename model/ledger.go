package model

// Ledger accumulates budget, public trust, and scoring counters. It is owned
// by the simulation state and mutated only through engine and action entry
// points; formula functions never touch it.
type Ledger struct {
	// BudgetM is the remaining monetary budget in $M.
	BudgetM float64
	// StartingBudgetM is the budget the scenario began with; it feeds the
	// final-score efficiency term and never changes after reset.
	StartingBudgetM float64
	// Trust is public trust in the program, clamped to [0,100].
	Trust float64
	// TrackingCapacity is the number of objects that can be tracked
	// concurrently.
	TrackingCapacity int
	TrackedCount     int

	LivesSaved            int64
	LivesAtRisk           int64
	FalseAlarms           int
	CorrectAlerts         int
	ObjectsTracked        int
	SuccessfulDeflections int

	Score float64
}

// ClampTrust keeps trust inside [0,100] after any adjustment.
func (l *Ledger) ClampTrust() {
	if l.Trust < 0 {
		l.Trust = 0
	}
	if l.Trust > 100 {
		l.Trust = 100
	}
}

// FinalScore folds trust and budget consumption into the headline score.
//
// The budget term rewards spending: every $M consumed from the starting
// budget adds two points, so an operator who funds missions outscores one
// who hoards the budget.
func (l *Ledger) FinalScore() float64 {
	return l.Score + l.Trust*5 + (l.StartingBudgetM-l.BudgetM)*2
}

// GameOver reports whether the scenario has failed. Either exhausting the
// budget or losing all public trust ends the run.
func (l *Ledger) GameOver() bool {
	return l.Trust <= 0 || l.BudgetM <= 0
}
