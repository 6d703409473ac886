package models

// Outcome is a legal Expected/Actual Outcome cell value.
type Outcome string

const (
	OutcomeBlank  Outcome = ""
	OutcomeGreen  Outcome = "Green"
	OutcomeYellow Outcome = "Yellow"
	OutcomeRed    Outcome = "Red"
	OutcomeNoFlag Outcome = "No Flag"
	OutcomeNA     Outcome = "N/A"
)

// OutcomeDomain is the closed, ordered set backing the dropdown list.
var OutcomeDomain = []Outcome{
	OutcomeBlank,
	OutcomeGreen,
	OutcomeYellow,
	OutcomeRed,
	OutcomeNoFlag,
	OutcomeNA,
}

// Valid reports whether o belongs to the outcome domain.
func (o Outcome) Valid() bool {
	for _, v := range OutcomeDomain {
		if v == o {
			return true
		}
	}
	return false
}
