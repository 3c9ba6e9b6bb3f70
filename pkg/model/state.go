package model

type State int

const (
	StatePending State = iota
	StateOpen
	StateExpired
)

func (state State) String() string {
	names := []string{
		"PENDING",
		"OPEN",
		"EXPIRED"}

	if state < StatePending || state > StateExpired {
		return "UNKNOWN"
	}

	return names[state]
}

type CountdownKind string

const (
	CountdownToOpen   CountdownKind = "to_open"
	CountdownToExpiry CountdownKind = "to_expiry"
)

// Countdown is the whole number of minutes left until the next transition of
// a session.
type Countdown struct {
	Kind    CountdownKind
	Minutes int
}
