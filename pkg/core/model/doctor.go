package model

// Doctor represents an on-call roster entry. Doctors are identified
// by their unique name and grouped by their shift identifier.
// The hospital business rule states that at least one doctor must
// stay on call for each shift. That rule is checked by the write-skew
// scenario logic itself (read the count, then update), not by any
// database constraint, since adding such a constraint would hide the
// anomaly which the scenario exists to demonstrate.
type Doctor struct {
	Name    string
	ShiftID int64
	OnCall  bool
}
