package calendar

import "time"

// RegistrationGraceWorkingDays is how long an entity has to register once the
// obligation triggers (threshold crossing or failed exemption).
const RegistrationGraceWorkingDays = 3

// RegistrationDeadline computes the registration due date from the date the
// obligation triggered. Both the exemption evaluator and the hour tracker go
// through here so the two call sites cannot drift.
func RegistrationDeadline(trigger time.Time) time.Time {
	return AddWorkingDays(trigger, RegistrationGraceWorkingDays)
}
