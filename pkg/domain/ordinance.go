package domain

// RegistrationThresholdHours is the statutory lobbying-hours cutoff per
// quarter. "More than 10 hours" triggers registration, so exactly 10 is still
// exempt.
const RegistrationThresholdHours = 10.0
