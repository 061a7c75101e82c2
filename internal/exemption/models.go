package exemption

// Type identifies which ordinance category relieved an entity from
// registration, or None when it must register.
type Type string

const (
	TypeHoursThreshold      Type = "HOURS_THRESHOLD"
	TypeNewsMedia           Type = "NEWS_MEDIA"
	TypeGovernmentOfficial  Type = "GOVERNMENT_OFFICIAL"
	TypePublicTestimonyOnly Type = "PUBLIC_TESTIMONY_ONLY"
	TypeCountyRequest       Type = "COUNTY_REQUEST"
	TypeAdvisoryCommittee   Type = "ADVISORY_COMMITTEE"
	TypeNone                Type = "NONE"
)

// Profile is the lobbying-activity questionnaire an evaluation runs against.
// Transient: constructed per evaluation, never persisted.
type Profile struct {
	HoursPerQuarter             float64 `json:"hoursPerQuarter"`
	IsNewsMedia                 bool    `json:"isNewsMedia"`
	IsGovernmentOfficial        bool    `json:"isGovernmentOfficial"`
	IsPublicTestimonyOnly       bool    `json:"isPublicTestimonyOnly"`
	IsRespondingToCountyRequest bool    `json:"isRespondingToCountyRequest"`
	IsAdvisoryCommitteeMember   bool    `json:"isAdvisoryCommitteeMember"`
}

// Result is the evaluation outcome. Derived, recomputed on demand.
// RegistrationDeadline is the long-form date string county notices use,
// present only when registration is required.
type Result struct {
	IsExempt             bool   `json:"isExempt"`
	ExemptionType        Type   `json:"exemptionType"`
	Reason               string `json:"reason"`
	MustRegister         bool   `json:"mustRegister"`
	RegistrationDeadline string `json:"registrationDeadline,omitempty"`
}
