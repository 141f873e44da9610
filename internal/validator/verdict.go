package validator

// Verdict statuses. "error" is reserved for pipeline failures (transport,
// unparsable reply); the model itself is only ever allowed pass or fail.
const (
	StatusPass  = "pass"
	StatusFail  = "fail"
	StatusError = "error"
)

// Verdict is the structured outcome of checking one rule against extracted
// document text. Every Verdict is well-formed: status is one of the three
// constants, confidence is within [0,100], and the string fields are bounded,
// no matter how malformed the upstream reply was.
type Verdict struct {
	Rule       string `json:"rule"`
	Status     string `json:"status"`
	Evidence   string `json:"evidence"`
	Reasoning  string `json:"reasoning"`
	Confidence int    `json:"confidence"`
}
