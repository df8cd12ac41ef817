package types

// Cause classifies a provider failure by the corrective action it implies
type Cause string

const (
	CauseForbidden   Cause = "forbidden"
	CauseRateLimited Cause = "rate_limited"
	CauseBadRequest  Cause = "bad_request"
	CauseNotFound    Cause = "not_found"
	CauseUnknown     Cause = "unknown"
)

func (c Cause) String() string {
	return string(c)
}
