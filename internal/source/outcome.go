package source

import (
	"context"
	"errors"

	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/molit"
)

// Origin says where an Outcome's listings came from.
type Origin string

const (
	OriginLive   Origin = "live"
	OriginCache  Origin = "cache"
	OriginSample Origin = "sample"
	OriginEmpty  Origin = "empty"
)

// Reason classifies why live data was not used.
type Reason string

const (
	ReasonMissingKey   Reason = "missing_key"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonNoData       Reason = "no_data"
	ReasonUnreachable  Reason = "unreachable"
	ReasonTimeout      Reason = "timeout"
	ReasonRateLimited  Reason = "rate_limited"
	ReasonOffline      Reason = "offline"
	ReasonInvalidQuery Reason = "invalid_query"
	ReasonUnknown      Reason = "unknown"
)

// Message is the user-facing text for a reason.
func (r Reason) Message() string {
	switch r {
	case ReasonMissingKey:
		return "No service key configured; showing sample listings."
	case ReasonUnauthorized:
		return "The service key was rejected; check the key and its activation status."
	case ReasonNoData:
		return "No trades were reported for this region and period."
	case ReasonUnreachable:
		return "The transaction service could not be reached; showing sample listings."
	case ReasonTimeout:
		return "The transaction service did not answer in time; showing sample listings."
	case ReasonRateLimited:
		return "The daily request quota is used up; showing sample listings."
	case ReasonOffline:
		return "Offline mode; showing sample listings."
	case ReasonInvalidQuery:
		return "The region or period is not valid for a lookup; showing sample listings."
	default:
		return "The transaction lookup failed; showing sample listings."
	}
}

// Failure explains why an Outcome is not live data.
type Failure struct {
	Reason Reason `json:"reason"`
	Err    error  `json:"-"`
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Reason)
	}
	return string(f.Reason) + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome is the typed result of a listing load. Failure is nil for live
// and cached data.
type Outcome struct {
	Batch   listing.Batch `json:"-"`
	Origin  Origin        `json:"origin"`
	Failure *Failure      `json:"failure,omitempty"`
}

// Warning returns the user-facing message for a failed load, or "".
func (o Outcome) Warning() string {
	if o.Failure == nil {
		return ""
	}
	return o.Failure.Reason.Message()
}

// reasonFor maps a lookup error to its Reason.
func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, molit.ErrUnauthorized):
		return ReasonUnauthorized
	case errors.Is(err, molit.ErrNoData):
		return ReasonNoData
	case errors.Is(err, molit.ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, molit.ErrUnreachable):
		return ReasonUnreachable
	case errors.Is(err, molit.ErrUnsupported):
		return ReasonInvalidQuery
	default:
		return ReasonUnknown
	}
}
