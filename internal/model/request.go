package model

import "fmt"

type RequestKind int8

const (
	RequestSay = RequestKind(iota + 1)
	RequestBinary
	RequestPhoto
)

// RequestKinds is the order in which a continuation message is matched against pending requests.
var RequestKinds = []RequestKind{RequestSay, RequestBinary, RequestPhoto}

func (k RequestKind) IsValid() bool {
	return k >= RequestSay && k <= RequestPhoto
}

func (k RequestKind) String() string {
	switch k {
	case RequestSay:
		return "say"
	case RequestBinary:
		return "binary"
	case RequestPhoto:
		return "photo"
	default:
		return fmt.Sprintf("unknown(%d)", int8(k))
	}
}

// PendingRequest is the first half of a two-step request: the user asked for something and the bot is
// waiting for the payload.
type PendingRequest struct {
	UserID int64
	Kind   RequestKind
}

func (r PendingRequest) String() string {
	return fmt.Sprintf("Request{user = %d, type = %s}", r.UserID, r.Kind)
}
