package gateway

import (
	"fmt"

	"facegateway/internal/validation"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindExternal
	KindTransport
	KindNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindExternal:
		return "external_service"
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the only error type operations return; handlers map Kind to a status.
type Error struct {
	Kind    Kind
	Message string

	Fields validation.Errors // KindValidation

	StatusCode int // KindExternal: status dari microservice
	Payload    any // KindExternal: body error microservice

	NIK string // KindNotFound: nik yang dikenali tapi tidak ada di db

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }
