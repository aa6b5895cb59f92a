package facesvc

import (
	"encoding/json"
	"fmt"
)

// StatusError: microservice menjawab dengan status non-2xx.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: face service returned status %d", e.Endpoint, e.StatusCode)
}

// Payload returns the error body verbatim: raw JSON when valid, text otherwise.
func (e *StatusError) Payload() any {
	return decodeBody(e.Body)
}

// TransportError: request gagal sampai sebelum ada respon (timeout, dial, dns).
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// decodeBody tidak unmarshal ke any: angka besar (nik) dan "1.0" harus tetap utuh.
func decodeBody(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	if !json.Valid(b) {
		return string(b)
	}
	return json.RawMessage(b)
}
