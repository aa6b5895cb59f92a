package facesvc

import (
	"bytes"
	"encoding/json"
)

// Recognition is the interpreted reply of /recognize_face.
type Recognition struct {
	Status     string
	NIK        string
	Confidence json.RawMessage // diteruskan apa adanya
	Raw        json.RawMessage
}

// Matched: kontrak baru pakai status "success"; kontrak lama cukup ada nik.
func (r Recognition) Matched() bool {
	if r.NIK == "" {
		return false
	}
	if r.Status != "" {
		return r.Status == "success"
	}
	return true
}

func (r Recognition) Payload() any { return decodeBody(r.Raw) }

// ConfidenceValue returns the confidence as received, or nil when absent.
func (r Recognition) ConfidenceValue() json.RawMessage {
	if len(r.Confidence) == 0 || bytes.Equal(r.Confidence, []byte("null")) {
		return nil
	}
	return r.Confidence
}

func parseRecognition(body []byte) Recognition {
	rec := Recognition{Raw: body}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return rec
	}
	rec.Status = stringField(fields["status"])
	rec.NIK = stringField(fields["nik"])
	rec.Confidence = fields["confidence"]
	return rec
}

// stringField accepts both "123" and 123.
func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
