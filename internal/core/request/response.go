package request

import (
	"encoding/json"
	"strconv"
)

// Response is the normalized outcome of one dispatch. It is a snapshot: the
// session stamps DispatchID once and nothing modifies it afterwards.
type Response struct {
	Status      int             `json:"status"`
	StatusText  string          `json:"statusText"`
	Time        int64           `json:"time"`
	Data        json.RawMessage `json:"data"`
	Size        string          `json:"size"`
	ContentType string          `json:"contentType,omitempty"`
	DispatchID  string          `json:"dispatchId,omitempty"`
}

// FormatSize renders a byte count the way Response.Size carries it.
func FormatSize(n int) string {
	return strconv.Itoa(n) + " bytes"
}
