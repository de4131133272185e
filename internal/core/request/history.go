package request

import "time"

// HistoryItem is a request as it was when it was sent.
type HistoryItem struct {
	Request
	Timestamp time.Time `json:"timestamp"`
}

// NewHistoryItem snapshots r at time at.
func NewHistoryItem(r Request, at time.Time) HistoryItem {
	return HistoryItem{Request: r.Clone(), Timestamp: at.Round(0)}
}

// ToRequest copies the request fields out of the item, leaving the
// timestamp behind.
func (h HistoryItem) ToRequest() Request {
	return h.Request.Clone()
}
