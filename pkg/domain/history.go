package domain

// HistoryStatus is the outcome recorded in history
type HistoryStatus string

// HistorySuccess is the status of a completed placement
const HistorySuccess HistoryStatus = "success"

// HistoryEntry is a single classification outcome, Timestamp is ms since epoch
type HistoryEntry struct {
	ID        string        `json:"id" db:"id"`
	Timestamp int64         `json:"timestamp" db:"timestamp"`
	Title     string        `json:"title" db:"title"`
	URL       string        `json:"url" db:"url"`
	Category  string        `json:"category" db:"category"`
	Status    HistoryStatus `json:"status" db:"status"`
}
