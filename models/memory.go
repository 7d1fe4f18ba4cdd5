package models

// MemoryEntry is one ranked fact returned by the external memory service.
// The scheduling core treats the content as opaque context text.
type MemoryEntry struct {
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// MemoryContext is the cached, ranked context for one customer.
type MemoryContext struct {
	CustomerID string        `json:"customerId"`
	Entries    []MemoryEntry `json:"entries"`
}
