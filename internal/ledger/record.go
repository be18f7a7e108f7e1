package ledger

import "abstain/internal/eval"

// Record is one completed, non-error combination. Field order fixes the
// on-disk key order.
type Record struct {
	Question       string        `json:"question"`
	ExpectedAnswer string        `json:"expected_answer"`
	Model          string        `json:"model"`
	SuggestEmpty   bool          `json:"suggest_empty"`
	Response       string        `json:"response"`
	ReceivedAnswer string        `json:"received_answer"`
	Evaluation     eval.Category `json:"evaluation"`
}

// Key identifies a combination in the ledger.
type Key struct {
	Question     string
	Model        string
	SuggestEmpty bool
}

// Key returns the record's identifying triple.
func (r Record) Key() Key {
	return Key{Question: r.Question, Model: r.Model, SuggestEmpty: r.SuggestEmpty}
}

// KeySet is the set of completed combinations.
type KeySet map[Key]struct{}

// Has reports whether key is present.
func (s KeySet) Has(key Key) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key.
func (s KeySet) Add(key Key) {
	s[key] = struct{}{}
}

// AddRecords inserts the key of every record.
func (s KeySet) AddRecords(records []Record) {
	for _, record := range records {
		s.Add(record.Key())
	}
}
