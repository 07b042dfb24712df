package faq

import "sync"

const noMoreTestQuestions = "No more test questions"

// TestQuestionSet holds the sample questions offered by the UI. It may be
// replaced at runtime when the backing file changes.
type TestQuestionSet struct {
	mu    sync.RWMutex
	items []TestQuestion
}

// NewTestQuestionSet copies items into a new set.
func NewTestQuestionSet(items []TestQuestion) *TestQuestionSet {
	s := &TestQuestionSet{}
	s.Replace(items)
	return s
}

// Replace swaps the whole list.
func (s *TestQuestionSet) Replace(items []TestQuestion) {
	clone := make([]TestQuestion, len(items))
	copy(clone, items)
	s.mu.Lock()
	s.items = clone
	s.mu.Unlock()
}

// Len reports the number of questions.
func (s *TestQuestionSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// All returns a copy of the list.
func (s *TestQuestionSet) All() []TestQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TestQuestion, len(s.items))
	copy(out, s.items)
	return out
}

// Lookup returns the question at index, or the "no more" sentinel with
// index 0 when index is out of range.
func (s *TestQuestionSet) Lookup(index int) TestQuestionPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.items)
	if index < 0 || index >= total {
		return TestQuestionPage{Description: noMoreTestQuestions, Index: 0, Total: total}
	}
	item := s.items[index]
	return TestQuestionPage{
		Question:    item.Question,
		Description: item.Description,
		Index:       index,
		Total:       total,
	}
}
