package session

import (
	"encoding/json"
	"fmt"
)

const (
	trueValue  = "1"
	falseValue = ""
)

// Session is the per-browser key/value bag. It is used by one request at a time,
// the framework saves it after the handler returns.
type Session struct {
	ID     string
	values map[string]string
	isNew  bool
	dirty  bool
}

func newSession(id string) *Session {
	return &Session{
		ID:     id,
		values: make(map[string]string),
		isNew:  true,
		dirty:  true,
	}
}

func (s *Session) Get(key string) (string, bool) {
	value, ok := s.values[key]
	return value, ok
}

func (s *Session) Set(key string, value string) {
	if current, ok := s.values[key]; ok && current == value {
		return
	}
	s.values[key] = value
	s.dirty = true
}

func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// Bool reads a flag stored with SetBool, a missing key is false.
func (s *Session) Bool(key string) bool {
	value, _ := s.Get(key)
	return value == trueValue
}

func (s *Session) SetBool(key string, value bool) {
	if value {
		s.Set(key, trueValue)
		return
	}
	s.Set(key, falseValue)
}

// IsNew is true when the session was created during this request.
func (s *Session) IsNew() bool { return s.isNew }

// Dirty is true when the session has changes that are not saved yet.
func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) encode() (string, error) {
	raw, err := json.Marshal(s.values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session values: %w", err)
	}
	return string(raw), nil
}

func decode(id string, payload string) (*Session, error) {
	values := make(map[string]string)
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session values: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return &Session{ID: id, values: values}, nil
}
