package util

import (
	"encoding/gob"
	"fmt"
	"sync"
)

func init() {
	gob.Register(&EnumSet{})
}

// EnumSet interns string values (transition codes, labels, context keys)
// as dense integers. It is safe for concurrent reads once frozen.
type EnumSet struct {
	mu     sync.RWMutex
	Enum   map[string]int
	Index  []string
	Frozen bool
}

func (e *EnumSet) RebuildIndex() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Index = make([]string, len(e.Enum))
	for k, v := range e.Enum {
		e.Index[v] = k
	}
}

// Add returns the index of value, adding it if needed. The second return
// value reports whether the value is new.
func (e *EnumSet) Add(value string) (int, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	enum, exists := e.Enum[value]
	if exists {
		return enum, false, nil
	}
	if e.Frozen {
		return 0, false, fmt.Errorf("cannot add %q to frozen enum set", value)
	}
	enum = len(e.Index)
	e.Enum[value] = enum
	e.Index = append(e.Index, value)
	return enum, true, nil
}

func (e *EnumSet) IndexOf(value string) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enum, exists := e.Enum[value]
	return enum, exists
}

func (e *EnumSet) ValueOf(index int) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if index < 0 || index >= len(e.Index) {
		return "", false
	}
	return e.Index[index], true
}

func (e *EnumSet) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.Index)
}

// Values returns the interned values in index order.
func (e *EnumSet) Values() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	retval := make([]string, len(e.Index))
	copy(retval, e.Index)
	return retval
}

func NewEnumSet(capacity int) *EnumSet {
	return &EnumSet{
		Enum:  make(map[string]int, capacity),
		Index: make([]string, 0, capacity),
	}
}
