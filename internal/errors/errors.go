package errors

import (
	"fmt"
	"sync"
)

// ErrorCollector gathers errors that should not stop a multi-step operation,
// such as individual pattern render failures during an export.
type ErrorCollector struct {
	errors []error
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]error, 0),
	}
}

// AddError adds an error to the collector; nil is ignored.
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// GetErrors returns a copy of all collected errors
func (ec *ErrorCollector) GetErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]error, len(ec.errors))
	copy(result, ec.errors)
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors) > 0
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = ec.errors[:0]
}

// Err summarizes the collected errors, or returns nil when there are none.
func (ec *ErrorCollector) Err() error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	switch len(ec.errors) {
	case 0:
		return nil
	case 1:
		return ec.errors[0]
	default:
		return fmt.Errorf("%d errors occurred, first: %w", len(ec.errors), ec.errors[0])
	}
}
