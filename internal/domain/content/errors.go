package content

import (
	"errors"
	"fmt"
)

var ErrStoreNotInitialized = errors.New("record store is not initialized")

// StoreWriteError is a single insert or delete that the store rejected.
type StoreWriteError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *StoreWriteError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// CollectionAbortError stops one collection; other collections carry on.
type CollectionAbortError struct {
	Collection string
	Err        error
}

func (e *CollectionAbortError) Error() string {
	return fmt.Sprintf("collection %s aborted: %v", e.Collection, e.Err)
}

func (e *CollectionAbortError) Unwrap() error { return e.Err }

type SingletonWriteError struct {
	Path string
	Err  error
}

func (e *SingletonWriteError) Error() string {
	return fmt.Sprintf("write singleton %s: %v", e.Path, e.Err)
}

func (e *SingletonWriteError) Unwrap() error { return e.Err }
