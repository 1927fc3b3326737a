package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("image url is required")
	ErrFetchFailed  = errors.New("failed to fetch image")
	ErrStore        = errors.New("image store failure")
	ErrNotFound     = errors.New("key not found")
)

// FetchError is returned when an image could not be fetched or decoded.
// Nothing is written to the cache when it occurs.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch image %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("image store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("image store %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}
