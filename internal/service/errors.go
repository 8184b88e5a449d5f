package service

import "fmt"

// ProviderError wraps a failure from the hosted embedding/LLM provider.
// During batch sync these are reported per item and the run continues; during a
// single query they abort that query.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failure from the vector store, with the same propagation
// policy as ProviderError.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("vector store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
