// Package mocks provides shared mock implementations of the service
// interfaces for handler and command tests.
//
// Each mock has a function field per method; an unset field falls back to
// the mock's default values. Calls are recorded so tests can assert on the
// arguments a handler passed through.
//
//	cards := &mocks.MockCardService{
//	    GetCardFn: func(ctx context.Context, id int64) (*domain.Card, error) {
//	        return nil, store.ErrCardNotFound
//	    },
//	}
package mocks
