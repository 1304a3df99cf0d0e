// Package mocks provides centralized mock implementations for testing.
//
// Mocks expose one function field per interface method. A nil field falls
// back to the mock's default return values, so tests only set the behavior
// they care about:
//
//	games := &mocks.MockGameService{
//	    FlipFn: func(ctx context.Context, id uuid.UUID, position int) (*service.FlipOutcome, error) {
//	        return nil, store.ErrStoreFull
//	    },
//	}
package mocks
