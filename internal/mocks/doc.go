// Package mocks provides function-field mocks of the card services for
// handler tests.
//
//	cards := &mocks.MockCardService{
//	    GetCardFn: func(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
//	        return nil, store.ErrCardNotFound
//	    },
//	}
package mocks
