package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps a client (typically a rueidis mock) into a Store.
func NewStoreForTest(c rueidis.Client) *Store {
	return newWithClient(c)
}
