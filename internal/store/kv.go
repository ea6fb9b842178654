/**
 * @description
 * This file defines the `KV` interface, the durable key-value contract the
 * donation-service uses for client-visible state: recorded donations, the
 * cached charity catalog, quiz answers and the shuffled question order. By
 * defining an interface, the application logic stays decoupled from the
 * concrete backend (Redis in production, in-memory in tests).
 *
 * @notes
 * - Reads of absent keys and of corrupt stored JSON both fall back to the
 *   caller's default value; corruption is recovered silently and never
 *   surfaced to the user.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
)

// Fixed keys of the durable store.
const (
	KeyDonations             = "donations"
	KeyCharities             = "charities"
	KeyQuizAnswers           = "quizAnswers"
	KeyShuffledQuizQuestions = "shuffledQuizQuestions"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// KV is a durable key-value store with string keys and JSON-serializable
// values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// ReadJSON loads the value stored under key into out. A missing key leaves
// out at its default. Malformed stored JSON is treated the same way: the
// corrupt value is logged and discarded rather than propagated, so a bad
// write can never wedge the client state.
func ReadJSON(ctx context.Context, kv KV, key string, out interface{}) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("level=warn component=store msg=\"corrupt stored value; using default\" key=%s err=%v", key, err)
		return nil
	}
	return nil
}
