package model

import "time"

// PropertyLock is an advisory lock document keyed per property. It keeps
// the check-availability-then-write sequence exclusive across concurrent
// writers targeting the same property; a TTL index on expires_at reaps
// locks abandoned by crashed writers.
type PropertyLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
