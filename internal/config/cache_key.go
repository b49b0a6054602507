package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SnapshotKey returns the Redis key holding the persisted application state.
func (r *CacheKeyStruct) SnapshotKey(name string) string {
	return fmt.Sprintf("interview:snapshot:%s", name)
}

// CandidateEventsChannel returns the Redis PubSub channel name for a candidate's
// interview events.
func (r *CacheKeyStruct) CandidateEventsChannel(candidateID string) string {
	return fmt.Sprintf("interview:candidate:%s:events", candidateID)
}

var CacheKey = NewCacheKeyStruct()
