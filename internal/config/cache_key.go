package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CandidateSessionKey returns the cache key for a candidate's login session.
func (r *CacheKeyStruct) CandidateSessionKey(candidateID int) string {
	return fmt.Sprintf("login:%d", candidateID)
}

// TestAnswerKeyKey returns the cache key for a test's answer key hash
// (question id → correct option).
func (r *CacheKeyStruct) TestAnswerKeyKey(testID string) string {
	return fmt.Sprintf("test:%s:answer_key", testID)
}

// TestSectionPayloadKey returns the cache key for one section's question
// payload (correct options stripped).
func (r *CacheKeyStruct) TestSectionPayloadKey(testID string, section int) string {
	return fmt.Sprintf("test:%s:section:%d:payload", testID, section)
}

// TestPatternKey returns the cache key for a test's resolved pattern id.
func (r *CacheKeyStruct) TestPatternKey(testID string) string {
	return fmt.Sprintf("test:%s:pattern", testID)
}

// CandidateActiveAttemptKey returns the cache key for a candidate's
// currently active attempt id.
func (r *CacheKeyStruct) CandidateActiveAttemptKey(candidateID int) string {
	return fmt.Sprintf("candidate:%d:active_attempt", candidateID)
}

var CacheKey = NewCacheKeyStruct()
