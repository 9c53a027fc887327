package webhook

import "github.com/stretchr/testify/mock"

// MatchJob creates a custom matcher for job arguments in mocks
func MatchJob(matcher func(Job) bool) interface{} {
	return mock.MatchedBy(matcher)
}

// MatchDeadLetter creates a custom matcher for dead-letter arguments in mocks
func MatchDeadLetter(matcher func(DeadLetter) bool) interface{} {
	return mock.MatchedBy(matcher)
}
