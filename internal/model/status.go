package model

import (
	"fmt"
	"strings"
)

const (
	JobStatusNew         = "NEW"
	JobStatusSummarizing = "SUMMARIZING"
	JobStatusSummarized  = "SUMMARIZED"
	JobStatusErrorSum    = "ERROR_SUMMARIZING"

	CandidateStatusUploaded     = "UPLOADED"
	CandidateStatusParsing      = "PARSING"
	CandidateStatusParsed       = "PARSED"
	CandidateStatusErrorParsing = "ERROR_PARSING"

	ApplicationStatusMatchingStarted = "MATCHING_STARTED"
	ApplicationStatusMatched         = "MATCHED"
	ApplicationStatusShortlisted     = "SHORTLISTED"
	ApplicationStatusInvited         = "INVITED"
	ApplicationStatusErrorMatching   = "ERROR_MATCHING"

	errorStatusPrefix = "ERROR"
)

var allowedJobTransitions = map[string]map[string]bool{
	"": {
		JobStatusNew: true,
	},
	JobStatusNew: {
		JobStatusNew:         true,
		JobStatusSummarizing: true,
		JobStatusSummarized:  true, // synchronous summarize skips the intermediate state
		JobStatusErrorSum:    true,
	},
	JobStatusSummarizing: {
		JobStatusSummarizing: true,
		JobStatusSummarized:  true,
		JobStatusErrorSum:    true,
	},
	JobStatusSummarized: {
		JobStatusSummarized: true,
	},
	JobStatusErrorSum: {
		JobStatusErrorSum:    true,
		JobStatusSummarizing: true,
		JobStatusSummarized:  true,
	},
}

// IsErrorStatus reports whether a status string is one of the ERROR_* family.
func IsErrorStatus(status string) bool {
	return strings.HasPrefix(strings.TrimSpace(status), errorStatusPrefix)
}

// CanSummarize reports whether the summarize control should be offered.
func CanSummarize(status string) bool {
	s := strings.TrimSpace(status)
	return s == JobStatusNew || IsErrorStatus(s)
}

func IsKnownJobStatus(status string) bool {
	if IsErrorStatus(status) {
		return true
	}
	_, ok := allowedJobTransitions[status]
	return ok
}

func CanTransitionJob(from, to string) bool {
	if IsErrorStatus(from) {
		from = JobStatusErrorSum
	}
	if IsErrorStatus(to) {
		to = JobStatusErrorSum
	}
	next, ok := allowedJobTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// TransitionJobStatus applies a backend-reported status to a locally cached job.
func TransitionJobStatus(job *Job, toStatus string) error {
	from := job.Status
	if !CanTransitionJob(from, toStatus) {
		return fmt.Errorf("unexpected job status transition: %q -> %q (job_id=%d)", from, toStatus, job.ID)
	}
	job.Status = toStatus
	return nil
}
