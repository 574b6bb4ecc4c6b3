package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"recruit-console/internal/model"
)

func escapeID(id string) string {
	return url.PathEscape(id)
}

func (c *Client) ListJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := c.getJSON(ctx, PathJobs, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, jobID string) (model.Job, error) {
	var job model.Job
	if err := c.getJSON(ctx, PathJobs+"/"+escapeID(jobID), nil, &job); err != nil {
		return model.Job{}, err
	}
	return job, nil
}

func (c *Client) ListCandidates(ctx context.Context) ([]model.Candidate, error) {
	var candidates []model.Candidate
	if err := c.getJSON(ctx, PathCandidates, nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (c *Client) GetCandidate(ctx context.Context, candidateID string) (model.Candidate, error) {
	var candidate model.Candidate
	if err := c.getJSON(ctx, PathCandidates+"/"+escapeID(candidateID), nil, &candidate); err != nil {
		return model.Candidate{}, err
	}
	return candidate, nil
}

// CandidateParsed fetches the extracted CV JSON. The backend answers 202 with
// a status message while parsing is still running, so the Result is returned
// as-is for the caller to inspect.
func (c *Client) CandidateParsed(ctx context.Context, candidateID string) (Result, error) {
	return c.Do(ctx, http.MethodGet, PathCandidates+"/"+escapeID(candidateID)+"/parsed", nil, nil, "")
}

func (c *Client) ListApplications(ctx context.Context, jobID string) ([]model.Application, error) {
	var query url.Values
	if jobID != "" {
		query = url.Values{"jobId": {jobID}}
	}
	var apps []model.Application
	if err := c.getJSON(ctx, PathApplications, query, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
