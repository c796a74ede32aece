// Package ndis provides the HTTP client for the remote NDIS platform API.
// The platform owns all participant data; this service keeps none of it.
package ndis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/auth"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

// DefaultTimeout is the maximum time to wait for platform API responses.
const DefaultTimeout = 30 * time.Second

// readAttempts bounds how many times a read is issued before giving up.
// Writes are issued exactly once.
const readAttempts = 3

// ErrNotFound indicates the participant does not exist on the platform.
var ErrNotFound = errors.New("participant not found")

// Client provides access to the NDIS platform API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authz      auth.RequestAuthorizer
	adminAuthz auth.RequestAuthorizer
	logger     *zap.Logger
}

// NewClient creates a platform API client. authz signs ordinary reads and
// writes; adminAuthz signs admin-privileged calls (the status update).
func NewClient(baseURL string, timeout time.Duration, authz, adminAuthz auth.RequestAuthorizer, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		authz:      authz,
		adminAuthz: adminAuthz,
		logger:     logger.Named("ndis"),
	}
}

// GetParticipant fetches a participant record. A 404 is reported as
// ErrNotFound so callers can distinguish a missing participant from a
// transport failure.
func (c *Client) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	endpoint, err := c.buildURL("participants", strconv.Itoa(id))
	if err != nil {
		return nil, err
	}

	body, status, err := c.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if !is2xx(status) {
		return nil, respError("fetch participant", status, body)
	}

	var participant models.Participant
	if err := json.Unmarshal(body, &participant); err != nil {
		return nil, fmt.Errorf("failed to parse participant: %w", err)
	}
	return &participant, nil
}

// GetOnboardingStatus fetches the prospective-workflow sub-resource for a
// participant. Deployments without the care module respond 404; that is not
// an error, the flags are simply all unset.
func (c *Client) GetOnboardingStatus(ctx context.Context, id int) (*models.OnboardingStatus, error) {
	endpoint, err := c.buildURL("care", "participants", strconv.Itoa(id), "prospective-workflow")
	if err != nil {
		return nil, err
	}

	body, status, err := c.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return &models.OnboardingStatus{ParticipantID: id}, nil
	}
	if !is2xx(status) {
		return nil, respError("fetch workflow status", status, body)
	}

	var flags models.OnboardingStatus
	if err := json.Unmarshal(body, &flags); err != nil {
		return nil, fmt.Errorf("failed to parse workflow status: %w", err)
	}
	flags.ParticipantID = id
	return &flags, nil
}

// ListParticipants fetches every participant visible to the caller.
func (c *Client) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	endpoint, err := c.buildURL("participants")
	if err != nil {
		return nil, err
	}

	body, status, err := c.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, respError("list participants", status, body)
	}

	var participants []models.Participant
	if err := json.Unmarshal(body, &participants); err != nil {
		return nil, fmt.Errorf("failed to parse participant list: %w", err)
	}
	return participants, nil
}

// SaveAssignments persists an assignment batch for a participant. The call
// is issued exactly once: the platform offers no idempotency key, so a
// retried submission can create a duplicate batch.
func (c *Client) SaveAssignments(ctx context.Context, id int, batch []models.Assignment, needs *models.ParticipantNeeds) error {
	endpoint, err := c.buildURL("participants", strconv.Itoa(id), "support-worker-assignments")
	if err != nil {
		return err
	}

	payload := struct {
		Assignments      []models.Assignment      `json:"assignments"`
		ParticipantNeeds *models.ParticipantNeeds `json:"participant_needs,omitempty"`
	}{Assignments: batch, ParticipantNeeds: needs}

	body, status, err := c.do(ctx, http.MethodPost, endpoint, payload, c.authz)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return respError("save assignments", status, body)
	}
	return nil
}

// SaveSchedule persists proposed schedule entries. The schedule endpoint is
// optional on the platform side: a 404 means the deployment has no roster
// module and counts as success. Issued exactly once.
func (c *Client) SaveSchedule(ctx context.Context, id int, entries []models.ScheduleEntry, assignments []models.Assignment) error {
	endpoint, err := c.buildURL("participants", strconv.Itoa(id), "schedule")
	if err != nil {
		return err
	}

	payload := struct {
		Schedule    []models.ScheduleEntry `json:"schedule"`
		Assignments []models.Assignment    `json:"assignments,omitempty"`
	}{Schedule: entries, Assignments: assignments}

	body, status, err := c.do(ctx, http.MethodPost, endpoint, payload, c.authz)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		c.logger.Warn("platform has no schedule endpoint, entries not persisted",
			zap.Int("participant_id", id))
		return nil
	}
	if !is2xx(status) {
		return respError("save schedule", status, body)
	}
	return nil
}

// UpdateStatus patches the participant's status. This is an admin-privileged
// platform call and is signed with the admin authorizer. Issued exactly once.
func (c *Client) UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) (*models.Participant, error) {
	endpoint, err := c.buildURL("participants", strconv.Itoa(id), "status")
	if err != nil {
		return nil, err
	}
	endpoint += "?status=" + url.QueryEscape(string(status))

	body, code, err := c.do(ctx, http.MethodPatch, endpoint, nil, c.adminAuthz)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if !is2xx(code) {
		return nil, respError("update participant status", code, body)
	}

	var participant models.Participant
	if err := json.Unmarshal(body, &participant); err != nil {
		return nil, fmt.Errorf("failed to parse participant: %w", err)
	}
	return &participant, nil
}

// CreateParticipant registers a new participant on the platform. Used by the
// seed tool; the console itself never creates participants.
func (c *Client) CreateParticipant(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	endpoint, err := c.buildURL("participants")
	if err != nil {
		return nil, err
	}

	body, status, err := c.do(ctx, http.MethodPost, endpoint, p, c.authz)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, respError("create participant", status, body)
	}

	var created models.Participant
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse participant: %w", err)
	}
	return &created, nil
}

// getWithRetry issues a GET, reissuing it on transport errors and 5xx
// responses up to readAttempts total attempts. 4xx responses are definitive
// and returned to the caller immediately.
func (c *Client) getWithRetry(ctx context.Context, endpoint string) ([]byte, int, error) {
	var lastErr error
	for attempt := 1; attempt <= readAttempts; attempt++ {
		body, status, err := c.do(ctx, http.MethodGet, endpoint, nil, c.authz)
		switch {
		case err != nil:
			lastErr = err
		case status >= http.StatusInternalServerError:
			lastErr = respError("read", status, body)
		default:
			return body, status, nil
		}

		if ctx.Err() != nil {
			return nil, 0, lastErr
		}
		if attempt < readAttempts {
			c.logger.Warn("platform read failed, retrying",
				zap.String("url", endpoint),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
		}
	}
	return nil, 0, lastErr
}

// do executes a single request and returns the raw body and status code.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any, authz auth.RequestAuthorizer) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != nil {
		if err := authz.Authorize(req); err != nil {
			return nil, 0, fmt.Errorf("failed to authorize request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to call platform API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// buildURL constructs a URL by parsing the base and joining path segments.
func (c *Client) buildURL(pathSegments ...string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	segments := append([]string{u.Path}, pathSegments...)
	u.Path = path.Join(segments...)
	return u.String(), nil
}

// respError surfaces the platform's own error message when it provides one.
func respError(action string, status int, body []byte) error {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			return fmt.Errorf("failed to %s: status %d: %s", action, status, payload.Detail)
		}
		if payload.Message != "" {
			return fmt.Errorf("failed to %s: status %d: %s", action, status, payload.Message)
		}
	}
	return fmt.Errorf("failed to %s: status %d", action, status)
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
