package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/AnTengye/mediconnect/config"
	"github.com/AnTengye/mediconnect/form"
	"github.com/AnTengye/mediconnect/model"
	"github.com/AnTengye/mediconnect/pkg/logger"
	"github.com/microcosm-cc/bluemonday"
)

// UpstreamClient talks to the MediConnect account API. It is the form.Sink
// the server hands to every form engine.
type UpstreamClient struct {
	config     *config.UpstreamConfig
	httpClient *http.Client
	policy     *bluemonday.Policy
}

// APIError is a non-2xx answer from the account API
type APIError struct {
	Op     string
	Status int
	Body   string
	// Message is the text shown to the user; empty means the caller's default
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: account API returned %d: %s", e.Op, e.Status, e.Body)
}

func (e *APIError) UserMessage() string {
	return e.Message
}

// InvalidSubmissionError reports values that no longer pass validation once
// sanitized. Nothing is sent upstream.
type InvalidSubmissionError struct {
	Errors form.Errors
}

func (e *InvalidSubmissionError) Error() string {
	fields := slices.Sorted(maps.Keys(e.Errors))
	return "invalid submission after sanitizing: " + strings.Join(fields, ", ")
}

func (e *InvalidSubmissionError) UserMessage() string {
	return "Some fields are empty once formatting is removed. Please check your input."
}

// Upstream operations, used as APIError.Op
const (
	OpRegister       = "register"
	OpActivate       = "activate"
	OpResend         = "resend activation"
	OpUpdateSettings = "update settings"
	OpListDoctors    = "list doctors"
)

func NewUpstreamClient(cfg *config.UpstreamConfig) *UpstreamClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UpstreamClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		policy: bluemonday.StrictPolicy(),
	}
}

// Submit implements form.Sink. Values are sanitized and checked again, so
// markup-only input never reaches the account API as a blank field.
func (c *UpstreamClient) Submit(ctx context.Context, sub form.Submission) error {
	values := c.Sanitize(sub.Values)
	if errs := form.ValidatorFor(sub.Kind)(values, sub.Role); !errs.Valid() {
		return &InvalidSubmissionError{Errors: errs.Compact()}
	}

	switch sub.Kind {
	case form.KindRegistration:
		reg, err := form.RegistrationFromValues(values)
		if err != nil {
			return err
		}
		return c.Register(ctx, reg)
	case form.KindActivation:
		return c.Activate(ctx, values[form.FieldToken])
	case form.KindSettings:
		profile, err := form.ProfileFromValues(sub.Role, values)
		if err != nil {
			return err
		}
		return c.UpdateSettings(ctx, profile)
	}
	return fmt.Errorf("unsupported form kind %q", sub.Kind)
}

// Register creates an account: POST /auth/register/{role}
func (c *UpstreamClient) Register(ctx context.Context, reg form.Registration) error {
	path := "/auth/register/" + string(reg.Variant())
	_, err := c.do(ctx, OpRegister, http.MethodPost, path, reg)
	return err
}

// Activate confirms an account with the emailed code
func (c *UpstreamClient) Activate(ctx context.Context, token string) error {
	path := "/auth/activate-account?token=" + url.QueryEscape(token)
	_, err := c.do(ctx, OpActivate, http.MethodGet, path, nil)
	return err
}

// ResendActivation asks for a new activation code. email may be empty when
// the account API can infer it.
func (c *UpstreamClient) ResendActivation(ctx context.Context, email string) error {
	var body any
	if email != "" {
		body = map[string]string{"email": email}
	}
	_, err := c.do(ctx, OpResend, http.MethodPost, "/auth/resend-activation", body)
	return err
}

// UpdateSettings saves a profile: PUT /{role}/me
func (c *UpstreamClient) UpdateSettings(ctx context.Context, p form.Profile) error {
	_, err := c.do(ctx, OpUpdateSettings, http.MethodPut, "/"+string(p.Role())+"/me", p)
	return err
}

// upstreamDoctor is the account API's doctor record
type upstreamDoctor struct {
	ID   int64 `json:"id"`
	User struct {
		ID          int64  `json:"id"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Email       string `json:"email"`
		DateOfBirth string `json:"dateOfBirth"`
		IsEnabled   bool   `json:"isEnabled"`
	} `json:"user"`
	Specialization   string     `json:"specialization"`
	Bio              string     `json:"bio"`
	Location         string     `json:"location"`
	IsApproved       bool       `json:"isApproved"`
	Rate             model.Rate `json:"rate"`
	CreatedDate      string     `json:"createdDate"`
	LastModifiedDate string     `json:"lastModifiedDate"`
}

func (d upstreamDoctor) provider() model.Provider {
	return model.Provider{
		ID:             strconv.FormatInt(d.ID, 10),
		FirstName:      d.User.FirstName,
		LastName:       d.User.LastName,
		Email:          d.User.Email,
		Specialization: d.Specialization,
		Bio:            d.Bio,
		Location:       d.Location,
		Rate:           d.Rate,
		Approved:       d.IsApproved,
		CreatedAt:      parseUpstreamTime(d.CreatedDate),
		UpdatedAt:      parseUpstreamTime(d.LastModifiedDate),
	}
}

// ListDoctors fetches every doctor. The API answers with either a bare array
// or a page object holding "content".
func (c *UpstreamClient) ListDoctors(ctx context.Context) ([]model.Provider, error) {
	body, err := c.do(ctx, OpListDoctors, http.MethodGet, "/doctors", nil)
	if err != nil {
		return nil, err
	}

	var doctors []upstreamDoctor
	if err := json.Unmarshal(body, &doctors); err != nil {
		var page struct {
			Content []upstreamDoctor `json:"content"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		doctors = page.Content
	}

	providers := make([]model.Provider, 0, len(doctors))
	for _, d := range doctors {
		providers = append(providers, d.provider())
	}
	return providers, nil
}

// do sends one JSON request and returns the response body. Non-2xx answers
// become *APIError.
func (c *UpstreamClient) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.config.BaseURL, "/")+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug(ctx, "account API call", "op", op, "method", method, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Op:      op,
			Status:  resp.StatusCode,
			Body:    string(body),
			Message: userMessage(op, resp.StatusCode),
		}
	}
	return body, nil
}

func userMessage(op string, status int) string {
	if op != OpActivate {
		return ""
	}
	switch status {
	case http.StatusBadRequest:
		return "Invalid or expired activation code"
	case http.StatusNotFound:
		return "Activation code not found"
	}
	return ""
}

// Sanitize strips markup from every value except secrets, which are sent as
// typed. It is also installed as the form engines' normalizer.
func (c *UpstreamClient) Sanitize(values form.Values) form.Values {
	out := make(form.Values, len(values))
	for k, v := range values {
		if k == form.FieldPassword || k == form.FieldToken {
			out[k] = v
			continue
		}
		out[k] = html.UnescapeString(c.policy.Sanitize(v))
	}
	return out
}

func parseUpstreamTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
