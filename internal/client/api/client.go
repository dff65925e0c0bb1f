// Package api is the thin REST client the portal talks to the server
// through. Every call carries a context and shares one 5-second-timeout
// HTTP client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/teameicu/careportal/internal/client/portal"
	"github.com/teameicu/careportal/internal/models"
)

const requestTimeout = 5 * time.Second

// APIError is a non-2xx response decoded into its detail message. When
// the body carries no detail field the message falls back to a generic
// one so callers always have something to show.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// Client calls the portal server.
type Client struct {
	base string
	http *http.Client
}

// New builds a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode, Detail: "Something went wrong. Please try again."}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}

type userPayload struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	PatientID string `json:"patient_id"`
}

// Login exchanges credentials for a token. The signature matches what
// the portal expects so the client plugs in directly.
func (c *Client) Login(ctx context.Context, identifier, password string) (portal.LoginResult, error) {
	body := map[string]string{"username_or_email": identifier, "password": password}
	var res struct {
		Token string      `json:"token"`
		User  userPayload `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &res); err != nil {
		return portal.LoginResult{}, err
	}
	return portal.LoginResult{
		Token:    res.Token,
		Username: res.User.Username,
		Email:    res.User.Email,
		Role:     res.User.Role,
	}, nil
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Hospital    string `json:"hospital,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// RegisteredUser is the account echo from a successful registration.
type RegisteredUser struct {
	Email     string
	Username  string
	Role      string
	PatientID string
}

// Register creates an account. The returned user feeds the client-side
// registry.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*RegisteredUser, error) {
	var res struct {
		Message string      `json:"message"`
		User    userPayload `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/register", "", in, &res); err != nil {
		return nil, err
	}
	return &RegisteredUser{
		Email:     res.User.Email,
		Username:  res.User.Username,
		Role:      res.User.Role,
		PatientID: res.User.PatientID,
	}, nil
}

// SendEmailOTP asks the server to mail a verification code.
func (c *Client) SendEmailOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/email-otp", "", map[string]string{"email": email}, nil)
}

// VerifyEmailOTP submits the code the user received.
func (c *Client) VerifyEmailOTP(ctx context.Context, email, otp string) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/verify-otp", "", map[string]string{"email": email, "otp": otp}, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// Contact submits the contact form.
func (c *Client) Contact(ctx context.Context, name, email, message string) (string, error) {
	body := map[string]string{"name": name, "email": email, "message": message}
	var res struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/contact", "", body, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// Vitals is the prediction form input. Nil fields take the server-side
// defaults.
type Vitals struct {
	Age             *int `json:"age,omitempty"`
	HeartRate       *int `json:"heart_rate,omitempty"`
	SystolicBP      *int `json:"systolic_bp,omitempty"`
	RespiratoryRate *int `json:"respiratory_rate,omitempty"`
}

// PredictionResult is one scored prediction.
type PredictionResult struct {
	PatientID    string  `json:"patient_id"`
	LOSDays      float64 `json:"predicted_LOS_days"`
	MortalityPct float64 `json:"in_hospital_mortality_%"`
	RiskLevel    string  `json:"mortality_risk_level"`
	Message      string  `json:"message"`
}

// Predict submits vitals and returns the scored outcome.
func (c *Client) Predict(ctx context.Context, token string, v Vitals) (*PredictionResult, error) {
	var res PredictionResult
	if err := c.do(ctx, http.MethodPost, "/predict", token, v, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// History fetches the user's stored predictions. A 404 means the user
// has none yet and is returned as an empty list, not an error.
func (c *Client) History(ctx context.Context, token, email string) ([]models.Prediction, error) {
	path := "/user/history"
	if email != "" {
		path += "?email=" + url.QueryEscape(email)
	}
	var res struct {
		Predictions []models.Prediction `json:"predictions"`
	}
	err := c.do(ctx, http.MethodGet, path, token, nil, &res)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return res.Predictions, nil
}

// DownloadReport fetches the CSV report. The filename comes from the
// Content-Disposition header; the message return is set instead when
// the user has no predictions to report.
func (c *Client) DownloadReport(ctx context.Context, token, email string) (data []byte, filename string, err error) {
	path := "/user/download-report"
	if email != "" {
		path += "?email=" + url.QueryEscape(email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, "", decodeError(res)
	}
	if !strings.HasPrefix(res.Header.Get("Content-Type"), "text/csv") {
		// Empty history comes back as a JSON message instead of CSV.
		return nil, "", nil
	}

	data, err = io.ReadAll(res.Body)
	if err != nil {
		return nil, "", err
	}
	if _, params, err := mime.ParseMediaType(res.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	if filename == "" {
		filename = "report.csv"
	}
	return data, filename, nil
}
