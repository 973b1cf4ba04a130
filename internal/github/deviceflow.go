package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAuthBaseURL is the GitHub OAuth endpoint root.
const DefaultAuthBaseURL = "https://github.com"

// deviceFlowScope limits the token to read-only public data.
const deviceFlowScope = "read:user"

// DeviceCode is the pending device authorization handed to the user.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// DeviceFlow implements the GitHub OAuth device authorization flow: request
// a device code, show the user code, then poll until the user approves.
type DeviceFlow struct {
	baseURL    string
	clientID   string
	httpClient *http.Client

	// sleep is injected for polling tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDeviceFlow creates a device flow against the given OAuth base URL.
func NewDeviceFlow(baseURL, clientID string) *DeviceFlow {
	if baseURL == "" {
		baseURL = DefaultAuthBaseURL
	}
	return &DeviceFlow{
		baseURL:    baseURL,
		clientID:   clientID,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		sleep:      sleepContext,
	}
}

// RequestCode starts the flow and returns the code the user must enter.
func (f *DeviceFlow) RequestCode(ctx context.Context) (*DeviceCode, error) {
	form := url.Values{}
	form.Set("client_id", f.clientID)
	form.Set("scope", deviceFlowScope)

	var code DeviceCode
	if err := f.postForm(ctx, "/login/device/code", form, &code); err != nil {
		return nil, fmt.Errorf("failed to request device code: %w", err)
	}
	if code.DeviceCode == "" {
		return nil, fmt.Errorf("device code response missing device_code")
	}
	if code.Interval <= 0 {
		code.Interval = 5
	}
	return &code, nil
}

// tokenResponse is the polling response; on pending approval GitHub returns
// an error code instead of a token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
	Interval    int    `json:"interval"`
}

// PollForToken polls the token endpoint at the advertised interval until the
// user approves, the code expires, or the context is cancelled.
func (f *DeviceFlow) PollForToken(ctx context.Context, code *DeviceCode) (string, error) {
	interval := time.Duration(code.Interval) * time.Second
	deadline := time.Now().Add(time.Duration(code.ExpiresIn) * time.Second)

	for {
		if err := f.sleep(ctx, interval); err != nil {
			return "", err
		}
		if code.ExpiresIn > 0 && time.Now().After(deadline) {
			return "", fmt.Errorf("device code expired before authorization")
		}

		form := url.Values{}
		form.Set("client_id", f.clientID)
		form.Set("device_code", code.DeviceCode)
		form.Set("grant_type", "urn:ietf:params:oauth:grant-type:device_code")

		var token tokenResponse
		if err := f.postForm(ctx, "/login/oauth/access_token", form, &token); err != nil {
			return "", err
		}

		switch token.Error {
		case "":
			if token.AccessToken == "" {
				return "", fmt.Errorf("token response missing access_token")
			}
			return token.AccessToken, nil
		case "authorization_pending":
			continue
		case "slow_down":
			if token.Interval > 0 {
				interval = time.Duration(token.Interval) * time.Second
			} else {
				interval += 5 * time.Second
			}
			continue
		case "expired_token":
			return "", fmt.Errorf("device code expired before authorization")
		default:
			return "", fmt.Errorf("device flow failed: %s", token.Error)
		}
	}
}

func (f *DeviceFlow) postForm(ctx context.Context, path string, form url.Values, out any) error {
	requestURL := f.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return &Error{URL: requestURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return &Error{URL: requestURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{URL: requestURL, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &Error{URL: requestURL, StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{URL: requestURL, Message: "failed to decode response", Cause: err}
	}
	return nil
}
