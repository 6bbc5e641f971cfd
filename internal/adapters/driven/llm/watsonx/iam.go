package watsonx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// iamGrantType is the IBM Cloud grant for exchanging an API key.
const iamGrantType = "urn:ibm:params:oauth:grant-type:apikey"

// tokenExpirySkew refreshes tokens this long before they expire so an
// in-flight request never crosses the expiry.
const tokenExpirySkew = 60 * time.Second

// tokenSource exchanges an IBM Cloud API key for a bearer token and
// caches it until shortly before expiry.
type tokenSource struct {
	mu     sync.Mutex
	client *http.Client
	iamURL string
	apiKey string

	token  string
	expiry time.Time
}

// iamTokenResponse is the IAM identity token response format.
type iamTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid bearer token, exchanging the API key if the
// cached one is missing or about to expire.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expiry.Add(-tokenExpirySkew)) {
		return ts.token, nil
	}

	form := url.Values{
		"grant_type": {iamGrantType},
		"apikey":     {ts.apiKey},
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, ts.iamURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("exchange api key: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watsonx: IAM token error (status %d): %s", resp.StatusCode, string(body))
	}

	var tokenResp iamTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("watsonx: IAM response missing access token")
	}

	ts.token = tokenResp.AccessToken
	ts.expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return ts.token, nil
}
