package facebook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

// Client talks to the Facebook Graph API
type Client struct {
	baseURL         string
	appID           string
	appSecret       string
	pageAccessToken string
	httpClient      *http.Client
	logger          *zap.Logger
}

// NewClient creates a new Graph API client
func NewClient(version, appID, appSecret, pageAccessToken string, logger *zap.Logger) *Client {
	if version == "" {
		version = "v19.0"
	}
	return &Client{
		baseURL:         "https://graph.facebook.com/" + version,
		appID:           appID,
		appSecret:       appSecret,
		pageAccessToken: pageAccessToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// GetProfileName looks up the display name behind a page-scoped sender ID.
func (c *Client) GetProfileName(ctx context.Context, psid string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=name&access_token=%s",
		c.baseURL, url.PathEscape(psid), url.QueryEscape(c.pageAccessToken))

	var result struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return "", err
	}

	return result.Name, nil
}

// SendMessage delivers a message to a recipient through the Send API.
func (c *Client) SendMessage(ctx context.Context, psid string, message *Message) error {
	endpoint := fmt.Sprintf("%s/me/messages?access_token=%s", c.baseURL, url.QueryEscape(c.pageAccessToken))

	body := map[string]interface{}{
		"recipient": map[string]string{"id": psid},
		"message":   message,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Send API request failed", zap.Error(err))
		return &errors.ErrUpstream{Service: "facebook", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error("Send API returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", data),
		)
		return &errors.ErrUpstream{
			Service: "facebook",
			Err:     fmt.Errorf("send api status %d", resp.StatusCode),
		}
	}

	c.logger.Debug("Message sent", zap.String("psid", psid))
	return nil
}

// GetAppAccessToken exchanges the app credentials for an app access token.
func (c *Client) GetAppAccessToken(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/oauth/access_token?client_id=%s&client_secret=%s&grant_type=client_credentials",
		c.baseURL, url.QueryEscape(c.appID), url.QueryEscape(c.appSecret))

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return "", err
	}

	return result.AccessToken, nil
}

// DebugTokenData is the Graph API token introspection result
type DebugTokenData struct {
	AppID     string   `json:"app_id"`
	IsValid   bool     `json:"is_valid"`
	UserID    string   `json:"user_id"`
	Scopes    []string `json:"scopes"`
	ExpiresAt int64    `json:"expires_at"`
}

// DebugToken inspects a user access token with the app token.
func (c *Client) DebugToken(ctx context.Context, inputToken string) (*DebugTokenData, error) {
	appToken, err := c.GetAppAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/debug_token?input_token=%s&access_token=%s",
		c.baseURL, url.QueryEscape(inputToken), url.QueryEscape(appToken))

	var result struct {
		Data DebugTokenData `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	return &result.Data, nil
}

// Page is one page listed in a user's accounts
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// GetPages lists the pages a user token manages.
func (c *Client) GetPages(ctx context.Context, userID, userToken string) ([]Page, error) {
	endpoint := fmt.Sprintf("%s/%s/accounts?access_token=%s",
		c.baseURL, url.PathEscape(userID), url.QueryEscape(userToken))

	var result struct {
		Data []Page `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	return result.Data, nil
}

// GetUserProfile fetches name, email and picture for a user token.
func (c *Client) GetUserProfile(ctx context.Context, userID, userToken string) (name, email, pictureURL string, err error) {
	endpoint := fmt.Sprintf("%s/%s?fields=name,email,picture&access_token=%s",
		c.baseURL, url.PathEscape(userID), url.QueryEscape(userToken))

	var result struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return "", "", "", err
	}

	return result.Name, result.Email, result.Picture.Data.URL, nil
}

// PostToPage publishes a text post on a page feed and returns the post ID.
func (c *Client) PostToPage(ctx context.Context, pageID, pageToken, message string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/feed", c.baseURL, url.PathEscape(pageID))

	form := url.Values{}
	form.Set("message", message)
	form.Set("access_token", pageToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Page post request failed", zap.Error(err))
		return "", &errors.ErrUpstream{Service: "facebook", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error("Page post returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", data),
		)
		return "", &errors.ErrUpstream{
			Service: "facebook",
			Err:     fmt.Errorf("page post status %d", resp.StatusCode),
		}
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.ID, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Graph API request failed", zap.Error(err))
		return &errors.ErrUpstream{Service: "facebook", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error("Graph API returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", data),
		)
		return &errors.ErrUpstream{
			Service: "facebook",
			Err:     fmt.Errorf("graph api status %d", resp.StatusCode),
		}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
