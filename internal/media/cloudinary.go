package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// Uploader abstracts the external media host. Upload accepts an image payload
// (base64 data URI or remote URL) and returns a durable URL; Destroy removes
// a previously uploaded image by its public id.
type Uploader interface {
	Upload(ctx context.Context, image string) (string, error)
	Destroy(ctx context.Context, publicID string) error
}

// CloudinaryClient talks to the Cloudinary upload API using signed requests.
type CloudinaryClient struct {
	http      *resty.Client
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
}

var _ Uploader = (*CloudinaryClient)(nil)

// NewCloudinaryClient creates a client for the given cloud and credentials.
func NewCloudinaryClient(cloudName, apiKey, apiSecret string) *CloudinaryClient {
	return &CloudinaryClient{
		http:      resty.New(),
		baseURL:   defaultBaseURL,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// WithBaseURL overrides the API base URL, mainly for tests.
func (c *CloudinaryClient) WithBaseURL(baseURL string) *CloudinaryClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type apiResponse struct {
	SecureURL string `json:"secure_url"`
	Result    string `json:"result"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image payload and returns the hosted secure URL.
func (c *CloudinaryClient) Upload(ctx context.Context, image string) (string, error) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"file":      image,
			"api_key":   c.apiKey,
			"timestamp": ts,
			"signature": c.sign(map[string]string{"timestamp": ts}),
		}).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName))
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("upload image: %s", out.Error.Message)
		}
		return "", fmt.Errorf("upload image: status %d", resp.StatusCode())
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload image: no secure_url in response")
	}
	return out.SecureURL, nil
}

// Destroy deletes an uploaded image by public id.
func (c *CloudinaryClient) Destroy(ctx context.Context, publicID string) error {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"public_id": publicID,
			"api_key":   c.apiKey,
			"timestamp": ts,
			"signature": c.sign(map[string]string{"public_id": publicID, "timestamp": ts}),
		}).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName))
	if err != nil {
		return fmt.Errorf("destroy image: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil && out.Error.Message != "" {
			return fmt.Errorf("destroy image: %s", out.Error.Message)
		}
		return fmt.Errorf("destroy image: status %d", resp.StatusCode())
	}
	if out.Result != "ok" {
		return fmt.Errorf("destroy image: result %q", out.Result)
	}
	return nil
}

// sign computes the Cloudinary request signature: the sha1 hex digest of the
// sorted parameter string concatenated with the API secret.
func (c *CloudinaryClient) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// PublicIDFromURL derives the deletion identifier from a hosted image URL:
// the last path segment minus the file extension.
func PublicIDFromURL(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	last := parts[len(parts)-1]
	if idx := strings.Index(last, "."); idx >= 0 {
		last = last[:idx]
	}
	return last
}
