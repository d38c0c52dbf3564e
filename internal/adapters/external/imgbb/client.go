// Package imgbb uploads images and documents to ImgBB.
package imgbb

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/metrics"

	"github.com/tidwall/gjson"
)

const defaultTimeout = 30 * time.Second

// Image is a hosted file
type Image struct {
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	DeleteURL string `json:"-"`
}

// Client uploads files to the image host
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates an image host client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Upload sends content as a base64 multipart image field
func (c *Client) Upload(ctx context.Context, filename string, content []byte) (*Image, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: image host is not configured", domain.ErrGateway)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("image", base64.StdEncoding.EncodeToString(content)); err != nil {
		return nil, err
	}
	if err := form.WriteField("name", filename); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/upload?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamFailure("imgbb")
		return nil, fmt.Errorf("%w: upload: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload reply: %v", domain.ErrGateway, err)
	}

	reply := gjson.ParseBytes(body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !reply.Get("success").Bool() {
		metrics.RecordUpstreamFailure("imgbb")
		return nil, fmt.Errorf("%w: upload status %d %s", domain.ErrGateway, resp.StatusCode, reply.Get("error.message").String())
	}

	img := &Image{
		URL:       reply.Get("data.url").String(),
		Filename:  filename,
		DeleteURL: reply.Get("data.delete_url").String(),
	}
	if img.URL == "" {
		img.URL = reply.Get("data.display_url").String()
	}
	if img.URL == "" {
		return nil, fmt.Errorf("%w: upload reply has no url", domain.ErrGateway)
	}
	return img, nil
}
