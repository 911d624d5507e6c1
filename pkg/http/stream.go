package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second

	// FallbackFilename is used when neither the response nor the URL
	// carries a usable name.
	FallbackFilename = "download_file"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var (
	ErrNotFound     = errors.New("http: resource not found")
	ErrForbidden    = errors.New("http: access forbidden")
	ErrUnauthorized = errors.New("http: unauthorized")
	ErrServerError  = errors.New("http: server error")
)

// FileInfo is what a HEAD request tells us about a remote file. Size is 0
// when the server does not send Content-Length.
type FileInfo struct {
	Size        int64
	Filename    string
	ContentType string
}

type Client struct {
	client *http.Client
}

// NewClient returns a client whose transport only bounds the time to first
// response byte; bodies may stream for as long as the context allows.
func NewClient() *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: DefaultTimeout,
	}
	return &Client{client: &http.Client{Transport: transport}}
}

// Head follows redirects and reports size and name of the resource.
func (c *Client) Head(ctx context.Context, rawURL string) (*FileInfo, error) {
	req, err := c.newRequest(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("head request failed: %w", err)
	}
	resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return fileInfo(resp), nil
}

// StreamRequest starts a GET and hands back the open body. The caller
// closes it.
func (c *Client) StreamRequest(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, *FileInfo, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, headers)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, nil, err
	}
	return resp.Body, fileInfo(resp), nil
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, headers map[string]string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func fileInfo(resp *http.Response) *FileInfo {
	size := resp.ContentLength
	if size < 0 {
		size = 0
	}
	return &FileInfo{
		Size:        size,
		Filename:    responseFilename(resp),
		ContentType: resp.Header.Get("Content-Type"),
	}
}

func responseFilename(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := path.Base(params["filename"]); name != "" && name != "." && name != "/" {
				return name
			}
		}
	}
	return FilenameFromURL(resp.Request.URL.String())
}

// FilenameFromURL takes the last path segment of rawURL, ignoring the
// query string.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return FallbackFilename
	}

	p := strings.TrimRight(u.Path, "/")
	name := path.Base(p)
	if p == "" || name == "." || name == "/" {
		return FallbackFilename
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", ErrServerError, resp.Status)
	default:
		return fmt.Errorf("http error: %s", resp.Status)
	}
}
