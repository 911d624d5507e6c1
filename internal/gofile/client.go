// Package gofile talks to the GoFile hosting API.
//
// Only the two calls the bot needs are implemented: uploading a local
// file and deleting remote content. Each call is attempted once.
package gofile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

const statusOK = "ok"

// File is the result card of a successful upload.
type File struct {
	Name             string `json:"name"`
	ID               string `json:"id"`
	ParentFolderCode string `json:"parentFolderCode"`
	GuestToken       string `json:"guestToken"`
	MD5              string `json:"md5"`
	DownloadPage     string `json:"downloadPage"`
}

// APIError is returned when GoFile answers with a non-ok status.
type APIError struct {
	Op     string
	Status string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gofile %s: status %q", e.Op, e.Status)
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type Options struct {
	// UploadURL is the upload host, e.g. https://upload.gofile.io.
	UploadURL string
	// APIURL is the API host, e.g. https://api.gofile.io.
	APIURL string
	// HTTPClient defaults to a client without overall timeout, since
	// uploads of large files can take a long time.
	HTTPClient *http.Client
}

type Client struct {
	uploadURL string
	apiURL    string
	http      *http.Client
}

func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Minute,
			},
		}
	}
	return &Client{
		uploadURL: strings.TrimRight(opts.UploadURL, "/"),
		apiURL:    strings.TrimRight(opts.APIURL, "/"),
		http:      hc,
	}
}

// Upload sends the file at path. token and folderID are optional; without
// a token GoFile creates a guest account and returns its token.
func (c *Client) Upload(ctx context.Context, path, token, folderID string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeForm(mw, f, filepath.Base(path), token, folderID))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+"/uploadfile", pr)
	if err != nil {
		pr.Close()
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var file File
	if err := c.do(req, "upload", &file); err != nil {
		pr.Close()
		return nil, err
	}
	return &file, nil
}

func writeForm(mw *multipart.Writer, src io.Reader, name, token, folderID string) error {
	if token != "" {
		if err := mw.WriteField("token", token); err != nil {
			return err
		}
	}
	if folderID != "" {
		if err := mw.WriteField("folderId", folderID); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return errors.Wrap(err, "stream file")
	}
	return mw.Close()
}

// Delete removes the content with contentID from the account owning token.
func (c *Client) Delete(ctx context.Context, token, contentID string) error {
	body, err := json.Marshal(map[string]string{"contentsId": contentID})
	if err != nil {
		return errors.Wrap(err, "encode body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.apiURL+"/contents", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, "delete", nil)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, op)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{Op: op, Status: resp.Status}
		}
		return errors.Wrap(err, "decode response")
	}
	if env.Status != statusOK {
		status := env.Status
		if status == "" {
			status = resp.Status
		}
		return &APIError{Op: op, Status: status}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrap(err, "decode data")
	}
	return nil
}
