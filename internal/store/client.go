// Package store talks to an OpenAI-compatible files and vector store API.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client issues one request at a time against the store. It is safe to reuse
// across runs that share a credential.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	userAgent string
}

// New builds a Client. An empty BaseURL or timeout falls back to defaults.
func New(cfg Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUA
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          2,
		MaxIdleConnsPerHost:   1,
		MaxConnsPerHost:       1,
		IdleConnTimeout:       30 * time.Second,
	}
	return &Client{
		http:      &http.Client{Timeout: timeout, Transport: transport},
		baseURL:   base,
		apiKey:    cfg.APIKey,
		userAgent: ua,
	}
}

// CreateFile uploads the content of r as filename and returns the file id.
// When r is seekable the request carries a Content-Length and can be replayed
// by the transport on a stale keep-alive connection.
func (c *Client) CreateFile(ctx context.Context, filename string, r io.Reader, purpose string) (string, error) {
	form, err := newFileForm(filename, r, purpose)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/files", form.body())
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.contentType)
	if form.size >= 0 {
		req.ContentLength = form.size
		req.GetBody = form.rewind
	}

	var f File
	if err := c.do(req, &f); err != nil {
		return "", err
	}
	if f.ID == "" {
		return "", fmt.Errorf("store returned no file id for %s", filename)
	}
	return f.ID, nil
}

// fileForm is a multipart body split around the file content so the content
// itself is streamed rather than buffered.
type fileForm struct {
	head, tail  []byte
	content     io.Reader
	seeker      io.Seeker
	start       int64
	size        int64 // whole body length, -1 when r cannot seek
	contentType string
}

func newFileForm(filename string, r io.Reader, purpose string) (*fileForm, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("purpose", purpose); err != nil {
		return nil, err
	}
	if _, err := mw.CreateFormFile("file", filename); err != nil {
		return nil, err
	}
	head := bytes.Clone(buf.Bytes())
	buf.Reset()
	if err := mw.Close(); err != nil {
		return nil, err
	}

	form := &fileForm{
		head:        head,
		tail:        bytes.Clone(buf.Bytes()),
		content:     r,
		size:        -1,
		contentType: mw.FormDataContentType(),
	}
	if s, ok := r.(io.Seeker); ok {
		start, n, err := remaining(s)
		if err != nil {
			return nil, fmt.Errorf("measure %s: %w", filename, err)
		}
		form.seeker = s
		form.start = start
		form.size = int64(len(form.head)) + n + int64(len(form.tail))
	}
	return form, nil
}

// remaining reports the current offset of s and how many bytes follow it,
// leaving s where it was.
func remaining(s io.Seeker) (start, n int64, err error) {
	start, err = s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, 0, err
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, 0, err
	}
	if _, err := s.Seek(start, io.SeekStart); err != nil {
		return 0, 0, err
	}
	return start, end - start, nil
}

func (f *fileForm) body() io.Reader {
	return io.MultiReader(bytes.NewReader(f.head), f.content, bytes.NewReader(f.tail))
}

func (f *fileForm) rewind() (io.ReadCloser, error) {
	if _, err := f.seeker.Seek(f.start, io.SeekStart); err != nil {
		return nil, err
	}
	return io.NopCloser(f.body()), nil
}

// CreateCollection creates a vector store with the given name and returns its id.
func (c *Client) CreateCollection(ctx context.Context, name string) (string, error) {
	body, err := json.Marshal(createCollectionRequest{Name: name})
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/vector_stores", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var vs Collection
	if err := c.do(req, &vs); err != nil {
		return "", err
	}
	if vs.ID == "" {
		return "", fmt.Errorf("store returned no vector store id")
	}
	return vs.ID, nil
}

// AttachFiles associates all fileIDs with the vector store in one batch.
func (c *Client) AttachFiles(ctx context.Context, collectionID string, fileIDs []string) error {
	body, err := json.Marshal(attachFilesRequest{FileIDs: fileIDs})
	if err != nil {
		return err
	}
	path := "/vector_stores/" + url.PathEscape(collectionID) + "/file_batches"
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var batch FileBatch
	return c.do(req, &batch)
}

// DeleteFile removes an uploaded file.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// GetCollection looks up a vector store by id.
func (c *Client) GetCollection(ctx context.Context, collectionID string) (*Collection, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/vector_stores/"+url.PathEscape(collectionID), nil)
	if err != nil {
		return nil, err
	}
	var vs Collection
	if err := c.do(req, &vs); err != nil {
		return nil, err
	}
	return &vs, nil
}
