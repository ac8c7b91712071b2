package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/blacktop/postcheck/internal/postcheck"
)

// conversions can take minutes for large inputs
var clientTimeout = 5 * time.Minute

// Client calls a remote conversion service: one multipart POST per file, MP4
// bytes back on 200, a JSON error body otherwise.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient returns a client for the conversion endpoint at url.
func NewClient(url string) *Client {
	return &Client{
		URL:  url,
		HTTP: &http.Client{Timeout: clientTimeout},
	}
}

// Convert uploads the file and returns the transcoded replacement, renamed
// "<base>_converted.mp4". The original file is never modified.
func (c *Client) Convert(ctx context.Context, f postcheck.MediaFile) (postcheck.MediaFile, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return postcheck.MediaFile{}, fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return postcheck.MediaFile{}, fmt.Errorf("build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return postcheck.MediaFile{}, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, &body)
	if err != nil {
		return postcheck.MediaFile{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.HTTP.Do(req)
	if err != nil {
		return postcheck.MediaFile{}, fmt.Errorf("call conversion service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&payload)
		return postcheck.MediaFile{}, postcheck.ConversionError{
			Name:   f.Name,
			Status: res.StatusCode,
			Reason: payload.Error,
		}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return postcheck.MediaFile{}, fmt.Errorf("read converted file: %w", err)
	}

	return postcheck.MediaFile{
		Name: ConvertedName(f.Name),
		MIME: "video/mp4",
		Data: data,
	}, nil
}

// ConvertedName derives the replacement filename the composer expects.
func ConvertedName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "video"
	}
	return base + "_converted.mp4"
}
