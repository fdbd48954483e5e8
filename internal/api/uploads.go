package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

// Upload is one file headed for the image CDN.
type Upload struct {
	Name    string
	Content []byte
}

// Uploader pushes image batches to the CDN endpoint. All files go out
// concurrently; individual failures are logged and dropped, and the batch
// returns whatever succeeded. No rollback, no retry.
type Uploader struct {
	endpoint string
	http     *http.Client
	limit    int
}

func NewUploader(endpoint string, timeout time.Duration) *Uploader {
	return &Uploader{
		endpoint: endpoint,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limit: 4,
	}
}

// UploadAll returns the CDN URLs of the uploads that succeeded, in the
// order they finished. An empty result is not an error; the caller decides
// whether zero images is acceptable.
func (u *Uploader) UploadAll(ctx context.Context, uploads []Upload) []string {
	if len(uploads) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		urls []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.limit)

	for _, upload := range uploads {
		upload := upload
		g.Go(func() error {
			url, err := u.uploadOne(ctx, upload)
			if err != nil {
				log.Printf("image upload failed for %q: %v", upload.Name, err)
				return nil // partial failure: drop and continue
			}
			mu.Lock()
			urls = append(urls, url)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return urls
}

func (u *Uploader) uploadOne(ctx context.Context, upload Upload) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", upload.Name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(upload.Content); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return result.URL, nil
}
