package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAll_AllSucceed(t *testing.T) {
	var n int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		i := atomic.AddInt32(&n, 1)
		fmt.Fprintf(w, `{"url": "https://cdn.example/img-%d.jpg"}`, i)
	}))
	defer server.Close()

	sut := NewUploader(server.URL, time.Second)
	urls := sut.UploadAll(context.Background(), []Upload{
		{Name: "a.jpg", Content: []byte("aaa")},
		{Name: "b.jpg", Content: []byte("bbb")},
		{Name: "c.jpg", Content: []byte("ccc")},
	})

	assert.Len(t, urls, 3)
}

func TestUploadAll_PartialFailureDropsFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		io.Copy(io.Discard, file)

		if header.Filename == "bad.jpg" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"url": "https://cdn.example/%s"}`, header.Filename)
	}))
	defer server.Close()

	sut := NewUploader(server.URL, time.Second)
	urls := sut.UploadAll(context.Background(), []Upload{
		{Name: "ok.jpg", Content: []byte("x")},
		{Name: "bad.jpg", Content: []byte("y")},
	})

	// The failed upload is logged and excluded; the batch proceeds.
	require.Len(t, urls, 1)
	assert.Equal(t, "https://cdn.example/ok.jpg", urls[0])
}

func TestUploadAll_EmptyBatch(t *testing.T) {
	sut := NewUploader("http://unused.invalid", time.Second)
	assert.Empty(t, sut.UploadAll(context.Background(), nil))
}

func TestUploadAll_AllFailYieldsEmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sut := NewUploader(server.URL, time.Second)
	urls := sut.UploadAll(context.Background(), []Upload{
		{Name: "a.jpg", Content: []byte("x")},
		{Name: "b.jpg", Content: []byte("y")},
	})
	assert.Empty(t, urls)
}
