package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/store"
)

const maxFeedbackForm = 32 << 20 // 32MB for the whole multipart body

type feedbackAPI interface {
	Create(ctx context.Context, req api.CreateFeedbackRequest) (*domain.Feedback, error)
	ListByProduct(ctx context.Context, productID int64, page, size int) (*domain.Page[domain.Feedback], error)
	Update(ctx context.Context, id int64, req api.CreateFeedbackRequest) (*domain.Feedback, error)
	Delete(ctx context.Context, id int64) error
}

type imageUploader interface {
	UploadAll(ctx context.Context, uploads []api.Upload) []string
}

type FeedbackHandler struct {
	feedback feedbackAPI
	uploader imageUploader
	store    *store.Store
	timeout  time.Duration
}

func NewFeedbackHandler(feedback feedbackAPI, uploader imageUploader, store *store.Store, timeout time.Duration) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, uploader: uploader, store: store, timeout: timeout}
}

// Create takes a multipart form: rating, comment and any number of image
// files under "images". Images go to the CDN first; failed uploads are
// dropped and the feedback is created with whatever URLs made it.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	req, uploads, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	urls := h.uploader.UploadAll(ctx, uploads)
	req.ImageURLs = strings.Join(urls, ",")

	created, err := h.feedback.Create(ctx, req)
	if err != nil {
		if _, ok := err.(*api.RemoteError); !ok {
			// Client-side rejection: the rating never left the process.
			respondError(w, http.StatusBadRequest, "invalid_rating", err.Error())
			return
		}
		respondFailure(w, err)
		return
	}

	h.store.Feedback.Invalidate()
	respondJSON(w, http.StatusCreated, created)
}

func (h *FeedbackHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(r.URL.Query().Get("productId"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return
	}
	page, size := queryInt(r, "page"), queryInt(r, "size")

	key := fmt.Sprintf("product=%d&page=%d&size=%d", productID, page, size)
	result, err := h.store.Feedback.Fetch(ctx, key, func(ctx context.Context) (*domain.Page[domain.Feedback], error) {
		return h.feedback.ListByProduct(ctx, productID, page, size)
	})
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *FeedbackHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	feedbackID, ok := feedbackIDFromPath(w, r)
	if !ok {
		return
	}
	req, uploads, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	urls := h.uploader.UploadAll(ctx, uploads)
	if existing := r.FormValue("image_urls"); existing != "" {
		urls = append(strings.Split(existing, ","), urls...)
	}
	req.ImageURLs = strings.Join(urls, ",")

	updated, err := h.feedback.Update(ctx, feedbackID, req)
	if err != nil {
		respondFailure(w, err)
		return
	}
	h.store.Feedback.Invalidate()
	respondJSON(w, http.StatusOK, updated)
}

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	feedbackID, ok := feedbackIDFromPath(w, r)
	if !ok {
		return
	}
	if err := h.feedback.Delete(ctx, feedbackID); err != nil {
		respondFailure(w, err)
		return
	}
	h.store.Feedback.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (h *FeedbackHandler) parseForm(w http.ResponseWriter, r *http.Request) (api.CreateFeedbackRequest, []api.Upload, bool) {
	if err := r.ParseMultipartForm(maxFeedbackForm); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "expected a multipart form")
		return api.CreateFeedbackRequest{}, nil, false
	}

	productID, _ := strconv.ParseInt(r.FormValue("product_id"), 10, 64)
	orderID, _ := strconv.ParseInt(r.FormValue("order_id"), 10, 64)
	rating, _ := strconv.Atoi(r.FormValue("rating"))
	req := api.CreateFeedbackRequest{
		ProductID: productID,
		OrderID:   orderID,
		Rating:    rating,
		Comment:   r.FormValue("comment"),
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return api.CreateFeedbackRequest{}, nil, false
	}

	var uploads []api.Upload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid_image", "could not read an uploaded image")
				return api.CreateFeedbackRequest{}, nil, false
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid_image", "could not read an uploaded image")
				return api.CreateFeedbackRequest{}, nil, false
			}
			uploads = append(uploads, api.Upload{Name: header.Filename, Content: content})
		}
	}
	return req, uploads, true
}

func feedbackIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	feedbackID, err := strconv.ParseInt(chi.URLParam(r, "feedback_id"), 10, 64)
	if err != nil || feedbackID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_feedback_id", "feedback_id must be a positive integer")
		return 0, false
	}
	return feedbackID, true
}
