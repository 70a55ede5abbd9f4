// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"leadpress/internal/apperr"
)

// maxUploadSize is the maximum allowed image upload size (10 MB).
const maxUploadSize = 10 << 20

// allowedImageTypes defines MIME types accepted for featured images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// MediaUpload handles multipart image upload to S3 and returns the public
// URL for use as a post's featured image.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		respondJSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "Object storage is not configured."})
		return
	}

	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondJSON(w, http.StatusRequestEntityTooLarge,
			map[string]string{"error": "File too large. Maximum size is 10 MB."})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, apperr.Validation("No file provided."))
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondJSON(w, http.StatusRequestEntityTooLarge,
			map[string]string{"error": "File too large. Maximum size is 10 MB."})
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedImageTypes[contentType] {
		respondError(w, r, apperr.Validation(fmt.Sprintf("File type %q is not allowed.", contentType)))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(w, r, fmt.Errorf("rewind upload: %w", err))
		return
	}

	// Generate a unique storage key grouped by year/month.
	now := time.Now()
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	key := fmt.Sprintf("blog/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	url, err := a.storageClient.Upload(r.Context(), key, contentType,
		bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"url":      url,
		"filename": header.Filename,
		"size":     len(fileBytes),
		"type":     contentType,
	})
}

// MediaDelete removes an uploaded image by its public URL. Unknown URLs
// (external images hot-linked into posts) are rejected.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		respondJSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "Object storage is not configured."})
		return
	}

	var in struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	key, ok := a.storageClient.ExtractKey(in.URL)
	if !ok {
		respondError(w, r, apperr.Validation("URL does not belong to this storage."))
		return
	}

	if err := a.storageClient.Delete(r.Context(), key); err != nil {
		slog.Error("s3 delete failed", "error", err, "key", key)
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
