// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitefolio/internal/cache"
	"sitefolio/internal/forms"
	"sitefolio/internal/imaging"
	"sitefolio/internal/models"
	"sitefolio/internal/storage"
	"sitefolio/internal/store"
)

// maxUploadBytes bounds the whole multipart request body. Slightly above
// the image limit to leave room for the text fields.
const maxUploadBytes = models.MaxImageSize + 1<<20

// Admin groups the authenticated management handlers.
type Admin struct {
	entries    *store.EntryStore
	categories *store.CategoryStore
	listCache  *cache.ListCache
	storage    *storage.Client
}

// NewAdmin creates the admin handler group.
func NewAdmin(entries *store.EntryStore, categories *store.CategoryStore, listCache *cache.ListCache, storageClient *storage.Client) *Admin {
	return &Admin{
		entries:    entries,
		categories: categories,
		listCache:  listCache,
		storage:    storageClient,
	}
}

// ListEntries serves the management list. Unlike the public surface the
// entries keep their storage keys.
func (a *Admin) ListEntries(w http.ResponseWriter, r *http.Request) {
	serveEntryList(w, r, "admin", a.entries, a.listCache, a.storage)
}

// entryRef resolves the {category}/{serial} URL pair of an admin entry
// route. Writes the error response itself and reports ok=false on failure.
func entryRef(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	partitionID, err := uuid.Parse(chi.URLParam(r, "category"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category reference.")
		return uuid.Nil, 0, false
	}
	serial, err := strconv.Atoi(chi.URLParam(r, "serial"))
	if err != nil || serial < 1 {
		respondError(w, http.StatusBadRequest, "Invalid entry reference.")
		return uuid.Nil, 0, false
	}
	return partitionID, serial, true
}

// uploadedImage holds a validated image upload staged for storage.
type uploadedImage struct {
	data        []byte
	contentType string
}

// readImage pulls and validates the optional "image" part of a multipart
// form. Returns (nil, "") when the form carries no image. The content type
// is sniffed from the bytes, never trusted from the part header.
func readImage(r *http.Request) (*uploadedImage, string) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, ""
	}
	if err != nil {
		return nil, "Could not read the uploaded image."
	}
	defer file.Close()

	if header.Size > models.MaxImageSize {
		return nil, "Image must be 5 MB or smaller."
	}

	data, err := io.ReadAll(io.LimitReader(file, models.MaxImageSize+1))
	if err != nil {
		return nil, "Could not read the uploaded image."
	}
	if int64(len(data)) > models.MaxImageSize {
		return nil, "Image must be 5 MB or smaller."
	}

	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	contentType := http.DetectContentType(sniff)
	if !models.AllowedImageTypes[contentType] {
		return nil, "Only JPEG, PNG, GIF and WebP images are accepted."
	}

	return &uploadedImage{data: data, contentType: contentType}, ""
}

// storeImage uploads the original image and its thumbnail, returning the
// stored keys. When the source is already thumbnail-sized the original key
// doubles as the thumbnail key.
func (a *Admin) storeImage(r *http.Request, entryName string, img *uploadedImage) (imageKey, thumbKey string, err error) {
	imageKey = a.storage.Key(entryName, imaging.ExtensionFromType(img.contentType))
	if err := a.storage.Upload(r.Context(), imageKey, img.contentType,
		bytes.NewReader(img.data), int64(len(img.data))); err != nil {
		return "", "", err
	}

	thumb, err := imaging.Thumbnail(img.data, imaging.ThumbMaxWidth)
	if err != nil {
		return "", "", err
	}
	if thumb == nil {
		return imageKey, imageKey, nil
	}

	thumbKey = storage.ThumbKey(imageKey)
	if err := a.storage.Upload(r.Context(), thumbKey, "image/jpeg",
		bytes.NewReader(thumb), int64(len(thumb))); err != nil {
		return "", "", err
	}
	return imageKey, thumbKey, nil
}

// dropImage best-effort deletes a stored image pair. Failures are logged,
// never surfaced: an orphaned object is preferable to a failed request.
func (a *Admin) dropImage(r *http.Request, imageKey, thumbKey string) {
	if a.storage == nil {
		return
	}
	if imageKey != "" {
		if err := a.storage.Delete(r.Context(), imageKey); err != nil {
			slog.Warn("image cleanup failed", "key", imageKey, "error", err)
		}
	}
	if thumbKey != "" && thumbKey != imageKey {
		if err := a.storage.Delete(r.Context(), thumbKey); err != nil {
			slog.Warn("thumbnail cleanup failed", "key", thumbKey, "error", err)
		}
	}
}

// CreateEntry handles a multipart form with name, category, url,
// description and an optional image file.
func (a *Admin) CreateEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	name := r.FormValue("name")
	categoryName := r.FormValue("category")
	normalizedURL, fieldErrs := forms.ValidateEntryFields(name, categoryName,
		r.FormValue("url"), r.FormValue("description"))
	if len(fieldErrs) > 0 {
		respondFieldErrors(w, fieldErrs)
		return
	}

	category, err := a.categories.FindByName(categoryName)
	if err != nil {
		slog.Error("find category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not save the entry. Please try again.")
		return
	}
	if category == nil {
		respondFieldErrors(w, forms.FieldErrors{"category": "Unknown category."})
		return
	}

	img, imgErr := readImage(r)
	if imgErr != "" {
		respondFieldErrors(w, forms.FieldErrors{"image": imgErr})
		return
	}

	var imageKey, thumbKey string
	if img != nil {
		if a.storage == nil {
			respondError(w, http.StatusServiceUnavailable, "Image storage is not configured.")
			return
		}
		imageKey, thumbKey, err = a.storeImage(r, name, img)
		if err != nil {
			slog.Error("image upload failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Could not store the image. Please try again.")
			return
		}
	}

	entry, err := a.entries.Create(category.ID, name, normalizedURL,
		r.FormValue("description"), imageKey, thumbKey)
	if err != nil {
		slog.Error("create entry failed", "error", err)
		a.dropImage(r, imageKey, thumbKey)
		respondError(w, http.StatusInternalServerError, "Could not save the entry. Please try again.")
		return
	}

	a.invalidateLists(r)
	a.decorate(entry)
	respond(w, http.StatusCreated, Envelope{Success: true, Message: "Entry created.", Data: entry})
}

// UpdateEntry rewrites an entry. The image is optional; when a new one is
// uploaded the replacement is stored before the old objects are removed, so
// a failed upload never strips the entry of its current image.
func (a *Admin) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	partitionID, serial, ok := entryRef(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	name := r.FormValue("name")
	categoryName := r.FormValue("category")
	normalizedURL, fieldErrs := forms.ValidateEntryFields(name, categoryName,
		r.FormValue("url"), r.FormValue("description"))
	if len(fieldErrs) > 0 {
		respondFieldErrors(w, fieldErrs)
		return
	}

	current, err := a.entries.FindBySerial(partitionID, serial)
	if err != nil {
		slog.Error("find entry failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not save the entry. Please try again.")
		return
	}
	if current == nil {
		respondError(w, http.StatusNotFound, "Entry not found.")
		return
	}

	update := store.EntryUpdate{
		Name:        name,
		URL:         normalizedURL,
		Description: r.FormValue("description"),
	}

	if categoryName != current.Category {
		target, err := a.categories.FindByName(categoryName)
		if err != nil {
			slog.Error("find category failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Could not save the entry. Please try again.")
			return
		}
		if target == nil {
			respondFieldErrors(w, forms.FieldErrors{"category": "Unknown category."})
			return
		}
		update.NewPartitionID = target.ID
	}

	img, imgErr := readImage(r)
	if imgErr != "" {
		respondFieldErrors(w, forms.FieldErrors{"image": imgErr})
		return
	}

	var newImageKey, newThumbKey string
	if img != nil {
		if a.storage == nil {
			respondError(w, http.StatusServiceUnavailable, "Image storage is not configured.")
			return
		}
		newImageKey, newThumbKey, err = a.storeImage(r, name, img)
		if err != nil {
			slog.Error("image upload failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Could not store the image. Please try again.")
			return
		}
		update.ImageKey = &newImageKey
		update.ThumbKey = &newThumbKey
	}

	entry, err := a.entries.Update(partitionID, serial, update)
	if errors.Is(err, sql.ErrNoRows) {
		a.dropImage(r, newImageKey, newThumbKey)
		respondError(w, http.StatusNotFound, "Entry not found.")
		return
	}
	if err != nil {
		slog.Error("update entry failed", "error", err)
		a.dropImage(r, newImageKey, newThumbKey)
		respondError(w, http.StatusInternalServerError, "Could not save the entry. Please try again.")
		return
	}

	// New image committed, the previous objects can go.
	if img != nil {
		a.dropImage(r, current.ImageKey, current.ThumbKey)
	}

	a.invalidateLists(r)
	a.decorate(entry)
	respond(w, http.StatusOK, Envelope{Success: true, Message: "Entry updated.", Data: entry})
}

// DeleteEntry removes an entry and its stored images.
func (a *Admin) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	partitionID, serial, ok := entryRef(w, r)
	if !ok {
		return
	}

	current, err := a.entries.FindBySerial(partitionID, serial)
	if err != nil {
		slog.Error("find entry failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not delete the entry. Please try again.")
		return
	}
	if current == nil {
		respondError(w, http.StatusNotFound, "Entry not found.")
		return
	}

	if err := a.entries.Delete(partitionID, serial); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Entry not found.")
			return
		}
		slog.Error("delete entry failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not delete the entry. Please try again.")
		return
	}

	a.dropImage(r, current.ImageKey, current.ThumbKey)
	a.invalidateLists(r)
	respondMessage(w, "Entry deleted.", nil)
}

// invalidateLists drops every cached list page after a mutation.
func (a *Admin) invalidateLists(r *http.Request) {
	a.listCache.InvalidateAll(r.Context())
}

// decorate fills the public URLs on an entry before it goes out.
func (a *Admin) decorate(e *models.Entry) {
	if a.storage == nil || e == nil {
		return
	}
	e.ImageURL = a.storage.FileURL(e.ImageKey)
	e.ThumbURL = a.storage.FileURL(e.ThumbKey)
}
