package client

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/photo"
)

// PreviewHandle is a local resource shown while a photo is not uploaded yet,
// for example a temporary file or an object URL. Release frees it.
type PreviewHandle interface {
	Release()
}

// Photo is either *Pending or *Persisted.
type Photo interface {
	isPhoto()
}

// Pending is a picked file that only exists on this device.
type Pending struct {
	Name    string
	Data    []byte
	Preview PreviewHandle
}

// Persisted is a photo the server stored.
type Persisted struct {
	ID               uuid.UUID
	URL              string
	IsProfilePicture bool
}

func (*Pending) isPhoto()   {}
func (*Persisted) isPhoto() {}

func (p *Pending) release() {
	if p.Preview != nil {
		p.Preview.Release()
		p.Preview = nil
	}
}

var ErrPhotoIndex = errors.New("photo index out of range")

// Album is the ordered photo set being edited on a device.
type Album struct {
	mu    sync.Mutex
	items []Photo
}

// NewAlbum starts from the photos the server already has.
func NewAlbum(persisted []Persisted) *Album {
	a := &Album{}
	for i := range persisted {
		p := persisted[i]
		a.items = append(a.items, &p)
	}
	return a
}

func (a *Album) Add(name string, data []byte, preview PreviewHandle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, &Pending{Name: name, Data: data, Preview: preview})
}

// Discard removes the photo at index, releasing its preview when pending.
func (a *Album) Discard(index int) (Photo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.items) {
		return nil, ErrPhotoIndex
	}
	p := a.items[index]
	if pending, ok := p.(*Pending); ok {
		pending.release()
	}
	a.items = append(a.items[:index], a.items[index+1:]...)
	return p, nil
}

func (a *Album) Items() []Photo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Photo(nil), a.items...)
}

func (a *Album) pending() []*Pending {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*Pending
	for _, p := range a.items {
		if pending, ok := p.(*Pending); ok {
			out = append(out, pending)
		}
	}
	return out
}

// Snapshot is what survives a reload: only persisted photos.
func (a *Album) Snapshot() []Persisted {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Persisted
	for _, p := range a.items {
		if persisted, ok := p.(*Persisted); ok {
			out = append(out, *persisted)
		}
	}
	return out
}

// promote replaces the album with the server's list and releases every
// uploaded preview.
func (a *Album) promote(uploaded []*Pending, server []*photo.PhotoResponse) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range uploaded {
		p.release()
	}
	items := make([]Photo, 0, len(server))
	for _, s := range server {
		items = append(items, persistedFrom(s))
	}
	// Photos added while the upload was in flight stay pending.
	for _, p := range a.items {
		if pending, ok := p.(*Pending); ok && !contains(uploaded, pending) {
			items = append(items, pending)
		}
	}
	a.items = items
}

func contains(list []*Pending, p *Pending) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

func persistedFrom(p *photo.PhotoResponse) *Persisted {
	return &Persisted{ID: p.ID, URL: p.URL, IsProfilePicture: p.IsProfilePicture}
}

// SyncAlbum uploads every pending photo in one request. On success the
// album holds the server's list; on failure nothing changes.
func (c *Client) SyncAlbum(ctx context.Context, album *Album) error {
	pending := album.pending()
	if len(pending) == 0 {
		return nil
	}
	photos, err := c.UploadPhotos(ctx, pending...)
	if err != nil {
		return err
	}
	album.promote(pending, photos)
	return nil
}

// UploadPhotos posts files as one multipart request and returns the full list.
func (c *Client) UploadPhotos(ctx context.Context, files ...*Pending) ([]*photo.PhotoResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("photos", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out []*photo.PhotoResponse
	_, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        "/photos",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}, &out)
	return out, err
}

func (c *Client) Photos(ctx context.Context) ([]*photo.PhotoResponse, error) {
	var out []*photo.PhotoResponse
	err := c.do(ctx, http.MethodGet, "/photos", nil, &out)
	return out, err
}

func (c *Client) DeletePhoto(ctx context.Context, id uuid.UUID) ([]*photo.PhotoResponse, error) {
	var out []*photo.PhotoResponse
	err := c.do(ctx, http.MethodDelete, "/photos/"+id.String(), nil, &out)
	return out, err
}

func (c *Client) SetProfilePicture(ctx context.Context, id uuid.UUID) ([]*photo.PhotoResponse, error) {
	var out []*photo.PhotoResponse
	err := c.do(ctx, http.MethodPatch, "/photos/"+id.String()+"/profile-picture", nil, &out)
	return out, err
}

func (c *Client) ReorderPhotos(ctx context.Context, ids []uuid.UUID) ([]*photo.PhotoResponse, error) {
	var out []*photo.PhotoResponse
	err := c.do(ctx, http.MethodPatch, "/photos/reorder", photo.ReorderRequest{PhotoIDs: ids}, &out)
	return out, err
}
