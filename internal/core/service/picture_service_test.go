package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/policy"
	"github.com/protorh/protorh-api/internal/infrastructure/db/memory"
	"github.com/protorh/protorh-api/internal/infrastructure/storage"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestPictureService(t *testing.T) (*PictureService, *domain.Identity) {
	t.Helper()
	ids := memory.NewIdentityRepository()
	owner := seedIdentity(t, ids, "p@x.com", domain.RoleUser)
	store, err := storage.NewPictureStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewPictureStore: %v", err)
	}
	return NewPictureService(ids, store, policy.NewEngine(), zerolog.Nop()), owner
}

func TestPictureService_UploadAndLookup(t *testing.T) {
	svc, owner := newTestPictureService(t)
	ctx := context.Background()

	def, err := svc.Lookup(ctx, asClaims(owner), owner.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if filepath.Base(def) != storage.DefaultPictureName {
		t.Fatalf("expected default picture, got %q", def)
	}

	path, err := svc.Upload(ctx, asClaims(owner), owner.ID, "me.PNG", pngBytes(t, 900, 400))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if filepath.Base(path) != owner.AccountToken+".png" {
		t.Fatalf("unexpected stored name %q", path)
	}

	got, err := svc.Lookup(ctx, asClaims(owner), owner.ID)
	if err != nil || got != path {
		t.Fatalf("Lookup = %q, %v; want %q", got, err, path)
	}
}

func TestPictureService_UploadRejections(t *testing.T) {
	svc, owner := newTestPictureService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"extension", "me.bmp", pngBytes(t, 10, 10)},
		{"empty", "me.png", nil},
		{"not an image", "me.png", []byte("definitely not a png")},
		{"both sides too large", "me.png", pngBytes(t, 801, 801)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Upload(ctx, asClaims(owner), owner.ID, tc.filename, tc.data); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	if _, err := svc.Upload(ctx, asClaims(owner), 999, "me.png", pngBytes(t, 1, 1)); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
