package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/policy"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// MaxPictureSide bounds profile pictures: a picture is rejected only when
// both its width and height exceed it.
const MaxPictureSide = 800

var allowedPictureExt = map[string]struct{}{
	"gif":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// PictureService implements profile picture upload and lookup.
type PictureService struct {
	identities ports.IdentityRepository
	pictures   ports.PictureStore
	policy     *policy.Engine
	log        zerolog.Logger
}

func NewPictureService(identities ports.IdentityRepository, pictures ports.PictureStore, engine *policy.Engine, log zerolog.Logger) *PictureService {
	return &PictureService{identities: identities, pictures: pictures, policy: engine, log: log}
}

// Upload validates and stores a picture under the identity's account token,
// replacing any previous one, and returns the stored path.
func (s *PictureService) Upload(ctx context.Context, actor domain.SessionClaims, userID int64, filename string, data []byte) (string, error) {
	if err := s.policy.Decide(actor, domain.ActionManagePicture, policy.Resource{TargetID: userID}).Err(domain.ActionManagePicture); err != nil {
		return "", err
	}

	identity, err := s.identities.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("upload picture: %w", err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := allowedPictureExt[ext]; !ok {
		return "", &domain.ValidationError{Field: "file", Reason: "Unsupported picture format"}
	}
	if len(data) == 0 {
		return "", &domain.ValidationError{Field: "file", Reason: "Empty picture"}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", &domain.ValidationError{Field: "file", Reason: "Unreadable picture"}
	}
	if cfg.Width > MaxPictureSide && cfg.Height > MaxPictureSide {
		return "", &domain.ValidationError{Field: "file", Reason: "Picture too large"}
	}

	path, err := s.pictures.Save(ctx, identity.AccountToken, ext, data)
	if err != nil {
		return "", fmt.Errorf("upload picture: %w", err)
	}

	s.log.Info().Int64("user_id", userID).Str("path", path).Msg("profile picture stored")
	return path, nil
}

// Lookup returns the stored picture path or the default placeholder.
func (s *PictureService) Lookup(ctx context.Context, actor domain.SessionClaims, userID int64) (string, error) {
	if err := s.policy.Decide(actor, domain.ActionManagePicture, policy.Resource{TargetID: userID}).Err(domain.ActionManagePicture); err != nil {
		return "", err
	}

	identity, err := s.identities.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("lookup picture: %w", err)
	}

	path, ok, err := s.pictures.Find(ctx, identity.AccountToken)
	if err != nil {
		return "", fmt.Errorf("lookup picture: %w", err)
	}
	if !ok {
		return s.pictures.DefaultPath(), nil
	}
	return path, nil
}
