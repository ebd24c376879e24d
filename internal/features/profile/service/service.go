package service

import (
	"context"
	"errors"
	"strings"

	apperrors "userprofile-backend/internal/common/errors"
	"userprofile-backend/internal/common/logger"
	"userprofile-backend/internal/crypto"
	"userprofile-backend/internal/features/profile/cache"
	"userprofile-backend/internal/features/profile/models"
	"userprofile-backend/internal/features/profile/repository"
)

// ProfileService orchestrates profile CRUD: uniqueness checks and field
// encryption on the write path, read-through caching on single fetches.
type ProfileService interface {
	CreateProfile(ctx context.Context, req *models.CreateProfileRequest) (*models.Profile, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id string) (string, error)
	ListProfiles(ctx context.Context, search string) ([]*models.Profile, error)
}

type profileService struct {
	repo      repository.ProfileRepository
	cache     cache.ProfileCache
	encryptor crypto.Encryptor
}

func NewProfileService(repo repository.ProfileRepository, cache cache.ProfileCache, encryptor crypto.Encryptor) ProfileService {
	return &profileService{
		repo:      repo,
		cache:     cache,
		encryptor: encryptor,
	}
}

func (s *profileService) CreateProfile(ctx context.Context, req *models.CreateProfileRequest) (*models.Profile, error) {
	ciphertext, err := s.encryptor.Encrypt(req.SocialSecurityNumber)
	if err != nil {
		return nil, apperrors.NewEncryptionError("encrypt", err)
	}

	// The check and the write are not transactional; concurrent creates
	// with the same username or email can both pass.
	if err := s.checkUnique(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	id, err := s.repo.AddDocument(ctx, map[string]interface{}{
		repository.FieldUsername: req.Username,
		repository.FieldEmail:    req.Email,
		repository.FieldSSN:      ciphertext,
	})
	if err != nil {
		return nil, apperrors.NewDatastoreError("save user profile", err)
	}

	logger.Info().Str("profile_id", id).Msg("Profile created")

	// The snapshot returned to the client never carries the SSN, and the
	// cache is not pre-populated on create.
	return &models.Profile{ID: id, Username: req.Username, Email: req.Email}, nil
}

func (s *profileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if profile, ok := s.cache.Get(ctx, id); ok {
		return profile, nil
	}

	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	// The stored ciphertext is never decrypted on the read path.
	profile := toProfile(*doc)
	s.cache.Set(ctx, id, profile)
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if _, err := s.getDocument(ctx, id); err != nil {
		return nil, err
	}

	err := s.repo.UpdateDocument(ctx, id, map[string]interface{}{
		repository.FieldUsername: req.Username,
		repository.FieldEmail:    req.Email,
	})
	if err != nil {
		return nil, apperrors.NewDatastoreError("update user profile", err)
	}

	s.cache.Delete(ctx, id)

	return &models.Profile{ID: id, Username: req.Username, Email: req.Email}, nil
}

func (s *profileService) DeleteProfile(ctx context.Context, id string) (string, error) {
	if _, err := s.getDocument(ctx, id); err != nil {
		return "", err
	}

	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return "", apperrors.NewDatastoreError("delete user profile", err)
	}

	s.cache.Delete(ctx, id)
	logger.Info().Str("profile_id", id).Msg("Profile deleted")

	return "User deleted successfully.", nil
}

func (s *profileService) ListProfiles(ctx context.Context, search string) ([]*models.Profile, error) {
	var docs []repository.Document

	if strings.TrimSpace(search) == "" {
		all, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, apperrors.NewDatastoreError("list user profiles", err)
		}
		docs = all
	} else {
		// Exact equality on username, then email, concatenated in that
		// order without deduplication.
		for _, field := range []string{repository.FieldUsername, repository.FieldEmail} {
			matches, err := s.repo.QueryEqual(ctx, field, search)
			if err != nil {
				return nil, apperrors.NewDatastoreError("search user profiles", err)
			}
			docs = append(docs, matches...)
		}
		if len(docs) == 0 {
			return nil, apperrors.New(apperrors.ErrCodeProfileNotFound,
				"No user profiles found for search: "+search)
		}
	}

	profiles := make([]*models.Profile, 0, len(docs))
	for _, doc := range docs {
		profiles = append(profiles, toProfile(doc))
	}
	return profiles, nil
}

func (s *profileService) checkUnique(ctx context.Context, username, email string) error {
	for _, q := range []struct{ field, value string }{
		{repository.FieldUsername, username},
		{repository.FieldEmail, email},
	} {
		docs, err := s.repo.QueryEqual(ctx, q.field, q.value)
		if err != nil {
			return apperrors.NewDatastoreError("check for existing user", err)
		}
		if len(docs) > 0 {
			return apperrors.NewAlreadyExistsError()
		}
	}
	return nil
}

func (s *profileService) getDocument(ctx context.Context, id string) (*repository.Document, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, apperrors.NewProfileNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewDatastoreError("retrieve user profile", err)
	}
	return doc, nil
}

func toProfile(doc repository.Document) *models.Profile {
	return &models.Profile{
		ID:       doc.ID,
		Username: doc.GetString(repository.FieldUsername),
		Email:    doc.GetString(repository.FieldEmail),
	}
}
