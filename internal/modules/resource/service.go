package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"filevault/internal/domain"
	"filevault/internal/imaging"
	"filevault/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultLimit = 10
	maxLimit     = 100

	folderMimetype = "inode/directory"

	// guards the ancestor walk against a corrupted tree
	maxTreeDepth = 100
)

type Service struct {
	resources ResourceRepository
	store     storage.Storage
	optimizer *imaging.Optimizer
}

func NewService(resources ResourceRepository, store storage.Storage, optimizer *imaging.Optimizer) *Service {
	return &Service{
		resources: resources,
		store:     store,
		optimizer: optimizer,
	}
}

// Create persists a new resource owned by ownerID. FILE resources require an
// uploaded body; images are optimized before they reach storage and the row
// records the stored object's url, size and mimetype.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateRequest, file *multipart.FileHeader) (*domain.Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrMissingName
	}
	if req.Type != domain.TypeFolder && req.Type != domain.TypeFile {
		return nil, ErrInvalidType
	}

	if req.ParentID != nil {
		if err := s.validateParent(ctx, *req.ParentID, 0); err != nil {
			return nil, err
		}
	}

	res := &domain.Resource{
		OwnerID:  ownerID,
		ParentID: req.ParentID,
		Type:     req.Type,
		Name:     req.Name,
	}

	switch req.Type {
	case domain.TypeFolder:
		res.Mimetype = folderMimetype

	case domain.TypeFile:
		if file == nil {
			return nil, ErrMissingFile
		}
		if err := s.storeFile(ctx, res, file); err != nil {
			return nil, err
		}
	}

	if err := s.resources.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) storeFile(ctx context.Context, res *domain.Resource, file *multipart.FileHeader) error {
	f, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	// sniff the real content type from the first 512 bytes
	head := make([]byte, 512)
	n, _ := f.Read(head)
	mimetype := strings.Split(http.DetectContentType(head[:n]), ";")[0]
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	key := uuid.NewString() + path.Ext(file.Filename)
	res.Mimetype = mimetype
	res.Size = file.Size

	if s.optimizer.IsImage(mimetype) {
		optimized, err := s.optimizer.Optimize(f)
		if err != nil {
			return fmt.Errorf("optimize image: %w", err)
		}
		key = uuid.NewString() + ".webp"
		res.Mimetype = optimized.Mimetype
		res.Size = optimized.Size

		url, err := s.store.Save(ctx, key, optimized.Mimetype, bytes.NewReader(optimized.Data))
		if err != nil {
			return err
		}
		res.FileURL = url
		return nil
	}

	url, err := s.store.Save(ctx, key, mimetype, f)
	if err != nil {
		return err
	}
	res.FileURL = url
	return nil
}

func (s *Service) List(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	items, total, err := s.resources.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	return &Page{
		TotalItems:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		Items:       items,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// Update merges the provided fields. Re-parenting is validated against
// cycles: a resource may not become its own ancestor.
func (s *Service) Update(ctx context.Context, id, callerID int64, req UpdateRequest) (*domain.Resource, error) {
	res, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != callerID {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrMissingName
		}
		res.Name = *req.Name
	}

	if req.ParentID != nil {
		if *req.ParentID == res.ID {
			return nil, ErrCycle
		}
		if err := s.validateParent(ctx, *req.ParentID, res.ID); err != nil {
			return nil, err
		}
		res.ParentID = req.ParentID
	}

	// drop stale preloads so gorm does not try to upsert them
	res.Parent = nil
	res.Owner = nil

	if err := s.resources.Update(ctx, res); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, res.ID)
}

func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	res, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.OwnerID != callerID {
		return ErrForbidden
	}

	if err := s.resources.Delete(ctx, id); err != nil {
		return err
	}

	// best effort: the row is gone either way
	if res.Type == domain.TypeFile && strings.HasPrefix(res.FileURL, storage.URLPrefix+"/") {
		key := path.Base(res.FileURL)
		if err := s.store.Delete(ctx, key); err != nil {
			zap.L().Warn("failed to delete stored file",
				zap.Int64("resource_id", id),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	return nil
}

// validateParent checks the target parent exists, is a folder, and, when
// moving an existing resource (movingID != 0), is not a descendant of it.
func (s *Service) validateParent(ctx context.Context, parentID, movingID int64) error {
	current := parentID
	for depth := 0; depth < maxTreeDepth; depth++ {
		node, err := s.resources.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if current == parentID {
					return ErrParentNotFound
				}
				return nil
			}
			return err
		}

		if current == parentID && node.Type != domain.TypeFolder {
			return ErrParentNotFolder
		}
		if movingID != 0 && node.ID == movingID {
			return ErrCycle
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
	return ErrCycle
}
