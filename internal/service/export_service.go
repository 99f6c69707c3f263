package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
	"note-keeper/internal/storage"
)

// ErrExportsDisabled is returned when no export bucket is configured.
var ErrExportsDisabled = errors.New("export storage not configured")

// ExportService writes a user's notes to object storage as JSON.
type ExportService interface {
	Export(ctx context.Context, owner *domain.User) (string, error)
	List(ctx context.Context, ownerID string) ([]Export, error)
}

// Export describes one stored export object.
type Export struct {
	Key       string
	Size      int64
	CreatedAt *time.Time
	URL       string
}

type ExportConfig struct {
	Bucket    string
	KeyPrefix string
	URLExpiry time.Duration
	Now       func() time.Time
}

type exportService struct {
	cfg   ExportConfig
	notes repository.NoteRepository
	store storage.Service
}

func NewExportService(cfg ExportConfig, notes repository.NoteRepository, store storage.Service) ExportService {
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &exportService{
		cfg:   cfg,
		notes: notes,
		store: store,
	}
}

type exportDocument struct {
	User       exportUser   `json:"user"`
	ExportedAt time.Time    `json:"exported_at"`
	Notes      []exportNote `json:"notes"`
}

type exportUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type exportNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *exportService) Export(ctx context.Context, owner *domain.User) (string, error) {
	if s.store == nil || s.cfg.Bucket == "" {
		return "", ErrExportsDisabled
	}

	notes, err := s.notes.ListByOwner(ctx, owner.ID)
	if err != nil {
		return "", domain.Persistence("list notes", err)
	}

	now := s.cfg.Now().UTC()
	doc := exportDocument{
		User:       exportUser{ID: owner.ID, Username: owner.Username, Email: owner.Email},
		ExportedAt: now,
		Notes:      make([]exportNote, len(notes)),
	}
	for i, n := range notes {
		doc.Notes[i] = exportNote{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: n.CreatedAt.UTC(),
			UpdatedAt: n.UpdatedAt.UTC(),
		}
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}

	key := path.Join(s.ownerPrefix(owner.ID), fmt.Sprintf("notes-%s.json", now.Format("20060102T150405Z")))
	location, err := s.store.PutObject(ctx, bytes.NewReader(body), storage.PutOptions{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("store export: %w", err)
	}
	return location, nil
}

// List returns the owner's exports, newest first, each with a presigned download URL.
func (s *exportService) List(ctx context.Context, ownerID string) ([]Export, error) {
	if s.store == nil || s.cfg.Bucket == "" {
		return nil, ErrExportsDisabled
	}

	objects, err := s.store.ListObjects(ctx, s.cfg.Bucket, s.ownerPrefix(ownerID)+"/")
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}

	exports := make([]Export, 0, len(objects))
	for _, obj := range objects {
		url, err := s.store.GetObjectURL(ctx, s.cfg.Bucket, obj.Key, s.cfg.URLExpiry)
		if err != nil {
			return nil, err
		}
		exports = append(exports, Export{
			Key:       obj.Key,
			Size:      obj.Size,
			CreatedAt: obj.LastModified,
			URL:       url,
		})
	}
	// keys embed a sortable timestamp
	sort.Slice(exports, func(i, j int) bool { return exports[i].Key > exports[j].Key })
	return exports, nil
}

func (s *exportService) ownerPrefix(ownerID string) string {
	if s.cfg.KeyPrefix == "" {
		return ownerID
	}
	return s.cfg.KeyPrefix + "/" + ownerID
}
