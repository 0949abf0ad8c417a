package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"brokerdesk/internal/config"
	"brokerdesk/internal/docpath"
	"brokerdesk/internal/domain"
	"brokerdesk/internal/port"
)

// DocumentUploadInput is the DTO for document uploads. ClientID is ignored
// for temp uploads; TempDir optionally groups several temp uploads together.
type DocumentUploadInput struct {
	ClientID     uuid.UUID
	DocumentType domain.DocumentType
	TempDir      string
	Upload       FileUpload
}

// UploadedDocument describes a stored document.
type UploadedDocument struct {
	DocumentType domain.DocumentType `json:"documentType,omitempty"`
	DocumentURL  string              `json:"documentUrl"`
	FileName     string              `json:"fileName"`
	ViewURL      string              `json:"viewUrl,omitempty"`
	DownloadURL  string              `json:"downloadUrl,omitempty"`
}

// DocumentAccess reports how a client's document can be reached.
type DocumentAccess struct {
	DocumentType domain.DocumentType `json:"documentType"`
	Ref          string              `json:"ref"`
	Available    bool                `json:"available"`
	DirectURL    string              `json:"directUrl,omitempty"`
	ViewURL      string              `json:"viewUrl,omitempty"`
	DownloadURL  string              `json:"downloadUrl,omitempty"`
	PresignedURL string              `json:"presignedUrl,omitempty"`
	Resolution   *docpath.Resolution `json:"resolution"`
}

// FileAccessReport is the diagnostic view of resolving an arbitrary path.
type FileAccessReport struct {
	Success    bool              `json:"success"`
	Path       string            `json:"path"`
	Normalized string            `json:"normalizedPath"`
	Key        string            `json:"key,omitempty"`
	KeyError   string            `json:"keyError,omitempty"`
	Location   *docpath.Location `json:"location,omitempty"`
	Method     docpath.Method    `json:"method,omitempty"`
	URL        string            `json:"url,omitempty"`
	Presigned  string            `json:"presignedUrl,omitempty"`
	Attempts   []docpath.Attempt `json:"attempts"`
	Size       int64             `json:"size,omitempty"`
}

// OpenedDocument is a resolved document ready to stream. Callers must close Object.Body.
type OpenedDocument struct {
	Object     *port.Object
	FileName   string
	Resolution *docpath.Resolution
}

// DocumentService manages client proof-of-document files.
type DocumentService interface {
	UploadTemp(ctx context.Context, input DocumentUploadInput) (*UploadedDocument, error)
	Upload(ctx context.Context, input DocumentUploadInput) (*UploadedDocument, error)
	Delete(ctx context.Context, clientID uuid.UUID, docType domain.DocumentType) error
	List(ctx context.Context, clientID uuid.UUID, token string) (*domain.ClientDocuments, error)
	Open(ctx context.Context, clientID uuid.UUID, filename string) (*OpenedDocument, error)
	OpenPath(ctx context.Context, p string) (*OpenedDocument, error)
	Access(ctx context.Context, clientID uuid.UUID, docType domain.DocumentType, token string) (*DocumentAccess, error)
	TestFileAccess(ctx context.Context, p, clientID string) (*FileAccessReport, error)
	AdoptTempDocuments(ctx context.Context, client *domain.Client) int
	DeleteAll(ctx context.Context, clientID uuid.UUID)
	RepairAll(ctx context.Context, dryRun bool) (*domain.RepairReport, error)
}

type documentService struct {
	clients  port.ClientRepository
	storage  port.ObjectStorage
	resolver *docpath.Resolver
	urls     docpath.URLBuilder
	maxBytes int64
	presign  int64
	now      func() time.Time
}

// defaultPresignExpiry applies when the storage config leaves the expiry unset.
const defaultPresignExpiry = 900

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	clients port.ClientRepository,
	storage port.ObjectStorage,
	resolver *docpath.Resolver,
	urls docpath.URLBuilder,
	cfg *config.StorageConfig,
) DocumentService {
	presign := cfg.PresignExpiry
	if presign <= 0 {
		presign = defaultPresignExpiry
	}
	return &documentService{
		clients:  clients,
		storage:  storage,
		resolver: resolver,
		urls:     urls,
		maxBytes: cfg.MaxFileSizeMB * 1024 * 1024,
		presign:  presign,
		now:      time.Now,
	}
}

func (s *documentService) fileName(prefix, ext string) string {
	return fmt.Sprintf("%s-%d.%s", prefix, s.now().UnixMilli(), ext)
}

func (s *documentService) store(ctx context.Context, dir, prefix string, up FileUpload) (string, string, error) {
	checked, err := checkUpload(up, s.maxBytes)
	if err != nil {
		return "", "", err
	}
	name := s.fileName(prefix, checked.ext)
	key := docpath.CanonicalKey(dir, name)

	log.Printf("documentService.store: uploading %s as %s (%s, %d bytes)",
		up.Header.Filename, key, checked.contentType, up.Header.Size)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        up.File,
		ContentType: checked.contentType,
		Size:        up.Header.Size,
	}); err != nil {
		log.Printf("documentService.store: upload of %s failed: %v", key, err)
		return "", "", domain.ErrUploadFailed
	}
	return key, name, nil
}

func (s *documentService) UploadTemp(ctx context.Context, input DocumentUploadInput) (*UploadedDocument, error) {
	dir := input.TempDir
	if !docpath.ValidTempDir(dir) {
		dir = docpath.NewTempDir()
	}
	prefix := "document"
	if input.DocumentType != "" {
		if !domain.ValidDocumentType(input.DocumentType) {
			return nil, domain.ErrInvalidDocumentType
		}
		prefix = string(input.DocumentType)
	}

	key, name, err := s.store(ctx, dir, prefix, input.Upload)
	if err != nil {
		return nil, err
	}
	return &UploadedDocument{
		DocumentType: input.DocumentType,
		DocumentURL:  docpath.RefForKey(key),
		FileName:     name,
	}, nil
}

func (s *documentService) Upload(ctx context.Context, input DocumentUploadInput) (*UploadedDocument, error) {
	if !domain.ValidDocumentType(input.DocumentType) {
		return nil, domain.ErrInvalidDocumentType
	}
	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	clientID := client.ID.String()

	key, name, err := s.store(ctx, clientID, string(input.DocumentType), input.Upload)
	if err != nil {
		return nil, err
	}
	ref := docpath.RefForKey(key)

	if err := s.clients.UpdateDocumentRef(ctx, client.ID, input.DocumentType, ref); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Printf("documentService.Upload: cleanup of %s failed: %v", key, delErr)
		}
		return nil, err
	}

	if old := client.DocumentRef(input.DocumentType); old != "" && old != ref {
		s.discard(ctx, client.ID, old)
	}

	loc := docpath.Location{ClientID: clientID, Filename: name}
	return &UploadedDocument{
		DocumentType: input.DocumentType,
		DocumentURL:  ref,
		FileName:     name,
		ViewURL:      s.urls.API(loc),
		DownloadURL:  s.urls.Download(loc),
	}, nil
}

// discard deletes a replaced document when it lives in the client's own
// directory or a temp directory. Failures are logged only.
func (s *documentService) discard(ctx context.Context, clientID uuid.UUID, ref string) {
	s.resolver.Forget(ctx, ref, clientID.String())
	key, err := docpath.Key(ref)
	if err != nil {
		return
	}
	loc, err := docpath.Parse(ref, "")
	if err != nil || (loc.ClientID != clientID.String() && !loc.IsTemp()) {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Printf("documentService.discard: deleting %s failed: %v", key, err)
	}
}

func (s *documentService) Delete(ctx context.Context, clientID uuid.UUID, docType domain.DocumentType) error {
	if !domain.ValidDocumentType(docType) {
		return domain.ErrInvalidDocumentType
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	ref := client.DocumentRef(docType)
	if ref == "" {
		return domain.ErrDocumentNotFound
	}

	if err := s.clients.UpdateDocumentRef(ctx, clientID, docType, ""); err != nil {
		return err
	}
	// The proof slot falls back to the legacy column, which the update above clears too.
	s.discard(ctx, clientID, ref)
	return nil
}

func (s *documentService) List(ctx context.Context, clientID uuid.UUID, token string) (*domain.ClientDocuments, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	result := &domain.ClientDocuments{ClientID: client.ID}
	byCategory := map[string]*domain.DocumentCategory{}
	for _, name := range domain.DocumentCategories {
		result.Categories = append(result.Categories, domain.DocumentCategory{Name: name, Documents: []domain.DocumentItem{}})
	}
	for i := range result.Categories {
		byCategory[result.Categories[i].Name] = &result.Categories[i]
	}

	for _, spec := range domain.DocumentSpecs {
		item := domain.DocumentItem{Label: spec.Label, FieldName: spec.Type, Category: spec.Category}
		if ref := strings.TrimSpace(client.DocumentRef(spec.Type)); ref != "" {
			direct := s.urls.Direct(ref)
			name := docpath.FileName(ref)
			item.URL = &direct
			item.FileName = &name
			item.ViewURL, item.DownloadURL = s.linksFor(client.ID, ref, token)
			result.Total++
		}
		byCategory[spec.Category].Documents = append(byCategory[spec.Category].Documents, item)
	}
	return result, nil
}

// linksFor returns the view and download URLs of a stored reference. Local
// documents are always served through the client's document endpoint, which
// resolves misplaced files.
func (s *documentService) linksFor(clientID uuid.UUID, ref, token string) (string, string) {
	if docpath.IsExternal(ref) {
		u := docpath.Normalize(ref)
		return u, u
	}
	loc := docpath.Location{ClientID: clientID.String(), Filename: docpath.FileName(ref)}
	return docpath.WithToken(s.urls.API(loc), token), docpath.WithToken(s.urls.Download(loc), token)
}

func validFileName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func (s *documentService) Open(ctx context.Context, clientID uuid.UUID, filename string) (*OpenedDocument, error) {
	if !validFileName(filename) {
		return nil, domain.ErrInvalidDocumentPath
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	// Prefer the record's own reference so files still sitting in a temp
	// directory or elsewhere resolve on the first probes.
	ref := docpath.CanonicalRef(client.ID.String(), filename)
	for _, d := range client.StoredDocuments() {
		if docpath.FileName(d.Ref) == filename && !docpath.IsExternal(d.Ref) {
			ref = d.Ref
			break
		}
	}
	return s.open(ctx, ref, client.ID.String())
}

// OpenPath serves an unauthenticated /uploads path. Only the exact key is
// probed; the fallback strategies would expose any client's file by name.
func (s *documentService) OpenPath(ctx context.Context, p string) (*OpenedDocument, error) {
	ref := docpath.UploadsPrefix + "/" + strings.TrimPrefix(p, "/")
	if _, err := docpath.Key(ref); err != nil {
		return nil, domain.ErrInvalidDocumentPath
	}
	res, err := s.resolver.ResolveDirect(ctx, ref)
	return s.serve(ctx, ref, "", res, err)
}

func (s *documentService) open(ctx context.Context, ref, clientID string) (*OpenedDocument, error) {
	res, err := s.resolver.Resolve(ctx, ref, clientID)
	return s.serve(ctx, ref, clientID, res, err)
}

func (s *documentService) serve(ctx context.Context, ref, clientID string, res *docpath.Resolution, err error) (*OpenedDocument, error) {
	if err != nil {
		if errors.Is(err, domain.ErrDocumentUnavailable) || errors.Is(err, docpath.ErrEmptyRef) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentService.open: %w", err)
	}
	if res.Method == docpath.MethodExternal {
		return nil, domain.ErrDocumentUnavailable
	}

	obj, err := s.storage.Open(ctx, res.Key)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			s.resolver.Forget(ctx, ref, clientID)
		}
		return nil, err
	}
	if res.Method != docpath.MethodDirect {
		log.Printf("documentService.open: %q served from %s via %s", ref, res.Key, res.Method)
	}
	return &OpenedDocument{Object: obj, FileName: res.Filename(), Resolution: res}, nil
}

func (s *documentService) Access(ctx context.Context, clientID uuid.UUID, docType domain.DocumentType, token string) (*DocumentAccess, error) {
	if !domain.ValidDocumentType(docType) {
		return nil, domain.ErrInvalidDocumentType
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	ref := client.DocumentRef(docType)
	if ref == "" {
		return nil, domain.ErrDocumentNotFound
	}

	res, err := s.resolver.Resolve(ctx, ref, client.ID.String())
	if errors.Is(err, docpath.ErrEmptyRef) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil && !errors.Is(err, domain.ErrDocumentUnavailable) {
		return nil, fmt.Errorf("documentService.Access: %w", err)
	}

	access := &DocumentAccess{
		DocumentType: docType,
		Ref:          ref,
		Available:    res.Found(),
		DirectURL:    s.urls.Direct(ref),
		Resolution:   res,
	}
	if access.Available {
		access.ViewURL, access.DownloadURL = s.linksFor(client.ID, ref, token)
		access.PresignedURL = s.presignedURL(ctx, res)
	}
	return access, nil
}

func (s *documentService) TestFileAccess(ctx context.Context, p, clientID string) (*FileAccessReport, error) {
	if strings.TrimSpace(p) == "" {
		return nil, domain.ErrInvalidDocumentPath
	}
	report := &FileAccessReport{Path: p, Normalized: docpath.Normalize(p), Attempts: []docpath.Attempt{}}
	if key, err := docpath.Key(p); err != nil {
		report.KeyError = err.Error()
	} else {
		report.Key = key
	}

	res, err := s.resolver.Resolve(ctx, p, clientID)
	if err != nil && !errors.Is(err, domain.ErrDocumentUnavailable) && !errors.Is(err, docpath.ErrEmptyRef) {
		return nil, fmt.Errorf("documentService.TestFileAccess: %w", err)
	}
	report.Location = res.Location
	report.Method = res.Method
	report.Attempts = res.Attempts
	report.Success = res.Found()

	switch {
	case res.Method == docpath.MethodExternal:
		report.URL = res.URL
	case report.Success:
		report.URL = s.urls.Direct(docpath.RefForKey(res.Key))
		report.Presigned = s.presignedURL(ctx, res)
		if obj, err := s.storage.Open(ctx, res.Key); err == nil {
			report.Size = obj.Size
			_ = obj.Body.Close()
		}
	}
	return report, nil
}

// presignedURL returns a time-limited link to a located document. Backends
// that answer with a site-relative path get the public base prepended.
// Failures are logged and yield no link.
func (s *documentService) presignedURL(ctx context.Context, res *docpath.Resolution) string {
	if res.Key == "" || res.Method == docpath.MethodExternal {
		return ""
	}
	u, err := s.storage.GetPresignedURL(ctx, res.Key, s.presign)
	if err != nil {
		log.Printf("documentService.presignedURL: %s: %v", res.Key, err)
		return ""
	}
	if strings.HasPrefix(u, "/") {
		return s.urls.Direct(u)
	}
	return u
}

// AdoptTempDocuments moves documents uploaded before the client existed into
// the client's own directory and rewrites the references on client. It
// returns how many references changed; the caller persists them.
func (s *documentService) AdoptTempDocuments(ctx context.Context, client *domain.Client) int {
	moved := 0
	clientID := client.ID.String()
	for _, d := range client.StoredDocuments() {
		loc, err := docpath.Parse(d.Ref, "")
		if err != nil || !loc.IsTemp() {
			continue
		}
		src, err := docpath.Key(d.Ref)
		if err != nil {
			continue
		}
		dst := docpath.CanonicalKey(clientID, loc.Filename)
		if err := s.move(ctx, src, dst); err != nil {
			log.Printf("documentService.AdoptTempDocuments: client %s %s: %v", clientID, d.Type, err)
			continue
		}
		client.SetDocumentRef(d.Type, docpath.RefForKey(dst))
		moved++
	}
	return moved
}

func (s *documentService) move(ctx context.Context, src, dst string) error {
	if err := s.storage.Copy(ctx, src, dst); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := s.storage.Delete(ctx, src); err != nil {
		log.Printf("documentService.move: removing %s failed: %v", src, err)
	}
	return nil
}

func (s *documentService) DeleteAll(ctx context.Context, clientID uuid.UUID) {
	prefix := docpath.ClientPrefix(clientID.String())
	keys, err := s.storage.List(ctx, prefix)
	if err != nil {
		log.Printf("documentService.DeleteAll: listing %s failed: %v", prefix, err)
		return
	}
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Printf("documentService.DeleteAll: deleting %s failed: %v", key, err)
		}
	}
}

// isTempKey reports whether key lies in a temp upload directory.
func isTempKey(key string) bool {
	dir := path.Base(path.Dir(key))
	return docpath.IsTempDir(dir)
}
