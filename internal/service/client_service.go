package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/port"
)

// ClientDocumentsResult is the outcome of saving a client together with uploads.
type ClientDocumentsResult struct {
	Client    *domain.Client                 `json:"client"`
	Documents []UploadedDocument             `json:"documents"`
	Failed    map[domain.DocumentType]string `json:"failed,omitempty"`
}

// ClientService manages client records.
type ClientService interface {
	Create(ctx context.Context, client *domain.Client, actorID uuid.UUID) (*domain.Client, error)
	CreateWithDocuments(ctx context.Context, client *domain.Client, files map[domain.DocumentType]FileUpload, actorID uuid.UUID) (*ClientDocumentsResult, error)
	GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, filter domain.ClientFilter, offset, limit int) ([]domain.Client, int, error)
	Search(ctx context.Context, criteria *domain.Client) ([]domain.Client, error)
	All(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, clientID uuid.UUID, client *domain.Client) (*domain.Client, error)
	UpdateWithDocuments(ctx context.Context, clientID uuid.UUID, client *domain.Client, files map[domain.DocumentType]FileUpload) (*ClientDocumentsResult, error)
	Delete(ctx context.Context, clientID uuid.UUID) error
}

type clientService struct {
	repo      port.ClientRepository
	documents DocumentService
}

// NewClientService creates a new ClientService implementation.
func NewClientService(repo port.ClientRepository, documents DocumentService) ClientService {
	return &clientService{repo: repo, documents: documents}
}

func prepare(client *domain.Client) error {
	client.TrimFields()
	client.ApplyDerivedTotals()
	return client.Validate()
}

func checkFiles(files map[domain.DocumentType]FileUpload) error {
	for t := range files {
		if !domain.ValidDocumentType(t) {
			return domain.ErrInvalidDocumentType
		}
	}
	return nil
}

func (s *clientService) Create(ctx context.Context, client *domain.Client, actorID uuid.UUID) (*domain.Client, error) {
	if err := prepare(client); err != nil {
		return nil, err
	}
	// Any id supplied by the caller is ignored.
	client.ID = uuid.New()
	if actorID != uuid.Nil {
		client.CreatedBy = &actorID
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	log.Printf("clientService.Create: created client %s (%s)", client.ID, client.ClientName)

	s.adopt(ctx, client)
	return client, nil
}

// adopt moves temp uploads referenced by client into its directory and
// persists the rewritten references. Failures leave the temp references,
// which still resolve.
func (s *clientService) adopt(ctx context.Context, client *domain.Client) {
	if s.documents.AdoptTempDocuments(ctx, client) == 0 {
		return
	}
	if err := s.repo.Update(ctx, client); err != nil {
		log.Printf("clientService.adopt: saving adopted documents for %s failed: %v", client.ID, err)
	}
}

func (s *clientService) CreateWithDocuments(
	ctx context.Context,
	client *domain.Client,
	files map[domain.DocumentType]FileUpload,
	actorID uuid.UUID,
) (*ClientDocumentsResult, error) {
	if err := checkFiles(files); err != nil {
		return nil, err
	}
	created, err := s.Create(ctx, client, actorID)
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, created.ID, files)
}

// attach uploads files to an existing client. Individual upload failures are
// reported in the result rather than failing the whole request.
func (s *clientService) attach(ctx context.Context, clientID uuid.UUID, files map[domain.DocumentType]FileUpload) (*ClientDocumentsResult, error) {
	result := &ClientDocumentsResult{Documents: []UploadedDocument{}}

	types := make([]string, 0, len(files))
	for t := range files {
		types = append(types, string(t))
	}
	sort.Strings(types)

	for _, t := range types {
		docType := domain.DocumentType(t)
		doc, err := s.documents.Upload(ctx, DocumentUploadInput{
			ClientID:     clientID,
			DocumentType: docType,
			Upload:       files[docType],
		})
		if err != nil {
			log.Printf("clientService.attach: %s for client %s failed: %v", docType, clientID, err)
			if result.Failed == nil {
				result.Failed = map[domain.DocumentType]string{}
			}
			result.Failed[docType] = err.Error()
			continue
		}
		result.Documents = append(result.Documents, *doc)
	}

	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	result.Client = client
	return result, nil
}

func (s *clientService) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	return s.repo.GetByID(ctx, clientID)
}

func (s *clientService) List(ctx context.Context, filter domain.ClientFilter, offset, limit int) ([]domain.Client, int, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *clientService) Search(ctx context.Context, criteria *domain.Client) ([]domain.Client, error) {
	if criteria == nil {
		criteria = &domain.Client{}
	}
	return s.repo.Search(ctx, criteria)
}

func (s *clientService) All(ctx context.Context) ([]domain.Client, error) {
	var all []domain.Client
	for offset := 0; ; {
		page, total, err := s.repo.List(ctx, domain.ClientFilter{}, offset, repairPageSize)
		if err != nil {
			return nil, fmt.Errorf("clientService.All: %w", err)
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			return all, nil
		}
	}
}

func (s *clientService) Update(ctx context.Context, clientID uuid.UUID, client *domain.Client) (*domain.Client, error) {
	existing, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	// Identity and audit fields come from the stored record, never the payload.
	client.ID = existing.ID
	client.CreatedBy = existing.CreatedBy
	client.CreatedAt = existing.CreatedAt

	// Document slots left empty keep their stored reference; removal goes
	// through the document endpoints.
	client.TrimFields()
	for _, d := range existing.StoredDocuments() {
		if d.Type == domain.DocBusinessRegistration {
			if client.BusinessRegistration == "" && client.BusinessRegistrationProof == "" {
				client.BusinessRegistration = d.Ref
			}
			continue
		}
		if client.DocumentRef(d.Type) == "" {
			client.SetDocumentRef(d.Type, d.Ref)
		}
	}

	if err := prepare(client); err != nil {
		return nil, err
	}
	s.documents.AdoptTempDocuments(ctx, client)

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) UpdateWithDocuments(
	ctx context.Context,
	clientID uuid.UUID,
	client *domain.Client,
	files map[domain.DocumentType]FileUpload,
) (*ClientDocumentsResult, error) {
	if err := checkFiles(files); err != nil {
		return nil, err
	}
	if _, err := s.Update(ctx, clientID, client); err != nil {
		return nil, err
	}
	return s.attach(ctx, clientID, files)
}

func (s *clientService) Delete(ctx context.Context, clientID uuid.UUID) error {
	if err := s.repo.Delete(ctx, clientID); err != nil {
		return err
	}
	s.documents.DeleteAll(ctx, clientID)
	return nil
}
