package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"

	"brokerdesk/internal/docpath"
	"brokerdesk/internal/domain"
)

const repairPageSize = 100

// RepairAll walks every client's document references, relocates files found
// outside the client's directory into it and rewrites references to the
// canonical form. With dryRun set nothing is copied or written.
func (s *documentService) RepairAll(ctx context.Context, dryRun bool) (*domain.RepairReport, error) {
	report := &domain.RepairReport{DryRun: dryRun, Missing: []domain.MissingDocument{}}

	for offset := 0; ; {
		clients, total, err := s.clients.List(ctx, domain.ClientFilter{}, offset, repairPageSize)
		if err != nil {
			return report, fmt.Errorf("documentService.RepairAll: %w", err)
		}
		for i := range clients {
			if err := s.repairClient(ctx, &clients[i], dryRun, report); err != nil {
				return report, err
			}
		}
		offset += len(clients)
		if len(clients) == 0 || offset >= total {
			break
		}
	}

	report.Success = true
	log.Printf("documentService.RepairAll: dry_run=%t clients=%d documents=%d fixed=%d dirs=%d missing=%d",
		dryRun, report.ClientsProcessed, report.DocumentsChecked, report.FixedPaths,
		report.CreatedDirectories, len(report.Missing))
	return report, nil
}

func (s *documentService) repairClient(ctx context.Context, client *domain.Client, dryRun bool, report *domain.RepairReport) error {
	report.ClientsProcessed++
	clientID := client.ID.String()

	dirChecked, dirExists := false, false
	ensureDir := func() {
		if !dirChecked {
			dirChecked = true
			keys, err := s.storage.List(ctx, docpath.ClientPrefix(clientID))
			dirExists = err == nil && len(keys) > 0
		}
		if !dirExists {
			dirExists = true
			report.CreatedDirectories++
		}
	}

	for _, d := range client.StoredDocuments() {
		report.DocumentsChecked++
		if docpath.IsExternal(d.Ref) {
			continue
		}

		res, err := s.resolver.Resolve(ctx, d.Ref, clientID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if !errors.Is(err, domain.ErrDocumentUnavailable) {
				log.Printf("documentService.RepairAll: client %s %s: %v", clientID, d.Type, err)
			}
			report.Missing = append(report.Missing, domain.MissingDocument{
				ClientID: client.ID, DocumentType: d.Type, Ref: d.Ref,
			})
			continue
		}

		name := path.Base(res.Key)
		dst := docpath.CanonicalKey(clientID, name)
		if res.Key != dst {
			ensureDir()
			if !dryRun {
				var err error
				if isTempKey(res.Key) {
					err = s.move(ctx, res.Key, dst)
				} else {
					err = s.storage.Copy(ctx, res.Key, dst)
				}
				if err != nil {
					log.Printf("documentService.RepairAll: relocating %s for client %s failed: %v", res.Key, clientID, err)
					continue
				}
			}
		}

		// Legacy business registration references migrate to the proof column
		// unless the client already has one.
		target := d.Type
		if d.Type == domain.DocBusinessRegistration && client.BusinessRegistrationProof == "" {
			target = domain.DocBusinessRegistrationProof
		}
		want := docpath.RefForKey(dst)
		if d.Ref == want && target == d.Type {
			continue
		}
		if dryRun {
			report.FixedPaths++
			continue
		}
		if err := s.clients.UpdateDocumentRef(ctx, client.ID, target, want); err != nil {
			log.Printf("documentService.RepairAll: updating %s for client %s failed: %v", target, clientID, err)
			continue
		}
		report.FixedPaths++
		client.SetDocumentRef(target, want)
		s.resolver.Forget(ctx, d.Ref, clientID)
	}
	return nil
}
