package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/integration/pitch"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/storage"
)

type LeadIngestionUseCase struct {
	Repo              entity.LeadRepository
	Planner           *DedupPlanner
	Dispatcher        *PitchDispatcher
	Files             FileStore
	Metrics           IngestionMetrics
	StrictTransitions bool
}

func NewLeadIngestionUseCase(
	repo entity.LeadRepository,
	dispatcher *PitchDispatcher,
	files FileStore,
	metrics IngestionMetrics,
	strictTransitions bool,
) *LeadIngestionUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &LeadIngestionUseCase{
		Repo:              repo,
		Planner:           NewDedupPlanner(repo),
		Dispatcher:        dispatcher,
		Files:             files,
		Metrics:           metrics,
		StrictTransitions: strictTransitions,
	}
}

func (uc *LeadIngestionUseCase) List(ctx context.Context, ownerID string) ([]*entity.Lead, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	leads, err := uc.Repo.FindByOwner(ctx, ownerID, entity.LeadFilter{})
	if err != nil {
		return nil, NewTechnicalError("list leads", err)
	}
	return leads, nil
}

// Upload records one file lead per stored file, keeping the original file
// name as the website. Uploads are not deduplicated.
func (uc *LeadIngestionUseCase) Upload(ctx context.Context, ownerID string, files []storage.StoredFile) ([]*entity.Lead, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, NewValidationError("No files uploaded")
	}

	leads := make([]*entity.Lead, 0, len(files))
	for _, f := range files {
		l := entity.NewFileLead(ownerID, f.OriginalName)
		l.OriginalName = f.OriginalName
		l.FileName = f.FileName
		l.MimeType = f.MimeType
		l.Size = f.Size
		l.FilePath = f.Path
		l.FileURL = f.URL
		if err := l.Validate(); err != nil {
			return nil, NewTechnicalError("build file lead", err)
		}
		leads = append(leads, l)
	}

	inserted, err := uc.Repo.InsertMany(ctx, leads, entity.InsertOptions{})
	if err != nil {
		return nil, NewTechnicalError("insert file leads", err)
	}
	uc.Metrics.ObserveIngested(entity.SourceFile, len(inserted), 0)

	return inserted, nil
}

// ImportURL records a single url lead for link without a dedup pass; a
// clash with an existing website for the owner is reported as a conflict.
func (uc *LeadIngestionUseCase) ImportURL(ctx context.Context, ownerID, link string) (*entity.Lead, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, NewValidationError("Import link is required")
	}
	if !isValidImportURL(link) {
		return nil, NewValidationError("Please provide a valid URL")
	}

	l := entity.NewURLLead(ownerID, NormalizeWebsite(link), entity.StatusProcessing)
	l.ImportURL = link
	l.OriginalName = link

	if err := uc.Repo.Insert(ctx, l); err != nil {
		if errors.Is(err, entity.ErrDuplicateWebsite) {
			return nil, NewConflictError("Lead already exists for this website")
		}
		return nil, NewTechnicalError("insert imported lead", err)
	}
	uc.Metrics.ObserveIngested(entity.SourceURL, 1, 0)

	return l, nil
}

// AddWebsites imports a batch of websites without pitching them and returns
// the owner's url leads.
func (uc *LeadIngestionUseCase) AddWebsites(ctx context.Context, ownerID string, websites []string) (*LeadBatchOutput, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	_, skipped, err := uc.importWebsites(ctx, ownerID, websites, pitch.LeadInfo{})
	if err != nil {
		return nil, err
	}

	leads, err := uc.Repo.FindByOwner(ctx, ownerID, entity.LeadFilter{SourceType: entity.SourceURL})
	if err != nil {
		return nil, NewTechnicalError("list url leads", err)
	}
	return &LeadBatchOutput{Leads: leads, Skipped: skipped}, nil
}

// BulkImport imports a batch of websites with shared contact details, pitches
// each newly inserted one and returns all of the owner's leads.
func (uc *LeadIngestionUseCase) BulkImport(ctx context.Context, ownerID string, in BulkImportInput) (*LeadBatchOutput, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	contact := pitch.LeadInfo{
		Name:          strings.TrimSpace(in.Name),
		Email:         NormalizeEmail(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		Service:       strings.TrimSpace(in.Service),
		Message:       strings.TrimSpace(in.Message),
		SourceWebsite: strings.TrimSpace(in.SourceWebsite),
	}

	inserted, skipped, err := uc.importWebsites(ctx, ownerID, in.Websites, contact)
	if err != nil {
		return nil, err
	}

	if uc.Dispatcher != nil {
		uc.Dispatcher.DispatchAll(ctx, contact, inserted)
	}

	// The dispatch loop outlives a cancelled request; so does the final read.
	leads, err := uc.Repo.FindByOwner(context.WithoutCancel(ctx), ownerID, entity.LeadFilter{})
	if err != nil {
		return nil, NewTechnicalError("list leads", err)
	}
	return &LeadBatchOutput{Leads: leads, Skipped: skipped}, nil
}

func (uc *LeadIngestionUseCase) importWebsites(ctx context.Context, ownerID string, websites []string, contact pitch.LeadInfo) ([]*entity.Lead, int, error) {
	if len(websites) == 0 {
		return nil, 0, NewValidationError("No websites provided")
	}
	keys := NormalizeWebsites(websites)
	if len(keys) == 0 {
		return nil, 0, NewValidationError("No valid websites provided")
	}

	plan, err := uc.Planner.Plan(ctx, ownerID, keys)
	if err != nil {
		return nil, 0, NewTechnicalError("plan website import", err)
	}

	leads := make([]*entity.Lead, 0, len(plan.ToInsert))
	for _, w := range plan.ToInsert {
		l := entity.NewURLLead(ownerID, w, entity.StatusPending)
		l.ContactName = contact.Name
		l.ContactEmail = contact.Email
		l.ContactPhone = contact.Phone
		l.Service = contact.Service
		l.Message = contact.Message
		l.SourceWebsite = contact.SourceWebsite
		leads = append(leads, l)
	}

	inserted, err := uc.Repo.InsertMany(ctx, leads, entity.InsertOptions{TolerateConflicts: true})
	if err != nil {
		return nil, 0, NewTechnicalError("insert website leads", err)
	}

	skipped := len(keys) - len(inserted)
	uc.Metrics.ObserveIngested(entity.SourceURL, len(inserted), skipped)
	zap.L().Info("websites imported",
		zap.String("owner_id", ownerID),
		zap.Int("requested", len(keys)),
		zap.Int("inserted", len(inserted)),
		zap.Int("skipped", skipped),
	)

	return inserted, skipped, nil
}

func (uc *LeadIngestionUseCase) UpdateStatus(ctx context.Context, ownerID, id string, in StatusPatch) (*entity.Lead, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	var patch entity.LeadPatch
	if in.Status != nil {
		s := entity.LeadStatus(*in.Status)
		if !s.Valid() {
			return nil, NewValidationError("Invalid status value")
		}
		patch.Status = &s
	}
	if in.PitchResult != nil {
		r := entity.PitchResult(*in.PitchResult)
		if !r.Valid() {
			return nil, NewValidationError("Invalid pitchResult value")
		}
		patch.PitchResult = &r
	}
	if in.PitchMessage != nil {
		msg := *in.PitchMessage
		patch.PitchMessage = &msg
	}
	if patch.Empty() {
		return nil, NewValidationError("No status fields provided")
	}

	if uc.StrictTransitions && patch.Status != nil {
		current, err := uc.Repo.FindByID(ctx, ownerID, id)
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, NewNotFoundError("Lead not found")
		}
		if err != nil {
			return nil, NewTechnicalError("load lead", err)
		}
		if !canTransition(current.Status, *patch.Status) {
			return nil, NewValidationError("Cannot move lead from " + string(current.Status) + " to " + string(*patch.Status))
		}
	}

	l, err := uc.Repo.Update(ctx, ownerID, entity.LeadSelector{ID: id}, patch)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, NewNotFoundError("Lead not found")
	}
	if err != nil {
		return nil, NewTechnicalError("update lead status", err)
	}
	return l, nil
}

// Delete removes an owned lead. For file leads the stored file is removed
// first on a best-effort basis; the record goes either way.
func (uc *LeadIngestionUseCase) Delete(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	l, err := uc.Repo.FindByID(ctx, ownerID, id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return NewNotFoundError("Lead not found")
	}
	if err != nil {
		return NewTechnicalError("load lead", err)
	}

	if l.SourceType == entity.SourceFile && l.FilePath != "" && uc.Files != nil {
		if err := uc.Files.Remove(ctx, l.FilePath); err != nil {
			if errors.Is(err, storage.ErrFileNotFound) {
				zap.L().Debug("stored file already gone", zap.String("lead_id", l.ID), zap.String("path", l.FilePath))
			} else {
				zap.L().Warn("unable to remove stored file", zap.String("lead_id", l.ID), zap.String("path", l.FilePath), zap.Error(err))
			}
		}
	}

	err = uc.Repo.Delete(ctx, ownerID, id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return NewNotFoundError("Lead not found")
	}
	if err != nil {
		return NewTechnicalError("delete lead", err)
	}
	return nil
}
