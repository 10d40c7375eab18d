package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type SourceType string

const (
	SourceFile SourceType = "file"
	SourceURL  SourceType = "url"
)

type LeadStatus string

const (
	StatusUploaded   LeadStatus = "uploaded"
	StatusReady      LeadStatus = "ready"
	StatusProcessing LeadStatus = "processing"
	StatusPending    LeadStatus = "Pending"
	StatusSuccess    LeadStatus = "Success"
	StatusRejected   LeadStatus = "Rejected"
	StatusInProcess  LeadStatus = "In-Process"
	StatusFailed     LeadStatus = "Failed"
)

var leadStatuses = map[LeadStatus]bool{
	StatusUploaded:   true,
	StatusReady:      true,
	StatusProcessing: true,
	StatusPending:    true,
	StatusSuccess:    true,
	StatusRejected:   true,
	StatusInProcess:  true,
	StatusFailed:     true,
}

func (s LeadStatus) Valid() bool {
	return leadStatuses[s]
}

type PitchResult string

const (
	PitchPending PitchResult = "Pending"
	PitchSuccess PitchResult = "Success"
	PitchFailed  PitchResult = "Failed"
)

func (p PitchResult) Valid() bool {
	switch p {
	case PitchPending, PitchSuccess, PitchFailed:
		return true
	}
	return false
}

// Lead is a prospective contact owned by exactly one account. File fields
// are only set for SourceFile leads, URL/contact fields only for SourceURL.
type Lead struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner"`
	Website    string     `json:"website,omitempty"`
	SourceType SourceType `json:"sourceType"`

	OriginalName string `json:"originalName,omitempty"`
	FileName     string `json:"fileName,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	Size         int64  `json:"size,omitempty"`
	FilePath     string `json:"filePath,omitempty"`
	FileURL      string `json:"fileUrl,omitempty"`

	ImportURL     string `json:"importUrl,omitempty"`
	ContactName   string `json:"contactName,omitempty"`
	ContactEmail  string `json:"contactEmail,omitempty"`
	ContactPhone  string `json:"contactPhone,omitempty"`
	Service       string `json:"service,omitempty"`
	Message       string `json:"message,omitempty"`
	SourceWebsite string `json:"sourceWebsite,omitempty"`

	Status       LeadStatus  `json:"status"`
	PitchResult  PitchResult `json:"pitchResult"`
	PitchMessage string      `json:"pitchMessage,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewURLLead builds a url-sourced lead for an already normalized website.
func NewURLLead(ownerID, website string, status LeadStatus) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Website:     website,
		SourceType:  SourceURL,
		Status:      status,
		PitchResult: PitchPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewFileLead builds a file-sourced lead in the ready state.
func NewFileLead(ownerID, website string) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Website:     website,
		SourceType:  SourceFile,
		Status:      StatusReady,
		PitchResult: PitchPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (l *Lead) Validate() error {
	if l.OwnerID == "" {
		return errors.New("owner is required")
	}
	switch l.SourceType {
	case SourceURL:
		if l.Website == "" {
			return errors.New("website is required for url leads")
		}
		if l.FileName != "" || l.FilePath != "" || l.FileURL != "" || l.MimeType != "" || l.Size != 0 {
			return errors.New("url leads cannot carry file fields")
		}
	case SourceFile:
		if l.FileName == "" || l.FilePath == "" {
			return errors.New("file leads require stored file fields")
		}
	default:
		return errors.New("source type must be file or url")
	}
	if !l.Status.Valid() {
		return errors.New("invalid status")
	}
	if !l.PitchResult.Valid() {
		return errors.New("invalid pitch result")
	}
	return nil
}

// LeadPatch carries a partial update; nil fields are left untouched.
type LeadPatch struct {
	Status       *LeadStatus
	PitchResult  *PitchResult
	PitchMessage *string
}

func (p LeadPatch) Empty() bool {
	return p.Status == nil && p.PitchResult == nil && p.PitchMessage == nil
}

// LeadSelector picks one lead of an owner either by id or by website.
type LeadSelector struct {
	ID      string
	Website string
}

type LeadFilter struct {
	SourceType SourceType
}

type InsertOptions struct {
	// TolerateConflicts drops documents that violate the (owner, website)
	// uniqueness constraint instead of failing the batch.
	TolerateConflicts bool
}

type LeadRepository interface {
	FindByOwner(ctx context.Context, ownerID string, filter LeadFilter) ([]*Lead, error)
	FindByID(ctx context.Context, ownerID, id string) (*Lead, error)
	FindWebsitesByOwner(ctx context.Context, ownerID string, websites []string) ([]string, error)
	Insert(ctx context.Context, lead *Lead) error
	InsertMany(ctx context.Context, leads []*Lead, opts InsertOptions) ([]*Lead, error)
	Update(ctx context.Context, ownerID string, sel LeadSelector, patch LeadPatch) (*Lead, error)
	Delete(ctx context.Context, ownerID, id string) error
}
