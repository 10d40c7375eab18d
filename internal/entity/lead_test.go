package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadValidate(t *testing.T) {
	file := func() *Lead {
		l := NewFileLead("owner-1", "list.csv")
		l.FileName = "1-list.csv"
		l.FilePath = "uploads/1-list.csv"
		return l
	}

	tests := []struct {
		name    string
		lead    func() *Lead
		wantErr bool
	}{
		{"url lead", func() *Lead { return NewURLLead("owner-1", "example.com", StatusPending) }, false},
		{"file lead", file, false},
		{"missing owner", func() *Lead { return NewURLLead("", "example.com", StatusPending) }, true},
		{"url lead without website", func() *Lead { return NewURLLead("owner-1", "", StatusPending) }, true},
		{"url lead with file fields", func() *Lead {
			l := NewURLLead("owner-1", "example.com", StatusPending)
			l.FilePath = "uploads/x.csv"
			return l
		}, true},
		{"file lead without stored file", func() *Lead { return NewFileLead("owner-1", "list.csv") }, true},
		{"unknown status", func() *Lead {
			l := file()
			l.Status = "Done"
			return l
		}, true},
		{"unknown pitch result", func() *Lead {
			l := file()
			l.PitchResult = "Maybe"
			return l
		}, true},
		{"unknown source", func() *Lead {
			l := file()
			l.SourceType = "api"
			return l
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lead().Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLeadDefaults(t *testing.T) {
	u := NewURLLead("owner-1", "example.com", StatusProcessing)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, SourceURL, u.SourceType)
	assert.Equal(t, PitchPending, u.PitchResult)
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)

	f := NewFileLead("owner-1", "list.csv")
	assert.Equal(t, StatusReady, f.Status)
	assert.NotEqual(t, u.ID, f.ID)
}

func TestEnums(t *testing.T) {
	for _, s := range []LeadStatus{"uploaded", "ready", "processing", "Pending", "Success", "Rejected", "In-Process", "Failed"} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, LeadStatus("pending").Valid())
	assert.True(t, PitchFailed.Valid())
	assert.False(t, PitchResult("").Valid())
	assert.True(t, LeadPatch{}.Empty())
}
