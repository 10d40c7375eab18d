package usecase

import "github.com/gauravmindaptix26/leaado-backend/internal/entity"

type BulkImportInput struct {
	Websites      []string `json:"websites"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Service       string   `json:"service"`
	Message       string   `json:"message"`
	SourceWebsite string   `json:"sourceWebsite"`
}

// StatusPatch is the body of a status update. Nil fields are not touched.
type StatusPatch struct {
	Status       *string `json:"status"`
	PitchResult  *string `json:"pitchResult"`
	PitchMessage *string `json:"pitchMessage"`
}

type LeadBatchOutput struct {
	Leads   []*entity.Lead
	Skipped int
}

type SignupInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
	Country  string `json:"country"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Token string
	User  *entity.User
}

type ProfileUpdateInput struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
