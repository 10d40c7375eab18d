package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
)

const leadColumns = `id, owner_id, website, source_type, original_name, file_name, mime_type, size,
	file_path, file_url, import_url, contact_name, contact_email, contact_phone, service, message,
	source_website, status, pitch_result, pitch_message, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var website, originalName, fileName, mimeType sql.NullString
	var filePath, fileURL, importURL sql.NullString
	var contactName, contactEmail, contactPhone sql.NullString
	var service, message, sourceWebsite, pitchMessage sql.NullString
	var size sql.NullInt64

	err := row.Scan(
		&l.ID, &l.OwnerID, &website, &l.SourceType, &originalName, &fileName, &mimeType, &size,
		&filePath, &fileURL, &importURL, &contactName, &contactEmail, &contactPhone, &service, &message,
		&sourceWebsite, &l.Status, &l.PitchResult, &pitchMessage, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Website = website.String
	l.OriginalName = originalName.String
	l.FileName = fileName.String
	l.MimeType = mimeType.String
	l.Size = size.Int64
	l.FilePath = filePath.String
	l.FileURL = fileURL.String
	l.ImportURL = importURL.String
	l.ContactName = contactName.String
	l.ContactEmail = contactEmail.String
	l.ContactPhone = contactPhone.String
	l.Service = service.String
	l.Message = message.String
	l.SourceWebsite = sourceWebsite.String
	l.PitchMessage = pitchMessage.String

	return &l, nil
}

func (r *LeadRepository) FindByOwner(ctx context.Context, ownerID string, filter entity.LeadFilter) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE owner_id = $1`
	args := []any{ownerID}
	if filter.SourceType != "" {
		query += ` AND source_type = $2`
		args = append(args, string(filter.SourceType))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "leads: find by owner")
	}
	defer rows.Close()

	leads := make([]*entity.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "leads: scan")
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "leads: iterate")
	}

	return leads, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE owner_id = $1 AND id = $2`

	l, err := scanLead(r.DB.QueryRowContext(ctx, query, ownerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "leads: find by id")
	}
	return l, nil
}

// FindWebsitesByOwner returns the subset of websites the owner already has
// as url leads.
func (r *LeadRepository) FindWebsitesByOwner(ctx context.Context, ownerID string, websites []string) ([]string, error) {
	if len(websites) == 0 {
		return []string{}, nil
	}

	query := `
		SELECT website FROM leads
		WHERE owner_id = $1 AND source_type = 'url' AND website = ANY($2::text[])
	`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, pq.Array(websites))
	if err != nil {
		return nil, eris.Wrap(err, "leads: find websites")
	}
	defer rows.Close()

	found := make([]string, 0, len(websites))
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, eris.Wrap(err, "leads: scan website")
		}
		found = append(found, w)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "leads: iterate websites")
	}

	return found, nil
}

func (r *LeadRepository) Insert(ctx context.Context, l *entity.Lead) error {
	query := `INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	_, err := r.DB.ExecContext(ctx, query,
		l.ID, l.OwnerID, nullString(l.Website), string(l.SourceType),
		nullString(l.OriginalName), nullString(l.FileName), nullString(l.MimeType), nullInt64(l.Size),
		nullString(l.FilePath), nullString(l.FileURL), nullString(l.ImportURL),
		nullString(l.ContactName), nullString(l.ContactEmail), nullString(l.ContactPhone),
		nullString(l.Service), nullString(l.Message), nullString(l.SourceWebsite),
		string(l.Status), string(l.PitchResult), nullString(l.PitchMessage),
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateWebsite
		}
		return eris.Wrap(err, "leads: insert")
	}
	return nil
}

// InsertMany inserts each lead on its own. With TolerateConflicts, leads
// rejected by the (owner, website) index are dropped from the result and the
// rest still land.
func (r *LeadRepository) InsertMany(ctx context.Context, leads []*entity.Lead, opts entity.InsertOptions) ([]*entity.Lead, error) {
	inserted := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		err := r.Insert(ctx, l)
		if errors.Is(err, entity.ErrDuplicateWebsite) && opts.TolerateConflicts {
			zap.L().Debug("lead skipped on conflict",
				zap.String("owner_id", l.OwnerID),
				zap.String("website", l.Website),
			)
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted = append(inserted, l)
	}
	return inserted, nil
}

func (r *LeadRepository) Update(ctx context.Context, ownerID string, sel entity.LeadSelector, patch entity.LeadPatch) (*entity.Lead, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 6)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Status != nil {
		sets = append(sets, "status = "+next(string(*patch.Status)))
	}
	if patch.PitchResult != nil {
		sets = append(sets, "pitch_result = "+next(string(*patch.PitchResult)))
	}
	if patch.PitchMessage != nil {
		sets = append(sets, "pitch_message = "+next(nullString(*patch.PitchMessage)))
	}
	sets = append(sets, "updated_at = "+next(time.Now().UTC()))

	where := "owner_id = " + next(ownerID)
	switch {
	case sel.ID != "":
		where += " AND id = " + next(sel.ID)
	case sel.Website != "":
		where += " AND source_type = 'url' AND website = " + next(sel.Website)
	default:
		return nil, eris.New("leads: update requires an id or website selector")
	}

	query := `UPDATE leads SET ` + strings.Join(sets, ", ") + ` WHERE ` + where + ` RETURNING ` + leadColumns

	l, err := scanLead(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "leads: update")
	}
	return l, nil
}

func (r *LeadRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return eris.Wrap(err, "leads: delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "leads: rows affected")
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}
