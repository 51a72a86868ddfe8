package repositories

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"evokcrm/internal/models"
)

// LeadRepository is the Postgres-backed store. Expected schema:
//
//	leads(id text primary key, business text, contact text, location text,
//	      district text, status text, meeting_date timestamptz,
//	      reminder_date timestamptz, reminder_note text, created_at timestamptz)
//	lead_logs(id bigserial primary key, lead_id text references leads(id)
//	      on delete cascade, date timestamptz, from_status text,
//	      to_status text, note text)
type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(lead *models.Lead) error {
	const query = `
		INSERT INTO leads (id, business, contact, location, district, status,
			meeting_date, reminder_date, reminder_note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(query, lead.ID, lead.Business, lead.Contact, lead.Location,
		lead.District, lead.Status, lead.MeetingDate, lead.ReminderDate,
		lead.ReminderNote, lead.CreatedAt)
	return err
}

func (r *LeadRepository) GetByID(id string) (*models.Lead, error) {
	const query = `
		SELECT id, business, contact, location, district, status,
			meeting_date, reminder_date, reminder_note, created_at
		FROM leads
		WHERE id=$1
	`
	lead, err := scanLead(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	logs, err := r.loadLogs([]string{id})
	if err != nil {
		return nil, err
	}
	lead.Logs = logs[id]
	return lead, nil
}

func (r *LeadRepository) List() ([]*models.Lead, error) {
	const query = `
		SELECT id, business, contact, location, district, status,
			meeting_date, reminder_date, reminder_note, created_at
		FROM leads
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Lead
	var ids []string
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lead)
		ids = append(ids, lead.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	logs, err := r.loadLogs(ids)
	if err != nil {
		return nil, err
	}
	for _, lead := range out {
		lead.Logs = logs[lead.ID]
	}
	return out, nil
}

// Update replaces the editable fields. The log and creation time are never
// written here; log changes go through ApplyTransition or AppendLog.
func (r *LeadRepository) Update(lead *models.Lead) error {
	const query = `
		UPDATE leads
		SET business=$1, contact=$2, location=$3, district=$4, status=$5,
			meeting_date=$6, reminder_date=$7, reminder_note=$8
		WHERE id=$9
	`
	res, err := r.db.Exec(query, lead.Business, lead.Contact, lead.Location,
		lead.District, lead.Status, lead.MeetingDate, lead.ReminderDate,
		lead.ReminderNote, lead.ID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *LeadRepository) Delete(id string) error {
	const query = `DELETE FROM leads WHERE id=$1`
	res, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// ApplyTransition runs the status update and the log insert in a single
// transaction, so a failed write leaves the lead entirely unchanged.
func (r *LeadRepository) ApplyTransition(id string, to models.Status, entry models.LogEntry, meeting *MeetingUpdate) (*models.Lead, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := "UPDATE leads SET status = $1"
	args := []interface{}{to}
	i := 2
	if meeting != nil {
		if meeting.MeetingDate != nil {
			query += fmt.Sprintf(", meeting_date = $%d", i)
			args = append(args, *meeting.MeetingDate)
			i++
		}
		if meeting.ReminderDate != nil {
			query += fmt.Sprintf(", reminder_date = $%d", i)
			args = append(args, *meeting.ReminderDate)
			i++
		}
		if meeting.ReminderNote != "" {
			query += fmt.Sprintf(", reminder_note = $%d", i)
			args = append(args, meeting.ReminderNote)
			i++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", i)
	args = append(args, id)

	res, err := tx.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}

	const insertLog = `
		INSERT INTO lead_logs (lead_id, date, from_status, to_status, note)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(insertLog, id, entry.Date, entry.From, entry.To, entry.Note); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *LeadRepository) AppendLog(id string, entry models.LogEntry) (*models.Lead, error) {
	const query = `
		INSERT INTO lead_logs (lead_id, date, from_status, to_status, note)
		SELECT id, $2, $3, $4, $5 FROM leads WHERE id = $1
	`
	res, err := r.db.Exec(query, id, entry.Date, entry.From, entry.To, entry.Note)
	if err != nil {
		return nil, err
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *LeadRepository) loadLogs(leadIDs []string) (map[string][]models.LogEntry, error) {
	const query = `
		SELECT lead_id, date, from_status, to_status, note
		FROM lead_logs
		WHERE lead_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.db.Query(query, pq.Array(leadIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.LogEntry)
	for rows.Next() {
		var leadID string
		var e models.LogEntry
		if err := rows.Scan(&leadID, &e.Date, &e.From, &e.To, &e.Note); err != nil {
			return nil, err
		}
		out[leadID] = append(out[leadID], e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*models.Lead, error) {
	lead := &models.Lead{}
	var meeting, reminder sql.NullTime
	if err := row.Scan(&lead.ID, &lead.Business, &lead.Contact, &lead.Location,
		&lead.District, &lead.Status, &meeting, &reminder,
		&lead.ReminderNote, &lead.CreatedAt); err != nil {
		return nil, err
	}
	if meeting.Valid {
		lead.MeetingDate = &meeting.Time
	}
	if reminder.Valid {
		lead.ReminderDate = &reminder.Time
	}
	return lead, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
