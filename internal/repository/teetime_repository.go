package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/amelendez141/linkup-golf/internal/booking"
	"github.com/amelendez141/linkup-golf/internal/matching"
	"github.com/amelendez141/linkup-golf/internal/model"
	"github.com/amelendez141/linkup-golf/internal/utils"
)

// TeeTimeRepo provides persistence for tee times and their slots.  A
// tee time and its slot rows are always created and mutated together;
// the repository exposes *Tx variants where callers need to compose
// several writes into one transaction.  It also implements
// booking.Store, giving the reservation engine its serializable
// transaction scope.
type TeeTimeRepo struct {
	DB    *sql.DB
	users *UserRepo
}

// NewTeeTimeRepo returns a TeeTimeRepo bound to the given database.
// The user repo is used to attach host and occupant profiles to
// candidate tee times for scoring.
func NewTeeTimeRepo(db *sql.DB, users *UserRepo) *TeeTimeRepo {
	return &TeeTimeRepo{DB: db, users: users}
}

const teeTimeColumns = `id, host_id, course_id, tee_off_at, total_slots, industry_prefs,
       skill_prefs, notes, status, version, created_at, updated_at`

const slotColumns = `id, tee_time_id, slot_number, user_id, joined_at, created_at, updated_at`

// CreateWithSlots inserts a tee time together with slot rows 1..N in a
// single transaction.  Slot 1 is pre-assigned to the host.  The
// generated ID, status and version are populated on the passed record.
func (r *TeeTimeRepo) CreateWithSlots(ctx context.Context, tt *model.TeeTime) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tee_times (host_id, course_id, tee_off_at, total_slots, industry_prefs, skill_prefs, notes, status, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 'OPEN', 1)`,
		tt.HostID, tt.CourseID, tt.TeeOffAt.UTC().Format("2006-01-02 15:04:05"), tt.TotalSlots,
		industriesToCSV(tt.IndustryPrefs), skillsToCSV(tt.SkillPrefs), tt.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tt.ID = uint64(id)
	tt.Status = model.TeeTimeOpen
	tt.Version = 1

	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	query := `INSERT INTO tee_time_slots (tee_time_id, slot_number, user_id, joined_at) VALUES `
	args := make([]interface{}, 0, int(tt.TotalSlots)*4)
	for n := uint32(1); n <= tt.TotalSlots; n++ {
		if n > 1 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		if n == 1 {
			args = append(args, tt.ID, n, tt.HostID, now)
		} else {
			args = append(args, tt.ID, n, nil, nil)
		}
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a tee time without its slots.
func (r *TeeTimeRepo) GetByID(ctx context.Context, id uint64) (model.TeeTime, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+teeTimeColumns+" FROM tee_times WHERE id=? LIMIT 1", id)
	tt, err := scanTeeTime(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TeeTime{}, ErrTeeTimeNotFound
	}
	return tt, err
}

// GetWithSlots fetches a tee time and all of its slots ordered by slot
// number.  This is the plain read used by handlers; the reservation
// engine goes through InTx instead.
func (r *TeeTimeRepo) GetWithSlots(ctx context.Context, id uint64) (model.TeeTime, []model.TeeTimeSlot, error) {
	tt, err := r.GetByID(ctx, id)
	if err != nil {
		return model.TeeTime{}, nil, err
	}
	slots, err := r.slotsFor(ctx, r.DB, id)
	if err != nil {
		return model.TeeTime{}, nil, err
	}
	return tt, slots, nil
}

// ListUpcomingByCourse returns future, non-terminal tee times at a
// course, soonest first.
func (r *TeeTimeRepo) ListUpcomingByCourse(ctx context.Context, courseID uint64, limit int) ([]model.TeeTime, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+teeTimeColumns+` FROM tee_times
		 WHERE course_id=? AND tee_off_at > UTC_TIMESTAMP() AND status IN ('OPEN','FULL')
		 ORDER BY tee_off_at LIMIT ?`, courseID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTeeTimes(rows)
}

// ListByUser returns tee times the member hosts or occupies a slot in,
// soonest first.
func (r *TeeTimeRepo) ListByUser(ctx context.Context, userID uint64) ([]model.TeeTime, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT t.id, t.host_id, t.course_id, t.tee_off_at, t.total_slots, t.industry_prefs,
		        t.skill_prefs, t.notes, t.status, t.version, t.created_at, t.updated_at
		 FROM tee_times t
		 JOIN tee_time_slots s ON s.tee_time_id = t.id
		 WHERE s.user_id = ?
		 ORDER BY t.tee_off_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTeeTimes(rows)
}

// TeeTimeUpdate carries the non-slot fields a host may edit, together
// with the version the host read.  The write succeeds only if that
// version is still current; the counter increments in the same write.
type TeeTimeUpdate struct {
	TeeOffAt      time.Time
	IndustryPrefs []model.Industry
	SkillPrefs    []model.SkillLevel
	Notes         *string
	Version       uint32
}

// hostMutationGate screens a host edit against the row it read: only
// the host may mutate, terminal tee times are frozen, and a stale
// version counter is rejected before the write.  The UPDATE statements
// repeat the version check so a write racing between read and update
// still loses.
func hostMutationGate(tt model.TeeTime, hostID uint64, version uint32) error {
	if tt.HostID != hostID {
		return ErrForbidden
	}
	if tt.Status.Terminal() {
		return ErrConflict
	}
	if tt.Version != version {
		return ErrVersionConflict
	}
	return nil
}

// UpdateDetails rewrites a tee time's non-slot fields under optimistic
// concurrency.  It returns ErrVersionConflict when the version counter
// moved, ErrForbidden when the caller is not the host, and
// ErrTeeTimeNotFound when no such tee time exists.
func (r *TeeTimeRepo) UpdateDetails(ctx context.Context, id, hostID uint64, upd TeeTimeUpdate) error {
	tt, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := hostMutationGate(tt, hostID, upd.Version); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE tee_times
		 SET tee_off_at=?, industry_prefs=?, skill_prefs=?, notes=?, version=version+1
		 WHERE id=? AND version=?`,
		upd.TeeOffAt.UTC().Format("2006-01-02 15:04:05"),
		industriesToCSV(upd.IndustryPrefs), skillsToCSV(upd.SkillPrefs), upd.Notes,
		id, upd.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

// Cancel marks a tee time CANCELLED.  Only the host may cancel, and
// terminal tee times cannot be cancelled again.  The write carries the
// version read above so a concurrent edit surfaces as
// ErrVersionConflict instead of silently cancelling the changed row.
func (r *TeeTimeRepo) Cancel(ctx context.Context, id, hostID uint64) error {
	tt, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := hostMutationGate(tt, hostID, tt.Version); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tee_times SET status='CANCELLED', version=version+1 WHERE id=? AND version=?",
		id, tt.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

// OccupantIDs returns the user IDs currently holding slots in the tee
// time.  Used when fanning out slot activity events.
func (r *TeeTimeRepo) OccupantIDs(ctx context.Context, id uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id FROM tee_time_slots WHERE tee_time_id=? AND user_id IS NOT NULL ORDER BY slot_number", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var uid uint64
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		ids = append(ids, uid)
	}
	return ids, rows.Err()
}

// FindCandidates returns scoreable candidates for the member: open,
// future tee times the member neither hosts nor occupies, at courses
// within the member's search radius.  Host and occupant profiles are
// attached so the scorer gets a single consistent snapshot.  Members
// without a home location get no candidates.
func (r *TeeTimeRepo) FindCandidates(ctx context.Context, member model.User) ([]matching.Candidate, error) {
	if member.Latitude == nil || member.Longitude == nil {
		return nil, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.id, t.host_id, t.course_id, t.tee_off_at, t.total_slots, t.industry_prefs,
		        t.skill_prefs, t.notes, t.status, t.version, t.created_at, t.updated_at,
		        c.latitude, c.longitude
		 FROM tee_times t
		 JOIN courses c ON c.id = t.course_id
		 WHERE t.status = 'OPEN'
		   AND t.tee_off_at > UTC_TIMESTAMP()
		   AND t.host_id <> ?
		   AND NOT EXISTS (
		       SELECT 1 FROM tee_time_slots s
		       WHERE s.tee_time_id = t.id AND s.user_id = ?)
		 ORDER BY t.tee_off_at`, member.ID, member.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	radius := member.SearchRadiusOrDefault()
	type pending struct {
		tt   model.TeeTime
		dist float64
	}
	var within []pending
	for rows.Next() {
		var (
			tt       model.TeeTime
			industry sql.NullString
			skills   sql.NullString
			notes    sql.NullString
			lat, lng float64
		)
		if err := rows.Scan(&tt.ID, &tt.HostID, &tt.CourseID, &tt.TeeOffAt, &tt.TotalSlots,
			&industry, &skills, &notes, &tt.Status, &tt.Version, &tt.CreatedAt, &tt.UpdatedAt,
			&lat, &lng); err != nil {
			return nil, err
		}
		applyPrefs(&tt, industry, skills, notes)
		d := utils.HaversineMiles(*member.Latitude, *member.Longitude, lat, lng)
		if d <= radius {
			within = append(within, pending{tt: tt, dist: d})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(within) == 0 {
		return nil, nil
	}

	// Batch-load slots and occupant profiles for the survivors.
	ids := make([]uint64, 0, len(within))
	for _, p := range within {
		ids = append(ids, p.tt.ID)
	}
	slotsByTeeTime, err := r.slotsForMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint64, 0, len(within)*int(model.MaxTotalSlots))
	seen := make(map[uint64]struct{})
	for _, p := range within {
		for _, s := range slotsByTeeTime[p.tt.ID] {
			if s.UserID != nil {
				if _, ok := seen[*s.UserID]; !ok {
					seen[*s.UserID] = struct{}{}
					userIDs = append(userIDs, *s.UserID)
				}
			}
		}
	}
	users, err := r.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	cands := make([]matching.Candidate, 0, len(within))
	for _, p := range within {
		cand := matching.Candidate{TeeTime: p.tt, DistanceMiles: p.dist}
		cand.Host = users[p.tt.HostID]
		for _, s := range slotsByTeeTime[p.tt.ID] {
			if s.UserID != nil {
				if u, ok := users[*s.UserID]; ok {
					cand.Occupants = append(cand.Occupants, u)
				}
			}
		}
		cands = append(cands, cand)
	}
	return cands, nil
}

// ---- booking.Store implementation ----

// InTx runs fn inside a serializable transaction.  Join and leave are
// the only callers; the stronger isolation level is confined to this
// path so the rest of the app keeps the default.
func (r *TeeTimeRepo) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&teeTimeTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// teeTimeTx adapts one *sql.Tx to the booking.Tx contract.
type teeTimeTx struct{ tx *sql.Tx }

func (t *teeTimeTx) TeeTimeWithSlots(ctx context.Context, teeTimeID uint64) (model.TeeTime, []model.TeeTimeSlot, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+teeTimeColumns+" FROM tee_times WHERE id=? FOR UPDATE", teeTimeID)
	tt, err := scanTeeTime(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TeeTime{}, nil, booking.ErrNotFound
	}
	if err != nil {
		return model.TeeTime{}, nil, err
	}
	rows, err := t.tx.QueryContext(ctx,
		"SELECT "+slotColumns+" FROM tee_time_slots WHERE tee_time_id=? ORDER BY slot_number FOR UPDATE", teeTimeID)
	if err != nil {
		return model.TeeTime{}, nil, err
	}
	defer rows.Close()
	slots, err := collectSlots(rows)
	if err != nil {
		return model.TeeTime{}, nil, err
	}
	return tt, slots, nil
}

func (t *teeTimeTx) ClaimSlot(ctx context.Context, slotID, userID uint64, joinedAt time.Time) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE tee_time_slots SET user_id=?, joined_at=? WHERE id=? AND user_id IS NULL",
		userID, joinedAt.Format("2006-01-02 15:04:05"), slotID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (t *teeTimeTx) ReleaseSlot(ctx context.Context, slotID uint64) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE tee_time_slots SET user_id=NULL, joined_at=NULL WHERE id=?", slotID)
	return err
}

func (t *teeTimeTx) CountVacant(ctx context.Context, teeTimeID uint64) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tee_time_slots WHERE tee_time_id=? AND user_id IS NULL", teeTimeID).Scan(&n)
	return n, err
}

func (t *teeTimeTx) SetStatus(ctx context.Context, teeTimeID uint64, status model.TeeTimeStatus) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE tee_times SET status=? WHERE id=?", string(status), teeTimeID)
	return err
}

// ---- scanning helpers ----

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *TeeTimeRepo) slotsFor(ctx context.Context, q queryer, teeTimeID uint64) ([]model.TeeTimeSlot, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+slotColumns+" FROM tee_time_slots WHERE tee_time_id=? ORDER BY slot_number", teeTimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

func (r *TeeTimeRepo) slotsForMany(ctx context.Context, teeTimeIDs []uint64) (map[uint64][]model.TeeTimeSlot, error) {
	out := make(map[uint64][]model.TeeTimeSlot, len(teeTimeIDs))
	if len(teeTimeIDs) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(teeTimeIDs))
	args := make([]interface{}, 0, len(teeTimeIDs))
	for _, id := range teeTimeIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+slotColumns+" FROM tee_time_slots WHERE tee_time_id IN ("+strings.Join(placeholders, ",")+") ORDER BY tee_time_id, slot_number",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots, err := collectSlots(rows)
	if err != nil {
		return nil, err
	}
	for _, s := range slots {
		out[s.TeeTimeID] = append(out[s.TeeTimeID], s)
	}
	return out, nil
}

func scanTeeTime(s rowScanner) (model.TeeTime, error) {
	var (
		tt       model.TeeTime
		industry sql.NullString
		skills   sql.NullString
		notes    sql.NullString
	)
	err := s.Scan(&tt.ID, &tt.HostID, &tt.CourseID, &tt.TeeOffAt, &tt.TotalSlots,
		&industry, &skills, &notes, &tt.Status, &tt.Version, &tt.CreatedAt, &tt.UpdatedAt)
	if err != nil {
		return model.TeeTime{}, err
	}
	applyPrefs(&tt, industry, skills, notes)
	return tt, nil
}

func applyPrefs(tt *model.TeeTime, industry, skills, notes sql.NullString) {
	if industry.Valid {
		tt.IndustryPrefs = industriesFromCSV(industry.String)
	}
	if skills.Valid {
		tt.SkillPrefs = skillsFromCSV(skills.String)
	}
	if notes.Valid {
		v := notes.String
		tt.Notes = &v
	}
}

func collectTeeTimes(rows *sql.Rows) ([]model.TeeTime, error) {
	items := make([]model.TeeTime, 0)
	for rows.Next() {
		tt, err := scanTeeTime(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, tt)
	}
	return items, rows.Err()
}

func collectSlots(rows *sql.Rows) ([]model.TeeTimeSlot, error) {
	slots := make([]model.TeeTimeSlot, 0)
	for rows.Next() {
		var (
			s        model.TeeTimeSlot
			userID   sql.NullInt64
			joinedAt sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.TeeTimeID, &s.SlotNumber, &userID, &joinedAt,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			v := uint64(userID.Int64)
			s.UserID = &v
		}
		if joinedAt.Valid {
			v := joinedAt.Time
			s.JoinedAt = &v
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// Preference lists are stored as comma-separated values in a single
// column; an empty string means "open to all".

func industriesToCSV(prefs []model.Industry) string {
	parts := make([]string, 0, len(prefs))
	for _, p := range prefs {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ",")
}

func industriesFromCSV(csv string) []model.Industry {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]model.Industry, 0, len(parts))
	for _, p := range parts {
		if v := model.Industry(strings.TrimSpace(p)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func skillsToCSV(prefs []model.SkillLevel) string {
	parts := make([]string, 0, len(prefs))
	for _, p := range prefs {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ",")
}

func skillsFromCSV(csv string) []model.SkillLevel {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]model.SkillLevel, 0, len(parts))
	for _, p := range parts {
		if v := model.SkillLevel(strings.TrimSpace(p)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
