package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// DepartmentRepository implements ports.DepartmentRepository on the
// departments and user_department tables.
type DepartmentRepository struct {
	db *sql.DB
}

var _ ports.DepartmentRepository = (*DepartmentRepository)(nil)

func NewDepartmentRepository(db *sql.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, name string) (*domain.Department, error) {
	d := domain.Department{Name: name}
	if err := r.db.QueryRowContext(ctx, `insert into departments (name) values ($1) returning id`, name).Scan(&d.ID); err != nil {
		return nil, fmt.Errorf("insert department: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*domain.Department, error) {
	var d domain.Department
	err := r.db.QueryRowContext(ctx, `select id, name from departments where id = $1`, id).Scan(&d.ID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select department: %w", err)
	}
	return &d, nil
}

// AddMembers inserts each link that does not exist yet. Unknown user ids
// produce no row and are skipped.
func (r *DepartmentRepository) AddMembers(ctx context.Context, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	added := make([]domain.MemberSummary, 0, len(userIDs))
	for _, userID := range userIDs {
		var linked int64
		err := tx.QueryRowContext(ctx, `
			insert into user_department (user_id, department_id)
			select u.id, $2 from users u where u.id = $1
			on conflict (user_id, department_id) do nothing
			returning user_id
		`, userID, departmentID).Scan(&linked)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("add member %d: %w", userID, err)
		}

		sum, err := memberSummary(ctx, tx, linked)
		if err != nil {
			return nil, err
		}
		added = append(added, sum)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return added, nil
}

func (r *DepartmentRepository) RemoveMembers(ctx context.Context, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	removed := make([]domain.MemberSummary, 0, len(userIDs))
	for _, userID := range userIDs {
		res, err := tx.ExecContext(ctx,
			`delete from user_department where department_id = $1 and user_id = $2`,
			departmentID, userID,
		)
		if err != nil {
			return nil, fmt.Errorf("remove member %d: %w", userID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}

		sum, err := memberSummary(ctx, tx, userID)
		if errors.Is(err, domain.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		removed = append(removed, sum)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *DepartmentRepository) Members(ctx context.Context, departmentID int64) ([]domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx, `
		select u.id, u.email, u.password, u.firstname, u.lastname, u.birthday_date, u.address,
			u.postal_code, u.age, u.meta, u.registration_date, u.token, u.role
		from users u
		join user_department ud on ud.user_id = u.id
		where ud.department_id = $1
		order by u.id
	`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	var out []domain.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *identity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func memberSummary(ctx context.Context, tx *sql.Tx, userID int64) (domain.MemberSummary, error) {
	var s domain.MemberSummary
	err := tx.QueryRowContext(ctx,
		`select id, email, firstname, lastname from users where id = $1`, userID,
	).Scan(&s.ID, &s.Email, &s.Firstname, &s.Lastname)
	if errors.Is(err, sql.ErrNoRows) {
		return s, domain.ErrUserNotFound
	}
	if err != nil {
		return s, fmt.Errorf("select member: %w", err)
	}
	return s, nil
}
