package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

const identityColumns = `id, email, password, firstname, lastname, birthday_date, address,
	postal_code, age, meta, registration_date, token, role`

// IdentityRepository implements ports.IdentityRepository on the users table.
type IdentityRepository struct {
	db *sql.DB
}

var _ ports.IdentityRepository = (*IdentityRepository)(nil)

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	meta, err := encodeMeta(identity.Meta)
	if err != nil {
		return nil, err
	}

	var id int64
	err = r.db.QueryRowContext(ctx, `
		insert into users (email, password, firstname, lastname, birthday_date, address,
			postal_code, age, meta, registration_date, token, role)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		returning id
	`,
		identity.Email, identity.PasswordDigest, identity.Firstname, identity.Lastname,
		nullDate(identity.BirthdayDate), identity.Address, identity.PostalCode, identity.Age,
		meta, identity.RegistrationDate, identity.AccountToken, string(identity.Role),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *identity
	created.ID = id
	return &created, nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id int64) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `select `+identityColumns+` from users where id = $1`, id)
	return scanIdentity(row)
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `select `+identityColumns+` from users where lower(email) = lower($1)`, email)
	return scanIdentity(row)
}

func (r *IdentityRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`select exists(select 1 from users where lower(email) = lower($1) and id <> $2)`,
		email, exceptID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("email taken: %w", err)
	}
	return taken, nil
}

func (r *IdentityRepository) Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	res, err := r.db.ExecContext(ctx, `
		update users
		set email = $2, firstname = $3, lastname = $4, birthday_date = $5,
			address = $6, postal_code = $7, age = $8, role = $9
		where id = $1
	`,
		identity.ID, identity.Email, identity.Firstname, identity.Lastname,
		nullDate(identity.BirthdayDate), identity.Address, identity.PostalCode,
		identity.Age, string(identity.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrUserNotFound
	}
	updated := *identity
	return &updated, nil
}

func (r *IdentityRepository) UpdatePasswordDigest(ctx context.Context, id int64, digest string) error {
	res, err := r.db.ExecContext(ctx, `update users set password = $2 where id = $1`, id, digest)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*domain.Identity, error) {
	var (
		identity domain.Identity
		birthday sql.NullTime
		meta     []byte
		role     string
	)
	err := row.Scan(
		&identity.ID, &identity.Email, &identity.PasswordDigest, &identity.Firstname,
		&identity.Lastname, &birthday, &identity.Address, &identity.PostalCode,
		&identity.Age, &meta, &identity.RegistrationDate, &identity.AccountToken, &role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if birthday.Valid {
		identity.BirthdayDate = birthday.Time
	}
	identity.Role = domain.Role(role)
	identity.Meta = map[string]any{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &identity.Meta); err != nil {
			return nil, fmt.Errorf("decode user meta: %w", err)
		}
	}
	return &identity, nil
}

func encodeMeta(meta map[string]any) (string, error) {
	if meta == nil {
		return "{}", nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode user meta: %w", err)
	}
	return string(b), nil
}
