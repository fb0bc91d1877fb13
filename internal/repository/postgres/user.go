package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/gatekeeper/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, email, hashed_password, session_id, reset_token, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Add(ctx context.Context, email string, hashedPassword []byte) (model.User, error) {
	query := `INSERT INTO users (email, hashed_password) VALUES ($1, $2) RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, email, hashedPassword))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, fmt.Errorf("failed to add user: %w", model.ErrAlreadyExists)
		}
		return model.User{}, fmt.Errorf("failed to add user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindBy(ctx context.Context, predicate model.Fields) (model.User, error) {
	pred, err := predicate.Normalize()
	if err != nil {
		return model.User{}, err
	}
	if len(pred) == 0 {
		return model.User{}, model.ErrNotFound
	}

	where, args := whereClause(pred)
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY id LIMIT 1`

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Search(ctx context.Context, predicate model.Fields) ([]model.User, error) {
	pred, err := predicate.Normalize()
	if err != nil {
		return nil, err
	}
	if len(pred) == 0 {
		return nil, nil
	}

	where, args := whereClause(pred)
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Update locks the row, then writes every change in a single statement.
func (r *UserRepository) Update(ctx context.Context, id int64, changes model.Fields) (err error) {
	set, err := changes.Normalize()
	if err != nil {
		return err
	}
	if _, ok := set[model.FieldID]; ok {
		return fmt.Errorf("%w: %q is not updatable", model.ErrInvalidField, string(model.FieldID))
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to update user %d: %w", id, model.ErrNotFound)
		}
		return fmt.Errorf("failed to lock user: %w", err)
	}

	if len(set) > 0 {
		assignments, args := setClause(set)
		args = append(args, id)
		query := `UPDATE users SET ` + assignments + `, updated_at = NOW() WHERE id = $` + fmt.Sprint(len(args))

		if _, err = tx.Exec(ctx, query, args...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return fmt.Errorf("failed to update user %d: %w", id, model.ErrAlreadyExists)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.HashedPassword, &user.SessionID, &user.ResetToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// sortedFields orders keys so generated SQL is stable.
func sortedFields(fs model.Fields) []model.Field {
	keys := make([]model.Field, 0, len(fs))
	for f := range fs {
		keys = append(keys, f)
	}
	slices.Sort(keys)
	return keys
}

// whereClause renders a normalised predicate. Column names come from
// model.Field constants only; values are always bound.
func whereClause(pred model.Fields) (string, []any) {
	var (
		conds []string
		args  []any
	)
	for _, f := range sortedFields(pred) {
		if p, ok := pred[f].(*string); ok && p == nil {
			conds = append(conds, string(f)+" IS NULL")
			continue
		}
		args = append(args, pred[f])
		conds = append(conds, fmt.Sprintf("%s = $%d", f, len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func setClause(changes model.Fields) (string, []any) {
	var (
		assignments []string
		args        []any
	)
	for _, f := range sortedFields(changes) {
		args = append(args, changes[f])
		assignments = append(assignments, fmt.Sprintf("%s = $%d", f, len(args)))
	}
	return strings.Join(assignments, ", "), args
}
