package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/platewise/menuflow/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation expired")
)

const userColumns = `
	id, email, password_hash, name, role, restaurant_id,
	created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
		&user.RestaurantID, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user with a pre-hashed password
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string, name *string, role models.Role, restaurantID *int) (*models.User, error) {
	var exists bool
	if err := db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, role, restaurant_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING`+userColumns,
		email, passwordHash, name, role, restaurantID,
	)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		"SELECT"+userColumns+" FROM users WHERE email = $1", email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		"SELECT"+userColumns+" FROM users WHERE id = $1", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// TouchLastLogin records a successful login
func (db *DB) TouchLastLogin(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1", id)
	return err
}

// AttachUserToRestaurant scopes a user to a restaurant
func (db *DB) AttachUserToRestaurant(ctx context.Context, userID, restaurantID int) error {
	tag, err := db.Pool.Exec(ctx,
		"UPDATE users SET restaurant_id = $1, updated_at = NOW() WHERE id = $2",
		restaurantID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListStaff returns all users scoped to a restaurant
func (db *DB) ListStaff(ctx context.Context, restaurantID int) ([]*models.User, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT"+userColumns+" FROM users WHERE restaurant_id = $1 ORDER BY created_at", restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateInvitation stores a pending staff invitation
func (db *DB) CreateInvitation(ctx context.Context, token, email string, restaurantID int, role models.Role, expiresAt time.Time) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (token, email, restaurant_id, role, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, token, email, restaurant_id, role, expires_at, accepted_at, created_at
	`, token, email, restaurantID, role, expiresAt).Scan(
		&inv.ID, &inv.Token, &inv.Email, &inv.RestaurantID, &inv.Role,
		&inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return inv, nil
}

// GetInvitationByToken retrieves a pending invitation, rejecting
// expired or already-accepted tokens.
func (db *DB) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, token, email, restaurant_id, role, expires_at, accepted_at, created_at
		FROM invitations WHERE token = $1
	`, token).Scan(
		&inv.ID, &inv.Token, &inv.Email, &inv.RestaurantID, &inv.Role,
		&inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if inv.AcceptedAt != nil {
		return nil, ErrInvitationNotFound
	}
	if time.Now().After(inv.ExpiresAt) {
		return nil, ErrInvitationExpired
	}
	return inv, nil
}

// MarkInvitationAccepted stamps an invitation as used
func (db *DB) MarkInvitationAccepted(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE invitations SET accepted_at = NOW() WHERE id = $1", id)
	return err
}
