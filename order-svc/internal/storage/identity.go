package storage

import (
	"context"
	"database/sql"

	"qr-dine/order-svc/internal/domain"
)

// CreateUserWithRestaurant stores a new user and, when rest is non-nil, the
// restaurant they own, in one transaction.
func (r *PostgresRepository) CreateUserWithRestaurant(ctx context.Context, user *domain.User, rest *domain.Restaurant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at",
		user.Username, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		return translate(err, "user")
	}

	if rest != nil {
		rest.OwnerID = user.ID
		if err := tx.QueryRowContext(ctx,
			"INSERT INTO restaurants (name, address, owner_id) VALUES ($1, $2, $3) RETURNING id, created_at",
			rest.Name, rest.Address, rest.OwnerID,
		).Scan(&rest.ID, &rest.CreatedAt); err != nil {
			return fieldRename(translate(err, "restaurant"), "name", "restaurant_name")
		}
	}

	return tx.Commit()
}

func fieldRename(err error, from, to string) error {
	if e, ok := err.(*domain.Error); ok && e.Field == from {
		e.Field = to
	}
	return err
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO profiles (user_id, role, restaurant_id) VALUES ($1, $2, $3) RETURNING id",
		profile.UserID, string(profile.Role), nullableInt(profile.RestaurantID),
	).Scan(&profile.ID)
	return translate(err, "profile")
}

// DeleteUser removes the user with their profile and owned restaurants.
func (r *PostgresRepository) DeleteUser(ctx context.Context, userID int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	owned, err := ownedRestaurants(ctx, tx, userID)
	if err != nil {
		return err
	}
	for _, id := range owned {
		if err := removeRestaurant(ctx, tx, id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE user_id=$1", userID); err != nil {
		return translate(err, "user")
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=$1", userID)
	if err := affectedOne(result, err, "user"); err != nil {
		return err
	}
	return tx.Commit()
}

func ownedRestaurants(ctx context.Context, tx *sql.Tx, userID int) ([]int, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM restaurants WHERE owner_id=$1", userID)
	if err != nil {
		return nil, translate(err, "restaurant")
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err, "restaurant")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return r.getUser(ctx, "id", id)
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, "username", username)
}

func (r *PostgresRepository) getUser(ctx context.Context, column string, value any) (*domain.User, error) {
	var user domain.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE "+column+" = $1", value).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID int) (*domain.Profile, error) {
	var (
		profile      domain.Profile
		role         string
		restaurantID sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, role, restaurant_id FROM profiles WHERE user_id = $1", userID).
		Scan(&profile.ID, &profile.UserID, &role, &restaurantID)
	if err != nil {
		return nil, translate(err, "profile")
	}
	profile.Role = domain.Role(role)
	if restaurantID.Valid {
		id := int(restaurantID.Int64)
		profile.RestaurantID = &id
	}
	return &profile, nil
}

func (r *PostgresRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)", username).Scan(&exists)
	return exists, translate(err, "user")
}

func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)", email).Scan(&exists)
	return exists, translate(err, "user")
}

// CreateStaff stores a user and their staff profile together.
func (r *PostgresRepository) CreateStaff(ctx context.Context, user *domain.User, restaurantID int) (*domain.StaffMember, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at",
		user.Username, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		return nil, translate(err, "user")
	}

	member := &domain.StaffMember{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RestaurantID: restaurantID,
	}
	if err := tx.QueryRowContext(ctx, `
		WITH p AS (
			INSERT INTO profiles (user_id, role, restaurant_id) VALUES ($1, $2, $3) RETURNING id
		)
		SELECT p.id, r.name FROM p, restaurants r WHERE r.id = $3`,
		user.ID, string(domain.RoleStaff), restaurantID,
	).Scan(&member.ID, &member.RestaurantName); err != nil {
		return nil, translate(err, "staff member")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return member, nil
}

const staffSelect = `
		SELECT p.id, u.id, u.username, u.email, r.id, r.name
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		JOIN restaurants r ON r.id = p.restaurant_id`

func (r *PostgresRepository) GetStaff(ctx context.Context, profileID int) (*domain.StaffMember, error) {
	var m domain.StaffMember
	err := r.DB.QueryRowContext(ctx, staffSelect+`
		WHERE p.id = $1 AND p.role = $2`, profileID, string(domain.RoleStaff)).
		Scan(&m.ID, &m.UserID, &m.Username, &m.Email, &m.RestaurantID, &m.RestaurantName)
	if err != nil {
		return nil, translate(err, "staff member")
	}
	return &m, nil
}

func (r *PostgresRepository) ListStaff(ctx context.Context, scope domain.Scope) ([]domain.StaffMember, error) {
	where, args := scopeClause(scope, []any{string(domain.RoleStaff)})
	rows, err := r.DB.QueryContext(ctx, staffSelect+and(where, "p.role = $1")+`
		ORDER BY p.id`, args...)
	if err != nil {
		return nil, translate(err, "staff member")
	}
	defer rows.Close()

	staff := []domain.StaffMember{}
	for rows.Next() {
		var m domain.StaffMember
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.Email, &m.RestaurantID, &m.RestaurantName); err != nil {
			return nil, translate(err, "staff member")
		}
		staff = append(staff, m)
	}
	return staff, rows.Err()
}

// DeleteStaff removes the staff profile together with its user account.
func (r *PostgresRepository) DeleteStaff(ctx context.Context, profileID int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID int
	if err := tx.QueryRowContext(ctx,
		"SELECT user_id FROM profiles WHERE id=$1 AND role=$2",
		profileID, string(domain.RoleStaff),
	).Scan(&userID); err != nil {
		return translate(err, "staff member")
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE id=$1", profileID); err != nil {
		return translate(err, "staff member")
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=$1", userID)
	if err := affectedOne(result, err, "staff member"); err != nil {
		return err
	}
	return tx.Commit()
}
