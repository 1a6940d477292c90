package repository

import (
	"database/sql"
	"go-ledger-api/logger"
	"go-ledger-api/model"
)

// IUserRepository defines the contract for user and profile database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(id int) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserIDByIdentityNumber(identityNumber string) (int, error)
	GetAllUsers() ([]*model.User, error)
	UpdateUser(user *model.User) error
	DeleteUser(id int) error
}

// UserRepository implements IUserRepository.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts the user and their profile in one database transaction.
func (r *UserRepository) CreateUser(user *model.User) error {
	log := logger.Log.WithField("email", user.Email)
	log.Info("Executing queries to create a new user with profile")

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userQuery := `INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id, created_at`
	if err := tx.QueryRow(userQuery, user.Name, user.Email, user.Password).Scan(&user.ID, &user.CreatedAt); err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}

	profileQuery := `INSERT INTO profiles (user_id, identity_type, identity_number, address) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := tx.QueryRow(profileQuery, user.ID, user.Profile.IdentityType, user.Profile.IdentityNumber, user.Profile.Address).Scan(&user.Profile.ID); err != nil {
		log.WithError(err).Error("Failed to execute create profile query")
		return err
	}
	user.Profile.UserID = user.ID

	return tx.Commit()
}

// GetUserByID retrieves a user together with their profile.
func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	user := &model.User{Profile: &model.Profile{}}
	query := `
		SELECT u.id, u.name, u.email, u.password, u.created_at,
		       p.id, p.user_id, p.identity_type, p.identity_number, p.address
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt,
		&user.Profile.ID, &user.Profile.UserID, &user.Profile.IdentityType,
		&user.Profile.IdentityNumber, &user.Profile.Address,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, name, email, password, created_at FROM users WHERE email = $1`
	err := r.DB.QueryRow(query, email).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserIDByIdentityNumber returns the owner of an identity number, used for
// uniqueness checks. Returns sql.ErrNoRows when the number is unused.
func (r *UserRepository) GetUserIDByIdentityNumber(identityNumber string) (int, error) {
	var userID int
	query := `SELECT user_id FROM profiles WHERE identity_number = $1`
	if err := r.DB.QueryRow(query, identityNumber).Scan(&userID); err != nil {
		return 0, err
	}
	return userID, nil
}

func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	log := logger.Log
	log.Info("Executing query to get all users")

	query := `
		SELECT u.id, u.name, u.email, u.created_at,
		       p.id, p.user_id, p.identity_type, p.identity_number, p.address
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		ORDER BY u.id`
	rows, err := r.DB.Query(query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all users")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{Profile: &model.Profile{}}
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.CreatedAt,
			&user.Profile.ID, &user.Profile.UserID, &user.Profile.IdentityType,
			&user.Profile.IdentityNumber, &user.Profile.Address,
		); err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser writes the full user and profile state back. Partial-update
// semantics are resolved in the service layer before this is called.
func (r *UserRepository) UpdateUser(user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Info("Executing queries to update user")

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userQuery := `UPDATE users SET name = $1, email = $2, password = $3 WHERE id = $4`
	if _, err := tx.Exec(userQuery, user.Name, user.Email, user.Password, user.ID); err != nil {
		log.WithError(err).Error("Failed to execute update user query")
		return err
	}

	profileQuery := `UPDATE profiles SET identity_type = $1, identity_number = $2, address = $3 WHERE user_id = $4`
	if _, err := tx.Exec(profileQuery, user.Profile.IdentityType, user.Profile.IdentityNumber, user.Profile.Address, user.ID); err != nil {
		log.WithError(err).Error("Failed to execute update profile query")
		return err
	}

	return tx.Commit()
}

// DeleteUser removes a user; the profile goes with it via ON DELETE CASCADE.
// Accounts RESTRICT the delete, surfacing as a foreign-key violation.
func (r *UserRepository) DeleteUser(id int) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to delete user")

	result, err := r.DB.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if !IsForeignKeyViolation(err) {
			log.WithError(err).Error("Failed to execute delete user query")
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
