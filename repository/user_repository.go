package repository

import (
	"database/sql"
	"go-notes-api/model"
)

// IUserRepository defines the contract for user persistence. Any backing
// store satisfying it (postgres here, mocks in tests) works for the services.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
}

// UserRepository implements IUserRepository on postgres.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts a new user and fills in the assigned id and timestamp.
// A unique index on email makes duplicate registration fail with a
// constraint violation, which the auth service maps to its own error.
func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id, created_at`
	return r.DB.QueryRow(query, user.Email, user.Password).Scan(&user.ID, &user.CreatedAt)
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, password, created_at FROM users WHERE email=$1`
	err := r.DB.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}
