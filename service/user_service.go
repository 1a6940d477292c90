package service

import (
	"database/sql"
	"errors"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"
	"strings"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email is already used by another user")
	ErrIdentityTaken   = errors.New("identity number is already used by another user")
	ErrUserHasAccounts = errors.New("user still owns bank accounts")
)

// UserService handles user and profile business logic.
type UserService struct {
	userRepo repository.IUserRepository
	auth     *AuthService
}

func NewUserService(userRepo repository.IUserRepository, auth *AuthService) *UserService {
	return &UserService{userRepo: userRepo, auth: auth}
}

// Register creates a user with their identity profile. Email and identity
// number must be unused by any other user.
func (s *UserService) Register(req model.RegisterRequest) (*model.User, error) {
	log := logger.Log.WithField("email", req.Email)

	if _, err := s.userRepo.GetUserByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	if _, err := s.userRepo.GetUserIDByIdentityNumber(req.IdentityNumber); err == nil {
		return nil, ErrIdentityTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	hashedPassword, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Profile: &model.Profile{
			IdentityType:   req.IdentityType,
			IdentityNumber: req.IdentityNumber,
			Address:        req.Address,
		},
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		// The uniqueness pre-checks can race; the DB constraints are the
		// final arbiter. The constraint name tells the two apart.
		if taken := uniqueViolationError(err); taken != nil {
			return nil, taken
		}
		return nil, err
	}

	log.Info("User registered successfully")
	return user, nil
}

func (s *UserService) GetUser(id int) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]*model.User, error) {
	return s.userRepo.GetAllUsers()
}

// UpdateUser applies a partial update. Only fields present in the request
// change; pointer fields distinguish absent from zero-valued.
func (s *UserService) UpdateUser(id int, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if other, err := s.userRepo.GetUserByEmail(*req.Email); err == nil && other.ID != id {
			return nil, ErrEmailTaken
		} else if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.IdentityNumber != nil && *req.IdentityNumber != user.Profile.IdentityNumber {
		if ownerID, err := s.userRepo.GetUserIDByIdentityNumber(*req.IdentityNumber); err == nil && ownerID != id {
			return nil, ErrIdentityTaken
		} else if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		user.Profile.IdentityNumber = *req.IdentityNumber
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hashed, err := s.auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if req.IdentityType != nil {
		user.Profile.IdentityType = *req.IdentityType
	}
	if req.Address != nil {
		user.Profile.Address = *req.Address
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		if taken := uniqueViolationError(err); taken != nil {
			return nil, taken
		}
		return nil, err
	}
	return user, nil
}

// uniqueViolationError maps a raced unique violation to the matching domain
// error by inspecting the violated constraint, or returns nil for any other
// error.
func uniqueViolationError(err error) error {
	switch {
	case strings.Contains(repository.UniqueConstraint(err), "identity"):
		return ErrIdentityTaken
	case repository.IsUniqueViolation(err):
		return ErrEmailTaken
	}
	return nil
}

// DeleteUser removes a user and their profile. Users still owning accounts
// cannot be deleted.
func (s *UserService) DeleteUser(id int) error {
	err := s.userRepo.DeleteUser(id)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	if repository.IsForeignKeyViolation(err) {
		return ErrUserHasAccounts
	}
	return err
}
