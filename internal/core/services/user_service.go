package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/core/domain"
	"advancehub/internal/pkg/password"
)

// User management errors
var (
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrWrongPassword       = errors.New("current password is incorrect")
)

// UserService handles admin user management and profile operations
type UserService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, tokenRepo repositories.RefreshTokenRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// UserListOutput represents a paginated user listing
type UserListOutput struct {
	Users []*models.User
	Total int64
	Page  int
	Limit int
}

// List returns users for the admin view with search and pagination
func (s *UserService) List(ctx context.Context, search string, page, limit int) (*UserListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	users, total, err := s.userRepo.List(ctx, offset, limit, search)
	if err != nil {
		return nil, err
	}

	return &UserListOutput{Users: users, Total: total, Page: page, Limit: limit}, nil
}

// Get fetches one user by ID
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUserInput represents admin update input. Nil pointers leave the
// field untouched.
type UpdateUserInput struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Phone      *string `json:"phone"`
	Role       *string `json:"role"`
	ManagerID  *uint   `json:"managerId"`
	IsActive   *bool   `json:"isActive"`
}

// Update applies an admin edit to a user account
func (s *UserService) Update(ctx context.Context, actingID, targetID uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		if actingID == targetID {
			return nil, ErrCannotChangeOwnRole
		}
		role := domain.Role(*input.Role)
		if !role.Valid() {
			return nil, NewValidationError(map[string]string{
				"role": "Unknown role",
			})
		}
		user.Role = string(role)
	}

	if input.FirstName != nil && strings.TrimSpace(*input.FirstName) != "" {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil && strings.TrimSpace(*input.LastName) != "" {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Department != nil {
		user.Department = strings.TrimSpace(*input.Department)
	}
	if input.Position != nil {
		user.Position = strings.TrimSpace(*input.Position)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.ManagerID != nil {
		if _, err := s.userRepo.GetByID(ctx, *input.ManagerID); err != nil {
			return nil, NewValidationError(map[string]string{
				"managerId": "Manager not found",
			})
		}
		user.ManagerID = input.ManagerID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
		// Deactivation kills existing sessions too
		if !user.IsActive {
			if err := s.tokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
				log.Printf("⚠️ Failed to revoke sessions for user %d: %v", user.ID, err)
			}
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User %d updated by admin %d", user.ID, actingID)
	return user, nil
}

// Delete soft-deletes a user account
func (s *UserService) Delete(ctx context.Context, actingID, targetID uint) error {
	if actingID == targetID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.Get(ctx, targetID); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllByUserID(ctx, targetID); err != nil {
		log.Printf("⚠️ Failed to revoke sessions for user %d: %v", targetID, err)
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	log.Printf("✅ User %d deleted by admin %d", targetID, actingID)
	return nil
}

// UpdateProfileInput represents self-service profile input
type UpdateProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

// UpdateProfile lets a user edit their own contact details
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil && strings.TrimSpace(*input.FirstName) != "" {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil && strings.TrimSpace(*input.LastName) != "" {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password, applies the new one and
// revokes every refresh token so other sessions have to log in again.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(currentPassword, user.Password) {
		return ErrWrongPassword
	}

	if ok, reason := password.Validate(newPassword); !ok {
		return NewValidationError(map[string]string{
			"newPassword": reason,
		})
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		log.Printf("⚠️ Failed to revoke sessions for user %d: %v", userID, err)
	}
	return nil
}
