// Package service provides application business logic (auth, social graph, posts, messages).
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"commune/internal/models"
	"commune/internal/repository"
	"commune/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenIssuer is the iss claim on every issued token.
	TokenIssuer = "commune-api"
	// TokenAudience is the aud claim on every issued token.
	TokenAudience = "commune-client"

	tokenTTL = 24 * time.Hour
)

// AuthService issues and validates identities: registration, credential
// checks, and bearer token minting. No other service creates users.
type AuthService struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	jwtSecret string
}

// RegisterInput is the input for registering a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	// Roles holds requested role tags ("admin", "mod"); anything else maps
	// to the default user role. Empty means default.
	Roles []string
}

// AuthResult is the outcome of a successful authentication.
type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user with a salted one-way password hash and the
// resolved role set.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	// Fast-path duplicate checks; the unique constraints remain authoritative.
	taken, err := s.userRepo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("Username already exists")
	}
	taken, err = s.userRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("Email already exists")
	}

	roles, err := s.resolveRoles(ctx, in.Roles)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
		Roles:    roles,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// resolveRoles maps requested role tags to role rows. An empty request means
// the default user role; unknown tags also map to it. A missing row in the
// role table is an error.
func (s *AuthService) resolveRoles(ctx context.Context, requested []string) ([]models.Role, error) {
	names := make(map[models.RoleName]struct{})
	if len(requested) == 0 {
		names[models.RoleUser] = struct{}{}
	} else {
		for _, tag := range requested {
			switch tag {
			case "admin":
				names[models.RoleAdmin] = struct{}{}
			case "mod":
				names[models.RoleModerator] = struct{}{}
			default:
				names[models.RoleUser] = struct{}{}
			}
		}
	}

	var roles []models.Role
	for name := range names {
		role, err := s.roleRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

// ListUsers returns a page of registered accounts for the admin surface,
// under the same pagination rules as the post listings.
func (s *AuthService) ListUsers(ctx context.Context, page, size int) ([]models.User, error) {
	page, size, err := normalizePagination(page, size)
	if err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx, size, page*size)
}

// Authenticate checks the credentials and issues a signed, time-bound bearer
// token carrying identity and role claims. Unknown usernames and hash
// mismatches are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// generateToken mints an HS256 token with identity and role claims.
func (s *AuthService) generateToken(user *models.User) (string, error) {
	if s.jwtSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, string(r.Name))
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"roles":    roles,
		"iss":      TokenIssuer,
		"aud":      TokenAudience,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// generateJTI creates a unique token identifier.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
