package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tdobson/snowy-sub000/internal/data/repos"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// Identity is the authenticated caller extracted from an access token.
type Identity struct {
	UserID     uuid.UUID
	InstanceID uuid.UUID
}

type AuthService interface {
	RegisterUser(ctx context.Context, instanceID uuid.UUID, user *types.User) error
	LoginUser(ctx context.Context, instanceID uuid.UUID, email, password string) (string, *types.User, error)
	ResetPassword(ctx context.Context, instanceID, userID uuid.UUID, currentPassword, newPassword string) error
	ParseToken(tokenString string) (*Identity, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, instanceID uuid.UUID, user *types.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" || user.Password == "" {
		return fmt.Errorf("%w: email and password are required", pkgerrors.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, eErr := as.userRepo.EmailExists(ctx, tx, instanceID, user.Email)
		if eErr != nil {
			return fmt.Errorf("failed to check existing email: %w", eErr)
		}
		if exists {
			return fmt.Errorf("%w: email already registered", pkgerrors.ErrInvalidArgument)
		}
		user.UserID = uuid.New()
		user.InstanceID = instanceID
		user.Password = string(hash)
		if _, cErr := as.userRepo.Create(ctx, tx, []*types.User{user}); cErr != nil {
			return fmt.Errorf("failed to create user: %w", cErr)
		}
		return nil
	})
}

func (as *authService) LoginUser(ctx context.Context, instanceID uuid.UUID, email, password string) (string, *types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", pkgerrors.ErrInvalidArgument)
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, instanceID, email)
	if err != nil {
		if err == pkgerrors.ErrNotFound {
			return "", nil, pkgerrors.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if cErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cErr != nil {
		return "", nil, pkgerrors.ErrUnauthorized
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (as *authService) ResetPassword(ctx context.Context, instanceID, userID uuid.UUID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", pkgerrors.ErrInvalidArgument)
	}

	user, err := as.userRepo.GetByID(ctx, nil, instanceID, userID)
	if err != nil {
		return err
	}
	if cErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); cErr != nil {
		return pkgerrors.ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return as.userRepo.UpdatePassword(ctx, nil, instanceID, userID, string(hash))
}

func (as *authService) ParseToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, pkgerrors.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, pkgerrors.ErrUnauthorized
	}
	userID, err := uuid.Parse(fmt.Sprint(claims["user_id"]))
	if err != nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	instanceID, err := uuid.Parse(fmt.Sprint(claims["instance_id"]))
	if err != nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	return &Identity{UserID: userID, InstanceID: instanceID}, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":     user.UserID.String(),
		"instance_id": user.InstanceID.String(),
		"iat":         now.Unix(),
		"exp":         now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
