package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reabastece-api/apperrors"
	"reabastece-api/models"
	"reabastece-api/utils"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	log       *zap.Logger
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, jwtSecret string, log *zap.Logger) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret), log: log, now: time.Now}
}

// Register creates an account. The email is stored lower-cased.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	v := apperrors.NewValidationError()
	if name == "" {
		v.Add("name", "Name is required")
	}
	if !utils.IsValidEmail(email) {
		v.Add("email", "Email is invalid")
	}
	if !utils.IsValidPassword(password) {
		v.Add("password", "Password must have at least 8 characters with letters and digits")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.NewPersistenceError("users.count", err)
	}
	if count > 0 {
		return nil, apperrors.NewConflictError("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		s.log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewPersistenceError("users.create", err)
	}
	return user, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}
	if err != nil {
		return "", nil, apperrors.NewPersistenceError("users.find", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, apperrors.NewInternalError(err)
	}
	return token, &user, nil
}

func (s *AuthService) FindUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("users.find", err)
	}
	return &user, nil
}

func (s *AuthService) GenerateToken(userID, email string) (string, error) {
	issuedAt := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken validates a bearer token and returns the user id it was issued to.
func (s *AuthService) ParseToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperrors.ErrUnauthenticated
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", fmt.Errorf("%w: token has no user", apperrors.ErrUnauthenticated)
	}
	return userID, nil
}
