package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"go-notes-api/config"
	"go-notes-api/logger"
	"go-notes-api/model"
	"go-notes-api/repository"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors surfaced to handlers. Unknown email and wrong password
// collapse into ErrInvalidCredentials, and every token failure collapses
// into ErrInvalidToken, so responses never reveal which check failed.
// Infrastructure faults are never mapped onto these; they propagate as-is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrDuplicateEmail     = errors.New("email is already registered")
)

const bcryptCost = 14

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// AuthService orchestrates registration, login, refresh token rotation
// and token verification.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository

	secretKey            []byte
	accessTokenValidity  time.Duration
	refreshTokenValidity time.Duration

	// dummyHash is compared against when a login targets an unknown email,
	// so both branches pay the same bcrypt cost.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService. The JWT secret and validity
// windows are injected here once; the service never reads global config.
func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo:             userRepo,
		tokenRepo:            tokenRepo,
		secretKey:            []byte(jwtConfig.SecretKey),
		accessTokenValidity:  jwtConfig.AccessTokenValidity,
		refreshTokenValidity: jwtConfig.RefreshTokenValidity,
	}
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		dummy, err := bcrypt.GenerateFromPassword([]byte("equivalent-cost-dummy-password"), bcryptCost)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to generate dummy password hash")
		}
		s.dummyHash = string(dummy)
	})
	return s.dummyHash
}

// HashPassword produces a salted bcrypt hash of the raw password. The salt
// is generated per call and embedded in the output.
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash reports whether the raw password matches the stored
// hash. A malformed hash is simply a non-match.
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register hashes the password and persists a new user. The raw password
// is never stored. Registering an email that already exists returns
// ErrDuplicateEmail.
func (s *AuthService) Register(email, password string) (*model.User, error) {
	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    email,
		Password: hashedPassword,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("New user registered")
	return user, nil
}

// Login verifies the credentials and, on success, issues a fresh token
// pair and persists the hash of the raw refresh token.
func (s *AuthService) Login(email, password string) (*model.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn the same bcrypt cost as the found-user branch so timing
			// does not reveal whether the email exists.
			s.CheckPasswordHash(password, s.dummyPasswordHash())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The
// consumed record is deleted, so each refresh token is usable once.
func (s *AuthService) Refresh(rawRefreshToken string) (*model.TokenPair, error) {
	userID, err := s.VerifyRefreshToken(rawRefreshToken)
	if err != nil {
		return nil, err
	}

	hash := s.HashRefreshToken(rawRefreshToken)
	record, err := s.tokenRepo.GetByTokenHash(hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A signed token with no record is unverifiable, for example
			// one issued right before a crash lost the insert.
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if time.Now().After(record.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(record.TokenHash), []byte(hash)) != 1 || record.UserID != userID {
		return nil, ErrInvalidToken
	}

	if err := s.tokenRepo.DeleteByID(record.ID); err != nil {
		return nil, err
	}

	pair, err := s.issueTokenPair(userID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", userID).Info("Refresh token rotated")
	return pair, nil
}

// Logout drops every refresh token record for the user, ending all of
// their sessions.
func (s *AuthService) Logout(userID int) error {
	return s.tokenRepo.DeleteByUserID(userID)
}

// issueTokenPair mints both tokens for the user and persists the refresh
// token's hash alongside its expiry.
func (s *AuthService) issueTokenPair(userID int) (*model.TokenPair, error) {
	accessToken, err := s.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	record := &model.RefreshToken{
		UserID:    userID,
		TokenHash: s.HashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshTokenValidity),
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return nil, err
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateAccessToken creates a short-lived access token for the user.
func (s *AuthService) GenerateAccessToken(userID int) (string, error) {
	return s.generateToken(userID, model.TokenTypeAccess, s.accessTokenValidity)
}

// GenerateRefreshToken creates a long-lived refresh token for the user.
func (s *AuthService) GenerateRefreshToken(userID int) (string, error) {
	return s.generateToken(userID, model.TokenTypeRefresh, s.refreshTokenValidity)
}

func (s *AuthService) generateToken(userID int, tokenType string, validity time.Duration) (string, error) {
	now := time.Now()

	registered := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
	}
	if tokenType == model.TokenTypeRefresh {
		// A unique jti keeps concurrent logins from minting identical
		// refresh tokens, so every session gets its own stored record.
		registered.ID = uuid.NewString()
	}

	claims := &model.AppClaims{
		UserID:           userID,
		TokenType:        tokenType,
		RegisteredClaims: registered,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// VerifyAccessToken validates an access token and returns the subject
// user id. It accepts an optional "Bearer " prefix and fails closed.
func (s *AuthService) VerifyAccessToken(tokenString string) (int, error) {
	return s.verifyToken(tokenString, model.TokenTypeAccess)
}

// VerifyRefreshToken validates a refresh token and returns the subject
// user id. It accepts an optional "Bearer " prefix and fails closed.
func (s *AuthService) VerifyRefreshToken(tokenString string) (int, error) {
	return s.verifyToken(tokenString, model.TokenTypeRefresh)
}

// verifyToken checks signature, expiry and the type claim. Every failure
// mode maps to ErrInvalidToken so callers cannot distinguish them.
func (s *AuthService) verifyToken(tokenString, expectedType string) (int, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// HashRefreshToken computes the digest under which a raw refresh token is
// persisted. A fast unsalted hash is enough here: refresh tokens are
// high-entropy random strings, not user-chosen passwords.
func (s *AuthService) HashRefreshToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(digest[:])
}
