// file: service/auth_service_test.go

package service

import (
	"database/sql"
	"errors"
	"go-notes-api/config"
	"go-notes-api/model"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) Create(token *model.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *mockTokenRepo) GetByTokenHash(tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *mockTokenRepo) DeleteByID(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockTokenRepo) DeleteByUserID(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:            "test-secret-key",
		AccessTokenValidity:  15 * time.Minute,
		RefreshTokenValidity: 30 * 24 * time.Hour,
	}
}

// TestAuthService_HashAndCheckPassword ensures that password hashing and verification work correctly.
func TestAuthService_HashAndCheckPassword(t *testing.T) {
	// HashPassword and CheckPasswordHash don't touch any repository,
	// so nil repositories are fine for this test.
	authService := NewAuthService(nil, nil, testJWTConfig())
	password := "mySecretPassword123"

	hashedPassword, err := authService.HashPassword(password)
	assert.NoError(t, err)
	assert.NotEqual(t, password, hashedPassword)

	assert.True(t, authService.CheckPasswordHash(password, hashedPassword))
	assert.False(t, authService.CheckPasswordHash("notMyPassword", hashedPassword))

	// A malformed hash is a non-match, never a panic.
	assert.False(t, authService.CheckPasswordHash(password, "not-a-bcrypt-hash"))
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	authService := NewAuthService(nil, nil, testJWTConfig())
	userID := 42

	accessToken, err := authService.GenerateAccessToken(userID)
	assert.NoError(t, err)
	refreshToken, err := authService.GenerateRefreshToken(userID)
	assert.NoError(t, err)

	subject, err := authService.VerifyAccessToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, userID, subject)

	subject, err = authService.VerifyRefreshToken(refreshToken)
	assert.NoError(t, err)
	assert.Equal(t, userID, subject)

	// Tokens arriving with a transport prefix verify the same way.
	subject, err = authService.VerifyAccessToken("Bearer " + accessToken)
	assert.NoError(t, err)
	assert.Equal(t, userID, subject)
}

func TestAuthService_TokenTypeConfusion(t *testing.T) {
	authService := NewAuthService(nil, nil, testJWTConfig())

	accessToken, err := authService.GenerateAccessToken(1)
	assert.NoError(t, err)
	refreshToken, err := authService.GenerateRefreshToken(1)
	assert.NoError(t, err)

	// An access token must never pass where a refresh token is required,
	// and vice versa.
	_, err = authService.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = authService.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenValidity = -1 * time.Minute
	cfg.RefreshTokenValidity = -1 * time.Minute
	authService := NewAuthService(nil, nil, cfg)

	accessToken, err := authService.GenerateAccessToken(1)
	assert.NoError(t, err)
	refreshToken, err := authService.GenerateRefreshToken(1)
	assert.NoError(t, err)

	_, err = authService.VerifyAccessToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = authService.VerifyRefreshToken(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_WrongSecret(t *testing.T) {
	authService := NewAuthService(nil, nil, testJWTConfig())

	otherCfg := testJWTConfig()
	otherCfg.SecretKey = "a-different-secret"
	otherService := NewAuthService(nil, nil, otherCfg)

	token, err := otherService.GenerateAccessToken(1)
	assert.NoError(t, err)

	_, err = authService.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_VerifyGarbage(t *testing.T) {
	authService := NewAuthService(nil, nil, testJWTConfig())

	for _, token := range []string{"", "garbage", "a.b.c", "Bearer "} {
		_, err := authService.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockUsers.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			// The stored password must be a hash of the raw one, never the raw one.
			return u.Email == "a@x.com" && u.Password != "password123"
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = 7
		}).Return(nil).Once()

		authService := NewAuthService(mockUsers, nil, testJWTConfig())
		user, err := authService.Register("a@x.com", "password123")

		assert.NoError(t, err)
		assert.Equal(t, 7, user.ID)
		assert.True(t, authService.CheckPasswordHash("password123", user.Password))
		mockUsers.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockUsers.On("CreateUser", mock.Anything).Return(&pq.Error{Code: "23505"}).Once()

		authService := NewAuthService(mockUsers, nil, testJWTConfig())
		_, err := authService.Register("a@x.com", "password123")

		assert.ErrorIs(t, err, ErrDuplicateEmail)
		mockUsers.AssertExpectations(t)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		expectedErr := errors.New("connection refused")
		mockUsers.On("CreateUser", mock.Anything).Return(expectedErr).Once()

		authService := NewAuthService(mockUsers, nil, testJWTConfig())
		_, err := authService.Register("a@x.com", "password123")

		assert.ErrorIs(t, err, expectedErr)
		assert.NotErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		authService := NewAuthService(mockUsers, nil, testJWTConfig())

		storedHash, err := authService.HashPassword("correct-password")
		assert.NoError(t, err)

		mockUsers.On("GetUserByEmail", "nobody@x.com").Return(nil, sql.ErrNoRows).Once()
		mockUsers.On("GetUserByEmail", "a@x.com").Return(&model.User{
			ID:       1,
			Email:    "a@x.com",
			Password: storedHash,
		}, nil).Once()

		_, errUnknown := authService.Login("nobody@x.com", "whatever")
		_, errWrongPw := authService.Login("a@x.com", "wrong-password")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
		assert.Equal(t, errUnknown, errWrongPw)
	})

	t.Run("success issues a verifiable pair and persists the hash", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens, testJWTConfig())

		storedHash, err := authService.HashPassword("correct-password")
		assert.NoError(t, err)

		mockUsers.On("GetUserByEmail", "a@x.com").Return(&model.User{
			ID:       1,
			Email:    "a@x.com",
			Password: storedHash,
		}, nil).Once()

		var createdRecord *model.RefreshToken
		mockTokens.On("Create", mock.AnythingOfType("*model.RefreshToken")).Run(func(args mock.Arguments) {
			createdRecord = args.Get(0).(*model.RefreshToken)
		}).Return(nil).Once()

		pair, err := authService.Login("a@x.com", "correct-password")
		assert.NoError(t, err)

		// Both tokens verify to the same subject under their own type.
		accessSubject, err := authService.VerifyAccessToken(pair.AccessToken)
		assert.NoError(t, err)
		refreshSubject, err := authService.VerifyRefreshToken(pair.RefreshToken)
		assert.NoError(t, err)
		assert.Equal(t, 1, accessSubject)
		assert.Equal(t, 1, refreshSubject)

		// The persisted record carries a digest of the raw token, not the token.
		assert.NotNil(t, createdRecord)
		assert.Equal(t, 1, createdRecord.UserID)
		assert.Equal(t, authService.HashRefreshToken(pair.RefreshToken), createdRecord.TokenHash)
		assert.NotEqual(t, pair.RefreshToken, createdRecord.TokenHash)
		assert.True(t, createdRecord.ExpiresAt.After(time.Now()))

		mockUsers.AssertExpectations(t)
		mockTokens.AssertExpectations(t)
	})

	t.Run("infrastructure error is not invalid credentials", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		expectedErr := errors.New("connection refused")
		mockUsers.On("GetUserByEmail", "a@x.com").Return(nil, expectedErr).Once()

		authService := NewAuthService(mockUsers, nil, testJWTConfig())
		_, err := authService.Login("a@x.com", "password123")

		assert.ErrorIs(t, err, expectedErr)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_TwoLoginsProduceIndependentRecords(t *testing.T) {
	mockUsers := new(mockUserRepo)
	mockTokens := new(mockTokenRepo)
	authService := NewAuthService(mockUsers, mockTokens, testJWTConfig())

	storedHash, err := authService.HashPassword("correct-password")
	assert.NoError(t, err)

	mockUsers.On("GetUserByEmail", "a@x.com").Return(&model.User{
		ID:       1,
		Email:    "a@x.com",
		Password: storedHash,
	}, nil).Twice()

	records := []*model.RefreshToken{}
	mockTokens.On("Create", mock.AnythingOfType("*model.RefreshToken")).Run(func(args mock.Arguments) {
		records = append(records, args.Get(0).(*model.RefreshToken))
	}).Return(nil).Twice()

	pair1, err := authService.Login("a@x.com", "correct-password")
	assert.NoError(t, err)
	pair2, err := authService.Login("a@x.com", "correct-password")
	assert.NoError(t, err)

	// Both sessions are simultaneously valid and independent.
	assert.NotEqual(t, pair1.RefreshToken, pair2.RefreshToken)
	assert.Len(t, records, 2)
	assert.NotEqual(t, records[0].TokenHash, records[1].TokenHash)
	for _, record := range records {
		assert.Equal(t, 1, record.UserID)
		assert.True(t, record.ExpiresAt.After(time.Now()))
	}
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("valid token rotates the record", func(t *testing.T) {
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(nil, mockTokens, testJWTConfig())

		refreshToken, err := authService.GenerateRefreshToken(1)
		assert.NoError(t, err)
		hash := authService.HashRefreshToken(refreshToken)

		mockTokens.On("GetByTokenHash", hash).Return(&model.RefreshToken{
			ID:        5,
			UserID:    1,
			TokenHash: hash,
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}, nil).Once()
		mockTokens.On("DeleteByID", 5).Return(nil).Once()
		mockTokens.On("Create", mock.AnythingOfType("*model.RefreshToken")).Return(nil).Once()

		pair, err := authService.Refresh(refreshToken)
		assert.NoError(t, err)
		assert.NotEqual(t, refreshToken, pair.RefreshToken)

		subject, err := authService.VerifyAccessToken(pair.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, 1, subject)

		mockTokens.AssertExpectations(t)
	})

	t.Run("expired record is rejected", func(t *testing.T) {
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(nil, mockTokens, testJWTConfig())

		refreshToken, err := authService.GenerateRefreshToken(1)
		assert.NoError(t, err)
		hash := authService.HashRefreshToken(refreshToken)

		mockTokens.On("GetByTokenHash", hash).Return(&model.RefreshToken{
			ID:        5,
			UserID:    1,
			TokenHash: hash,
			ExpiresAt: time.Now().Add(-1 * time.Hour),
		}, nil).Once()

		_, err = authService.Refresh(refreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
		mockTokens.AssertNotCalled(t, "DeleteByID", mock.Anything)
	})

	t.Run("token without a record is rejected", func(t *testing.T) {
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(nil, mockTokens, testJWTConfig())

		// A validly signed token whose record was never persisted, e.g.
		// lost between issuance and insert.
		refreshToken, err := authService.GenerateRefreshToken(1)
		assert.NoError(t, err)

		mockTokens.On("GetByTokenHash", mock.Anything).Return(nil, sql.ErrNoRows).Once()

		_, err = authService.Refresh(refreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token is rejected without touching the store", func(t *testing.T) {
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(nil, mockTokens, testJWTConfig())

		accessToken, err := authService.GenerateAccessToken(1)
		assert.NoError(t, err)

		_, err = authService.Refresh(accessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
		mockTokens.AssertNotCalled(t, "GetByTokenHash", mock.Anything)
	})

	t.Run("store error propagates", func(t *testing.T) {
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(nil, mockTokens, testJWTConfig())

		refreshToken, err := authService.GenerateRefreshToken(1)
		assert.NoError(t, err)

		expectedErr := errors.New("connection refused")
		mockTokens.On("GetByTokenHash", mock.Anything).Return(nil, expectedErr).Once()

		_, err = authService.Refresh(refreshToken)
		assert.ErrorIs(t, err, expectedErr)
		assert.NotErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	mockTokens := new(mockTokenRepo)
	mockTokens.On("DeleteByUserID", 1).Return(nil).Once()

	authService := NewAuthService(nil, mockTokens, testJWTConfig())
	err := authService.Logout(1)

	assert.NoError(t, err)
	mockTokens.AssertExpectations(t)
}

func TestAuthService_HashRefreshToken(t *testing.T) {
	authService := NewAuthService(nil, nil, testJWTConfig())

	hash1 := authService.HashRefreshToken("token-one")
	hash2 := authService.HashRefreshToken("token-two")

	assert.NotEqual(t, "token-one", hash1)
	assert.NotEqual(t, hash1, hash2)
	// Deterministic, so a presented raw token can be matched to its record.
	assert.Equal(t, hash1, authService.HashRefreshToken("token-one"))
}
