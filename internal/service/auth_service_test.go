package service

import (
	"context"
	"testing"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	createFn     func(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	getByIDFn    func(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.getByEmailFn(ctx, email)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return f.getByIDFn(ctx, id)
}

const testJWTSecret = "test-secret-key"

func TestRegister_NewAccountsAreRegularUsers(t *testing.T) {
	var created *domain.User
	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
		createFn: func(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
			created = user
			return primitive.NewObjectID(), nil
		},
	}
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	user, err := svc.Register(context.Background(), "Alex", "alex@example.com", "correct horse")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")
	require.NotNil(t, created)
	assert.NotEqual(t, "correct horse", created.PasswordHash, "password must be stored hashed")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{Email: email}, nil
		},
	}
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	_, err := svc.Register(context.Background(), "Alex", "alex@example.com", "pw12345678")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_DuplicateCaughtByIndex(t *testing.T) {
	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
		createFn: func(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
			return primitive.NilObjectID, repository.ErrConflict
		},
	}
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	_, err := svc.Register(context.Background(), "Alex", "alex@example.com", "pw12345678")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_IssuesParsableToken(t *testing.T) {
	userID := primitive.NewObjectID()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{
				ID:           userID,
				Email:        email,
				PasswordHash: string(hash),
				Role:         domain.RoleUser,
			}, nil
		},
	}
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	token, user, err := svc.Login(context.Background(), "alex@example.com", "pw12345678")

	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, userID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID, "token must carry a unique jti")
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw12345678"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	_, user, err := svc.Login(context.Background(), "alex@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, user)
}

func TestLogin_UnknownEmailMapsToAuthFailure(t *testing.T) {
	repo := &fakeUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "pw12345678")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
