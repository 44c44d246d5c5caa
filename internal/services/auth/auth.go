package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type UsersStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	SetConfirmationCode(ctx context.Context, id int64, code string) error
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type AuthService struct {
	log          *slog.Logger
	storage      UsersStorage
	mailer       MailProvider
	taskExecutor TaskExecutor
	secret       string
	tokenTTL     time.Duration
}

func New(
	log *slog.Logger,
	storage UsersStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	secret string,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:          log,
		storage:      storage,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		secret:       secret,
		tokenTTL:     tokenTTL,
	}
}

func (a *AuthService) sendConfirmationCode(user *models.User) {
	const op = "auth.AuthService.sendConfirmationCode"
	log := a.log.With("op", op, "email", user.Email)
	log.Info("sending confirmation code email")
	err := a.mailer.Send(user.Email, "confirmation_code.html", map[string]any{
		"username":         user.Username,
		"confirmationCode": user.ConfirmationCode,
	})
	if err != nil {
		// Delivery is best-effort. The caller already got its 200, a user
		// who never receives the code simply signs up again.
		log.Error("error sending confirmation code email", "errMsg", err.Error())
	}
}

// Signup registers a user and dispatches the confirmation code out-of-band.
//
// Repeating a signup with the exact (username, email) pair of an existing
// user is idempotent: the stored row is returned as is, no new code is
// generated and no mail is sent. If only one of the two identifiers is
// already taken the request fails with ErrAlreadyRegistered.
func (a *AuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "username", username)
	existing, err := a.storage.GetByUsernameAndEmail(ctx, username, email)
	if err == nil {
		// Admin-created users have no stored code yet; issue one so they can
		// complete the token exchange. A repeat signup otherwise changes
		// nothing and sends nothing.
		if existing.ConfirmationCode == "" {
			code := uuid.NewString()
			if err := a.storage.SetConfirmationCode(ctx, existing.ID, code); err != nil {
				log.Error(err.Error())
				return nil, err
			}
			existing.ConfirmationCode = code
			a.taskExecutor.Add(func() {
				a.sendConfirmationCode(existing)
			})
			return existing, nil
		}
		log.Info("signup repeated for existing user")
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Error(err.Error())
		return nil, err
	}
	taken, err := a.storage.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if taken {
		log.Info("username or email already registered")
		return nil, ErrAlreadyRegistered
	}
	user, err := a.storage.Insert(ctx, &models.User{
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationCode: uuid.NewString(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrAlreadyRegistered
		}
		log.Error(err.Error())
		return nil, err
	}
	a.taskExecutor.Add(func() {
		a.sendConfirmationCode(user)
	})
	return user, nil
}

// Token exchanges a confirmation code for a signed access token. The stored
// code stays valid after the exchange.
func (a *AuthService) Token(ctx context.Context, username, confirmationCode string) (string, error) {
	const op = "auth.AuthService.Token"
	log := a.log.With("op", op, "username", username)
	user, err := a.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return "", ErrUserNotFound
		}
		log.Error(err.Error())
		return "", err
	}
	if user.ConfirmationCode == "" || user.ConfirmationCode != confirmationCode {
		log.Info("confirmation code mismatch")
		return "", ErrInvalidConfirmationCode
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(a.tokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(a.secret))
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	return signed, nil
}

// Authenticate resolves a bearer token to its user.
func (a *AuthService) Authenticate(ctx context.Context, tokenStr string) (*models.User, error) {
	const op = "auth.AuthService.Authenticate"
	log := a.log.With("op", op)
	token, err := jwt.Parse(
		tokenStr,
		func(token *jwt.Token) (any, error) { return []byte(a.secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	user, err := a.storage.GetByID(ctx, int64(uid))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("token references missing user", "uid", int64(uid))
			return nil, ErrInvalidToken
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}
