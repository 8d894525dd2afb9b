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

	"github.com/sitetrack/sitetrack-backend/internal/authz"
	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/requestdata"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, usernameOrEmail, password string) (string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context, refreshToken string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetMe(ctx context.Context) (*types.User, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	sessionRepo repos.SessionRepo
	jwtSecret   string
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	sessionRepo repos.SessionRepo,
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:          db,
		log:         baseLog.With("service", "AuthService"),
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   jwtSecret,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

func (s *authService) RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", pkgerr.ErrInvalidArgument)
	}
	if exists, err := s.userRepo.UsernameExists(ctx, nil, username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if exists {
		return nil, fmt.Errorf("%w: username already registered", pkgerr.ErrConflict)
	}
	if exists, err := s.userRepo.EmailExists(ctx, nil, email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if exists {
		return nil, fmt.Errorf("%w: email already registered", pkgerr.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Self-registration never grants privileges. Roles are raised by an
	// admin through the user update path.
	user := &types.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         authz.RoleViewer,
		IsActive:     true,
	}
	if _, err := s.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("User registered", "username", user.Username, "role", user.Role)
	return user, nil
}

func (s *authService) LoginUser(ctx context.Context, usernameOrEmail, password string) (string, string, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(ctx, nil, strings.TrimSpace(usernameOrEmail))
	if err != nil {
		return "", "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return "", "", fmt.Errorf("%w: incorrect username or password", pkgerr.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", fmt.Errorf("%w: incorrect username or password", pkgerr.ErrUnauthorized)
	}
	if !user.IsActive {
		return "", "", fmt.Errorf("%w: user account is deactivated", pkgerr.ErrForbidden)
	}

	var accessToken, refreshToken string
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accessToken, err = s.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		refreshToken = uuid.New().String()
		session := &types.Session{
			ID:           uuid.New(),
			UserID:       user.ID,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(s.refreshTTL),
		}
		if _, err := s.sessionRepo.Create(ctx, tx, []*types.Session{session}); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		now := time.Now()
		user.LastLogin = &now
		if err := s.userRepo.Save(ctx, tx, user); err != nil {
			return fmt.Errorf("record last login: %w", err)
		}
		return nil
	}); err != nil {
		return "", "", err
	}

	s.log.Info("User logged in", "username", user.Username)
	return accessToken, refreshToken, nil
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.ExpiresAt.Before(time.Now()) {
		return "", "", fmt.Errorf("%w: invalid refresh token", pkgerr.ErrUnauthorized)
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{session.UserID})
	if err != nil {
		return "", "", fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || !users[0].IsActive {
		return "", "", fmt.Errorf("%w: user not found or inactive", pkgerr.ErrUnauthorized)
	}
	user := users[0]

	var accessToken, newRefreshToken string
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Rotate: the old grant dies with the refresh.
		if err := s.sessionRepo.Delete(ctx, tx, session.ID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		accessToken, err = s.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("generate access token: %w", err)
		}
		newRefreshToken = uuid.New().String()
		next := &types.Session{
			ID:           uuid.New(),
			UserID:       user.ID,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(s.refreshTTL),
		}
		if _, err := s.sessionRepo.Create(ctx, tx, []*types.Session{next}); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	}); err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (s *authService) LogoutUser(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, nil, refreshToken)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil
	}
	return s.sessionRepo.Delete(ctx, nil, session.ID)
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("%w: invalid token", pkgerr.ErrUnauthorized)
	}
	if typ, _ := claims["type"].(string); typ != "access" {
		return ctx, fmt.Errorf("%w: invalid token type", pkgerr.ErrUnauthorized)
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid token payload", pkgerr.ErrUnauthorized)
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return ctx, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || !users[0].IsActive {
		return ctx, fmt.Errorf("%w: user not found or inactive", pkgerr.ErrUnauthorized)
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      users[0].ID,
		Role:        users[0].Role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (s *authService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: not authenticated", pkgerr.ErrUnauthorized)
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user", pkgerr.ErrNotFound)
	}
	return users[0], nil
}

func (s *authService) GetAccessTTL() time.Duration {
	return s.accessTTL
}

func (s *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
