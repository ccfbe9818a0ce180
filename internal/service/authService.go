package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"filesharing-service/internal/errs"
	"filesharing-service/internal/model/user"
	"filesharing-service/internal/notifier"
	"filesharing-service/internal/repository/tokenRepo"
	"filesharing-service/internal/repository/userRepo"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	refreshTokenExpireTime = 7 * 24 * time.Hour
	accessTokenExpireTime  = 3 * time.Hour
	resetTokenExpireTime   = 30 * time.Minute
)

type AuthService struct {
	userRepo     *userRepo.UserRepo
	tokenRepo    *tokenRepo.TokenRepo
	notifier     notifier.Notifier
	jwtSecretKey string
}

func NewAuthService(userRepo *userRepo.UserRepo, tokenRepo *tokenRepo.TokenRepo, notifier notifier.Notifier, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		notifier:     notifier,
		jwtSecretKey: jwtSecret,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password, fullName string) error {
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", errs.ErrInvalidInput)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", errs.ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.userRepo.Create(ctx, username, email, string(hashedPassword))
	if err != nil {
		return err
	}
	if fullName != "" {
		if err := s.userRepo.UpdateProfile(ctx, userID, fullName, ""); err != nil {
			return err
		}
	}

	s.notifier.NotifyWelcome(email, fullName)
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", errs.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", errs.ErrUnauthorized
	}

	accessToken, err := s.generateJWT(u.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.generateRefreshToken(ctx, u.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

func (s *AuthService) generateJWT(userID uint32) (string, error) {
	payload := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenExpireTime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return token.SignedString([]byte(s.jwtSecretKey))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, userID uint32) (string, error) {
	refreshToken := uuid.NewString()
	if err := s.tokenRepo.SaveRefreshToken(ctx, userID, refreshToken, refreshTokenExpireTime); err != nil {
		return "", err
	}
	return refreshToken, nil
}

// GetUIDByToken validates an access token and returns the user id it was
// issued to. Any failure (bad signature, expiry, blacklist) reports invalid;
// there is no fallback identity.
func (s *AuthService) GetUIDByToken(ctx context.Context, token string) (uint32, bool) {
	blacklisted, err := s.tokenRepo.IsAccessTokenBlacklisted(ctx, token)
	if err != nil || blacklisted {
		return 0, false
	}

	payload := &jwt.RegisteredClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, payload, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil || !parsedToken.Valid {
		return 0, false
	}

	uid, err := strconv.ParseUint(payload.Subject, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(uid), true
}

func (s *AuthService) Logout(ctx context.Context, userID uint32, accessToken string) error {
	if err := s.tokenRepo.DeleteRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	payload := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(accessToken, payload, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecretKey), nil
	}); err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if err := s.tokenRepo.BlacklistAccessToken(ctx, accessToken, payload.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (s *AuthService) RefreshToken(ctx context.Context, userID uint32, oldRefreshToken string) (string, string, error) {
	valid, err := s.tokenRepo.ValidateRefreshToken(ctx, userID, oldRefreshToken)
	if err != nil || !valid {
		return "", "", errs.ErrUnauthorized
	}

	newAccessToken, err := s.generateJWT(userID)
	if err != nil {
		return "", "", err
	}
	newRefreshToken, err := s.generateRefreshToken(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return newAccessToken, newRefreshToken, nil
}

// RequestPasswordReset issues an opaque one-shot token with a TTL and mails
// it to the address. An unknown address is reported identically to a known
// one so the endpoint does not leak which emails have accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.tokenRepo.SaveResetToken(ctx, token, u.ID, resetTokenExpireTime); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	s.notifier.NotifyPasswordReset(email, token)
	return nil
}

// ResetPassword redeems a reset token and replaces the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: empty password", errs.ErrInvalidInput)
	}
	userID, ok, err := s.tokenRepo.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: invalid or expired reset token", errs.ErrUnauthorized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hashed))
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint32) (*user.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint32, fullName, avatarURL string) error {
	return s.userRepo.UpdateProfile(ctx, userID, fullName, avatarURL)
}

// UpdatePassword changes the password after re-checking the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uint32, currentPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: empty password", errs.ErrInvalidInput)
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return errs.ErrUnauthorized
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hashed))
}
