package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/config"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/dto"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/models"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6

	// Column sizes of models.User, and bcrypt's input limit in bytes.
	MaxUsernameLength = 64
	MaxEmailLength    = 255
	MaxPasswordBytes  = 72

	resetTokenTTL = time.Hour
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Mailer delivers password reset messages.
type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, rawToken string) error
}

type AuthService struct {
	db          *gorm.DB
	issuer      *token.Issuer
	mailer      Mailer
	emailDomain string
	now         func() time.Time
}

func NewAuthService(db *gorm.DB, issuer *token.Issuer, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		issuer:      issuer,
		mailer:      mailer,
		emailDomain: cfg.DerivedEmailDomain,
		now:         time.Now,
	}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, invalid("username and password are required")
	}
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return nil, invalid(fmt.Sprintf("username must be at least %d characters", MinUsernameLength))
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return nil, invalid(fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		email = s.deriveEmail(username)
	} else if !emailPattern.MatchString(email) {
		return nil, invalid("email is invalid")
	}
	if len(email) > MaxEmailLength {
		return nil, invalid("email is too long")
	}

	var existing models.User
	err := s.db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateUser
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: &passwordHash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResponse(&user)
}

// Verify checks a username/password pair. OAuth-only users never match.
func (s *AuthService) Verify(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, invalid("username and password are required")
	}

	user, err := s.Verify(req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

// OAuthLogin signs in a federated identity, linking it to an existing
// account with the same email or creating an OAuth-only account.
func (s *AuthService) OAuthLogin(provider, subject, email string) (*dto.AuthResponse, error) {
	if provider != models.OAuthProviderGoogle {
		return nil, invalid("unsupported oauth provider")
	}
	if subject == "" {
		return nil, invalid("missing oauth subject")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, invalid("oauth account has no usable email")
	}

	var user models.User
	err := s.db.Where("oauth_provider = ? AND oauth_id = ?", provider, subject).First(&user).Error
	if err == nil {
		return s.authResponse(&user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	err = s.db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if user.IsFederated() {
			// Same email already bound to another identity.
			return nil, ErrDuplicateUser
		}
		if err := s.db.Model(&user).Updates(map[string]interface{}{
			"oauth_provider": provider,
			"oauth_id":       subject,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to link oauth provider: %w", err)
		}
		return s.authResponse(&user)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	username, err := s.availableUsername(email)
	if err != nil {
		return nil, err
	}

	user = models.User{
		Username:      username,
		Email:         email,
		OAuthProvider: &provider,
		OAuthID:       &subject,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	return s.authResponse(&user)
}

// RequestPasswordReset stores a one-hour reset token for the account named by
// login (username or email) and mails it. Unknown and OAuth-only accounts are
// ignored without error so callers cannot discover which accounts exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return invalid("username or email is required")
	}

	var user models.User
	err := s.db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.HasPassword() {
		return nil
	}

	raw, err := generateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	expires := s.now().Add(resetTokenTTL)
	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"reset_password_token":   hashToken(raw),
		"reset_password_expires": expires,
	}).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, raw); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword replaces the password of the account holding rawToken. The
// token is cleared on success.
func (s *AuthService) ResetPassword(rawToken, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	if rawToken == "" {
		return ErrResetTokenInvalid
	}

	var user models.User
	err := s.db.Where("reset_password_token = ?", hashToken(rawToken)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResetTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to load reset token: %w", err)
	}
	if user.ResetPasswordExpires == nil || !s.now().Before(*user.ResetPasswordExpires) {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)
	user.PasswordHash = &passwordHash

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"password_hash":          passwordHash,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	signed, err := s.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: signed,
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
		},
	}, nil
}

func (s *AuthService) deriveEmail(username string) string {
	return strings.ToLower(username) + "@" + s.emailDomain
}

// availableUsername turns an email local part into a free username.
func (s *AuthService) availableUsername(email string) (string, error) {
	local := email[:strings.IndexByte(email, '@')]
	base := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			return r
		}
		return -1
	}, local)
	for utf8.RuneCountInString(base) < MinUsernameLength {
		base += "_"
	}
	// Leave room for a numeric suffix.
	if r := []rune(base); len(r) > MaxUsernameLength-3 {
		base = string(r[:MaxUsernameLength-3])
	}

	candidate := base
	for i := 2; i < 1000; i++ {
		var count int64
		if err := s.db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
	return "", ErrDuplicateUser
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		return invalid(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}

func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
