package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type Claims struct {
	UserID int `json:"userId"`
	jwt.RegisteredClaims
}

type RegisterOwnerInput struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	RestaurantName    string `json:"restaurant_name"`
	RestaurantAddress string `json:"restaurant_address"`
}

// Me describes the authenticated caller.
type Me struct {
	User         domain.User `json:"user"`
	Role         string      `json:"role"`
	RestaurantID *int        `json:"restaurant_id"`
}

type authStore interface {
	UserRepository
	RestaurantNameExists(ctx context.Context, name string) (bool, error)
}

// RegisterHook runs after a user and their optional first restaurant have
// been stored. rest is nil when no restaurant was requested.
type RegisterHook func(ctx context.Context, user *domain.User, rest *domain.Restaurant) error

type AuthService struct {
	repo          authStore
	secret        []byte
	ttl           time.Duration
	log           *logger.Logger
	afterRegister RegisterHook
	now           func() time.Time
}

func NewAuthService(repo authStore, secret string, ttl time.Duration, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Discard()
	}
	s := &AuthService{
		repo:   repo,
		secret: []byte(secret),
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
	s.afterRegister = s.createOwnerProfile
	return s
}

// WithRegisterHook replaces the post-registration step. The default creates
// the owner profile.
func (s *AuthService) WithRegisterHook(hook RegisterHook) *AuthService {
	s.afterRegister = hook
	return s
}

func (s *AuthService) createOwnerProfile(ctx context.Context, user *domain.User, rest *domain.Restaurant) error {
	profile := &domain.Profile{UserID: user.ID, Role: domain.RoleOwner}
	if rest != nil {
		id := rest.ID
		profile.RestaurantID = &id
	}
	return s.repo.CreateProfile(ctx, profile)
}

// RegisterOwner signs up a restaurant owner, creating the first restaurant
// when a name is given.
func (s *AuthService) RegisterOwner(ctx context.Context, in RegisterOwnerInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.RestaurantName = strings.TrimSpace(in.RestaurantName)

	if err := validateAccount(in.Username, in.Email, in.Password); err != nil {
		return nil, err
	}
	if err := checkAccountUnique(ctx, s.repo, in.Username, in.Email); err != nil {
		return nil, err
	}

	var rest *domain.Restaurant
	if in.RestaurantName != "" {
		exists, err := s.repo.RestaurantNameExists(ctx, in.RestaurantName)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.Duplicate("restaurant_name", "restaurant name already exists, please choose a different restaurant name")
		}
		rest = &domain.Restaurant{Name: in.RestaurantName, Address: in.RestaurantAddress}
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Username: in.Username, Email: in.Email, PasswordHash: hash}

	if err := s.repo.CreateUserWithRestaurant(ctx, user, rest); err != nil {
		return nil, err
	}

	if err := s.afterRegister(ctx, user, rest); err != nil {
		if delErr := s.repo.DeleteUser(ctx, user.ID); delErr != nil {
			s.log.Error("register_owner", logger.RequestID(ctx), "failed to roll back user", delErr,
				slog.Int("user_id", user.ID))
		}
		return nil, fmt.Errorf("post-registration hook: %w", err)
	}

	s.log.Info("register_owner", logger.RequestID(ctx), "owner registered",
		slog.Int("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.Unauthenticated("invalid username or password")
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.Unauthenticated("invalid username or password")
	}

	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Authenticate resolves a bearer token to a principal. Users without a
// profile become Other.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return AnonymousPrincipal(), domain.Unauthenticated("invalid token")
	}

	user, err := s.repo.GetUser(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return AnonymousPrincipal(), domain.Unauthenticated("user no longer exists")
	}
	if err != nil {
		return AnonymousPrincipal(), err
	}

	profile, err := s.profile(ctx, user.ID)
	if err != nil {
		return AnonymousPrincipal(), err
	}
	return PrincipalFromProfile(user.ID, profile), nil
}

func (s *AuthService) Me(ctx context.Context, p Principal) (*Me, error) {
	if p.Kind == Anonymous {
		return nil, domain.Unauthenticated("authentication required")
	}
	user, err := s.repo.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	me := &Me{User: *user, Role: p.Kind.String()}
	if profile != nil {
		me.RestaurantID = profile.RestaurantID
	}
	return me, nil
}

func (s *AuthService) profile(ctx context.Context, userID int) (*domain.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return profile, err
}

type CreateStaffInput struct {
	RestaurantID int    `json:"restaurant_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

type staffStore interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateStaff(ctx context.Context, user *domain.User, restaurantID int) (*domain.StaffMember, error)
	GetStaff(ctx context.Context, profileID int) (*domain.StaffMember, error)
	ListStaff(ctx context.Context, scope domain.Scope) ([]domain.StaffMember, error)
	DeleteStaff(ctx context.Context, profileID int) error
}

type StaffService struct {
	repo    staffStore
	gateway *Gateway
	log     *logger.Logger
}

func NewStaffService(repo staffStore, gateway *Gateway, log *logger.Logger) *StaffService {
	if log == nil {
		log = logger.Discard()
	}
	return &StaffService{repo: repo, gateway: gateway, log: log}
}

// Create adds a staff account to a restaurant the caller owns. The user and
// the staff profile are stored together.
func (s *StaffService) Create(ctx context.Context, p Principal, in CreateStaffInput) (*domain.StaffMember, error) {
	if _, err := s.gateway.CheckPayload(ctx, p, ActionManageStaff, "restaurant_id", in.RestaurantID); err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := requireAccountFields(in.Username, in.Email, in.Password); err != nil {
		return nil, err
	}
	if err := checkAccountUnique(ctx, s.repo, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	member, err := s.repo.CreateStaff(ctx, &domain.User{Username: in.Username, Email: in.Email, PasswordHash: hash}, in.RestaurantID)
	if err != nil {
		return nil, err
	}

	s.log.Info("create_staff", logger.RequestID(ctx), "staff member created",
		slog.Int("restaurant_id", in.RestaurantID), slog.Int("user_id", member.UserID))
	return member, nil
}

func (s *StaffService) List(ctx context.Context, p Principal, restaurantID int) ([]domain.StaffMember, error) {
	scope, err := ScopeFor(p, ActionManageStaff, restaurantID)
	if err != nil {
		return nil, err
	}
	if scope.None {
		return []domain.StaffMember{}, nil
	}
	return s.repo.ListStaff(ctx, scope)
}

// Delete removes the staff profile and its user account.
func (s *StaffService) Delete(ctx context.Context, p Principal, id int) error {
	if p.Kind == Anonymous {
		return domain.Unauthenticated("authentication required")
	}
	member, err := s.repo.GetStaff(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.gateway.Check(ctx, p, ActionManageStaff, member.RestaurantID); err != nil {
		return err
	}
	if err := s.repo.DeleteStaff(ctx, id); err != nil {
		return err
	}
	s.log.Info("delete_staff", logger.RequestID(ctx), "staff member deleted",
		slog.Int("restaurant_id", member.RestaurantID), slog.Int("user_id", member.UserID))
	return nil
}

func requireAccountFields(username, email, password string) error {
	if username == "" {
		return domain.Validation("username", "this field is required")
	}
	if email == "" {
		return domain.Validation("email", "this field is required")
	}
	if password == "" {
		return domain.Validation("password", "this field is required")
	}
	return nil
}

// validateAccount applies the sign-up form rules on top of the presence
// checks. Staff accounts only need the fields to be present.
func validateAccount(username, email, password string) error {
	if err := requireAccountFields(username, email, password); err != nil {
		return err
	}
	if !strings.Contains(email, "@") {
		return domain.Validation("email", "enter a valid email address")
	}
	if len(password) < minPasswordLength {
		return domain.Validation("password", "password must be at least %d characters", minPasswordLength)
	}
	return nil
}

type accountLookup interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

func checkAccountUnique(ctx context.Context, repo accountLookup, username, email string) error {
	exists, err := repo.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return domain.Duplicate("username", "username already exists, please choose a different username")
	}
	exists, err = repo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return domain.Duplicate("email", "a user with that email already exists")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
