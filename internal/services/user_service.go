package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Zaid3480/Real-Estate/internal/auth"
	"github.com/Zaid3480/Real-Estate/internal/config"
	"github.com/Zaid3480/Real-Estate/internal/db"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/tasks"
)

const usersCollection = "users"

// Sentinel errors surfaced to handlers, which map them to HTTP codes.
var (
	ErrEmailExists     = errors.New("email already registered")
	ErrMobileExists    = errors.New("mobile number already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrNotVerified     = errors.New("account not verified")
	ErrAccountDisabled = errors.New("account deactivated")
	ErrOTPExpired      = errors.New("otp expired")
	ErrOTPMismatch     = errors.New("invalid otp")
	ErrWeakPassword    = fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	FullName string
	MobileNo string
	Email    string
	Address  string
	Password string
	Role     models.Role
}

// EditUserInput carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type EditUserInput struct {
	FullName                   *string
	MobileNo                   *string
	Email                      *string
	Address                    *string
	IsSubscribedForCommercial  *bool
	IsSubscribedForResidential *bool
}

// UserCounts is the admin dashboard tally.
type UserCounts struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalBrokers int64 `json:"totalBrokers"`
}

// IUserService defines account operations.
type IUserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, mobileNo, password string) (*models.User, string, error)
	VerifyOTP(ctx context.Context, mobileNo, otp string) (*models.User, error)
	ResendOTP(ctx context.Context, mobileNo string) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByMobile(ctx context.Context, mobileNo string) (*models.User, error)
	GetAll(ctx context.Context, role models.Role) ([]models.User, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error)
	Edit(ctx context.Context, id primitive.ObjectID, in EditUserInput) (*models.User, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	TotalCounts(ctx context.Context) (*UserCounts, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error)
}

type userService struct {
	db         *mongo.Database
	cfg        *config.Config
	taskClient *asynq.Client
}

// NewUserService creates the account service. taskClient may be nil in
// tests; OTP emails are then skipped.
func NewUserService(database *mongo.Database, cfg *config.Config, taskClient *asynq.Client) IUserService {
	return &userService{db: database, cfg: cfg, taskClient: taskClient}
}

// Register creates an unverified account, stamps a fresh OTP on it and
// enqueues the verification email.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if len(in.Password) < auth.MinPasswordLength {
		return nil, ErrWeakPassword
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", in.Role)
	}

	collection := s.db.Collection(usersCollection)

	count, err := collection.CountDocuments(ctx, bson.M{"email": in.Email, "isDeleted": false})
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailExists
	}
	count, err = collection.CountDocuments(ctx, bson.M{"mobileNo": in.MobileNo, "isDeleted": false})
	if err != nil {
		return nil, fmt.Errorf("failed to check mobile uniqueness: %w", err)
	}
	if count > 0 {
		return nil, ErrMobileExists
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	otp := auth.GenerateOTP()
	otpExpire := time.Now().UTC().Add(s.cfg.OTPTTL)
	now := time.Now().UTC()

	newUser := &models.User{
		ID:           primitive.NewObjectID(),
		FullName:     in.FullName,
		MobileNo:     in.MobileNo,
		Email:        in.Email,
		Address:      in.Address,
		PasswordHash: hash,
		Role:         role,
		IsVerified:   false,
		IsActive:     true,
		OTP:          otp,
		OTPExpire:    &otpExpire,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique indexes on email and mobileNo are the real guard
	// against concurrent duplicate registration; the counts above only
	// produce the friendlier error for the common case.
	err = db.Try(func() error {
		_, insertErr := collection.InsertOne(ctx, newUser)
		return insertErr
	})
	if err != nil {
		if db.IsDuplicateKeyOn(err, "mobileNo") {
			return nil, ErrMobileExists
		}
		if db.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	s.enqueueOTPEmail(ctx, newUser, otp)
	return newUser, nil
}

// Login authenticates by mobile number and returns the user plus a
// signed token.
func (s *userService) Login(ctx context.Context, mobileNo, password string) (*models.User, string, error) {
	user, err := s.FindByMobile(ctx, mobileNo)
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrWrongPassword
	}
	if !user.IsVerified {
		return nil, "", ErrNotVerified
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role), s.cfg.JwtSecret, s.cfg.JwtTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return user, token, nil
}

// VerifyOTP marks the account verified when the code matches and has
// not expired. Outside production "0000" always verifies.
func (s *userService) VerifyOTP(ctx context.Context, mobileNo, otp string) (*models.User, error) {
	user, err := s.FindByMobile(ctx, mobileNo)
	if err != nil {
		return nil, err
	}

	bypass := !s.cfg.IsProduction() && otp == auth.DevBypassOTP
	if !bypass {
		if user.OTP == "" || user.OTP != otp {
			return nil, ErrOTPMismatch
		}
		if user.OTPExpire == nil || time.Now().UTC().After(*user.OTPExpire) {
			return nil, ErrOTPExpired
		}
	}

	update := bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"otp": "", "otpExpire": ""},
	}
	if _, err := s.db.Collection(usersCollection).UpdateByID(ctx, user.ID, update); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}

	user.IsVerified = true
	user.OTP = ""
	user.OTPExpire = nil
	return user, nil
}

// ResendOTP stamps a fresh code on an unverified account and re-sends
// the verification email.
func (s *userService) ResendOTP(ctx context.Context, mobileNo string) error {
	user, err := s.FindByMobile(ctx, mobileNo)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}

	otp := auth.GenerateOTP()
	otpExpire := time.Now().UTC().Add(s.cfg.OTPTTL)
	update := bson.M{"$set": bson.M{"otp": otp, "otpExpire": otpExpire, "updatedAt": time.Now().UTC()}}
	if _, err := s.db.Collection(usersCollection).UpdateByID(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to refresh otp: %w", err)
	}

	s.enqueueOTPEmail(ctx, user, otp)
	return nil
}

func (s *userService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).
		FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return &user, nil
}

func (s *userService) FindByMobile(ctx context.Context, mobileNo string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).
		FindOne(ctx, bson.M{"mobileNo": mobileNo, "isDeleted": false}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by mobile: %w", err)
	}
	return &user, nil
}

// GetAll lists non-deleted accounts, optionally restricted to a role.
func (s *userService) GetAll(ctx context.Context, role models.Role) ([]models.User, error) {
	filter := bson.M{"isDeleted": false}
	if role != "" {
		filter["role"] = role
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(usersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// SetActive toggles the account's active flag and returns the updated
// document.
func (s *userService) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error) {
	update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}}
	result, err := s.db.Collection(usersCollection).UpdateByID(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update active flag: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrUserNotFound
	}
	return s.FindByID(ctx, id)
}

// Edit applies the non-nil fields of in to the user's profile.
func (s *userService) Edit(ctx context.Context, id primitive.ObjectID, in EditUserInput) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if in.FullName != nil {
		set["fullName"] = *in.FullName
	}
	if in.MobileNo != nil {
		set["mobileNo"] = *in.MobileNo
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.Address != nil {
		set["address"] = *in.Address
	}
	if in.IsSubscribedForCommercial != nil {
		set["isSubscribedForCommercial"] = *in.IsSubscribedForCommercial
	}
	if in.IsSubscribedForResidential != nil {
		set["isSubscribedForResidential"] = *in.IsSubscribedForResidential
	}

	var updateErr error
	err := db.Try(func() error {
		result, err := s.db.Collection(usersCollection).UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			updateErr = ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyOn(err, "mobileNo") {
			return nil, ErrMobileExists
		}
		if db.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to edit user: %w", err)
	}
	if updateErr != nil {
		return nil, updateErr
	}
	return s.FindByID(ctx, id)
}

// SoftDelete flags the account deleted. The partial unique indexes
// cover only isDeleted:false documents, so the email and mobile become
// registrable again.
func (s *userService) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"isDeleted": true, "isActive": false, "updatedAt": time.Now().UTC()}}
	result, err := s.db.Collection(usersCollection).UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to soft-delete user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TotalCounts tallies non-deleted customers and brokers.
func (s *userService) TotalCounts(ctx context.Context) (*UserCounts, error) {
	collection := s.db.Collection(usersCollection)

	users, err := collection.CountDocuments(ctx, bson.M{"role": models.RoleUser, "isDeleted": false})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	brokers, err := collection.CountDocuments(ctx, bson.M{"role": models.RoleBroker, "isDeleted": false})
	if err != nil {
		return nil, fmt.Errorf("failed to count brokers: %w", err)
	}
	return &UserCounts{TotalUsers: users, TotalBrokers: brokers}, nil
}

// Summaries loads the contact view for a set of user ids in one query.
func (s *userService) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"fullName": 1, "mobileNo": 1, "email": 1})
	cursor, err := s.db.Collection(usersCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load user summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.UserSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode user summaries: %w", err)
	}
	for _, sum := range summaries {
		out[sum.ID] = sum
	}
	return out, nil
}

// enqueueOTPEmail hands the verification email to the background
// worker. Delivery failures are logged, not surfaced: the account is
// already created and the OTP can be re-sent.
func (s *userService) enqueueOTPEmail(ctx context.Context, user *models.User, otp string) {
	if s.taskClient == nil {
		return
	}
	subject, body := tasks.OTPEmail(s.cfg.AppName, user.FullName, otp, s.cfg.OTPTTL)
	task, err := tasks.NewEmailDeliveryTask(user.Email, subject, body)
	if err != nil {
		log.Printf("Failed to build OTP email task for %s: %v", user.Email, err)
		return
	}
	if _, err := s.taskClient.EnqueueContext(ctx, task); err != nil {
		log.Printf("Failed to enqueue OTP email for %s: %v", user.Email, err)
	}
}
