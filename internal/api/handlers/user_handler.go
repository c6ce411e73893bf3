package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Zaid3480/Real-Estate/internal/api/middleware"
	"github.com/Zaid3480/Real-Estate/internal/api/response"
	"github.com/Zaid3480/Real-Estate/internal/export"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/services"
)

// UserHandler exposes account endpoints.
type UserHandler struct {
	userService services.IUserService
}

// NewUserHandler creates the account handler.
func NewUserHandler(userService services.IUserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type registerRequest struct {
	FullName string `json:"fullName" binding:"required"`
	MobileNo string `json:"mobileNo" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Address  string `json:"address"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// Register creates an unverified account and triggers the OTP email.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.userService.Register(c.Request.Context(), services.RegisterInput{
		FullName: req.FullName,
		MobileNo: req.MobileNo,
		Email:    req.Email,
		Address:  req.Address,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailExists), errors.Is(err, services.ErrMobileExists):
			response.Conflict(c, err.Error())
		case errors.Is(err, services.ErrWeakPassword):
			response.BadRequest(c, err.Error())
		default:
			log.Printf("Register failed: %v", err)
			response.Internal(c, "")
		}
		return
	}

	response.Created(c, "User registered successfully. Please verify your account.", user)
}

type loginRequest struct {
	MobileNo string `json:"mobileNo" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login authenticates by mobile number and issues a token.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), req.MobileNo, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrWrongPassword):
			response.Unauthorized(c, "Incorrect password")
		case errors.Is(err, services.ErrNotVerified):
			response.Forbidden(c, "Account not verified. Please verify your account first.")
		case errors.Is(err, services.ErrAccountDisabled):
			response.Forbidden(c, "Account is deactivated")
		default:
			log.Printf("Login failed: %v", err)
			response.Internal(c, "")
		}
		return
	}

	response.OK(c, "Login successful", loginResponse{Token: token, User: user})
}

type verifyOTPRequest struct {
	MobileNo string `json:"mobileNo" binding:"required"`
	OTP      string `json:"otp" binding:"required"`
}

// VerifyOTP confirms the registration code.
func (h *UserHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.userService.VerifyOTP(c.Request.Context(), req.MobileNo, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrOTPExpired):
			response.BadRequest(c, "OTP expired. Please request a new one.")
		case errors.Is(err, services.ErrOTPMismatch):
			response.BadRequest(c, "Invalid OTP")
		default:
			log.Printf("VerifyOTP failed: %v", err)
			response.Internal(c, "")
		}
		return
	}

	response.OK(c, "Account verified successfully", user)
}

type resendOTPRequest struct {
	MobileNo string `json:"mobileNo" binding:"required"`
}

// ResendOTP re-sends the verification code.
func (h *UserHandler) ResendOTP(c *gin.Context) {
	var req resendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.userService.ResendOTP(c.Request.Context(), req.MobileNo); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		log.Printf("ResendOTP failed: %v", err)
		response.Internal(c, "")
		return
	}

	response.OK(c, "OTP sent", nil)
}

// Profile returns the authenticated account.
func (h *UserHandler) Profile(c *gin.Context) {
	response.OK(c, "Profile fetched", middleware.CurrentUser(c))
}

// GetByID fetches any account by id. Admin only.
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		log.Printf("FindByID failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "User fetched", user)
}

// GetAllUsers lists customer accounts. Admin only.
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAll(c.Request.Context(), models.RoleUser)
	if err != nil {
		log.Printf("GetAllUsers failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Users fetched", users)
}

// GetAllBrokers lists broker accounts. Admin only.
func (h *UserHandler) GetAllBrokers(c *gin.Context) {
	brokers, err := h.userService.GetAll(c.Request.Context(), models.RoleBroker)
	if err != nil {
		log.Printf("GetAllBrokers failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Brokers fetched", brokers)
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetActive toggles an account's active flag. Admin only.
func (h *UserHandler) SetActive(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.userService.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		log.Printf("SetActive failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "User updated", user)
}

type editUserRequest struct {
	FullName                   *string `json:"fullName"`
	MobileNo                   *string `json:"mobileNo"`
	Email                      *string `json:"email"`
	Address                    *string `json:"address"`
	IsSubscribedForCommercial  *bool   `json:"isSubscribedForCommercial"`
	IsSubscribedForResidential *bool   `json:"isSubscribedForResidential"`
}

// Edit updates profile fields on an account.
func (h *UserHandler) Edit(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	// Non-admins may only edit themselves.
	current := middleware.CurrentUser(c)
	if current.Role != models.RoleAdmin && current.ID != id {
		response.Forbidden(c, "Cannot edit another account")
		return
	}

	var req editUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.userService.Edit(c.Request.Context(), id, services.EditUserInput{
		FullName:                   req.FullName,
		MobileNo:                   req.MobileNo,
		Email:                      req.Email,
		Address:                    req.Address,
		IsSubscribedForCommercial:  req.IsSubscribedForCommercial,
		IsSubscribedForResidential: req.IsSubscribedForResidential,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrEmailExists):
			response.Conflict(c, err.Error())
		default:
			log.Printf("Edit user failed: %v", err)
			response.Internal(c, "")
		}
		return
	}
	response.OK(c, "User updated", user)
}

// Delete soft-deletes an account. Admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		log.Printf("Delete user failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "User deleted", nil)
}

// TotalCount returns the admin dashboard account tally.
func (h *UserHandler) TotalCount(c *gin.Context) {
	counts, err := h.userService.TotalCounts(c.Request.Context())
	if err != nil {
		log.Printf("TotalCount failed: %v", err)
		response.Internal(c, "")
		return
	}
	response.OK(c, "Counts fetched", counts)
}

// UsersExcel streams all customer accounts as a workbook. Admin only.
func (h *UserHandler) UsersExcel(c *gin.Context) {
	h.excel(c, models.RoleUser, "Users")
}

// BrokersExcel streams all broker accounts as a workbook. Admin only.
func (h *UserHandler) BrokersExcel(c *gin.Context) {
	h.excel(c, models.RoleBroker, "Brokers")
}

func (h *UserHandler) excel(c *gin.Context, role models.Role, sheetName string) {
	users, err := h.userService.GetAll(c.Request.Context(), role)
	if err != nil {
		log.Printf("Excel export failed: %v", err)
		response.Internal(c, "")
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", sheetName, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)

	if err := export.WriteUsersExcel(c.Writer, sheetName, users); err != nil {
		log.Printf("Excel write failed: %v", err)
	}
}

// objectIDParam parses a path parameter as an ObjectID, replying 400 on
// garbage.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
