package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"okrtracker/models"
	"okrtracker/sessions"
	"okrtracker/store"
	"okrtracker/utils"
)

const (
	userNotFound   = "User not found"
	userEmailTaken = "User already exists"
)

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,mailformat"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,role"`
	L1Team   string `json:"l1Team" validate:"required,l1team"`
	L2Team   string `json:"l2Team" validate:"required,l2team"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Email    *string `json:"email" validate:"omitempty,mailformat"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,role"`
	L1Team   *string `json:"l1Team" validate:"omitempty,l1team"`
	L2Team   *string `json:"l2Team" validate:"omitempty,l2team"`
}

// WelcomeSender delivers the mail a newly registered user receives.
type WelcomeSender interface {
	SendWelcome(to, name, company string) error
}

type UserController struct {
	users     store.UserStore
	companies store.CompanyStore
	sessions  *sessions.Manager
	mailer    WelcomeSender
}

// NewUserController builds the user handlers. mailer may be nil, in which
// case no welcome mail is sent.
func NewUserController(users store.UserStore, companies store.CompanyStore, sessions *sessions.Manager, mailer WelcomeSender) *UserController {
	return &UserController{
		users:     users,
		companies: companies,
		sessions:  sessions,
		mailer:    mailer,
	}
}

// Register adds a user to the company in the path. The guard has already
// checked the caller is that company.
func (uc *UserController) Register(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyID", companyNotFound)
	if err != nil {
		return err
	}

	var req RegisterUserRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	company, err := uc.companies.FindByID(c.UserContext(), companyID)
	if err != nil {
		return storeError(err, companyNotFound, "")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := models.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     utils.NormalizeEmail(req.Email),
		CompanyID: company.ID,
		Role:      role,
		L1Team:    req.L1Team,
		L2Team:    req.L2Team,
	}
	if err := uc.users.Register(c.UserContext(), &user, req.Password); err != nil {
		return storeError(err, companyNotFound, userEmailTaken)
	}

	utils.LogEvent("user_registered", map[string]interface{}{
		"company_id": company.ID,
		"user_id":    user.ID,
	})

	if uc.mailer != nil {
		go uc.sendWelcome(user.Email, user.Name, company.Name)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully!",
		"user":    user,
	})
}

func (uc *UserController) sendWelcome(to, name, company string) {
	if err := uc.mailer.SendWelcome(to, name, company); err != nil {
		utils.LogError("welcome_mail_failed", err, map[string]interface{}{
			"to": to,
		})
	}
}

func (uc *UserController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	user, err := uc.users.Authenticate(c.UserContext(), utils.NormalizeEmail(req.Email), req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		return utils.Unauthorized(utils.ReasonNoCredentials, invalidCredentials)
	}
	if err != nil {
		return utils.Internal(err)
	}

	companyID := strconv.FormatUint(uint64(user.CompanyID), 10)
	if err := uc.sessions.StartUser(c, user.PublicID(), companyID); err != nil {
		return utils.Internal(err)
	}

	utils.LogEvent("user_login", map[string]interface{}{
		"company_id": user.CompanyID,
		"user_id":    user.ID,
	})
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user.Profile(),
	})
}

func (uc *UserController) Logout(c *fiber.Ctx) error {
	if err := uc.sessions.Destroy(c); err != nil {
		return utils.Internal(err)
	}
	return c.JSON(message("Logged out successfully"))
}

// Session reports the user logged in on this session. A session belonging
// to another company's user is reported as unauthenticated.
func (uc *UserController) Session(c *fiber.Ctx) error {
	identity, ok, err := uc.sessions.User(c)
	if err != nil {
		return utils.Internal(err)
	}
	if !ok || identity.CompanyID != c.Params("companyID") {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	userID, valid := utils.ParseID(identity.UserID)
	if !valid {
		return c.JSON(fiber.Map{"authenticated": false})
	}
	user, err := uc.users.FindByID(c.UserContext(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(fiber.Map{"authenticated": false})
	}
	if err != nil {
		return utils.Internal(err)
	}

	return c.JSON(fiber.Map{
		"authenticated": true,
		"user":          user.Profile(),
	})
}

func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyID", companyNotFound)
	if err != nil {
		return err
	}

	users, err := uc.users.ListByCompany(c.UserContext(), companyID)
	if err != nil {
		return utils.Internal(err)
	}
	return c.JSON(users)
}

func (uc *UserController) GetUser(c *fiber.Ctx) error {
	user, err := uc.findUser(c)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	user, err := uc.findUser(c)
	if err != nil {
		return err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && *req.Email != "" {
		user.Email = utils.NormalizeEmail(*req.Email)
	}
	if req.Role != nil && *req.Role != "" {
		user.Role = *req.Role
	}
	if req.L1Team != nil && *req.L1Team != "" {
		user.L1Team = *req.L1Team
	}
	if req.L2Team != nil && *req.L2Team != "" {
		user.L2Team = *req.L2Team
	}
	password := ""
	if req.Password != nil {
		password = *req.Password
	}

	if err := uc.users.Update(c.UserContext(), user, password); err != nil {
		return storeError(err, userNotFound, userEmailTaken)
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyID", companyNotFound)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userID", userNotFound)
	if err != nil {
		return err
	}

	if err := uc.users.Delete(c.UserContext(), companyID, userID); err != nil {
		return storeError(err, userNotFound, "")
	}

	utils.LogEvent("user_deleted", map[string]interface{}{
		"company_id": companyID,
		"user_id":    userID,
	})
	return c.JSON(message("User deleted successfully"))
}

func (uc *UserController) findUser(c *fiber.Ctx) (*models.User, error) {
	companyID, err := pathID(c, "companyID", companyNotFound)
	if err != nil {
		return nil, err
	}
	userID, err := pathID(c, "userID", userNotFound)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.FindInCompany(c.UserContext(), companyID, userID)
	if err != nil {
		return nil, storeError(err, userNotFound, "")
	}
	return user, nil
}
