package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"okrtracker/models"
	"okrtracker/sessions"
	"okrtracker/store"
	"okrtracker/utils"
)

const (
	companyNotFound    = "Company not found"
	companyEmailTaken  = "Email already registered"
	invalidCredentials = "Invalid email or password"
)

type CreateCompanyRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,mailformat"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateCompanyRequest is a partial update; absent fields keep their value.
type UpdateCompanyRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Email    *string `json:"email" validate:"omitempty,mailformat"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CompanyController struct {
	companies store.CompanyStore
	sessions  *sessions.Manager
	tokens    *utils.TokenManager
}

func NewCompanyController(companies store.CompanyStore, sessions *sessions.Manager, tokens *utils.TokenManager) *CompanyController {
	return &CompanyController{
		companies: companies,
		sessions:  sessions,
		tokens:    tokens,
	}
}

func (cc *CompanyController) CreateCompany(c *fiber.Ctx) error {
	var req CreateCompanyRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	company := models.Company{
		Name:  strings.TrimSpace(req.Name),
		Email: utils.NormalizeEmail(req.Email),
	}
	if err := cc.companies.Create(c.UserContext(), &company, req.Password); err != nil {
		return storeError(err, companyNotFound, companyEmailTaken)
	}

	utils.LogEvent("company_created", map[string]interface{}{
		"company_id": company.ID,
	})
	return c.Status(fiber.StatusCreated).JSON(company)
}

func (cc *CompanyController) GetCompanies(c *fiber.Ctx) error {
	page, limit := utils.Pagination(c)

	companies, count, err := cc.companies.List(c.UserContext(), (page-1)*limit, limit)
	if err != nil {
		return utils.Internal(err)
	}

	return c.JSON(fiber.Map{
		"companies":   companies,
		"totalPages":  utils.TotalPages(count, limit),
		"currentPage": page,
	})
}

func (cc *CompanyController) GetCompany(c *fiber.Ctx) error {
	id, err := pathID(c, "id", companyNotFound)
	if err != nil {
		return err
	}

	company, err := cc.companies.FindByID(c.UserContext(), id)
	if err != nil {
		return storeError(err, companyNotFound, "")
	}
	return c.JSON(company)
}

func (cc *CompanyController) UpdateCompany(c *fiber.Ctx) error {
	id, err := pathID(c, "id", companyNotFound)
	if err != nil {
		return err
	}

	var req UpdateCompanyRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	company, err := cc.companies.FindByID(c.UserContext(), id)
	if err != nil {
		return storeError(err, companyNotFound, "")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		company.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && *req.Email != "" {
		company.Email = utils.NormalizeEmail(*req.Email)
	}
	password := ""
	if req.Password != nil {
		password = *req.Password
	}

	if err := cc.companies.Update(c.UserContext(), company, password); err != nil {
		return storeError(err, companyNotFound, companyEmailTaken)
	}
	return c.JSON(company)
}

func (cc *CompanyController) DeleteCompany(c *fiber.Ctx) error {
	id, err := pathID(c, "id", companyNotFound)
	if err != nil {
		return err
	}

	if err := cc.companies.Delete(c.UserContext(), id); err != nil {
		return storeError(err, companyNotFound, "")
	}

	utils.LogEvent("company_deleted", map[string]interface{}{
		"company_id": id,
	})
	return c.JSON(message("Company deleted successfully"))
}

// Login opens a company session and also returns a bearer token, so clients
// can use either credential. Unknown email and wrong password answer alike.
func (cc *CompanyController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	company, err := cc.companies.Authenticate(c.UserContext(), utils.NormalizeEmail(req.Email), req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		return utils.Unauthorized(utils.ReasonNoCredentials, invalidCredentials)
	}
	if err != nil {
		return utils.Internal(err)
	}

	token, _, err := cc.tokens.Issue(company.PublicID(), company.Email)
	if err != nil {
		return utils.Internal(err)
	}
	if err := cc.sessions.StartCompany(c, company.PublicID()); err != nil {
		return utils.Internal(err)
	}

	utils.LogEvent("company_login", map[string]interface{}{
		"company_id": company.ID,
	})
	return c.JSON(fiber.Map{
		"message":   "Company login successful",
		"token":     token,
		"expiresIn": int(cc.tokens.TTL().Seconds()),
		"company":   company.Summary(),
	})
}

func (cc *CompanyController) Logout(c *fiber.Ctx) error {
	if err := cc.sessions.Destroy(c); err != nil {
		return utils.Internal(err)
	}
	return c.JSON(message("Logged out successfully"))
}
