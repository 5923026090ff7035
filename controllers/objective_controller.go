package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"okrtracker/models"
	"okrtracker/store"
	"okrtracker/utils"
)

const objectiveNotFound = "Objective not found"

type CreateObjectiveRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Owners      []uint    `json:"owners" validate:"omitempty,dive,gt=0"`
	CreatedBy   uint      `json:"createdBy" validate:"required"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
	Period      []string  `json:"period" validate:"omitempty,dive,quarter"`
	Status      string    `json:"status" validate:"omitempty,objectivestatus"`
}

type UpdateObjectiveRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Owners      []uint     `json:"owners" validate:"omitempty,dive,gt=0"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Period      []string   `json:"period" validate:"omitempty,dive,quarter"`
	Status      *string    `json:"status" validate:"omitempty,objectivestatus"`
}

type ObjectiveController struct {
	objectives store.ObjectiveStore
	users      store.UserStore
	log        *logrus.Entry
}

func NewObjectiveController(objectives store.ObjectiveStore, users store.UserStore) *ObjectiveController {
	return &ObjectiveController{
		objectives: objectives,
		users:      users,
		log:        logrus.WithField("component", "objectives"),
	}
}

// Ping is an unauthenticated liveness check for the objectives routes.
func (oc *ObjectiveController) Ping(c *fiber.Ctx) error {
	return c.JSON(message("Objectives API is working!"))
}

func (oc *ObjectiveController) CreateObjective(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyID", companyNotFound)
	if err != nil {
		return err
	}

	var req CreateObjectiveRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	owners := req.Owners
	if len(owners) == 0 {
		owners = []uint{req.CreatedBy}
	}
	if err := checkMembers(c, oc.users, companyID, req.CreatedBy, owners); err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.ObjectiveDraft
	}
	period := req.Period
	if period == nil {
		period = []string{}
	}

	objective := models.Objective{
		CompanyID:   companyID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Owners:      owners,
		CreatedBy:   req.CreatedBy,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Period:      period,
		Status:      status,
	}
	if err := oc.objectives.Create(c.UserContext(), &objective); err != nil {
		return storeError(err, companyNotFound, "")
	}

	oc.log.WithFields(logrus.Fields{
		"company_id":   companyID,
		"objective_id": objective.ID,
	}).Info("objective created")
	return c.Status(fiber.StatusCreated).JSON(objective)
}

func (oc *ObjectiveController) GetObjectives(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyID", companyNotFound)
	if err != nil {
		return err
	}

	status := c.Query("status")
	if status != "" && !models.IsObjectiveStatus(status) {
		return utils.BadRequest("Invalid status filter")
	}

	objectives, err := oc.objectives.List(c.UserContext(), companyID, status)
	if err != nil {
		return utils.Internal(err)
	}
	return c.JSON(objectives)
}

func (oc *ObjectiveController) GetObjective(c *fiber.Ctx) error {
	objective, err := oc.findObjective(c)
	if err != nil {
		return err
	}
	return c.JSON(objective)
}

func (oc *ObjectiveController) UpdateObjective(c *fiber.Ctx) error {
	var req UpdateObjectiveRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	objective, err := oc.findObjective(c)
	if err != nil {
		return err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		objective.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		objective.Description = *req.Description
	}
	if req.StartDate != nil {
		objective.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		objective.EndDate = *req.EndDate
	}
	if objective.EndDate.Before(objective.StartDate) {
		return utils.NewValidationError(utils.ValidationErrors{
			{Field: "endDate", Message: "endDate must not be before startDate"},
		})
	}
	if req.Period != nil {
		objective.Period = req.Period
	}
	if req.Status != nil && *req.Status != "" {
		objective.Status = *req.Status
	}
	if req.Owners != nil {
		if err := checkMembers(c, oc.users, objective.CompanyID, objective.CreatedBy, req.Owners); err != nil {
			return err
		}
		objective.Owners = req.Owners
	}

	if err := oc.objectives.Update(c.UserContext(), objective); err != nil {
		return storeError(err, objectiveNotFound, "")
	}

	updated, err := oc.objectives.Find(c.UserContext(), objective.CompanyID, objective.ID)
	if err != nil {
		return storeError(err, objectiveNotFound, "")
	}
	return c.JSON(updated)
}

func (oc *ObjectiveController) DeleteObjective(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyID", companyNotFound)
	if err != nil {
		return err
	}
	objectiveID, err := pathID(c, "objectiveID", objectiveNotFound)
	if err != nil {
		return err
	}

	if err := oc.objectives.Delete(c.UserContext(), companyID, objectiveID); err != nil {
		return storeError(err, objectiveNotFound, "")
	}

	oc.log.WithFields(logrus.Fields{
		"company_id":   companyID,
		"objective_id": objectiveID,
	}).Info("objective deleted")
	return c.JSON(message("Objective deleted successfully"))
}

func (oc *ObjectiveController) findObjective(c *fiber.Ctx) (*models.Objective, error) {
	return loadObjective(c, oc.objectives)
}

// loadObjective resolves :objectiveID within :companyID.
func loadObjective(c *fiber.Ctx, objectives store.ObjectiveStore) (*models.Objective, error) {
	companyID, err := pathID(c, "companyID", companyNotFound)
	if err != nil {
		return nil, err
	}
	objectiveID, err := pathID(c, "objectiveID", objectiveNotFound)
	if err != nil {
		return nil, err
	}

	objective, err := objectives.Find(c.UserContext(), companyID, objectiveID)
	if err != nil {
		return nil, storeError(err, objectiveNotFound, "")
	}
	return objective, nil
}

// checkMembers requires the creator and every owner to be users of companyID.
func checkMembers(c *fiber.Ctx, users store.UserStore, companyID, createdBy uint, owners []uint) error {
	if _, err := users.FindInCompany(c.UserContext(), companyID, createdBy); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.BadRequest("createdBy must be a user of this company")
		}
		return utils.Internal(err)
	}

	for _, owner := range owners {
		if owner == createdBy {
			continue
		}
		if _, err := users.FindInCompany(c.UserContext(), companyID, owner); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return utils.BadRequest("owners must be users of this company")
			}
			return utils.Internal(err)
		}
	}
	return nil
}
