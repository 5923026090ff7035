package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"okrtracker/models"
	"okrtracker/store"
	"okrtracker/utils"
)

const keyResultNotFound = "Key result not found"

type CreateKeyResultRequest struct {
	Description   string     `json:"description" validate:"required,max=2000"`
	TargetValue   float64    `json:"targetValue" validate:"required,gt=0"`
	CurrentValue  float64    `json:"currentValue" validate:"gte=0"`
	Owners        []uint     `json:"owners" validate:"omitempty,dive,gt=0"`
	CreatedBy     uint       `json:"createdBy" validate:"required"`
	Confidence    *float64   `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Status        string     `json:"status" validate:"omitempty,krstatus"`
	TargetDate    time.Time  `json:"targetDate" validate:"required"`
	EstimatedDate *time.Time `json:"estimatedDate"`
}

type UpdateKeyResultRequest struct {
	Description   *string    `json:"description" validate:"omitempty,max=2000"`
	TargetValue   *float64   `json:"targetValue" validate:"omitempty,gt=0"`
	CurrentValue  *float64   `json:"currentValue" validate:"omitempty,gte=0"`
	Owners        []uint     `json:"owners" validate:"omitempty,dive,gt=0"`
	Confidence    *float64   `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Status        *string    `json:"status" validate:"omitempty,krstatus"`
	TargetDate    *time.Time `json:"targetDate"`
	EstimatedDate *time.Time `json:"estimatedDate"`
}

type KeyResultController struct {
	keyResults store.KeyResultStore
	objectives store.ObjectiveStore
	users      store.UserStore
	log        *logrus.Entry
}

func NewKeyResultController(keyResults store.KeyResultStore, objectives store.ObjectiveStore, users store.UserStore) *KeyResultController {
	return &KeyResultController{
		keyResults: keyResults,
		objectives: objectives,
		users:      users,
		log:        logrus.WithField("component", "keyresults"),
	}
}

func (kc *KeyResultController) CreateKeyResult(c *fiber.Ctx) error {
	objective, err := loadObjective(c, kc.objectives)
	if err != nil {
		return err
	}

	var req CreateKeyResultRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	owners := req.Owners
	if len(owners) == 0 {
		owners = []uint{req.CreatedBy}
	}
	if err := checkMembers(c, kc.users, objective.CompanyID, req.CreatedBy, owners); err != nil {
		return err
	}

	confidence := models.DefaultConfidence
	if req.Confidence != nil {
		confidence = *req.Confidence
	}
	status := req.Status
	if status == "" {
		status = models.KeyResultNotStarted
	}

	keyResult := models.KeyResult{
		ObjectiveID:   objective.ID,
		Description:   strings.TrimSpace(req.Description),
		TargetValue:   req.TargetValue,
		CurrentValue:  req.CurrentValue,
		Owners:        owners,
		CreatedBy:     req.CreatedBy,
		Confidence:    confidence,
		Status:        status,
		TargetDate:    req.TargetDate,
		EstimatedDate: req.EstimatedDate,
	}
	if err := kc.keyResults.Create(c.UserContext(), &keyResult); err != nil {
		return storeError(err, objectiveNotFound, "")
	}

	kc.log.WithFields(logrus.Fields{
		"objective_id":  objective.ID,
		"key_result_id": keyResult.ID,
	}).Info("key result created")
	return c.Status(fiber.StatusCreated).JSON(keyResult)
}

func (kc *KeyResultController) GetKeyResults(c *fiber.Ctx) error {
	objective, err := loadObjective(c, kc.objectives)
	if err != nil {
		return err
	}

	keyResults, err := kc.keyResults.List(c.UserContext(), objective.ID)
	if err != nil {
		return utils.Internal(err)
	}
	return c.JSON(keyResults)
}

func (kc *KeyResultController) UpdateKeyResult(c *fiber.Ctx) error {
	objective, err := loadObjective(c, kc.objectives)
	if err != nil {
		return err
	}
	keyResultID, err := pathID(c, "keyResultID", keyResultNotFound)
	if err != nil {
		return err
	}

	var req UpdateKeyResultRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	keyResult, err := kc.keyResults.Find(c.UserContext(), objective.ID, keyResultID)
	if err != nil {
		return storeError(err, keyResultNotFound, "")
	}

	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		keyResult.Description = strings.TrimSpace(*req.Description)
	}
	if req.TargetValue != nil {
		keyResult.TargetValue = *req.TargetValue
	}
	if req.CurrentValue != nil {
		keyResult.CurrentValue = *req.CurrentValue
	}
	if req.Confidence != nil {
		keyResult.Confidence = *req.Confidence
	}
	if req.Status != nil && *req.Status != "" {
		keyResult.Status = *req.Status
	}
	if req.TargetDate != nil {
		keyResult.TargetDate = *req.TargetDate
	}
	if req.EstimatedDate != nil {
		keyResult.EstimatedDate = req.EstimatedDate
	}
	if req.Owners != nil {
		if err := checkMembers(c, kc.users, objective.CompanyID, keyResult.CreatedBy, req.Owners); err != nil {
			return err
		}
		keyResult.Owners = req.Owners
	}

	if err := kc.keyResults.Update(c.UserContext(), keyResult); err != nil {
		return storeError(err, keyResultNotFound, "")
	}
	return c.JSON(keyResult)
}

func (kc *KeyResultController) DeleteKeyResult(c *fiber.Ctx) error {
	objective, err := loadObjective(c, kc.objectives)
	if err != nil {
		return err
	}
	keyResultID, err := pathID(c, "keyResultID", keyResultNotFound)
	if err != nil {
		return err
	}

	if err := kc.keyResults.Delete(c.UserContext(), objective.ID, keyResultID); err != nil {
		return storeError(err, keyResultNotFound, "")
	}

	kc.log.WithFields(logrus.Fields{
		"objective_id":  objective.ID,
		"key_result_id": keyResultID,
	}).Info("key result deleted")
	return c.JSON(message("Key result deleted successfully"))
}
