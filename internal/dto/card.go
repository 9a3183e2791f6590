package dto

import "github.com/unity-school/idcard-api/internal/models"

// CreateCardRequest is the form-facing contract: the record shape minus id
// and createdAt, plus the chosen template.
type CreateCardRequest struct {
	Name          string               `json:"name" validate:"required"`
	RollNumber    string               `json:"rollNumber" validate:"required"`
	ClassDivision models.ClassDivision `json:"classDivision" validate:"required"`
	Allergies     []models.Allergy     `json:"allergies"`
	Photo         string               `json:"photo" validate:"required"`
	RackNumber    string               `json:"rackNumber"`
	BusRouteNo    models.BusRoute      `json:"busRouteNumber" validate:"required"`
	Template      models.CardTemplate  `json:"template" validate:"required"`
}

// RenderResponse carries the derived display values for a record without
// rasterising the card.
type RenderResponse struct {
	ID            string               `json:"id"`
	Template      models.CardTemplate  `json:"template"`
	Name          string               `json:"name"`
	RollNumber    string               `json:"rollNumber"`
	ClassDivision models.ClassDivision `json:"classDivision"`
	RackNumber    string               `json:"rackNumber"`
	BusRouteNo    models.BusRoute      `json:"busRouteNumber"`
	ValidUntil    string               `json:"validUntil"`
	AllergyTags   []string             `json:"allergyTags,omitempty"`
	Payload       string               `json:"payload"`
	HasPhoto      bool                 `json:"hasPhoto"`
}

// PendingDeleteResponse reports the deferred deletion awaiting confirmation.
type PendingDeleteResponse struct {
	PendingDeleteID string `json:"pendingDeleteId"`
}
