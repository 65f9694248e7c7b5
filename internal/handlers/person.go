package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/roster-api/internal/dto"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/services"
	"github.com/yukikurage/roster-api/internal/utils"
)

type PersonHandler struct {
	personService *services.PersonService
}

func NewPersonHandler(personService *services.PersonService) *PersonHandler {
	return &PersonHandler{
		personService: personService,
	}
}

type personRequest struct {
	FirstName *string              `json:"firstName"`
	LastName  *string              `json:"lastName"`
	Email     *string              `json:"email"`
	Phone     *string              `json:"phone"`
	Address   *models.Address      `json:"address"`
	BirthDate *string              `json:"birthDate"`
	Notes     *string              `json:"notes"`
	Status    *models.PersonStatus `json:"status"`
	Teams     []uint64             `json:"teams"`
	Positions []uint64             `json:"positions"`
}

// ListPeople returns the caller's people sorted by last then first name.
func (h *PersonHandler) ListPeople(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	people, total, err := h.personService.ListPeople(cl, utils.GetPaginationParams(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	out := make([]dto.PersonDTO, len(people))
	for i, p := range people {
		out[i] = dto.ToPersonDTO(p.Person, p.Teams, nil)
	}
	apierrors.List(c, out, total)
}

func (h *PersonHandler) GetPerson(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	person, err := h.personService.GetPerson(cl, id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToPersonDTO(person.Person, person.Teams, person.Positions))
}

func (h *PersonHandler) CreatePerson(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req personRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.CreatePersonInput{
		FirstName:   deref(req.FirstName),
		LastName:    deref(req.LastName),
		Email:       deref(req.Email),
		Phone:       deref(req.Phone),
		BirthDate:   deref(req.BirthDate),
		Notes:       deref(req.Notes),
		TeamIDs:     req.Teams,
		PositionIDs: req.Positions,
	}
	if req.Address != nil {
		input.Address = *req.Address
	}
	if req.Status != nil {
		input.Status = *req.Status
	}

	person, err := h.personService.CreatePerson(cl, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.Created(c, dto.ToPersonDTO(person.Person, person.Teams, person.Positions))
}

func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req personRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.personService.UpdatePerson(cl, id, services.UpdatePersonInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		BirthDate:   req.BirthDate,
		Notes:       req.Notes,
		Status:      req.Status,
		TeamIDs:     req.Teams,
		PositionIDs: req.Positions,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToPersonDTO(person.Person, person.Teams, person.Positions))
}

func (h *PersonHandler) DeletePerson(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.personService.DeletePerson(cl, id); err != nil {
		apierrors.Respond(c, err)
		return
	}
	deleted(c)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
