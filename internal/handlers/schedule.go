package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/roster-api/internal/dto"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/services"
	"github.com/yukikurage/roster-api/internal/utils"
)

// ScheduleHandler serves services and their items.
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

type attachmentRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type assignmentRequest struct {
	Position *uint64                 `json:"position"`
	Person   *uint64                 `json:"person"`
	Status   models.AssignmentStatus `json:"status"`
}

type itemRequest struct {
	Title       *string             `json:"title"`
	Type        *models.ItemType    `json:"type"`
	Description *string             `json:"description"`
	Duration    *int                `json:"duration"`
	Notes       *string             `json:"notes"`
	Attachments []attachmentRequest `json:"attachments"`
	Positions   []assignmentRequest `json:"positions"`
}

func (r itemRequest) attachments() []services.AttachmentInput {
	if r.Attachments == nil {
		return nil
	}
	out := make([]services.AttachmentInput, len(r.Attachments))
	for i, a := range r.Attachments {
		out[i] = services.AttachmentInput{Name: a.Name, URL: a.URL, Type: a.Type}
	}
	return out
}

func (r itemRequest) assignments() []services.AssignmentInput {
	if r.Positions == nil {
		return nil
	}
	out := make([]services.AssignmentInput, len(r.Positions))
	for i, a := range r.Positions {
		out[i] = services.AssignmentInput{PositionID: a.Position, PersonID: a.Person, Status: a.Status}
	}
	return out
}

// ListServices returns the caller's services, newest first.
func (h *ScheduleHandler) ListServices(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	list, total, err := h.scheduleService.ListServices(cl, utils.GetPaginationParams(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	out := make([]dto.ServiceDTO, len(list))
	for i, s := range list {
		out[i] = dto.ToServiceDTO(s)
	}
	apierrors.List(c, out, total)
}

func (h *ScheduleHandler) GetService(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	service, err := h.scheduleService.GetService(cl, id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToServiceDetailDTO(*service))
}

func (h *ScheduleHandler) CreateService(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req struct {
		Title       string               `json:"title"`
		Date        string               `json:"date"`
		StartTime   string               `json:"startTime"`
		EndTime     string               `json:"endTime"`
		Location    string               `json:"location"`
		Description string               `json:"description"`
		Status      models.ServiceStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}

	service, err := h.scheduleService.CreateService(cl, services.CreateServiceInput{
		Title:       req.Title,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.Created(c, dto.ToServiceDetailDTO(*service))
}

func (h *ScheduleHandler) UpdateService(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title       *string               `json:"title"`
		Date        *string               `json:"date"`
		StartTime   *string               `json:"startTime"`
		EndTime     *string               `json:"endTime"`
		Location    *string               `json:"location"`
		Description *string               `json:"description"`
		Status      *models.ServiceStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}

	service, err := h.scheduleService.UpdateService(cl, id, services.UpdateServiceInput{
		Title:       req.Title,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToServiceDetailDTO(*service))
}

func (h *ScheduleHandler) DeleteService(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteService(cl, id); err != nil {
		apierrors.Respond(c, err)
		return
	}
	deleted(c)
}

// AddItem appends an item to the service's program.
func (h *ScheduleHandler) AddItem(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req itemRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.CreateItemInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Duration:    req.Duration,
		Notes:       deref(req.Notes),
		Attachments: req.attachments(),
		Positions:   req.assignments(),
	}
	if req.Type != nil {
		input.Type = *req.Type
	}

	item, err := h.scheduleService.AddItem(cl, serviceID, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.Created(c, dto.ToServiceItemDTO(*item))
}

func (h *ScheduleHandler) UpdateItem(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	var req itemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.scheduleService.UpdateItem(cl, serviceID, itemID, services.UpdateItemInput{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Duration:    req.Duration,
		Notes:       req.Notes,
		Attachments: req.attachments(),
		Positions:   req.assignments(),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToServiceItemDTO(*item))
}

func (h *ScheduleHandler) DeleteItem(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteItem(cl, serviceID, itemID); err != nil {
		apierrors.Respond(c, err)
		return
	}
	deleted(c)
}
