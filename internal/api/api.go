package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/celerix-dev/phonebook/internal/phonebook"
	"github.com/celerix-dev/phonebook/pkg/schema"
	"github.com/gin-gonic/gin"
)

// infoTimeLayout mirrors how browsers print a Date.
const infoTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

type Handler struct {
	Service *phonebook.Service
}

func toView(p *schema.Person) schema.PersonView {
	return schema.PersonView{ID: p.ID, Name: p.Name, Number: p.Number}
}

// bindCandidate decodes the request body. An empty body is an empty
// candidate, left for validation to reject field by field.
func bindCandidate(c *gin.Context) (schema.Candidate, bool) {
	var candidate schema.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(&phonebook.Error{Kind: phonebook.KindValidation, Message: "malformatted request body", Err: err})
		return candidate, false
	}
	return candidate, true
}

func (h *Handler) ListPersons(c *gin.Context) {
	people, err := h.Service.ListAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	views := make([]schema.PersonView, 0, len(people))
	for i := range people {
		views = append(views, toView(&people[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) GetPerson(c *gin.Context) {
	person, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toView(person))
}

func (h *Handler) CreatePerson(c *gin.Context) {
	candidate, ok := bindCandidate(c)
	if !ok {
		return
	}

	person, err := h.Service.Create(c.Request.Context(), candidate)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toView(person))
}

func (h *Handler) UpdatePerson(c *gin.Context) {
	candidate, ok := bindCandidate(c)
	if !ok {
		return
	}

	person, err := h.Service.UpdateByID(c.Request.Context(), c.Param("id"), candidate)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toView(person))
}

func (h *Handler) DeletePerson(c *gin.Context) {
	if err := h.Service.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Info renders the count of stored people and the time of the request.
func (h *Handler) Info(c *gin.Context) {
	report, err := h.Service.Info(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	body := fmt.Sprintf("<p>Phonebook has info for %d people</p><p>%s</p>",
		report.Count, report.GeneratedAt.Format(infoTimeLayout))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

// InfoJSON is the machine-readable form of Info used by the SDK.
func (h *Handler) InfoJSON(c *gin.Context) {
	report, err := h.Service.Info(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.Service.Ping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}
