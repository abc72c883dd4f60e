package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"timeblock-service/timeblock"
)

var validate = newValidator()

// Conflict detection compares times lexicographically, so only zero-padded
// 24-hour values may enter the core.
var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names as their JSON names so messages match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	return v
}

// timeBlockRequest is the API DTO for create and update. Weeks is a pointer
// so an omitted value is distinguishable from zero and can default server-side.
type timeBlockRequest struct {
	Title       string `json:"title" validate:"required"`
	Day         string `json:"day" validate:"required"`
	StartTime   string `json:"startTime" validate:"required,hhmm"`
	EndTime     string `json:"endTime" validate:"required,hhmm"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	StudentID   *int   `json:"studentId" validate:"required"`
	Weeks       *int   `json:"weeks"`
}

func (r *timeBlockRequest) toTimeBlock() timeblock.TimeBlock {
	tb := timeblock.TimeBlock{
		Title:       r.Title,
		Day:         r.Day,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Type:        r.Type,
		Description: r.Description,
		Color:       r.Color,
		StudentID:   *r.StudentID,
	}
	if r.Weeks != nil {
		tb.Weeks = *r.Weeks
	}
	return tb
}

type timeBlockResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Color       string `json:"color"`
	StudentID   int    `json:"studentId"`
	Weeks       int    `json:"weeks"`
}

func toResponse(tb timeblock.TimeBlock) timeBlockResponse {
	return timeBlockResponse{
		ID:          tb.ID,
		Title:       tb.Title,
		Day:         tb.Day,
		StartTime:   tb.StartTime,
		EndTime:     tb.EndTime,
		Type:        tb.Type,
		Description: tb.Description,
		Color:       tb.Color,
		StudentID:   tb.StudentID,
		Weeks:       tb.Weeks,
	}
}

func toResponseList(blocks []timeblock.TimeBlock) []timeBlockResponse {
	list := make([]timeBlockResponse, 0, len(blocks))
	for _, tb := range blocks {
		list = append(list, toResponse(tb))
	}
	return list
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "hhmm":
		return fmt.Sprintf("%s must be a zero-padded HH:MM time", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func (a *API) service() *timeblock.Service {
	return timeblock.NewService(timeblock.NewAccessor(a.db))
}

func pathInt(r *http.Request, name string) int {
	// Routes constrain these vars to digits, so Atoi cannot fail here
	n, _ := strconv.Atoi(mux.Vars(r)[name])
	return n
}

func (a *API) getTimeBlocksByStudent(w http.ResponseWriter, r *http.Request) {
	studentID := pathInt(r, "studentId")

	blocks, err := a.service().ListByStudent(r.Context(), studentID)
	if err != nil {
		a.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.JSON(w, http.StatusOK, toResponseList(blocks))
}

func (a *API) getTimeBlocksByStudentAndDay(w http.ResponseWriter, r *http.Request) {
	studentID := pathInt(r, "studentId")
	day := mux.Vars(r)["day"]

	blocks, err := a.service().ListByStudentAndDay(r.Context(), studentID, day)
	if err != nil {
		a.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.JSON(w, http.StatusOK, toResponseList(blocks))
}

func (a *API) getTimeBlocksByType(w http.ResponseWriter, r *http.Request) {
	studentID := pathInt(r, "studentId")
	blockType := mux.Vars(r)["type"]

	blocks, err := a.service().ListByStudentAndType(r.Context(), studentID, blockType)
	if err != nil {
		a.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.JSON(w, http.StatusOK, toResponseList(blocks))
}

func (a *API) getTimeBlock(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")

	tb, err := a.service().GetByID(r.Context(), id)
	if err != nil {
		a.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tb == nil {
		a.Message(w, http.StatusNotFound, "Time block not found")
		return
	}
	a.JSON(w, http.StatusOK, toResponse(*tb))
}

func (a *API) createTimeBlock(w http.ResponseWriter, r *http.Request) {
	var req timeBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		a.Message(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	created, err := a.service().Create(r.Context(), req.toTimeBlock())
	if err != nil {
		var conflict *timeblock.ConflictError
		if errors.As(err, &conflict) {
			a.Message(w, http.StatusBadRequest, conflict.Error())
			return
		}
		a.Message(w, http.StatusInternalServerError, "Error creating time block: "+err.Error())
		return
	}
	a.JSON(w, http.StatusCreated, toResponse(*created))
}

func (a *API) updateTimeBlock(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")

	var req timeBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		a.Message(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	updated, err := a.service().Update(r.Context(), id, req.toTimeBlock())
	if err != nil {
		var conflict *timeblock.ConflictError
		if errors.As(err, &conflict) {
			a.Message(w, http.StatusBadRequest, conflict.Error())
			return
		}
		a.Message(w, http.StatusInternalServerError, "Error updating time block: "+err.Error())
		return
	}
	if updated == nil {
		a.Message(w, http.StatusNotFound, "Time block not found")
		return
	}
	a.JSON(w, http.StatusOK, toResponse(*updated))
}

func (a *API) deleteTimeBlock(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")

	deleted, err := a.service().Delete(r.Context(), id)
	if err != nil {
		a.Message(w, http.StatusInternalServerError, "Error deleting time block: "+err.Error())
		return
	}
	if !deleted {
		a.Message(w, http.StatusNotFound, "Time block not found")
		return
	}
	a.Message(w, http.StatusOK, "Time block deleted successfully")
}

func (a *API) deleteTimeBlocksForStudent(w http.ResponseWriter, r *http.Request) {
	studentID := pathInt(r, "studentId")

	if err := a.service().DeleteAllForStudent(r.Context(), studentID); err != nil {
		a.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.JSON(w, http.StatusNoContent, nil)
}
