package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/dmitrijs2005/petkeeper/internal/server/services"
	"github.com/dmitrijs2005/petkeeper/internal/server/validation"
	"github.com/google/uuid"
)

type reminderResponse struct {
	Message  string           `json:"message"`
	Reminder *models.Reminder `json:"reminder"`
}

// notFoundMessage picks the 404 text for reminder operations, which can
// fail on either the pet or the reminder.
func notFoundMessage(err error) string {
	if errors.Is(err, services.ErrPetNotFound) {
		return msgPetNotFound
	}
	return msgReminderMissing
}

func (s *Server) createReminder(w http.ResponseWriter, r *http.Request) {
	var req validation.ReminderRequest
	if err := s.validator.Decode(r.Body, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	reminder, err := s.reminders.Create(r.Context(), userFrom(r.Context()).ID, req.Reminder())
	if err != nil {
		s.writeError(w, r, err, notFoundMessage(err))
		return
	}
	writeJSON(w, http.StatusCreated, reminderResponse{Message: "Reminder created successfully!", Reminder: reminder})
}

func (s *Server) getReminders(w http.ResponseWriter, r *http.Request) {
	petID := r.URL.Query().Get("petId")
	if petID != "" {
		if _, err := uuid.Parse(petID); err != nil {
			writeMessage(w, http.StatusNotFound, msgPetNotFound)
			return
		}
	}

	list, err := s.reminders.List(r.Context(), userFrom(r.Context()).ID, petID)
	if err != nil {
		s.writeError(w, r, err, notFoundMessage(err))
		return
	}
	if len(list) == 0 {
		writeMessage(w, http.StatusNotFound, msgNoReminders)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Message: "success", Data: list})
}

func (s *Server) getReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "reminderId")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgReminderMissing)
		return
	}

	reminder, err := s.reminders.Get(r.Context(), userFrom(r.Context()).ID, id)
	if err != nil {
		s.writeError(w, r, err, msgReminderMissing)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Message: "success", Data: reminder})
}

func (s *Server) deleteReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "reminderId")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgReminderMissing)
		return
	}

	reminder, err := s.reminders.Delete(r.Context(), userFrom(r.Context()).ID, id)
	if err != nil {
		s.writeError(w, r, err, msgReminderMissing)
		return
	}
	writeJSON(w, http.StatusOK, reminderResponse{Message: "Reminder deleted successfully!", Reminder: reminder})
}
