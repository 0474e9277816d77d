package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/dmitrijs2005/petkeeper/internal/server/services"
	"github.com/dmitrijs2005/petkeeper/internal/server/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type petResponse struct {
	Message string      `json:"message"`
	Pet     *models.Pet `json:"pet"`
}

type dataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type uploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	PetImg    string `json:"petImg"`
}

type imageResponse struct {
	URL string `json:"url"`
}

// pathID returns the named path parameter when it is a well-formed UUID.
func pathID(r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func (s *Server) createPet(w http.ResponseWriter, r *http.Request) {
	var req validation.CreatePetRequest
	if err := s.validator.Decode(r.Body, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	pet, err := s.pets.Create(r.Context(), userFrom(r.Context()).ID, req.Pet())
	if err != nil {
		s.writeError(w, r, err, msgPetNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, petResponse{Message: "Pet created successfully!", Pet: pet})
}

func (s *Server) updatePet(w http.ResponseWriter, r *http.Request) {
	var req validation.UpdatePetRequest
	if err := s.validator.Decode(r.Body, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	petID, ok := pathID(r, "petId")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgPetNotFound)
		return
	}

	pet, err := s.pets.Update(r.Context(), userFrom(r.Context()).ID, petID, req.Update())
	if err != nil {
		s.writeError(w, r, err, msgPetNotFound)
		return
	}
	writeJSON(w, http.StatusOK, petResponse{Message: "Pet updated successfully!", Pet: pet})
}

func (s *Server) deletePet(w http.ResponseWriter, r *http.Request) {
	petID, ok := pathID(r, "petId")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgPetNotFound)
		return
	}

	pet, err := s.pets.Delete(r.Context(), userFrom(r.Context()).ID, petID)
	if err != nil {
		s.writeError(w, r, err, msgPetNotFound)
		return
	}
	writeJSON(w, http.StatusOK, petResponse{Message: "Pet deleted successfully!", Pet: pet})
}

func (s *Server) getPets(w http.ResponseWriter, r *http.Request) {
	pets, err := s.pets.List(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err, msgNoPets)
		return
	}
	if len(pets) == 0 {
		writeMessage(w, http.StatusNotFound, msgNoPets)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Message: "success", Data: pets})
}

func (s *Server) getPet(w http.ResponseWriter, r *http.Request) {
	petID, ok := pathID(r, "petId")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgPetNotFound)
		return
	}

	pet, err := s.pets.Get(r.Context(), userFrom(r.Context()).ID, petID)
	if err != nil {
		s.writeError(w, r, err, msgPetNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Message: "success", Data: pet})
}

func (s *Server) uploadPetImage(w http.ResponseWriter, r *http.Request) {
	petID, ok := pathID(r, "petId")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgPetNotFound)
		return
	}

	url, key, err := s.pets.ImageUploadURL(r.Context(), userFrom(r.Context()).ID, petID)
	if err != nil {
		s.writeError(w, r, err, msgPetNotFound)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{UploadURL: url, PetImg: key})
}

func (s *Server) getPetImage(w http.ResponseWriter, r *http.Request) {
	petID, ok := pathID(r, "petId")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgPetNotFound)
		return
	}

	url, err := s.pets.ImageDownloadURL(r.Context(), userFrom(r.Context()).ID, petID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, imageResponse{URL: url})
	case errors.Is(err, services.ErrNoImage):
		writeMessage(w, http.StatusNotFound, msgNoImage)
	default:
		s.writeError(w, r, err, msgPetNotFound)
	}
}
