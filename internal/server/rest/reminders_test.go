package rest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reminderBody(petID string) string {
	return `{"reminderNote":"vaccination","reminderDate":"2026-03-01","petId":"` + petID + `"}`
}

func TestReminderRoutes(t *testing.T) {
	env := newTestEnv(t)
	_, pair := env.login(t, "alice@example.com")
	auth := withCookie(pair.AccessToken)
	petID := createPet(t, env, pair.AccessToken)

	rec := env.do(http.MethodGet, "/api/getreminders", "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No reminders found!", messageIn(t, rec.Body.Bytes()))

	rec = env.do(http.MethodPost, "/api/createreminder", reminderBody(petID), auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec.Body.Bytes())
	assert.Equal(t, "Reminder created successfully!", resp["message"])
	id := resp["reminder"].(map[string]any)["id"].(string)

	rec = env.do(http.MethodGet, "/api/getreminders?petId="+petID, "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec.Body.Bytes())["data"], 1)

	rec = env.do(http.MethodGet, "/api/getreminder/"+id, "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec.Body.Bytes())["data"].(map[string]any)
	assert.Equal(t, "vaccination", data["reminderNote"])

	rec = env.do(http.MethodDelete, "/api/deletereminder/"+id, "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reminder deleted successfully!", messageIn(t, rec.Body.Bytes()))

	rec = env.do(http.MethodGet, "/api/getreminder/"+id, "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Reminder not found!", messageIn(t, rec.Body.Bytes()))
}

func TestReminderRoutes_PetChecks(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.login(t, "alice@example.com")
	_, mallory := env.login(t, "mallory@example.com")
	petID := createPet(t, env, alice.AccessToken)
	intruder := withCookie(mallory.AccessToken)

	rec := env.do(http.MethodPost, "/api/createreminder", reminderBody(petID), intruder)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Pet not found!", messageIn(t, rec.Body.Bytes()))

	rec = env.do(http.MethodGet, "/api/getreminders?petId="+petID, "", intruder)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Pet not found!", messageIn(t, rec.Body.Bytes()))

	rec = env.do(http.MethodGet, "/api/getreminders?petId=7", "", intruder)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/getreminder/7", "", intruder)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Reminder not found!", messageIn(t, rec.Body.Bytes()))

	rec = env.do(http.MethodPost, "/api/createreminder", `{"reminderNote":"x","reminderDate":"2026-03-01","petId":"`+petID+`"}`, intruder)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "reminderNote must be at least 3 characters in length", messageIn(t, rec.Body.Bytes()))
}

func TestReminderRoutes_StoreError(t *testing.T) {
	env := newTestEnv(t)
	_, pair := env.login(t, "alice@example.com")
	env.reminders.err = errBoom{}

	rec := env.do(http.MethodGet, "/api/getreminders", "", withCookie(pair.AccessToken))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", messageIn(t, rec.Body.Bytes()))
}
