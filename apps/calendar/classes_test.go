package calendar_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/test"
	"swimschool.app/apps/calendar/internal/dtos"
	"swimschool.app/apps/calendar/internal/models"
)

func createClass(t *testing.T, name string) *models.Class {
	t.Helper()

	class, err := testApp.Services.Classes.Create(context.Background(), &dtos.CreateClassDto{
		Name:                   name,
		Level:                  "beginner",
		InstructorID:           userID,
		DefaultDurationMinutes: 45,
		DefaultCapacity:        8,
	})
	require.Nil(t, err)

	return class
}

func TestCreateClassHandler(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodPost,
		fmt.Sprintf("/%s/api/classes", testApp.GetName()),
	)

	tReq.SetFollowRedirect(false)
	tReq.SetContentType(test.FormContentType)
	tReq.SetData(dtos.CreateClassDto{
		Name:                   "Seahorses",
		Level:                  "toddlers",
		InstructorID:           "",
		DefaultDurationMinutes: 30,
		DefaultCapacity:        6,
	})

	tReq.AddCookie(&accessToken)
	tReq.AddCookie(&refreshToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusSeeOther, rs.StatusCode)
	assert.Contains(t, rs.Header.Get("Location"), "/calendar/classes/")
}

func TestCreateClassHandlerInvalid(t *testing.T) {
	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodPost,
		fmt.Sprintf("/%s/api/classes", testApp.GetName()),
	)

	tReq.SetFollowRedirect(false)
	tReq.SetContentType(test.FormContentType)
	//nolint:exhaustruct //other fields are optional
	tReq.SetData(dtos.CreateClassDto{
		Name: "",
	})

	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusUnprocessableEntity, rs.StatusCode)
}

func TestClassHandler(t *testing.T) {
	class := createClass(t, "Otters")

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		fmt.Sprintf("/%s/classes/%s", testApp.GetName(), class.ID),
	)

	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)
}

func TestRootHandler(t *testing.T) {
	createClass(t, "Penguins")

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodGet,
		fmt.Sprintf("/%s/", testApp.GetName()),
	)

	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)
}

func TestDeleteClassHandler(t *testing.T) {
	class := createClass(t, "Turtles")

	tReq := test.CreateRequestTester(
		getRoutes(),
		http.MethodPost,
		fmt.Sprintf("/%s/api/classes/%s/delete", testApp.GetName(), class.ID),
	)

	tReq.SetFollowRedirect(false)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusSeeOther, rs.StatusCode)

	_, err := testApp.Services.Classes.GetByID(context.Background(), class.ID)
	assert.NotNil(t, err)
}
