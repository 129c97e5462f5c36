package nav

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient/mocks"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		status *models.AuthStatus
		want   View
	}{
		{
			name:   "nil",
			status: nil,
			want:   View{ShowLogin: true, ShowSignup: true},
		},
		{
			name:   "anonymous",
			status: &models.AuthStatus{Authenticated: false},
			want:   View{ShowLogin: true, ShowSignup: true},
		},
		{
			name: "user",
			status: &models.AuthStatus{Authenticated: true, User: &models.SessionUser{
				ID: 3, Name: "Asha", Email: "asha@example.com",
			}},
			want: View{ShowUserMenu: true, ShowBookings: true, UserName: "Asha"},
		},
		{
			name: "admin",
			status: &models.AuthStatus{Authenticated: true, User: &models.SessionUser{
				ID: 1, Name: "Root", IsAdmin: true,
			}},
			want: View{ShowUserMenu: true, ShowBookings: true, ShowAdmin: true, UserName: "Root"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Project(tt.status))
		})
	}
}

func TestController_StatusFailureIsLoggedOut(t *testing.T) {
	api := new(mocks.MockFlightAPI)
	api.On("CheckAuth", mock.Anything, apiclient.Credentials("c")).Return(nil, errors.New("timeout"))

	v := NewController(api, logger.NewNop()).View(context.Background(), "c")

	assert.Equal(t, View{ShowLogin: true, ShowSignup: true}, v)
}

func TestController_Logout(t *testing.T) {
	cookie := &http.Cookie{Name: "session", Value: "", MaxAge: -1}

	api := new(mocks.MockFlightAPI)
	api.On("Logout", mock.Anything, apiclient.Credentials("c")).Return([]*http.Cookie{cookie}, nil)
	assert.Equal(t, []*http.Cookie{cookie}, NewController(api, logger.NewNop()).Logout(context.Background(), "c"))

	failing := new(mocks.MockFlightAPI)
	failing.On("Logout", mock.Anything, apiclient.Credentials("c")).Return(nil, errors.New("down"))
	assert.Nil(t, NewController(failing, logger.NewNop()).Logout(context.Background(), "c"))
}
