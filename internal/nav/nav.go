// Package nav projects the upstream auth status onto the navigation bar
package nav

import (
	"context"
	"net/http"

	"github.com/cx-tal-miterani/flight-booking-system/portal/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/portal/models"
	"github.com/cx-tal-miterani/flight-booking-system/portal/pkg/logger"
)

// LoginPath is where anonymous users are sent
const LoginPath = "/login"

// View is which navigation affordances are shown
type View struct {
	ShowLogin    bool
	ShowSignup   bool
	ShowUserMenu bool
	ShowBookings bool
	ShowAdmin    bool
	UserName     string
}

// Project maps an auth status to the navigation view. A nil status is logged out.
func Project(st *models.AuthStatus) View {
	if st == nil || !st.Authenticated {
		return View{ShowLogin: true, ShowSignup: true}
	}

	v := View{ShowUserMenu: true, ShowBookings: true}
	if st.User != nil {
		v.UserName = st.User.Name
		v.ShowAdmin = bool(st.User.IsAdmin)
	}
	return v
}

// Controller checks authentication against the upstream API
type Controller struct {
	api apiclient.FlightAPI
	log logger.Logger
}

// NewController creates a Controller
func NewController(api apiclient.FlightAPI, log logger.Logger) *Controller {
	return &Controller{api: api, log: log}
}

// Status asks the upstream API who the browser is. A failed check is logged and
// reported as logged out.
func (c *Controller) Status(ctx context.Context, creds apiclient.Credentials) *models.AuthStatus {
	st, err := c.api.CheckAuth(ctx, creds)
	if err != nil {
		c.log.Warn("auth check failed", "error", err)
		return &models.AuthStatus{}
	}
	return st
}

// View checks authentication and projects it
func (c *Controller) View(ctx context.Context, creds apiclient.Credentials) View {
	return Project(c.Status(ctx, creds))
}

// Logout ends the upstream session. The outcome is ignored apart from logging; the
// returned cookies, if any, should be relayed to the browser.
func (c *Controller) Logout(ctx context.Context, creds apiclient.Credentials) []*http.Cookie {
	cookies, err := c.api.Logout(ctx, creds)
	if err != nil {
		c.log.Warn("upstream logout failed", "error", err)
		return nil
	}
	return cookies
}
