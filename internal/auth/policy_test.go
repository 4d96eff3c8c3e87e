package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/historisense/portal/internal/domain"
)

func authenticated(role domain.Role) domain.Session {
	return domain.Session{
		State:   domain.SessionAuthenticated,
		Profile: domain.Profile{Name: "Jane", Role: role},
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name     string
		sess     domain.Session
		required domain.Role
		want     Decision
	}{
		{"anonymous always goes to login", domain.Session{State: domain.SessionAnonymous}, domain.RoleMuseum, RedirectLogin},
		{"expired always goes to login", domain.Session{State: domain.SessionExpired}, "", RedirectLogin},
		{"authenticated with no required role renders", authenticated(domain.RoleIndividual), "", Allow},
		{"matching role renders", authenticated(domain.RoleMuseum), domain.RoleMuseum, Allow},
		{"mismatched role bounces to root", authenticated(domain.RoleMuseum), domain.RoleIndividual, RedirectRoot},
		{"unknown role fails closed", authenticated("curator"), "", RedirectLogin},
		{"empty role fails closed", authenticated(""), domain.RoleMuseum, RedirectLogin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.sess, tc.required))
		})
	}
}

func TestResolveRoot(t *testing.T) {
	cases := []struct {
		name string
		sess domain.Session
		want string
	}{
		{"museum goes to museum home", authenticated(domain.RoleMuseum), PathMuseumHome},
		{"individual goes to user home", authenticated(domain.RoleIndividual), PathUserHome},
		{"anonymous goes to login", domain.Session{State: domain.SessionAnonymous}, PathLogin},
		{"expired goes to login", domain.Session{State: domain.SessionExpired}, PathLogin},
		{"unknown role goes to login", authenticated("curator"), PathLogin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveRoot(tc.sess))
		})
	}
}

func TestMismatchBouncesThroughRootToRoleHome(t *testing.T) {
	// A museum session hitting an individual-only screen is sent to the root
	// path, which in turn resolves to the museum home.
	sess := authenticated(domain.RoleMuseum)
	assert.Equal(t, RedirectRoot, Resolve(sess, domain.RoleIndividual))
	assert.Equal(t, PathRoot, RedirectPath(RedirectRoot))
	assert.Equal(t, PathMuseumHome, ResolveRoot(sess))
}
