// Package metrics defines Prometheus counters for the auth operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegisterTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_register_total",
		Help: "Registration attempts by outcome.",
	}, []string{"outcome"})

	LoginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_refresh_total",
		Help: "Access token refresh attempts by outcome.",
	}, []string{"outcome"})

	LogoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logout_total",
		Help: "Logout requests by outcome.",
	}, []string{"outcome"})

	IssuedTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_issued_tokens_total",
		Help: "Tokens issued by type.",
	}, []string{"type"})
)
