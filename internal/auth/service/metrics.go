package service

import (
	"github.com/mkravtsov/taskdeck/internal/observability/metrics"
)

func incrementUsersRegistered() {
	metrics.UsersRegistered.Inc()
}

func incrementLoginAttempts() {
	metrics.LoginAttemptsTotal.Inc()
}

func incrementLoginFailures() {
	metrics.LoginFailuresTotal.Inc()
}
