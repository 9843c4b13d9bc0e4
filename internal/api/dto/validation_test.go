package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/finguard/user-service/pkg/util/errorutil"
)

func TestValidateRegisterRequest(t *testing.T) {
	valid := RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "Secret123"}

	tests := []struct {
		name      string
		mutate    func(*RegisterRequest)
		wantField string
	}{
		{"valid", func(*RegisterRequest) {}, ""},
		{"valid with roles", func(r *RegisterRequest) { r.Roles = []string{"ADMIN"} }, ""},
		{"missing name", func(r *RegisterRequest) { r.Name = "" }, "name"},
		{"bad email", func(r *RegisterRequest) { r.Email = "alice" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "Ab1" }, "password"},
		{"long password", func(r *RegisterRequest) { r.Password = "Ab1" + strings.Repeat("x", 18) }, "password"},
		{"no digit", func(r *RegisterRequest) { r.Password = "Secrettt" }, "password"},
		{"no upper", func(r *RegisterRequest) { r.Password = "secret123" }, "password"},
		{"no lower", func(r *RegisterRequest) { r.Password = "SECRET123" }, "password"},
		{"empty role", func(r *RegisterRequest) { r.Roles = []string{""} }, "roles[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := Validate(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Contains(t, domainErr.Details, tt.wantField)
		})
	}
}

func TestValidateLoginRequest(t *testing.T) {
	assert.NoError(t, Validate(LoginRequest{Email: "alice@example.com", Password: "x"}))

	err := Validate(LoginRequest{})
	require.Error(t, err)
	details := apperrors.ToDomainError(err).Details
	assert.Equal(t, "is required", details["email"])
	assert.Equal(t, "is required", details["password"])
}
