package dto

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestCreateUserRequestValidate(t *testing.T) {
	valid := CreateUserRequest{Username: "alice01", Email: "a@x.com", FirstName: "Alice", LastName: "A"}

	tests := []struct {
		name    string
		mutate  func(*CreateUserRequest)
		wantErr bool
	}{
		{"valid", func(r *CreateUserRequest) {}, false},
		{"username at min length", func(r *CreateUserRequest) { r.Username = "abc" }, false},
		{"username at max length", func(r *CreateUserRequest) { r.Username = strings.Repeat("a", 50) }, false},
		{"username too short", func(r *CreateUserRequest) { r.Username = "ab" }, true},
		{"username too long", func(r *CreateUserRequest) { r.Username = strings.Repeat("a", 51) }, true},
		{"username missing", func(r *CreateUserRequest) { r.Username = "" }, true},
		{"email missing", func(r *CreateUserRequest) { r.Email = "" }, true},
		{"email without domain", func(r *CreateUserRequest) { r.Email = "a@" }, true},
		{"email without at", func(r *CreateUserRequest) { r.Email = "ax.com" }, true},
		{"first name blank", func(r *CreateUserRequest) { r.FirstName = "   " }, true},
		{"first name too long", func(r *CreateUserRequest) { r.FirstName = strings.Repeat("a", 101) }, true},
		{"last name at max length", func(r *CreateUserRequest) { r.LastName = strings.Repeat("a", 100) }, false},
		{"last name blank", func(r *CreateUserRequest) { r.LastName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateUserRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateUserRequest
		wantErr bool
	}{
		{"empty request is valid", UpdateUserRequest{}, false},
		{"valid email", UpdateUserRequest{Email: strPtr("b@x.com")}, false},
		{"invalid email", UpdateUserRequest{Email: strPtr("nope")}, true},
		{"blank first name", UpdateUserRequest{FirstName: strPtr(" ")}, true},
		{"oversized last name", UpdateUserRequest{LastName: strPtr(strings.Repeat("a", 101))}, true},
		{"active alone", UpdateUserRequest{Active: boolPtr(false)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
