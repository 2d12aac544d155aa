// internal/app/features/users/types.go
package users

import "github.com/dalemusser/usersadmin/internal/domain/models"

// listResponse is the body of GET /users.
type listResponse struct {
	Data  []models.User `json:"data"`
	Total int64         `json:"total"`
}

// createUserInput is the POST /users body and its validation rules.
type createUserInput struct {
	Username        string `json:"username" validate:"required,max=64" label:"Username"`
	Password        string `json:"password" validate:"required,maxbytes=72" label:"Password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password" label:"Confirm password"`
}

// updateUserInput is the PUT /users/{id} body. A blank password keeps the
// current one; a non-blank password must be confirmed.
type updateUserInput struct {
	Username        string `json:"username" validate:"required,max=64" label:"Username"`
	Password        string `json:"password" validate:"omitempty,maxbytes=72" label:"Password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password" label:"Confirm password"`
}

// statusInput is the PATCH /users/{id} body.
type statusInput struct {
	Status string `json:"status" validate:"required,oneof=active inactive" label:"Status"`
}
