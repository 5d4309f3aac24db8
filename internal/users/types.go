package users

// CreateUserInput registers a gallery user.
type CreateUserInput struct {
	Name    string `json:"name" validate:"required"`
	Gmail   string `json:"gmail" validate:"required,email"`
	Age     int    `json:"age" validate:"omitempty,min=0"`
	Address string `json:"address"`
}

// UpdateUserInput carries a partial update. Blank fields keep the
// stored value; Age is only applied when positive.
type UpdateUserInput struct {
	Name    string `json:"name"`
	Gmail   string `json:"gmail" validate:"omitempty,email"`
	Age     int    `json:"age" validate:"omitempty,min=0"`
	Address string `json:"address"`
}
