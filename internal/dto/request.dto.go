package dto

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

// SelectRequest picks one option of a form section by id.
type SelectRequest struct {
	ID uint `json:"id" binding:"required"`
}

type NotesRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}
