package models

// User is the authenticated voter. CPF is the Brazilian taxpayer id used as
// login.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	CPF  string `json:"cpf"`
}
