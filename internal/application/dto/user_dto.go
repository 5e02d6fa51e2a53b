package dto

// RegisterRequest body para registrar usuario y empresa.
type RegisterRequest struct {
	CompanyName string `json:"company_name"`
	TaxID       string `json:"tax_id"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
}

// LoginRequest body para iniciar sesión.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse respuesta con el JWT emitido.
type TokenResponse struct {
	Token string `json:"token"`
}
