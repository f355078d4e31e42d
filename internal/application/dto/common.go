package dto

// Límites de paginación compartidos por todos los listados del back office.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest limit/offset leídos de la query.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize lleva Limit a [1, MaxPageLimit] (DefaultPageLimit si no vino) y Offset a >= 0.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse eco de la página pedida; los listados no calculan totales.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de todo error HTTP: Code estable para el cliente, Message en español.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
