package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Precios programados.
	ErrInvalidPrice           = errors.New("el precio debe ser mayor que cero")
	ErrScheduleAlreadyApplied = errors.New("la programación de precio ya fue aplicada")
	ErrBatchInProgress        = errors.New("ya hay un lote de precios programados en ejecución")
)
