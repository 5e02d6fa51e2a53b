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

	// Motor de inventario.
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrOverReservation        = errors.New("la reserva excede el stock disponible")
	ErrCircularBundle         = errors.New("el componente crearía un ciclo en el bundle")
	ErrConcurrentModification = errors.New("conflicto de concurrencia sobre el stock; reintentar la operación")
)
