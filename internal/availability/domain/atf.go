package domain

// ATF (Authorised Testing Facility) es la entidad cuya disponibilidad seguimos.
// Extra guarda el resto de campos de la imagen sin interpretarlos.
type ATF struct {
	ID    string         `json:"id" validate:"required,uuid_ci"`
	Name  string         `json:"name" validate:"required"`
	Email string         `json:"email" validate:"required,email"`
	Token string         `json:"token" validate:"required"`
	Extra map[string]any `json:"-"`
}

func (a *ATF) PartitionKey() string {
	return a.ID
}

// ChangeClassification es el resultado validado de comparar las dos imágenes
// de un ATF. No se modifica tras la extracción.
type ChangeClassification struct {
	ATF             ATF
	OldAvailability Availability
	NewAvailability Availability
}
