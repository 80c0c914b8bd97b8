package domain

import "errors"

// ---------- Errores de dominio ----------
var (
	// ErrMalformedRecord: la imagen nueva no tiene la forma esperada. Se salta el evento.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrMessageBuild: no se pudo construir un mensaje saliente. Se salta el evento.
	ErrMessageBuild = errors.New("message build failed")
	// ErrTemplateFetch: no se pudieron obtener las plantillas. Aborta la invocación.
	ErrTemplateFetch = errors.New("template fetch failed")
)
