package templates

import (
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/davicafu/availability-relay/internal/availability/domain"
)

// PongoRenderer renderiza plantillas con sintaxis Django/Jinja ({{ var }}),
// compatible con las plantillas nunjucks existentes. Las plantillas compiladas
// se reutilizan mientras su texto no cambie.
type PongoRenderer struct {
	compiled sync.Map // texto -> *pongo2.Template
}

func NewPongoRenderer() *PongoRenderer {
	return &PongoRenderer{}
}

func (r *PongoRenderer) Render(templateText string, values map[string]any) (string, error) {
	tpl, err := r.compile(templateText)
	if err != nil {
		return "", err
	}
	out, err := tpl.Execute(pongo2.Context(values))
	if err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return out, nil
}

func (r *PongoRenderer) compile(templateText string) (*pongo2.Template, error) {
	if tpl, ok := r.compiled.Load(templateText); ok {
		return tpl.(*pongo2.Template), nil
	}
	tpl, err := pongo2.FromString(templateText)
	if err != nil {
		return nil, fmt.Errorf("compile template: %w", err)
	}
	r.compiled.Store(templateText, tpl)
	return tpl, nil
}

var _ domain.Renderer = (*PongoRenderer)(nil)
