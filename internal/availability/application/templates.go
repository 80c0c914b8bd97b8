package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davicafu/availability-relay/internal/availability/domain"
)

// TemplateLocation indica dónde están las dos plantillas de email.
type TemplateLocation struct {
	Bucket         string
	AvailableKey   string
	FullyBookedKey string
}

// TemplateLoader obtiene las plantillas de email al inicio de cada invocación.
type TemplateLoader struct {
	store domain.TemplateStore
	loc   TemplateLocation
	log   *zap.Logger
}

func NewTemplateLoader(store domain.TemplateStore, loc TemplateLocation, log *zap.Logger) *TemplateLoader {
	return &TemplateLoader{store: store, loc: loc, log: log}
}

// Load descarga las dos plantillas en paralelo. Cualquier fallo es fatal para
// la invocación.
func (l *TemplateLoader) Load(ctx context.Context) (domain.EmailTemplates, error) {
	var tpl domain.EmailTemplates

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := l.store.FetchTemplate(gctx, l.loc.Bucket, l.loc.AvailableKey)
		if err != nil {
			return fmt.Errorf("%s/%s: %w", l.loc.Bucket, l.loc.AvailableKey, err)
		}
		tpl.Available = text
		return nil
	})
	g.Go(func() error {
		text, err := l.store.FetchTemplate(gctx, l.loc.Bucket, l.loc.FullyBookedKey)
		if err != nil {
			return fmt.Errorf("%s/%s: %w", l.loc.Bucket, l.loc.FullyBookedKey, err)
		}
		tpl.FullyBooked = text
		return nil
	})

	if err := g.Wait(); err != nil {
		l.log.Error("❌ No se pudieron obtener las plantillas de email", zap.Error(err))
		return domain.EmailTemplates{}, fmt.Errorf("%w: %w", domain.ErrTemplateFetch, err)
	}
	return tpl, nil
}

var _ domain.TemplateSource = (*TemplateLoader)(nil)
