// Package notification delivers low-stock alerts and serves the inbox.
package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/notification"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AlertRenderer turns alerts into email subject and HTML body
type AlertRenderer interface {
	RenderLowStockAlert(alert notification.LowStockAlert) (subject, html string, err error)
	RenderLowStockDigest(alerts []notification.LowStockAlert) (subject, html string, err error)
}

// NotifierConfig holds delivery settings for the notifier
type NotifierConfig struct {
	// Sender is the From address; it is also the single visible To recipient
	Sender string
	// DashboardURL is used to build product links
	DashboardURL string
}

// LowStockNotifier evaluates a product after a stock-out and, when it is at
// or below its minimum, writes one inbox entry per admin or manager and sends
// one email with all of them in BCC. Delivery failures are logged and never
// returned.
type LowStockNotifier struct {
	productRepo      catalog.ProductRepository
	profileRepo      identity.ProfileRepository
	notificationRepo notification.NotificationRepository
	mailer           notification.Mailer
	renderer         AlertRenderer
	config           NotifierConfig
	logger           *zap.Logger
	metrics          *telemetry.InventoryMetrics
}

// NewLowStockNotifier creates a notifier. mailer and renderer may be nil, in
// which case only inbox entries are written.
func NewLowStockNotifier(
	productRepo catalog.ProductRepository,
	profileRepo identity.ProfileRepository,
	notificationRepo notification.NotificationRepository,
	mailer notification.Mailer,
	renderer AlertRenderer,
	config NotifierConfig,
	logger *zap.Logger,
) *LowStockNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockNotifier{
		productRepo:      productRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		renderer:         renderer,
		config:           config,
		logger:           logger,
	}
}

// WithMetrics sets the alert and delivery failure counters
func (n *LowStockNotifier) WithMetrics(m *telemetry.InventoryMetrics) *LowStockNotifier {
	n.metrics = m
	return n
}

// EvaluateAndNotify re-reads the product and alerts when stock <= minimum
func (n *LowStockNotifier) EvaluateAndNotify(ctx context.Context, productID uuid.UUID) {
	ctx, span := telemetry.StartSpan(ctx, "notification.evaluate_low_stock",
		telemetry.AttrProductID.String(productID.String()))
	defer span.End()

	product, err := n.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			n.logger.Info("product vanished before low stock evaluation",
				zap.String("product_id", productID.String()),
			)
			return
		}
		telemetry.RecordError(span, err)
		n.logger.Error("failed to load product for low stock evaluation",
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
		return
	}
	if !product.IsLowStock() {
		return
	}
	n.metrics.RecordLowStockAlert(ctx)

	recipients, err := n.recipients(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return
	}
	if len(recipients) == 0 {
		n.logger.Warn("low stock detected but no admin or manager to notify",
			zap.String("product_id", productID.String()),
		)
		return
	}
	span.SetAttributes(telemetry.AttrRecipients.Int(len(recipients)))

	alert := n.buildAlert(product)
	n.logger.Warn("low stock alert",
		zap.String("product_id", productID.String()),
		zap.String("product_name", product.Name),
		zap.Int("current_stock", product.CurrentStock),
		zap.Int("min_stock_level", product.MinStockLevel),
		zap.Int("recipients", len(recipients)),
	)

	var g errgroup.Group
	g.Go(func() error {
		n.deliverInApp(ctx, alert, recipients)
		return nil
	})
	g.Go(func() error {
		subject, html, err := n.render(func(r AlertRenderer) (string, string, error) {
			return r.RenderLowStockAlert(alert)
		})
		if err == nil {
			err = n.sendEmail(ctx, subject, html, recipients)
		}
		n.reportEmailFailure(ctx, err, productID)
		return nil
	})
	_ = g.Wait()
}

// SendLowStockDigest emails admins and managers a list of every product at
// or below its minimum. Nothing is sent when no product is low.
func (n *LowStockNotifier) SendLowStockDigest(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "notification.low_stock_digest")
	defer span.End()

	products, err := n.productRepo.FindLowStock(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if len(products) == 0 {
		n.logger.Debug("no low stock products, digest skipped")
		return nil
	}

	recipients, err := n.recipients(ctx)
	if err != nil || len(recipients) == 0 {
		return err
	}

	alerts := make([]notification.LowStockAlert, len(products))
	for i := range products {
		alerts[i] = n.buildAlert(&products[i])
	}
	subject, html, err := n.render(func(r AlertRenderer) (string, string, error) {
		return r.RenderLowStockDigest(alerts)
	})
	if errors.Is(err, errNoMailer) {
		n.logger.Debug("email channel disabled, digest skipped")
		return nil
	}
	if err == nil {
		err = n.sendEmail(ctx, subject, html, recipients)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		n.metrics.RecordDeliveryFailure(ctx, notification.ChannelEmail)
		return &shared.NotificationDeliveryError{Channel: notification.ChannelEmail, Err: err}
	}

	n.logger.Info("low stock digest sent",
		zap.Int("products", len(products)),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

func (n *LowStockNotifier) recipients(ctx context.Context) ([]identity.Profile, error) {
	recipients, err := n.profileRepo.FindByRoles(ctx, shared.AlertRecipientRoles())
	if err != nil {
		n.logger.Error("failed to resolve alert recipients", zap.Error(err))
		return nil, err
	}
	return recipients, nil
}

func (n *LowStockNotifier) buildAlert(p *catalog.Product) notification.LowStockAlert {
	return notification.LowStockAlert{
		ProductID:     p.ID,
		ProductName:   p.Name,
		SKU:           p.SKU,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		UnitPrice:     p.Price,
		ProductURL:    notification.ProductURL(n.config.DashboardURL, p.ID),
	}
}

func (n *LowStockNotifier) deliverInApp(ctx context.Context, alert notification.LowStockAlert, recipients []identity.Profile) {
	productID := alert.ProductID
	records := make([]*notification.Notification, len(recipients))
	for i := range recipients {
		records[i] = notification.NewNotification(recipients[i].ID, alert.Title(), alert.Message(), &productID)
	}

	if err := n.notificationRepo.BulkCreate(ctx, records); err != nil {
		n.metrics.RecordDeliveryFailure(ctx, notification.ChannelInApp)
		n.logger.Error("low stock alert delivery failed",
			zap.String("product_id", productID.String()),
			zap.Error(&shared.NotificationDeliveryError{Channel: notification.ChannelInApp, Err: err}),
		)
	}
}

var errNoMailer = errors.New("no mailer configured")

func (n *LowStockNotifier) render(fn func(AlertRenderer) (string, string, error)) (string, string, error) {
	if n.mailer == nil || n.renderer == nil {
		return "", "", errNoMailer
	}
	return fn(n.renderer)
}

func (n *LowStockNotifier) sendEmail(ctx context.Context, subject, html string, recipients []identity.Profile) error {
	bcc := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r.Email != "" {
			bcc = append(bcc, r.Email)
		}
	}
	return n.mailer.Send(ctx, notification.EmailMessage{
		To:      []string{n.config.Sender},
		Bcc:     bcc,
		Subject: subject,
		HTML:    html,
	})
}

func (n *LowStockNotifier) reportEmailFailure(ctx context.Context, err error, productID uuid.UUID) {
	switch {
	case err == nil:
		return
	case errors.Is(err, errNoMailer):
		n.logger.Debug("email channel disabled, alert kept in inbox only")
		return
	}
	n.metrics.RecordDeliveryFailure(ctx, notification.ChannelEmail)
	n.logger.Error("low stock alert delivery failed",
		zap.String("product_id", productID.String()),
		zap.Error(&shared.NotificationDeliveryError{Channel: notification.ChannelEmail, Err: err}),
	)
}
