package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/ims/backend/internal/domain/notification"
	"github.com/ims/backend/internal/infrastructure/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

// AlertRenderer renders low-stock and account emails from embedded
// html/template files
type AlertRenderer struct {
	tmpl    *template.Template
	format  *i18n.Formatter
	appName string
}

// NewAlertRenderer parses the embedded templates. format may be nil.
func NewAlertRenderer(appName string, format *i18n.Formatter) (*AlertRenderer, error) {
	if format == nil {
		format = i18n.Default()
	}
	tmpl, err := template.New("mail").Funcs(template.FuncMap{
		"number": func(n int) string { return format.Number(int64(n)) },
		"money":  format.Money,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &AlertRenderer{tmpl: tmpl, format: format, appName: appName}, nil
}

type alertView struct {
	AppName string
	Alerts  []notification.LowStockAlert
}

// RenderLowStockAlert renders the email for one product
func (r *AlertRenderer) RenderLowStockAlert(alert notification.LowStockAlert) (string, string, error) {
	html, err := r.execute("low_stock_alert.html", alertView{AppName: r.appName, Alerts: []notification.LowStockAlert{alert}})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("[%s] Low stock: %s (%s)", r.appName, alert.ProductName, alert.SKU), html, nil
}

// RenderLowStockDigest renders one email listing every low-stock product
func (r *AlertRenderer) RenderLowStockDigest(alerts []notification.LowStockAlert) (string, string, error) {
	html, err := r.execute("low_stock_digest.html", alertView{AppName: r.appName, Alerts: alerts})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("[%s] %d product(s) at or below minimum stock", r.appName, len(alerts)), html, nil
}

type passwordResetView struct {
	AppName      string
	FullName     string
	ResetURL     string
	ValidMinutes int
}

// RenderPasswordReset renders the email carrying a password reset link
func (r *AlertRenderer) RenderPasswordReset(fullName, resetURL string, validFor time.Duration) (string, string, error) {
	html, err := r.execute("password_reset.html", passwordResetView{
		AppName:      r.appName,
		FullName:     fullName,
		ResetURL:     resetURL,
		ValidMinutes: int(validFor.Minutes()),
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("[%s] Reset your password", r.appName), html, nil
}

func (r *AlertRenderer) execute(name string, view any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, view); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
