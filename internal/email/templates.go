// Package email builds the transactional HTML emails sent after purchases
// and waitlist signups. The emails are dark-themed, table-based HTML so they
// render consistently across mail clients.
package email

import (
	"fmt"
	"strings"
	"time"
)

const instagramURL = "https://instagram.com/orbitacapital.io"

// Message is a rendered email ready to hand to the delivery provider
type Message struct {
	Subject string
	HTML    string
}

// Templates renders the transactional emails. SiteURL anchors all links so
// staging environments never send production URLs.
type Templates struct {
	SiteURL string
}

// NewTemplates creates a template renderer
func NewTemplates(siteURL string) *Templates {
	return &Templates{SiteURL: strings.TrimRight(siteURL, "/")}
}

func (t *Templates) logoURL() string {
	return t.SiteURL + "/assets/img/branding/logo.jpg"
}

func (t *Templates) dashboardURL() string {
	return t.SiteURL + "/dashboard.html"
}

// layout wraps body content in the shared header/footer frame
func (t *Templates) layout(content string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Orbita Capital</title>
</head>
<body style="margin:0;padding:0;background:#090d1a;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" border="0" style="background:#090d1a;">
    <tr>
      <td align="center" style="padding:40px 16px;">
        <table width="100%" cellpadding="0" cellspacing="0" border="0" style="max-width:560px;">
          <tr>
            <td style="background:linear-gradient(135deg,#0f2042 0%,#141432 100%);border-radius:16px 16px 0 0;padding:36px 40px 28px;text-align:center;border:1px solid rgba(59,130,246,0.18);border-bottom:none;">
              <img src="` + t.logoURL() + `" alt="Orbita Capital" width="72" height="72"
                   style="display:block;margin:0 auto 16px;border-radius:12px;border:1px solid rgba(59,130,246,0.25);">
              <p style="margin:0;color:#60a5fa;font-size:11px;font-weight:700;letter-spacing:2px;text-transform:uppercase;">Orbita Capital</p>
            </td>
          </tr>
          <tr>
            <td style="background:#0d1225;border:1px solid rgba(59,130,246,0.18);border-top:none;border-bottom:none;padding:32px 40px;">
`)
	b.WriteString(content)
	b.WriteString(`
            </td>
          </tr>
          <tr>
            <td style="background:#080b16;border-radius:0 0 16px 16px;padding:20px 40px;text-align:center;border:1px solid rgba(59,130,246,0.18);border-top:1px solid rgba(255,255,255,0.05);">
              <p style="margin:0 0 6px;color:#334155;font-size:12px;">
                © ` + fmt.Sprintf("%d", time.Now().Year()) + ` Orbita Capital · Todos los derechos reservados
              </p>
              <p style="margin:0;color:#1e3a5f;font-size:11px;">
                <a href="` + instagramURL + `" style="color:#1d4ed8;text-decoration:none;">@orbitacapital.io</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`)
	return b.String()
}

// pill renders a small rounded status badge above the heading
func pill(text, color string) string {
	bg := "rgba(59,130,246,0.15)"
	border := "rgba(59,130,246,0.35)"
	if color != "#3b82f6" {
		bg = "rgba(16,185,129,0.15)"
		border = "rgba(16,185,129,0.35)"
	}
	return fmt.Sprintf(`<table cellpadding="0" cellspacing="0" border="0" style="margin:0 auto 20px;">
    <tr>
      <td style="background:%s;border:1px solid %s;border-radius:50px;padding:5px 18px;">
        <span style="color:%s;font-size:12px;font-weight:700;letter-spacing:1px;text-transform:uppercase;">%s</span>
      </td>
    </tr>
  </table>`, bg, border, color, text)
}

func ctaButton(text, url string) string {
	return fmt.Sprintf(`<table cellpadding="0" cellspacing="0" border="0" width="100%%" style="margin:8px 0 24px;">
    <tr>
      <td align="center">
        <a href="%s"
           style="display:inline-block;background:linear-gradient(135deg,#2563eb,#4f46e5);color:#ffffff;font-size:15px;font-weight:700;text-decoration:none;padding:14px 44px;border-radius:10px;letter-spacing:0.3px;border:none;">
          %s
        </a>
      </td>
    </tr>
  </table>`, url, text)
}

func checkItem(text string) string {
	return fmt.Sprintf(`<tr>
    <td style="padding:5px 0;">
      <table cellpadding="0" cellspacing="0" border="0"><tr>
        <td style="color:#34d399;font-size:15px;padding-right:10px;vertical-align:top;">✓</td>
        <td style="color:#cbd5e1;font-size:14px;line-height:1.5;">%s</td>
      </tr></table>
    </td>
  </tr>`, text)
}

func checkList(title, titleColor string, items ...string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(checkItem(item))
	}
	return fmt.Sprintf(`<table cellpadding="0" cellspacing="0" border="0" width="100%%"
           style="background:#111c35;border:1px solid rgba(59,130,246,0.15);border-radius:12px;margin-bottom:24px;">
      <tr>
        <td style="padding:18px 22px;">
          <p style="margin:0 0 12px;color:%s;font-size:12px;font-weight:700;text-transform:uppercase;letter-spacing:1px;">
            %s
          </p>
          <table cellpadding="0" cellspacing="0" border="0" width="100%%">%s</table>
        </td>
      </tr>
    </table>`, titleColor, title, b.String())
}

func calloutBox(accentColor, titleColor, title, body string) string {
	return fmt.Sprintf(`<table cellpadding="0" cellspacing="0" border="0" width="100%%"
           style="background:rgba(245,158,11,0.07);border-left:3px solid %s;border-radius:0 10px 10px 0;margin-bottom:24px;">
      <tr>
        <td style="padding:14px 16px;">
          <p style="margin:0 0 4px;color:%s;font-size:13px;font-weight:700;">%s</p>
          <p style="margin:0;color:#94a3b8;font-size:13px;line-height:1.6;">%s</p>
        </td>
      </tr>
    </table>`, accentColor, titleColor, title, body)
}

func greeting(nombre string) string {
	return fmt.Sprintf(`<p style="margin:0 0 6px;color:#94a3b8;font-size:14px;">
      Hola, <strong style="color:#e2e8f0;">%s</strong>
    </p>`, nombre)
}

func heading(title, subtitle string) string {
	return fmt.Sprintf(`<h1 style="margin:0 0 8px;color:#f1f5f9;font-size:24px;font-weight:700;text-align:center;line-height:1.3;">
      %s
    </h1>
    <p style="margin:0 0 24px;color:#64748b;font-size:14px;text-align:center;">
      %s
    </p>`, title, subtitle)
}

func footerNote(lead string) string {
	return fmt.Sprintf(`<p style="margin:0;color:#475569;font-size:13px;text-align:center;line-height:1.7;">
      %s<br>
      <a href="%s" style="color:#60a5fa;text-decoration:none;font-weight:600;">@orbitacapital.io</a>
    </p>`, lead, instagramURL)
}

// WelcomeFase1 renders the purchase confirmation for the phase-1 course
func (t *Templates) WelcomeFase1(nombre string) *Message {
	var b strings.Builder
	b.WriteString(pill("✓ Pago confirmado", "#3b82f6"))
	b.WriteString(heading("¡Tu acceso está activo!", "Ya podés empezar a operar con el sistema."))
	b.WriteString(greeting(nombre))
	b.WriteString(`<p style="margin:0 0 24px;color:#94a3b8;font-size:14px;line-height:1.7;">
      Tu compra del <strong style="color:#e2e8f0;">Curso Fase 1</strong> fue procesada exitosamente.
      Accedé a todos los módulos desde tu dashboard.
    </p>`)
	b.WriteString(checkList("Tu acceso incluye", "#60a5fa",
		"Módulo: Preparación del Gráfico",
		"Sistema FlexZone + Relleno de Zona",
		"Psicología del trader y mentalidad",
		"Glosario y consejos de trading",
		"Comunidad Privada exclusiva",
	))
	b.WriteString(ctaButton("Ir a mi dashboard →", t.dashboardURL()))
	b.WriteString(calloutBox("#f59e0b", "#fbbf24", "💡 ¿Por dónde empezar?",
		`Arrancá por el módulo de <strong style="color:#e2e8f0;">Preparación del Gráfico</strong>. Es la base de todo el sistema.`))
	b.WriteString(footerNote("¿Dudas o consultas? Escribinos por Instagram"))

	return &Message{
		Subject: "¡Bienvenido a Orbita Capital! Tu acceso Fase 1 está activo",
		HTML:    t.layout(b.String()),
	}
}

// WelcomeBot renders the purchase confirmation for the trading bot
func (t *Templates) WelcomeBot(nombre string) *Message {
	var b strings.Builder
	b.WriteString(pill("✓ Bot activado", "#10b981"))
	b.WriteString(heading("¡Tu bot está listo para operar!", "Configuralo en minutos y dejalo trabajar."))
	b.WriteString(greeting(nombre))
	b.WriteString(`<p style="margin:0 0 24px;color:#94a3b8;font-size:14px;line-height:1.7;">
      Tu compra del <strong style="color:#e2e8f0;">Bot de Trading</strong> fue procesada exitosamente.
      Descargalo desde la sección Bot de tu dashboard y seguí las instrucciones de configuración.
    </p>`)
	b.WriteString(checkList("Próximos pasos", "#34d399",
		`Ingresá al dashboard y entrá a la sección <strong style="color:#e2e8f0;">Bot</strong>`,
		"Descargá el archivo de instalación",
		"Seguí el tutorial de configuración incluido",
		"Ejecutá tu primer backtest para validar parámetros",
	))
	b.WriteString(ctaButton("Descargar mi Bot →", t.SiteURL+"/bot.html"))
	b.WriteString(calloutBox("#6366f1", "#a5b4fc", "⚡ Soporte técnico",
		"Si tenés algún problema con la instalación, contactanos por Instagram y te ayudamos."))
	b.WriteString(footerNote("¿Dudas o consultas? Escribinos por Instagram"))

	return &Message{
		Subject: "Tu Bot de Trading está activado",
		HTML:    t.layout(b.String()),
	}
}

// WaitlistConfirmation renders the phase-2 waitlist signup confirmation
func (t *Templates) WaitlistConfirmation(nombre string) *Message {
	var b strings.Builder
	b.WriteString(pill("✓ En lista de espera", "#3b82f6"))
	b.WriteString(heading("¡Estás en la lista!", "Te avisamos cuando haya cupos disponibles."))
	b.WriteString(greeting(nombre))
	b.WriteString(`<p style="margin:0 0 24px;color:#94a3b8;font-size:14px;line-height:1.7;">
      Te registraste correctamente en la lista de espera para la
      <strong style="color:#e2e8f0;">Fase 2 de Orbita Capital</strong>.
      Cuando abramos nuevos cupos, vas a ser de los primeros en enterarte.
    </p>`)
	b.WriteString(checkList("¿Qué es Fase 2?", "#60a5fa",
		"Estrategias avanzadas de entrada y salida",
		"Gestión de riesgo profesional",
		"Sesiones en vivo con el equipo",
		"Análisis de operaciones en tiempo real",
	))
	b.WriteString(calloutBox("#f59e0b", "#fbbf24", "🚀 Mientras tanto",
		"Si aún no tenés la Fase 1, es el mejor momento para empezar. Es la base que necesitás para aprovechar al máximo la Fase 2."))
	b.WriteString(ctaButton("Ver Fase 1", t.SiteURL+"/index.html#pricing"))
	b.WriteString(footerNote("Seguinos en Instagram para novedades"))

	return &Message{
		Subject: "Estás en la lista de espera de Fase 2",
		HTML:    t.layout(b.String()),
	}
}
