package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeFase1(t *testing.T) {
	tpl := NewTemplates("https://binaryedgeacademy.com")

	msg := tpl.WelcomeFase1("Ana")
	require.NotNil(t, msg)
	assert.Contains(t, msg.Subject, "Fase 1")
	assert.Contains(t, msg.HTML, "Hola, <strong style=\"color:#e2e8f0;\">Ana</strong>")
	assert.Contains(t, msg.HTML, "Curso Fase 1")
	assert.Contains(t, msg.HTML, "https://binaryedgeacademy.com/dashboard.html")
	assert.Contains(t, msg.HTML, "Preparación del Gráfico")
	assert.True(t, strings.HasPrefix(msg.HTML, "<!DOCTYPE html>"))
}

func TestWelcomeBot(t *testing.T) {
	tpl := NewTemplates("https://binaryedgeacademy.com")

	msg := tpl.WelcomeBot("Luis")
	assert.Contains(t, msg.Subject, "Bot")
	assert.Contains(t, msg.HTML, "Bot de Trading")
	assert.Contains(t, msg.HTML, "https://binaryedgeacademy.com/bot.html")
	assert.Contains(t, msg.HTML, "Luis")
}

func TestWaitlistConfirmation(t *testing.T) {
	tpl := NewTemplates("https://binaryedgeacademy.com")

	msg := tpl.WaitlistConfirmation("Carla")
	assert.Contains(t, msg.Subject, "lista de espera")
	assert.Contains(t, msg.HTML, "Fase 2 de Orbita Capital")
	assert.Contains(t, msg.HTML, "https://binaryedgeacademy.com/index.html#pricing")
	assert.Contains(t, msg.HTML, "Carla")
}

func TestTemplatesTrimTrailingSlash(t *testing.T) {
	tpl := NewTemplates("https://example.com/")

	msg := tpl.WelcomeFase1("Ana")
	assert.Contains(t, msg.HTML, "https://example.com/dashboard.html")
	assert.NotContains(t, msg.HTML, "https://example.com//")
}
