// File: /services/email_service.go
package services

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"reabastece-api/calculator"
	"reabastece-api/config"
)

// MailSender delivers composed messages. *gomail.Dialer satisfies it.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	config *config.Config
	sender MailSender
	log    *zap.Logger
}

func NewEmailService(cfg *config.Config, log *zap.Logger) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return NewEmailServiceWithSender(cfg, dialer, log)
}

func NewEmailServiceWithSender(cfg *config.Config, sender MailSender, log *zap.Logger) *EmailService {
	return &EmailService{config: cfg, sender: sender, log: log}
}

func (es *EmailService) newMessage(to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", es.config.FromEmail, es.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}

// SendWelcomeEmail greets a newly registered user
func (es *EmailService) SendWelcomeEmail(email, name string) error {
	m := es.newMessage(email, "Bem-vindo ao Reabastece Aí!")

	textBody := fmt.Sprintf(`Olá %s!

Sua conta no Reabastece Aí está pronta.

Próximos passos:
- Cadastre seu primeiro veículo
- Registre seu primeiro abastecimento
- Acompanhe o uso e o consumo do mês

Equipe Reabastece Aí
`, name)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Bem-vindo</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Olá %s!</h2>
    <p>Sua conta no Reabastece Aí está pronta.</p>
    <ul>
        <li>Cadastre seu primeiro veículo</li>
        <li>Registre seu primeiro abastecimento</li>
        <li>Acompanhe o uso e o consumo do mês</li>
    </ul>
    <p><strong>Equipe Reabastece Aí</strong></p>
</body>
</html>`, html.EscapeString(name))

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	es.log.Info("welcome email sent", zap.String("email", email))
	return nil
}

// SendMonthlySummary mails the dashboard of the current month
func (es *EmailService) SendMonthlySummary(email, name string, summary *DashboardSummary) error {
	m := es.newMessage(email, "Reabastece Aí - Resumo de "+summary.Month)
	m.SetBody("text/plain", RenderSummaryText(name, summary))
	m.AddAlternative("text/html", RenderSummaryHTML(name, summary))

	if err := es.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send summary email: %w", err)
	}

	es.log.Info("summary email sent", zap.String("email", email), zap.String("month", summary.Month))
	return nil
}

func summaryLines(summary *DashboardSummary) [][2]string {
	last := "Nenhum registro"
	if summary.LastRefueling != nil {
		last = fmt.Sprintf("%s, %s L, %s",
			summary.LastRefueling.Date,
			calculator.FormatFixed(summary.LastRefueling.Liters, 2),
			brl(summary.LastRefueling.TotalCost))
	}

	return [][2]string{
		{"Veículos cadastrados", fmt.Sprintf("%d", summary.VehicleCount)},
		{"Total abastecido", calculator.FormatFixed(summary.Refuelings.Liters, 2) + " L"},
		{"Gasto com abastecimentos", brl(summary.Refuelings.TotalCost)},
		{"Registros de uso", fmt.Sprintf("%d", summary.Usage.Count)},
		{"Litros estimados no uso", calculator.FormatFixed(summary.Usage.Liters, 2) + " L"},
		{"Custo estimado do uso", brl(summary.Usage.TotalCost)},
		{"Uso a pagar", brl(summary.UnpaidUsageCost)},
		{"Último abastecimento", last},
	}
}

// RenderSummaryText is the plain text body of the monthly summary.
func RenderSummaryText(name string, summary *DashboardSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s!\n\nResumo de %s:\n\n", name, summary.Month)
	for _, line := range summaryLines(summary) {
		fmt.Fprintf(&b, "%s: %s\n", line[0], line[1])
	}
	b.WriteString("\nEquipe Reabastece Aí\n")
	return b.String()
}

// RenderSummaryHTML is the HTML body of the monthly summary.
func RenderSummaryHTML(name string, summary *DashboardSummary) string {
	var rows strings.Builder
	for _, line := range summaryLines(summary) {
		fmt.Fprintf(&rows, "        <tr><td>%s</td><td><strong>%s</strong></td></tr>\n",
			html.EscapeString(line[0]), html.EscapeString(line[1]))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Resumo mensal</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Olá %s!</h2>
    <p>Resumo de %s</p>
    <table>
%s    </table>
    <p><strong>Equipe Reabastece Aí</strong></p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(summary.Month), rows.String())
}

// brl formats an amount as Brazilian reais, e.g. R$ 1.259,74.
func brl(amount float64) string {
	fixed := calculator.FormatFixed(amount, 2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	whole, cents, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}
	return sign + "R$ " + grouped.String() + "," + cents
}
