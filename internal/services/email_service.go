package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/obra-studio/obra-api/internal/config"
	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// OverdueInstallmentData is one row of the reminder table
type OverdueInstallmentData struct {
	ProjectName string
	Number      int
	Amount      string
	DueDate     string
	LateFee     string
}

// SendOverdueReminder notifies a client about their overdue installments
func (s *EmailService) SendOverdueReminder(ctx context.Context, client *models.Client, installments []models.Installment) error {
	if client.Email == "" || len(installments) == 0 {
		return nil
	}

	rows := make([]OverdueInstallmentData, 0, len(installments))
	for _, inst := range installments {
		rows = append(rows, OverdueInstallmentData{
			ProjectName: inst.Project.Name,
			Number:      inst.Number,
			Amount:      fmt.Sprintf("%.2f %s", inst.Amount, inst.Project.Currency),
			DueDate:     inst.DueDate.Format("02/01/2006"),
			LateFee:     fmt.Sprintf("%.2f %s", inst.LateFeeAmount, inst.Project.Currency),
		})
	}

	data := struct {
		Name         string
		Installments []OverdueInstallmentData
	}{
		Name:         client.FullName,
		Installments: rows,
	}

	body, err := s.renderTemplate("overdue_installments.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{client.Email},
		Subject: fmt.Sprintf("Cuotas vencidas (%d)", len(installments)),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", client.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Cuotas vencidas (%d)", client.Email, len(installments)))
	return nil
}

// SendPaymentReceived confirms a received payment to the client
func (s *EmailService) SendPaymentReceived(ctx context.Context, client *models.Client, project *models.Project, installment *models.Installment) error {
	if client.Email == "" {
		return nil
	}

	label := fmt.Sprintf("Cuota %d", installment.Number)
	if installment.IsDownPayment() {
		label = "Anticipo"
	}

	data := struct {
		Name        string
		ProjectName string
		ProjectCode string
		Label       string
		Amount      string
	}{
		Name:        client.FullName,
		ProjectName: project.Name,
		ProjectCode: project.Code,
		Label:       label,
		Amount:      fmt.Sprintf("%.2f %s", installment.PaidAmount, project.Currency),
	}

	body, err := s.renderTemplate("payment_received.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{client.Email},
		Subject: fmt.Sprintf("Pago recibido - %s", project.Name),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", client.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: Pago recibido - %s", client.Email, project.Name))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
