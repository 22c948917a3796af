package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendStatusChanged(toEmail string, isActive bool) error
	SendCredentialRotated(toEmail string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendStatusChanged notifies a user that an administrator changed their
// account activation state.
func (s *emailService) SendStatusChanged(toEmail string, isActive bool) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)

	if isActive {
		m.SetHeader("Subject", "Your Account Has Been Activated")
		m.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Account Activated</h2>
			<p>An administrator has activated your account. You can sign in again.</p>
			<p>If you believe this was a mistake, contact your administrator.</p>
		</div>
	`)
	} else {
		m.SetHeader("Subject", "Your Account Has Been Deactivated")
		m.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Account Deactivated</h2>
			<p>An administrator has deactivated your account. Sign-in is disabled until it is reactivated.</p>
			<p>If you believe this was a mistake, contact your administrator.</p>
		</div>
	`)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send status notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Status notice sent to %s\n", toEmail)
	return nil
}

// SendCredentialRotated tells a user their credential was reset. The new
// credential is handed over out of band and never appears in mail.
func (s *emailService) SendCredentialRotated(toEmail string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Credential Was Reset")

	m.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Credential Reset</h2>
			<p>An administrator has reset your sign-in credential. Your previous credential no longer works.</p>
			<p>You will receive the new credential through your usual secure channel.</p>
			<p>If you did not expect this, contact your administrator immediately.</p>
		</div>
	`)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send credential notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Credential notice sent to %s\n", toEmail)
	return nil
}
