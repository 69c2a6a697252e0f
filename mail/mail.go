// Package mail renders and sends the storefront's notification emails.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zurpack/catalog-api/cart"
	"gopkg.in/gomail.v2"
)

const (
	ClientPerson  = "person"
	ClientCompany = "company"
)

// Message is one outgoing HTML email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("mail recipient is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// Quotation is a quote request submitted from the storefront.
type Quotation struct {
	ClientType  string               `json:"clientType"`
	RUT         string               `json:"rut"`
	Nombre      string               `json:"nombre"`
	RazonSocial string               `json:"razonSocial"`
	Giro        string               `json:"giro"`
	Direccion   string               `json:"direccion"`
	Comuna      string               `json:"comuna"`
	Ciudad      string               `json:"ciudad"`
	Telefono    string               `json:"telefono"`
	Correo      string               `json:"correo"`
	Items       []cart.QuotationItem `json:"items"`
}

func (q Quotation) IsPerson() bool {
	return q.ClientType == ClientPerson
}

// ClientLabel is the Spanish label of the client type.
func (q Quotation) ClientLabel() string {
	if q.IsPerson() {
		return "Persona Natural"
	}
	return "Empresa"
}

// Validate reports the first missing field, by wire name.
func (q Quotation) Validate() error {
	if q.ClientType != ClientPerson && q.ClientType != ClientCompany {
		return &FieldError{Field: "clientType", Message: "clientType must be person or company"}
	}
	required := []struct{ field, value string }{
		{"rut", q.RUT},
		{"giro", q.Giro},
		{"direccion", q.Direccion},
		{"comuna", q.Comuna},
		{"ciudad", q.Ciudad},
		{"telefono", q.Telefono},
		{"correo", q.Correo},
	}
	if q.IsPerson() {
		required = append(required, struct{ field, value string }{"nombre", q.Nombre})
	} else {
		required = append(required, struct{ field, value string }{"razonSocial", q.RazonSocial})
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &FieldError{Field: r.field, Message: r.field + " is required"}
		}
	}
	if len(q.Items) == 0 {
		return &FieldError{Field: "items", Message: "at least one item is required"}
	}
	for _, it := range q.Items {
		if it.Quantity < 1 {
			return &FieldError{Field: "items", Message: "item quantity must be at least 1"}
		}
	}
	return nil
}

// Contact is a message from the contact form.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (c Contact) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return &FieldError{Field: "name", Message: "name is required"}
	case !strings.Contains(c.Email, "@"):
		return &FieldError{Field: "email", Message: "a valid email is required"}
	case strings.TrimSpace(c.Subject) == "":
		return &FieldError{Field: "subject", Message: "subject is required"}
	case strings.TrimSpace(c.Message) == "":
		return &FieldError{Field: "message", Message: "message is required"}
	}
	return nil
}

type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}
