package quotationController

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/controllers/respond"
	"github.com/zurpack/catalog-api/mail"
	"github.com/zurpack/catalog-api/notify"
)

// Desk delivers quotation and contact requests by email and echoes them to
// connected admins.
type Desk struct {
	Sender mail.Sender
	To     string
	Hub    *notify.Hub
}

// SendQuotation validates q, mails it to the owner and notifies admins.
func (d *Desk) SendQuotation(ctx context.Context, q mail.Quotation) error {
	if err := q.Validate(); err != nil {
		return err
	}
	msg, err := mail.QuotationMessage(d.To, q)
	if err != nil {
		return fmt.Errorf("failed to render quotation: %w", err)
	}
	if err := d.Sender.Send(ctx, msg); err != nil {
		return err
	}
	if d.Hub != nil {
		d.Hub.Broadcast(notify.EventQuotation, q)
	}
	return nil
}

// SendContact mails the owner, then a confirmation to the sender.
func (d *Desk) SendContact(ctx context.Context, c mail.Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}
	owner, confirmation, err := mail.ContactMessages(d.To, c)
	if err != nil {
		return fmt.Errorf("failed to render contact message: %w", err)
	}
	if err := d.Sender.Send(ctx, owner); err != nil {
		return err
	}
	if d.Hub != nil {
		d.Hub.Broadcast(notify.EventContact, c)
	}
	if err := d.Sender.Send(ctx, confirmation); err != nil {
		log.Printf("⚠️ Failed to send contact confirmation to %s: %v", c.Email, err)
	}
	return nil
}

// Fail writes a delivery error: 400 for invalid input, 502 otherwise.
func Fail(c *gin.Context, err error, message string) {
	var fe *mail.FieldError
	if errors.As(err, &fe) {
		respond.BadRequest(c, fe.Field, fe.Message)
		return
	}
	log.Printf("❌ %s: %v", message, err)
	c.JSON(http.StatusBadGateway, gin.H{"message": message})
}

// SendQuotation handles POST /api/send-quotation.
func SendQuotation(desk *Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q mail.Quotation
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud inválida"})
			return
		}
		if err := desk.SendQuotation(c.Request.Context(), q); err != nil {
			Fail(c, err, "Error al enviar cotización")
			return
		}
		log.Printf("📧 Quotation sent for %s", q.Correo)
		c.JSON(http.StatusOK, gin.H{"message": "Cotización enviada exitosamente"})
	}
}

// SendContact handles POST /api/send-contact.
func SendContact(desk *Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		var msg mail.Contact
		if err := c.ShouldBindJSON(&msg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud inválida"})
			return
		}
		if err := desk.SendContact(c.Request.Context(), msg); err != nil {
			Fail(c, err, "Error al enviar el mensaje")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Mensaje enviado exitosamente"})
	}
}
