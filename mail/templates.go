package mail

import (
	"bytes"
	"html/template"
)

const layoutStart = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`

var quotationTmpl = template.Must(template.New("quotation").Parse(layoutStart + `
  <h2 style="color: #2d3748; border-bottom: 2px solid #e2e8f0; padding-bottom: 10px;">
    Nueva Solicitud de Cotización - {{.ClientLabel}}
  </h2>
  <div style="background-color: #f7fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #4a5568; margin-top: 0;">Datos del cliente:</h3>
    <ul style="list-style: none; padding: 0;">
      {{if .IsPerson}}<li><strong>Nombre:</strong> {{.Nombre}}</li>{{else}}<li><strong>Razón Social:</strong> {{.RazonSocial}}</li>{{end}}
      <li><strong>RUT:</strong> {{.RUT}}</li>
      <li><strong>Giro:</strong> {{.Giro}}</li>
      <li><strong>Dirección:</strong> {{.Direccion}}</li>
      <li><strong>Comuna:</strong> {{.Comuna}}</li>
      <li><strong>Ciudad:</strong> {{.Ciudad}}</li>
      <li><strong>Teléfono:</strong> {{.Telefono}}</li>
      <li><strong>Correo:</strong> {{.Correo}}</li>
    </ul>
  </div>
  <div style="background-color: #f7fafc; padding: 20px; border-radius: 8px;">
    <h3 style="color: #4a5568; margin-top: 0;">Productos solicitados:</h3>
    <ul style="list-style: none; padding: 0;">
      {{range .Items}}
      <li style="margin-bottom: 15px; padding-bottom: 15px; border-bottom: 1px solid #e2e8f0;">
        <div><strong>{{.Name}}</strong>{{if .Category}} ({{.Category}}){{end}}</div>
        <div style="color: #4a5568;">{{if .SelectedSize}}Variante: {{.SelectedSize}}<br>{{end}}Cantidad: {{.Quantity}}</div>
      </li>
      {{end}}
    </ul>
  </div>
  <div style="margin-top: 20px; padding-top: 20px; border-top: 2px solid #e2e8f0; color: #718096; font-size: 0.875rem;">
    <p>Esta cotización fue enviada a través del sitio web.</p>
    <p><strong>Tipo de cliente:</strong> {{.ClientLabel}}</p>
  </div>
</div>`))

var contactTmpl = template.Must(template.New("contact").Parse(layoutStart + `
  <h2 style="color: #2d3748; border-bottom: 2px solid #e2e8f0; padding-bottom: 10px;">Nuevo Mensaje de Contacto</h2>
  <div style="background-color: #f7fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #4a5568; margin-top: 0;">Datos del contacto:</h3>
    <ul style="list-style: none; padding: 0;">
      <li><strong>Nombre:</strong> {{.Name}}</li>
      <li><strong>Email:</strong> {{.Email}}</li>
      <li><strong>Teléfono:</strong> {{if .Phone}}{{.Phone}}{{else}}No proporcionado{{end}}</li>
      <li><strong>Asunto:</strong> {{.Subject}}</li>
    </ul>
  </div>
  <div style="background-color: #f7fafc; padding: 20px; border-radius: 8px;">
    <h3 style="color: #4a5568; margin-top: 0;">Mensaje:</h3>
    <p style="color: #4a5568; white-space: pre-line;">{{.Message}}</p>
  </div>
</div>`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(layoutStart + `
  <h2 style="color: #2d3748;">¡Gracias por contactarnos!</h2>
  <p style="color: #4a5568;">Hemos recibido tu mensaje y nos pondremos en contacto contigo lo antes posible.</p>
  <div style="background-color: #f7fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #4a5568; margin-top: 0;">Resumen de tu mensaje:</h3>
    <p><strong>Asunto:</strong> {{.Subject}}</p>
    <p style="white-space: pre-line;">{{.Message}}</p>
  </div>
  <p style="color: #718096; font-size: 0.875rem;">Este es un mensaje automático, por favor no responder a este correo.</p>
</div>`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// QuotationMessage builds the owner notification for q.
func QuotationMessage(to string, q Quotation) (Message, error) {
	html, err := render(quotationTmpl, q)
	if err != nil {
		return Message{}, err
	}
	subject := "Nueva Solicitud de Cotización - Empresa"
	if q.IsPerson() {
		subject = "Nueva Solicitud de Cotización - Persona"
	}
	return Message{To: to, ReplyTo: q.Correo, Subject: subject, HTML: html}, nil
}

// ContactMessages builds the owner notification and the sender's
// confirmation for c.
func ContactMessages(to string, c Contact) (owner, confirmation Message, err error) {
	html, err := render(contactTmpl, c)
	if err != nil {
		return owner, confirmation, err
	}
	owner = Message{To: to, ReplyTo: c.Email, Subject: "Nuevo mensaje de contacto: " + c.Subject, HTML: html}

	html, err = render(confirmationTmpl, c)
	if err != nil {
		return owner, confirmation, err
	}
	confirmation = Message{To: c.Email, Subject: "Hemos recibido tu mensaje - Zurpack", HTML: html}
	return owner, confirmation, nil
}
