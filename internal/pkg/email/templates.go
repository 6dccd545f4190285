package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const layoutStart = `<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`

const layoutEnd = `
		<p>Saludos,<br>{{.AppName}}</p>
	</div>
</body>
</html>`

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(layoutStart + `
		<h2 style="color: #333;">Restablecer contraseña</h2>
		<p>Hola{{if .Name}} {{.Name}}{{end}},</p>
		<p>Recibimos una solicitud para restablecer la contraseña de tu cuenta. Para continuar, haz clic en el botón:</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.Link}}" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Restablecer contraseña</a>
		</div>
		<p>Si no solicitaste este cambio, ignora este mensaje.</p>` + layoutEnd))

var newWorkshopTemplate = template.Must(template.New("new_workshop").Parse(layoutStart + `
		<h2 style="color: #333;">Nuevo taller: {{.Title}}</h2>
		<p>Hola {{.Name}},</p>
		<p>Publicamos un taller que coincide con tus áreas de interés.</p>
		{{if .Description}}<p>{{.Description}}</p>{{end}}
		<ul>
			{{if .StartDate}}<li>Inicio: {{.StartDate}}</li>{{end}}
			{{if .EndDate}}<li>Fin: {{.EndDate}}</li>{{end}}
			{{if .Modality}}<li>Modalidad: {{.Modality}}</li>{{end}}
		</ul>
		{{if .Link}}<div style="text-align: center; margin: 30px 0;">
			<a href="{{.Link}}" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Ver taller</a>
		</div>{{end}}` + layoutEnd))

// Message kinds
const (
	KindPasswordReset = "password_reset"
	KindNewWorkshop   = "new_workshop"
)

// PasswordResetData feeds the password reset template
type PasswordResetData struct {
	AppName string
	Name    string
	Link    string
}

// NewWorkshopData feeds the new workshop announcement template
type NewWorkshopData struct {
	AppName     string
	Name        string
	Title       string
	Description string
	StartDate   string
	EndDate     string
	Modality    string
	Link        string
}

// PasswordResetMessage renders the recovery email for to
func PasswordResetMessage(to string, data PasswordResetData) (Message, error) {
	html, err := render(passwordResetTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Restablecer contraseña",
		HTML:    html,
		Kind:    KindPasswordReset,
	}, nil
}

// NewWorkshopMessage renders the announcement sent to interested graduates
func NewWorkshopMessage(to string, data NewWorkshopData) (Message, error) {
	html, err := render(newWorkshopTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Nuevo taller disponible: " + data.Title,
		HTML:    html,
		Kind:    KindNewWorkshop,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}
