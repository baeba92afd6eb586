package mailer

// Job kinds understood by the email worker.
const (
	KindWelcome           = "welcome"
	KindLoginNotification = "login_notification"
	KindPasswordChanged   = "password_changed"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
type EmailJob struct {
	To   string            `json:"to"`
	Kind string            `json:"kind"`
	Data map[string]string `json:"data,omitempty"`
}
