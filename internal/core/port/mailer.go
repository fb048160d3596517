package port

import "context"

// MailMessage is a rendered message ready for the external mail transport.
type MailMessage struct {
	ToName    string
	ToEmail   string
	Subject   string
	HTMLBody  string
	PlainBody string
}

// MailSender delivers messages through an external transactional email API.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
}
