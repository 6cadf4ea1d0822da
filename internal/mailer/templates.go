package mailer

import (
	"fmt"

	"github.com/crewstack/auth-backend/pkg/queue"
)

// InviteEmail returns the subject and HTML body of the invitation mail.
func InviteEmail() (subject, body string) {
	subject = "You're invited to join the platform!"
	body = "<h1>Welcome!</h1><p>You're invited to join our platform.</p>"
	return subject, body
}

// PasswordChangedEmail returns the subject and HTML body of the password
// change notification.
func PasswordChangedEmail() (subject, body string) {
	subject = "Password Update Notification"
	body = `<html>
<body>
	<p>Hello,</p>
	<p>Your password has been successfully updated. If you did not initiate this change, please contact support immediately.</p>
</body>
</html>`
	return subject, body
}

// Render maps a queued email type to its subject and body.
func Render(emailType string) (subject, body string, err error) {
	switch emailType {
	case queue.EmailTypeInvite:
		subject, body = InviteEmail()
	case queue.EmailTypePasswordChanged:
		subject, body = PasswordChangedEmail()
	default:
		return "", "", fmt.Errorf("unknown email type: %s", emailType)
	}
	return subject, body, nil
}
